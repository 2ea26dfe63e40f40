package auth

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func fiberCode(t *testing.T, err error) int {
	t.Helper()
	fe, ok := err.(*fiber.Error)
	if !ok {
		t.Fatalf("want *fiber.Error, got %T", err)
	}
	return fe.Code
}

func TestCanReadDataset(t *testing.T) {
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}
	user := Actor{ID: uuid.New(), Role: RoleUser}

	if err := CanReadDataset(admin, false); err != nil {
		t.Fatalf("admin blocked from unpublished dataset: %v", err)
	}
	if err := CanReadDataset(user, true); err != nil {
		t.Fatalf("user blocked from published dataset: %v", err)
	}
	if err := CanReadDataset(user, false); err == nil {
		t.Fatal("user allowed into unpublished dataset")
	} else if fiberCode(t, err) != fiber.StatusForbidden {
		t.Fatalf("want 403, got %d", fiberCode(t, err))
	}
}

func TestCanManageDatasets(t *testing.T) {
	if err := CanManageDatasets(Actor{Role: RoleAdmin}); err != nil {
		t.Fatalf("admin blocked: %v", err)
	}
	if err := CanManageDatasets(Actor{Role: RoleUser}); err == nil {
		t.Fatal("user allowed to manage datasets")
	}
}

func TestCanMutateAnswer(t *testing.T) {
	owner := uuid.New()

	if err := CanMutateAnswer(Actor{ID: owner, Role: RoleUser}, owner); err != nil {
		t.Fatalf("owner blocked: %v", err)
	}
	if err := CanMutateAnswer(Actor{ID: uuid.New(), Role: RoleAdmin}, owner); err != nil {
		t.Fatalf("admin blocked: %v", err)
	}
	if err := CanMutateAnswer(Actor{ID: uuid.New(), Role: RoleUser}, owner); err == nil {
		t.Fatal("stranger allowed to mutate answer")
	}
}
