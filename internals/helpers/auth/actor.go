package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Role constants used across the service. A user's role is fixed at
// registration; nothing in this core mutates it.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated principal resolved by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// ActorFromLocals reads the identity stashed by the auth middleware.
// Returns 401 when the request carries no usable identity.
func ActorFromLocals(c *fiber.Ctx) (Actor, error) {
	idStr, _ := c.Locals("user_id").(string)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	role, _ := c.Locals("userRole").(string)
	if role == "" {
		role = RoleUser
	}
	return Actor{ID: id, Role: role}, nil
}

/* ===============================
   Visibility filter
=================================*/

// CanReadDataset: admins read everything, users only published datasets.
func CanReadDataset(a Actor, isPublished bool) error {
	if a.IsAdmin() || isPublished {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "Dataset is not published")
}

// CanManageDatasets gates dataset/question/file definition writes.
func CanManageDatasets(a Actor) error {
	if a.IsAdmin() {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "Admin role required")
}

// CanMutateAnswer: only the owning user or an admin may update/delete.
func CanMutateAnswer(a Actor, ownerID uuid.UUID) error {
	if a.IsAdmin() || a.ID == ownerID {
		return nil
	}
	return fiber.NewError(fiber.StatusForbidden, "Not allowed to modify this answer")
}
