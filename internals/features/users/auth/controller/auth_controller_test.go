package controller_test

import (
	"net/http"
	"testing"

	"labelku_backend/internals/testutil"
)

func TestRegisterLoginMe(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	reg := map[string]any{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret123",
	}
	status, env := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/register", "", reg)
	if status != http.StatusCreated {
		t.Fatalf("register: got %d (%v)", status, env)
	}
	data := testutil.Data(t, env)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatalf("register returned no token")
	}

	// Email is normalized on the way in.
	status, env = testutil.DoJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
	if status != http.StatusOK {
		t.Fatalf("me: got %d", status)
	}
	if testutil.Data(t, env)["user_email"] != "alice@example.com" {
		t.Fatalf("email not normalized: %v", testutil.Data(t, env)["user_email"])
	}

	login := map[string]any{"email": "alice@example.com", "password": "secret123"}
	if status, _ = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/login", "", login); status != http.StatusOK {
		t.Fatalf("login: got %d", status)
	}

	login["password"] = "wrong-password"
	if status, _ = testutil.DoJSON(t, app, http.MethodPost, "/api/auth/login", "", login); status != http.StatusUnauthorized {
		t.Fatalf("bad login: got %d, want 401", status)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	reg := map[string]any{"username": "bob", "email": "bob@example.com", "password": "secret123"}
	if status, _ := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/register", "", reg); status != http.StatusCreated {
		t.Fatalf("first register: got %d", status)
	}

	reg["username"] = "bob2"
	if status, _ := testutil.DoJSON(t, app, http.MethodPost, "/api/auth/register", "", reg); status != http.StatusBadRequest {
		t.Fatalf("duplicate register: got %d, want 400", status)
	}
}

func TestMeRequiresToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	app := testutil.NewApp(t, db, nil)

	if status, _ := testutil.DoJSON(t, app, http.MethodGet, "/api/auth/me", "", nil); status != http.StatusUnauthorized {
		t.Fatalf("me without token: got %d, want 401", status)
	}
	if status, _ := testutil.DoJSON(t, app, http.MethodGet, "/api/auth/me", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Fatalf("me with garbage token: got %d, want 401", status)
	}
}
