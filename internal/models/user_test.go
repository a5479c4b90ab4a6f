package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUser(t *testing.T) {
	u, err := models.NewUser(" alice ", " Alice@Example.COM ", "$2a$04$hash", now)
	if err != nil {
		t.Fatalf("NewUser() error = %v", err)
	}
	if u.Username != "alice" || u.Email != "alice@example.com" {
		t.Errorf("fields not normalised: %+v", u)
	}
	if u.Role != models.RoleUser {
		t.Errorf("Role = %q, want user", u.Role)
	}
	if u.ID.IsZero() {
		t.Error("expected an id")
	}
}

func TestNewUserRejectsBadEmail(t *testing.T) {
	_, err := models.NewUser("bob", "not-an-email", "hash", now)
	if !errors.Is(err, common.ErrValidation) || !strings.Contains(err.Error(), "valid email") {
		t.Errorf("NewUser() error = %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := models.ValidatePassword("12345"); !errors.Is(err, common.ErrValidation) {
		t.Errorf("short password accepted: %v", err)
	}
	if err := models.ValidatePassword("123456"); err != nil {
		t.Errorf("six characters should be enough: %v", err)
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"user", "admin"} {
		if r, err := models.ParseRole(s); err != nil || string(r) != s {
			t.Errorf("ParseRole(%q) = %q, %v", s, r, err)
		}
	}
	for _, s := range []string{"", "Admin", "root"} {
		if _, err := models.ParseRole(s); err == nil {
			t.Errorf("ParseRole(%q) should fail", s)
		}
	}
}

func TestUserJSONHidesPassword(t *testing.T) {
	u, err := models.NewUser("carol", "carol@example.com", "secret-hash", now)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "secret-hash") || strings.Contains(string(raw), "password") {
		t.Errorf("password leaked: %s", raw)
	}
}

func TestPublicAndProfile(t *testing.T) {
	u, err := models.NewUser("dave", "dave@example.com", "h", now)
	if err != nil {
		t.Fatal(err)
	}

	if p := u.Public(); p.CreatedAt != nil {
		t.Error("public fields do not include createdAt")
	}
	if p := u.Profile(); p.CreatedAt == nil || !p.CreatedAt.Equal(now) {
		t.Error("profile includes createdAt")
	}
}

func TestIdentityOwns(t *testing.T) {
	owner := primitive.NewObjectID()
	l := &models.Listing{Owner: owner}

	if !(models.Identity{ID: owner}).Owns(l) {
		t.Error("owner should own the listing")
	}
	if (models.Identity{ID: primitive.NewObjectID(), Role: models.RoleAdmin}).Owns(l) {
		t.Error("admins do not own other users' listings")
	}
}
