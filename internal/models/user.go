package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/harentsoaR/rental-store-api/internal/common"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const minPasswordLength = 6

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

func ParseRole(s string) (Role, error) {
	if r := Role(s); r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username" validate:"required,max=50"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash
	Role      Role               `bson:"role" json:"role" validate:"oneof=user admin"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewUser normalises and validates the registration fields. passwordHash
// must already be a bcrypt hash.
func NewUser(username, email, passwordHash string, now time.Time) (*User, error) {
	u := &User{
		ID:        primitive.NewObjectID(),
		Username:  strings.TrimSpace(username),
		Email:     NormalizeEmail(email),
		Password:  passwordHash,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateStruct(u); err != nil {
		return nil, err
	}
	return u, nil
}

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return common.Validation(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser is the subset of a user that is returned to clients.
type PublicUser struct {
	ID        primitive.ObjectID `json:"id"`
	Username  string             `json:"username"`
	Email     string             `json:"email"`
	Role      Role               `json:"role"`
	CreatedAt *time.Time         `json:"createdAt,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Profile is Public plus the account creation time.
func (u *User) Profile() PublicUser {
	p := u.Public()
	createdAt := u.CreatedAt
	p.CreatedAt = &createdAt
	return p
}

// Identity is the verified caller attached to a request.
type Identity struct {
	ID       primitive.ObjectID
	Email    string
	Username string
	Role     Role
}

// Owns reports whether the caller is the owner of l.
func (i Identity) Owns(l *Listing) bool { return l.Owner == i.ID }
