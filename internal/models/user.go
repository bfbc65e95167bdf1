package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role represents a user role in the platform. The set is closed: adding a
// role requires touching every exhaustive switch over Role.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleStartup      Role = "Startup"
	RoleInvestisseur Role = "Investisseur"
	RoleVisiteur     Role = "Visiteur"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleStartup, RoleInvestisseur, RoleVisiteur}

// ParseRole validates a role string. Empty defaults to Visiteur.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleStartup, RoleInvestisseur, RoleVisiteur:
		return Role(s), nil
	case "":
		return RoleVisiteur, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// User represents a platform member.
type User struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
