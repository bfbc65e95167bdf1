// Package authz holds the authorization predicates: pure functions of the
// caller's role (and, for ownership checks, identities). The same rules the
// frontend uses to hide affordances are enforced here on every request.
package authz

import (
	"github.com/google/uuid"

	"github.com/maroc-digital-hub/backend/internal/models"
)

// CanAddStartup reports whether the role may publish a startup.
func CanAddStartup(role models.Role) bool {
	switch role {
	case models.RoleStartup, models.RoleAdmin:
		return true
	case models.RoleInvestisseur, models.RoleVisiteur:
		return false
	}
	return false
}

// CanAddEvent reports whether the role may create an event.
func CanAddEvent(role models.Role) bool {
	switch role {
	case models.RoleStartup, models.RoleInvestisseur, models.RoleAdmin:
		return true
	case models.RoleVisiteur:
		return false
	}
	return false
}

// CanPostDiscussion reports whether the role may post forum messages.
// Every authenticated role may post, Visiteur included: the forum is the
// community entry point and Visiteur is the default sign-up role.
func CanPostDiscussion(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleStartup, models.RoleInvestisseur, models.RoleVisiteur:
		return true
	}
	return false
}

// CanDeleteDiscussion reports whether the user may delete the message:
// admins and the author.
func CanDeleteDiscussion(role models.Role, userID, authorID uuid.UUID) bool {
	return role == models.RoleAdmin || userID == authorID
}

// CanModifyStartup reports whether the user may update or delete the
// startup: admins and the owner.
func CanModifyStartup(role models.Role, userID, ownerID uuid.UUID) bool {
	return role == models.RoleAdmin || userID == ownerID
}

// CanModifyEvent reports whether the user may update or delete the event:
// admins and the creator.
func CanModifyEvent(role models.Role, userID, ownerID uuid.UUID) bool {
	return role == models.RoleAdmin || userID == ownerID
}

// CanViewDashboard reports whether the role may access the admin dashboard.
func CanViewDashboard(role models.Role) bool {
	return role == models.RoleAdmin
}
