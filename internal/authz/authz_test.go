package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/maroc-digital-hub/backend/internal/models"
)

func TestCanAddStartup(t *testing.T) {
	tests := []struct {
		role models.Role
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleStartup, true},
		{models.RoleInvestisseur, false},
		{models.RoleVisiteur, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddStartup(tt.role))
		})
	}
}

func TestCanAddEvent(t *testing.T) {
	tests := []struct {
		role models.Role
		want bool
	}{
		{models.RoleAdmin, true},
		{models.RoleStartup, true},
		{models.RoleInvestisseur, true},
		{models.RoleVisiteur, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddEvent(tt.role))
		})
	}
}

func TestCanPostDiscussion(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleStartup, models.RoleInvestisseur, models.RoleVisiteur} {
		t.Run(string(role), func(t *testing.T) {
			assert.True(t, CanPostDiscussion(role), "every logged-in role may post")
		})
	}
}

func TestCanDeleteDiscussion(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		role   models.Role
		userID uuid.UUID
		want   bool
	}{
		{"author deletes own message", models.RoleVisiteur, author, true},
		{"other visitor cannot delete", models.RoleVisiteur, other, false},
		{"other startup cannot delete", models.RoleStartup, other, false},
		{"admin deletes any message", models.RoleAdmin, other, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanDeleteDiscussion(tt.role, tt.userID, author))
		})
	}
}

func TestCanModifyStartup(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, CanModifyStartup(models.RoleStartup, owner, owner))
	assert.False(t, CanModifyStartup(models.RoleStartup, other, owner))
	assert.True(t, CanModifyStartup(models.RoleAdmin, other, owner))
	assert.False(t, CanModifyStartup(models.RoleVisiteur, other, owner))
}

func TestCanModifyEvent(t *testing.T) {
	organizer := uuid.New()
	other := uuid.New()

	assert.True(t, CanModifyEvent(models.RoleInvestisseur, organizer, organizer))
	assert.False(t, CanModifyEvent(models.RoleInvestisseur, other, organizer))
	assert.True(t, CanModifyEvent(models.RoleAdmin, other, organizer))
}

func TestCanViewDashboard(t *testing.T) {
	assert.True(t, CanViewDashboard(models.RoleAdmin))
	assert.False(t, CanViewDashboard(models.RoleStartup))
	assert.False(t, CanViewDashboard(models.RoleInvestisseur))
	assert.False(t, CanViewDashboard(models.RoleVisiteur))
}
