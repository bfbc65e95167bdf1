package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/maroc-digital-hub/backend/internal/authz"
	"github.com/maroc-digital-hub/backend/internal/models"
)

func performWithRole(mw gin.HandlerFunc, role models.Role) int {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) { c.Set(ContextUserRole, role) },
		mw,
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireGatesByPredicate(t *testing.T) {
	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleAdmin, http.StatusOK},
		{models.RoleStartup, http.StatusOK},
		{models.RoleInvestisseur, http.StatusForbidden},
		{models.RoleVisiteur, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, performWithRole(Require(authz.CanAddStartup), tt.role))
		})
	}
}

func TestRequireDashboardPredicate(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole(Require(authz.CanViewDashboard), models.RoleAdmin))
	for _, role := range []models.Role{models.RoleStartup, models.RoleInvestisseur, models.RoleVisiteur} {
		assert.Equal(t, http.StatusForbidden, performWithRole(Require(authz.CanViewDashboard), role))
	}
}

func TestRequireWithoutContextRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", Require(authz.CanViewDashboard), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleDelegates(t *testing.T) {
	mw := RequireRole(models.RoleAdmin)
	assert.Equal(t, http.StatusOK, performWithRole(mw, models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, performWithRole(mw, models.RoleVisiteur))
}
