package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/pkg/response"
)

// Require returns a middleware admitting only roles the predicate allows.
// Routes are gated through the authz predicates so the role rules live in
// one place.
func Require(allow func(models.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, ok := c.Get(ContextUserRole)
		if !ok {
			response.Unauthorized(c, "contexte utilisateur manquant")
			c.Abort()
			return
		}
		role, _ := roleVal.(models.Role)
		if !allow(role) {
			response.Forbidden(c, "votre rôle ne permet pas cette action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole admits only the listed roles. It delegates to Require.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{})
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return Require(func(role models.Role) bool {
		_, ok := allowed[role]
		return ok
	})
}
