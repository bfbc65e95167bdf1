package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maroc-digital-hub/backend/internal/session"
	"github.com/maroc-digital-hub/backend/pkg/response"
)

const (
	// ContextUser is the key for the session user (models.User) in gin context.
	ContextUser = "user"
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserRole is the key for user role (models.Role) in gin context.
	ContextUserRole = "user_role"
	// ContextSessionToken is the key for the session token (JWT ID) in gin context.
	ContextSessionToken = "session_token"
)

// TokenValidateFunc validates a bearer token and returns its session token
// (the JWT ID). Wired from auth.JWTService in main to avoid an import cycle.
type TokenValidateFunc func(token string) (jti string, err error)

// Auth returns a middleware that validates the bearer JWT, resumes the
// server-side session, and sets the user in context. An expired or revoked
// session rejects the request even when the JWT itself is still valid.
func Auth(validate TokenValidateFunc, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "en-tête d'autorisation manquant")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "en-tête d'autorisation invalide")
			c.Abort()
			return
		}
		jti, err := validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "jeton invalide ou expiré")
			c.Abort()
			return
		}
		user, err := sessions.Resume(c.Request.Context(), jti)
		if err != nil {
			response.Unauthorized(c, "session expirée, veuillez vous reconnecter")
			c.Abort()
			return
		}
		c.Set(ContextUser, *user)
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextSessionToken, jti)
		c.Next()
	}
}
