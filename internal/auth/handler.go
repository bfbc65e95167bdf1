package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/middleware"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/session"
	"github.com/maroc-digital-hub/backend/pkg/queue"
	"github.com/maroc-digital-hub/backend/pkg/response"
	"github.com/maroc-digital-hub/backend/pkg/utils"
)

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"` // optional, defaults to Visiteur
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT.
type TokenResponse struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo     *Repository
	jwt      *JWTService
	sessions *session.Manager
	jobs     *queue.Queue
	logger   *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, sessions *session.Manager, jobs *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, jwt: jwt, sessions: sessions, jobs: jobs, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide : "+err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		response.BadRequest(c, "rôle invalide")
		return
	}

	if _, err := h.repo.GetByEmail(c.Request.Context(), req.Email); err == nil {
		response.BadRequest(c, "cet email est déjà utilisé")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "échec de la création du compte")
		return
	}

	user, err := h.repo.Create(c.Request.Context(), req.FullName, req.Email, hash, role)
	if err != nil {
		h.logger.Error("create user", zap.Error(err))
		response.Internal(c, "échec de la création du compte")
		return
	}

	token, jti, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "échec de la génération du jeton")
		return
	}
	if err := h.sessions.Create(c.Request.Context(), jti, *user); err != nil {
		h.logger.Error("create session", zap.Error(err))
		response.Internal(c, "échec de la création de la session")
		return
	}

	if h.jobs != nil {
		if err := h.jobs.EnqueueWelcomeEmail(c.Request.Context(), queue.WelcomeEmailPayload{
			UserID:         user.ID,
			RecipientEmail: user.Email,
			RecipientName:  user.FullName,
			Role:           string(user.Role),
		}); err != nil {
			h.logger.Warn("enqueue welcome email", zap.Error(err))
		}
	}

	response.Created(c, TokenResponse{Token: token, User: user.ToPublic()})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide : "+err.Error())
		return
	}

	user, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Unauthorized(c, "email ou mot de passe incorrect")
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		response.Unauthorized(c, "email ou mot de passe incorrect")
		return
	}

	token, jti, err := h.jwt.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		response.Internal(c, "échec de la génération du jeton")
		return
	}
	if err := h.sessions.Create(c.Request.Context(), jti, *user); err != nil {
		h.logger.Error("create session", zap.Error(err))
		response.Internal(c, "échec de la création de la session")
		return
	}

	c.JSON(http.StatusOK, response.Body{Success: true, Data: TokenResponse{Token: token, User: user.ToPublic()}})
}

// Logout handles POST /auth/logout: destroys the server-side session so the
// JWT stops working immediately.
func (h *Handler) Logout(c *gin.Context) {
	token := c.MustGet(middleware.ContextSessionToken).(string)
	if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
		h.logger.Error("destroy session", zap.Error(err))
		response.Internal(c, "échec de la déconnexion")
		return
	}
	response.NoContent(c)
}

// Me handles GET /auth/me: returns the session's user. This is the
// "restore session after reload" operation — the client re-learns who it is
// from a stored token, or gets 401 when the session window has passed.
func (h *Handler) Me(c *gin.Context) {
	user := c.MustGet(middleware.ContextUser).(models.User)
	response.OK(c, user.ToPublic())
}

// EmailExists handles GET /auth/email-exists?email= (sign-up form probe).
func (h *Handler) EmailExists(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.BadRequest(c, "email requis")
		return
	}
	_, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		response.Internal(c, "échec de la vérification de l'email")
		return
	}
	response.OK(c, gin.H{"exists": err == nil})
}

// List handles GET /users (admin only).
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "échec du chargement des utilisateurs")
		return
	}
	response.OK(c, list)
}
