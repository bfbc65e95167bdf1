package discussions

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/authz"
	"github.com/maroc-digital-hub/backend/internal/middleware"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/realtime"
	"github.com/maroc-digital-hub/backend/pkg/response"
)

// MaxMessageLength caps a discussion message.
const MaxMessageLength = 2000

// CreateRequest is the body for POST /discussions.
type CreateRequest struct {
	Message string `json:"message" binding:"required"`
}

// Handler handles discussion HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *Store
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a discussions handler.
func NewHandler(repo *Repository, store *Store, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, hub: hub, logger: logger}
}

// Refresh reloads the store from the repository.
func (h *Handler) Refresh(ctx context.Context) error {
	token := h.store.BeginFetch()
	list, err := h.repo.List(ctx)
	if err != nil {
		h.store.FetchFailed(token, "impossible de charger les discussions")
		h.logger.Error("refresh discussions", zap.Error(err))
		return err
	}
	h.store.FetchSucceeded(token, list)
	return nil
}

// List handles GET /discussions?sort=recent|popular (default recent).
func (h *Handler) List(c *gin.Context) {
	if !h.store.Loaded() {
		_ = h.Refresh(c.Request.Context())
	}
	if !h.store.Loaded() {
		response.Internal(c, h.store.Err())
		return
	}
	list := h.store.All()
	switch c.DefaultQuery("sort", "recent") {
	case "recent":
		list = SortRecent(list)
	case "popular":
		list = SortPopular(list)
	default:
		response.BadRequest(c, "tri invalide, utilisez recent ou popular")
		return
	}
	response.OK(c, gin.H{"discussions": list, "total": len(list)})
}

// Create handles POST /discussions. Every logged-in role may post, visitors
// included; the author's name and role are frozen into the message.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		response.BadRequest(c, "le message ne peut pas être vide")
		return
	}
	if len(msg) > MaxMessageLength {
		response.BadRequest(c, "le message est trop long")
		return
	}
	user := c.MustGet(middleware.ContextUser).(models.User)

	d := &models.Discussion{
		AuthorID:   user.ID,
		AuthorName: user.FullName,
		AuthorRole: user.Role,
		Message:    msg,
	}
	if err := h.repo.Create(c.Request.Context(), d); err != nil {
		h.logger.Error("create discussion", zap.Error(err))
		response.Internal(c, "échec de la publication du message")
		return
	}
	h.store.Add(*d)
	h.hub.Publish(realtime.EventDiscussionCreated, d)
	response.Created(c, d)
}

// Delete handles DELETE /discussions/:id (author or admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de discussion invalide")
		return
	}
	d, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "discussion introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanDeleteDiscussion(role, userID, d.AuthorID) {
		response.Forbidden(c, "seul l'auteur ou un admin peut supprimer ce message")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete discussion", zap.Error(err))
		response.Internal(c, "échec de la suppression du message")
		return
	}
	h.store.Remove(id)
	h.hub.Publish(realtime.EventDiscussionDeleted, gin.H{"id": id})
	response.NoContent(c)
}

// ToggleLike handles POST /discussions/:id/like. A second call from the same
// user removes the like.
func (h *Handler) ToggleLike(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de discussion invalide")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "discussion introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	liked, err := h.repo.ToggleLike(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("toggle like", zap.Error(err))
		response.Internal(c, "échec du like")
		return
	}
	h.store.ToggleLike(id, userID)
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "échec du like")
		return
	}
	h.store.Update(*updated)
	h.hub.Publish(realtime.EventDiscussionLiked, gin.H{
		"id":      id,
		"user_id": userID,
		"liked":   liked,
		"likes":   len(updated.Likes),
	})
	response.OK(c, gin.H{"id": id, "liked": liked, "likes": len(updated.Likes)})
}
