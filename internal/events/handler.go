package events

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/authz"
	"github.com/maroc-digital-hub/backend/internal/middleware"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/realtime"
	"github.com/maroc-digital-hub/backend/pkg/queue"
	"github.com/maroc-digital-hub/backend/pkg/response"
)

// CreateRequest is the body for POST /events. Date is RFC 3339.
type CreateRequest struct {
	Title       string    `json:"title" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Description string    `json:"description"`
}

// UpdateRequest is the body for PUT /events/:id. Absent fields keep their value.
type UpdateRequest struct {
	Title       *string    `json:"title"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *Store
	hub    *realtime.Hub
	jobs   *queue.Queue
	logger *zap.Logger
}

// NewHandler creates an events handler. jobs may be nil (no confirmation emails).
func NewHandler(repo *Repository, store *Store, hub *realtime.Hub, jobs *queue.Queue, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, hub: hub, jobs: jobs, logger: logger}
}

// Refresh reloads the store from the repository.
func (h *Handler) Refresh(ctx context.Context) error {
	token := h.store.BeginFetch()
	list, err := h.repo.List(ctx)
	if err != nil {
		h.store.FetchFailed(token, "impossible de charger les événements")
		h.logger.Error("refresh events", zap.Error(err))
		return err
	}
	h.store.FetchSucceeded(token, list)
	return nil
}

// List handles GET /events. With ?upcoming=true only events from today on
// are returned.
func (h *Handler) List(c *gin.Context) {
	if !h.store.Loaded() {
		_ = h.Refresh(c.Request.Context())
	}
	if !h.store.Loaded() {
		response.Internal(c, h.store.Err())
		return
	}
	list := h.store.All()
	if c.Query("upcoming") == "true" {
		list = Upcoming(list, time.Now())
	}
	response.OK(c, gin.H{"events": list, "total": len(list)})
}

// Mine handles GET /events/mine: events the logged-in user participates in.
func (h *Handler) Mine(c *gin.Context) {
	if !h.store.Loaded() {
		_ = h.Refresh(c.Request.Context())
	}
	if !h.store.Loaded() {
		response.Internal(c, h.store.Err())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	list := ForUser(h.store.All(), userID)
	response.OK(c, gin.H{"events": list, "total": len(list)})
}

// GetByID handles GET /events/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant d'événement invalide")
		return
	}
	ev, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "événement introuvable")
		return
	}
	response.OK(c, ev)
}

// Create handles POST /events (Startup, Investisseur, or Admin, enforced by route).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	ev := &models.Event{
		Title:       req.Title,
		Date:        req.Date,
		Location:    req.Location,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := h.repo.Create(c.Request.Context(), ev); err != nil {
		h.logger.Error("create event", zap.Error(err))
		response.Internal(c, "échec de la création de l'événement")
		return
	}
	h.store.Add(*ev)
	h.hub.Publish(realtime.EventEventCreated, ev)
	response.Created(c, ev)
}

// Update handles PUT /events/:id (owner or admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant d'événement invalide")
		return
	}
	ev, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "événement introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanModifyEvent(role, userID, ev.CreatedBy) {
		response.Forbidden(c, "seul l'organisateur ou un admin peut modifier cet événement")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide")
		return
	}
	title, date, location, description := ev.Title, ev.Date, ev.Location, ev.Description
	if req.Title != nil {
		title = *req.Title
	}
	if req.Date != nil {
		date = *req.Date
	}
	if req.Location != nil {
		location = *req.Location
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := h.repo.Update(c.Request.Context(), id, title, date, location, description); err != nil {
		h.logger.Error("update event", zap.Error(err))
		response.Internal(c, "échec de la mise à jour de l'événement")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "échec de la mise à jour de l'événement")
		return
	}
	h.store.Update(*updated)
	response.OK(c, updated)
}

// Delete handles DELETE /events/:id (owner or admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant d'événement invalide")
		return
	}
	ev, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "événement introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanModifyEvent(role, userID, ev.CreatedBy) {
		response.Forbidden(c, "seul l'organisateur ou un admin peut supprimer cet événement")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete event", zap.Error(err))
		response.Internal(c, "échec de la suppression de l'événement")
		return
	}
	h.store.Remove(id)
	response.NoContent(c)
}

// Participate handles POST /events/:id/participate. Registering twice is a
// no-op; the first registration queues a confirmation email.
func (h *Handler) Participate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant d'événement invalide")
		return
	}
	ev, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "événement introuvable")
		return
	}
	user := c.MustGet(middleware.ContextUser).(models.User)

	added, err := h.repo.AddParticipant(c.Request.Context(), id, user.ID)
	if err != nil {
		h.logger.Error("add participant", zap.Error(err))
		response.Internal(c, "échec de l'inscription à l'événement")
		return
	}
	if added {
		h.store.Participate(id, user.ID)
		h.hub.Publish(realtime.EventEventParticipation, gin.H{
			"event_id": id,
			"user_id":  user.ID,
			"joined":   true,
		})
		if h.jobs != nil {
			if err := h.jobs.EnqueueEventConfirmation(c.Request.Context(), queue.EventConfirmationPayload{
				EventID:        id,
				UserID:         user.ID,
				RecipientEmail: user.Email,
				RecipientName:  user.FullName,
				EventTitle:     ev.Title,
				EventDate:      ev.Date,
				EventLocation:  ev.Location,
			}); err != nil {
				h.logger.Warn("enqueue event confirmation", zap.Error(err))
			}
		}
	}
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "échec de l'inscription à l'événement")
		return
	}
	h.store.Update(*updated)
	response.OK(c, updated)
}

// Unparticipate handles DELETE /events/:id/participate.
func (h *Handler) Unparticipate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant d'événement invalide")
		return
	}
	if _, err := h.repo.GetByID(c.Request.Context(), id); err != nil {
		response.NotFound(c, "événement introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	removed, err := h.repo.RemoveParticipant(c.Request.Context(), id, userID)
	if err != nil {
		h.logger.Error("remove participant", zap.Error(err))
		response.Internal(c, "échec de la désinscription de l'événement")
		return
	}
	if removed {
		h.store.Unparticipate(id, userID)
		h.hub.Publish(realtime.EventEventParticipation, gin.H{
			"event_id": id,
			"user_id":  userID,
			"joined":   false,
		})
	}
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "échec de la désinscription de l'événement")
		return
	}
	h.store.Update(*updated)
	response.OK(c, updated)
}
