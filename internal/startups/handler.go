package startups

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/authz"
	"github.com/maroc-digital-hub/backend/internal/middleware"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/realtime"
	"github.com/maroc-digital-hub/backend/pkg/response"
	"github.com/maroc-digital-hub/backend/pkg/storage"
)

// CreateRequest is the body for POST /startups.
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Sector      string `json:"sector" binding:"required"`
	Description string `json:"description"`
}

// UpdateRequest is the body for PUT /startups/:id. Absent fields keep their value.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Sector      *string `json:"sector"`
	Description *string `json:"description"`
}

// Handler handles startup HTTP endpoints.
type Handler struct {
	repo   *Repository
	store  *Store
	s3     *storage.S3
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a startups handler. s3 may be nil (logo upload disabled).
func NewHandler(repo *Repository, store *Store, s3 *storage.S3, hub *realtime.Hub, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, store: store, s3: s3, hub: hub, logger: logger}
}

// Refresh reloads the store from the repository. A failure keeps the
// previous list; a refresh superseded by a newer one is dropped.
func (h *Handler) Refresh(ctx context.Context) error {
	token := h.store.BeginFetch()
	list, err := h.repo.List(ctx)
	if err != nil {
		h.store.FetchFailed(token, "impossible de charger les startups")
		h.logger.Error("refresh startups", zap.Error(err))
		return err
	}
	h.store.FetchSucceeded(token, list)
	return nil
}

// List handles GET /startups?sector=&q=&page=. Sector and page params are
// dispatched through the store so a sector change resets the page to 1.
func (h *Handler) List(c *gin.Context) {
	if !h.store.Loaded() {
		_ = h.Refresh(c.Request.Context())
	}
	if sector := c.Query("sector"); sector != "" {
		if sector != SectorAll {
			if _, err := models.ParseSector(sector); err != nil {
				response.BadRequest(c, "secteur invalide")
				return
			}
		}
		if sector != h.store.Sector() {
			h.store.SetSector(sector)
		}
	}
	if pageStr := c.Query("page"); pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n < 1 {
			response.BadRequest(c, "page invalide")
			return
		}
		h.store.SetPage(n)
	}
	if !h.store.Loaded() {
		response.Internal(c, h.store.Err())
		return
	}

	filtered := Filter(h.store.All(), h.store.Sector(), c.Query("q"))
	items, totalPages := Paginate(filtered, h.store.Page())
	response.OK(c, gin.H{
		"startups":    items,
		"page":        h.store.Page(),
		"total_pages": totalPages,
		"total":       len(filtered),
		"sector":      h.store.Sector(),
	})
}

// GetByID handles GET /startups/:id (always from the source of truth).
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de startup invalide")
		return
	}
	st, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "startup introuvable")
		return
	}
	response.OK(c, st)
}

// Create handles POST /startups (Startup or Admin role, enforced by route).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	sector, err := models.ParseSector(req.Sector)
	if err != nil {
		response.BadRequest(c, "secteur invalide")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)

	st := &models.Startup{
		Name:        req.Name,
		Sector:      sector,
		Description: req.Description,
		CreatedBy:   userID,
	}
	if err := h.repo.Create(c.Request.Context(), st); err != nil {
		h.logger.Error("create startup", zap.Error(err))
		response.Internal(c, "échec de la création de la startup")
		return
	}
	h.store.Add(*st)
	h.hub.Publish(realtime.EventStartupCreated, st)
	response.Created(c, st)
}

// Update handles PUT /startups/:id (owner or admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de startup invalide")
		return
	}
	st, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "startup introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanModifyStartup(role, userID, st.CreatedBy) {
		response.Forbidden(c, "seul le propriétaire ou un admin peut modifier cette startup")
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "requête invalide")
		return
	}
	name, sector, description := st.Name, st.Sector, st.Description
	if req.Name != nil {
		name = *req.Name
	}
	if req.Sector != nil {
		sector, err = models.ParseSector(*req.Sector)
		if err != nil {
			response.BadRequest(c, "secteur invalide")
			return
		}
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := h.repo.Update(c.Request.Context(), id, name, sector, description); err != nil {
		h.logger.Error("update startup", zap.Error(err))
		response.Internal(c, "échec de la mise à jour de la startup")
		return
	}
	updated, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "échec de la mise à jour de la startup")
		return
	}
	h.store.Update(*updated)
	response.OK(c, updated)
}

// Delete handles DELETE /startups/:id (owner or admin).
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de startup invalide")
		return
	}
	st, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "startup introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanModifyStartup(role, userID, st.CreatedBy) {
		response.Forbidden(c, "seul le propriétaire ou un admin peut supprimer cette startup")
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("delete startup", zap.Error(err))
		response.Internal(c, "échec de la suppression de la startup")
		return
	}
	h.store.Remove(id)
	if h.s3 != nil && st.LogoURL != nil {
		if key, ok := storage.LogoKeyFromURL(*st.LogoURL); ok {
			if err := h.s3.Delete(c.Request.Context(), h.s3.LogosBucket(), key); err != nil {
				h.logger.Warn("delete logo object", zap.Error(err), zap.String("key", key))
			}
		}
	}
	response.NoContent(c)
}

// LogoDownloadURL handles GET /startups/:id/logo-url: a pre-signed, expiring
// link to the logo object.
func (h *Handler) LogoDownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "le stockage de fichiers n'est pas configuré")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de startup invalide")
		return
	}
	st, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "startup introuvable")
		return
	}
	if st.LogoURL == nil {
		response.NotFound(c, "cette startup n'a pas de logo")
		return
	}
	key, ok := storage.LogoKeyFromURL(*st.LogoURL)
	if !ok {
		response.Internal(c, "échec de la génération du lien de téléchargement")
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(), h.s3.LogosBucket(), key)
	if err != nil {
		h.logger.Error("presign logo download", zap.Error(err))
		response.Internal(c, "échec de la génération du lien de téléchargement")
		return
	}
	response.OK(c, gin.H{"id": id, "url": url})
}

// UploadLogo handles POST /startups/:id/logo (multipart "logo" field).
func (h *Handler) UploadLogo(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "le stockage de fichiers n'est pas configuré")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "identifiant de startup invalide")
		return
	}
	st, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "startup introuvable")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	role := c.MustGet(middleware.ContextUserRole).(models.Role)
	if !authz.CanModifyStartup(role, userID, st.CreatedBy) {
		response.Forbidden(c, "seul le propriétaire ou un admin peut modifier cette startup")
		return
	}

	file, header, err := c.Request.FormFile("logo")
	if err != nil {
		response.BadRequest(c, "fichier logo manquant")
		return
	}
	defer file.Close()
	if header.Size > storage.MaxLogoFileSize {
		response.BadRequest(c, "le logo dépasse la taille maximale de 5 Mo")
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidateLogoFileType(contentType, header.Filename) {
		response.BadRequest(c, "format de logo non supporté")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(header.Filename)
	}

	key := storage.LogoKey(id.String(), header.Filename)
	url, err := h.s3.Upload(c.Request.Context(), h.s3.LogosBucket(), key, contentType, file)
	if err != nil {
		h.logger.Error("upload logo", zap.Error(err))
		response.Internal(c, "échec du téléversement du logo")
		return
	}
	if err := h.repo.UpdateLogoURL(c.Request.Context(), id, url); err != nil {
		response.Internal(c, "échec de l'enregistrement du logo")
		return
	}
	st.LogoURL = &url
	h.store.Update(*st)
	response.OK(c, gin.H{"id": id, "logo_url": url})
}
