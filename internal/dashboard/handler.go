// Package dashboard exposes the admin overview: totals, the sector
// distribution of startups, and the latest activity.
package dashboard

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/maroc-digital-hub/backend/internal/discussions"
	"github.com/maroc-digital-hub/backend/internal/events"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/startups"
	"github.com/maroc-digital-hub/backend/pkg/response"
)

// RecentCount is how many recent startups and upcoming events the stats include.
const RecentCount = 3

// Handler serves the admin dashboard.
type Handler struct {
	pool            *pgxpool.Pool
	startupStore    *startups.Store
	eventStore      *events.Store
	discussionStore *discussions.Store
	warm            func(c *gin.Context)
	logger          *zap.Logger
}

// NewHandler creates a dashboard handler. warm is called before reading the
// stores so they are loaded on a cold start; it may be nil.
func NewHandler(pool *pgxpool.Pool, startupStore *startups.Store, eventStore *events.Store, discussionStore *discussions.Store, warm func(c *gin.Context), logger *zap.Logger) *Handler {
	return &Handler{
		pool:            pool,
		startupStore:    startupStore,
		eventStore:      eventStore,
		discussionStore: discussionStore,
		warm:            warm,
		logger:          logger,
	}
}

// Stats handles GET /dashboard/stats (admin only, enforced by route).
func (h *Handler) Stats(c *gin.Context) {
	if h.warm != nil {
		h.warm(c)
	}

	var userCount int
	if err := h.pool.QueryRow(c.Request.Context(), `SELECT COUNT(*) FROM users`).Scan(&userCount); err != nil {
		h.logger.Error("count users", zap.Error(err))
		response.Internal(c, "impossible de charger les statistiques")
		return
	}

	startupList := h.startupStore.All()
	eventList := h.eventStore.All()
	discussionList := h.discussionStore.All()

	response.OK(c, gin.H{
		"totals": gin.H{
			"users":       userCount,
			"startups":    len(startupList),
			"events":      len(eventList),
			"discussions": len(discussionList),
		},
		"sectors":         startups.SectorStats(startupList),
		"recent_startups": startups.Recent(startupList, RecentCount),
		"upcoming_events": upcomingEvents(eventList, RecentCount),
	})
}

func upcomingEvents(list []models.Event, n int) []models.Event {
	out := events.Upcoming(list, time.Now())
	if n < len(out) {
		out = out[:n]
	}
	return out
}
