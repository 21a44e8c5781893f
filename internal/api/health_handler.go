package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/newsdesk/internal/api/shared"
	"github.com/phrazzld/newsdesk/internal/platform/logger"
	"github.com/phrazzld/newsdesk/internal/redact"
)

// Pinger reports database reachability. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// QueueStats reports how many generation calls are waiting and how far
// apart they start. *callqueue.Queue implements it.
type QueueStats interface {
	Len() int
	Delay() time.Duration
}

const healthPingTimeout = 2 * time.Second

// HealthHandler serves GET /api/health.
type HealthHandler struct {
	db    Pinger
	queue QueueStats
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(db Pinger, queue QueueStats) *HealthHandler {
	return &HealthHandler{db: db, queue: queue}
}

// Health reports "ok" when the database answers a ping and "degraded" with
// 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok"}
	if h.queue != nil {
		resp.QueueDepth = h.queue.Len()
		resp.QueueDelayMS = h.queue.Delay().Milliseconds()
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContext(r.Context()).Warn("database ping failed", redact.Attr(err))
		resp.Status = "degraded"
		resp.Database = "unavailable"
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
