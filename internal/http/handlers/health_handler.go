package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-tag-backend/internal/http/middleware"
)

const readyTimeout = 2 * time.Second

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  map[string]string
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @ID          ready
// @Summary     Readiness probe
// @Description Succeeds when the tag store is reachable. While the store is down, a check also attempts to reopen it, at most once per retry backoff.
// @Tags        Ops
// @Produce     json
// @Success     200  {object}  map[string]string
// @Failure     503  {object}  handlers.ErrorResponse  "Store unavailable"
// @Router      /ready [get]
func (h *Handlers) Ready(c *gin.Context) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.ready.Ping(ctx); err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("readiness check failed")
			fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "tag store unavailable")
			return
		}
	}
	ok(c, http.StatusOK, gin.H{"status": "ready"})
}
