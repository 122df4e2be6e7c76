package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techhub/server/internal/app/models/dto"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController serves liveness and readiness probes
type HealthController struct {
	db  Pinger
	now func() time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db, now: time.Now}
}

// Health handles GET /health. It never touches the database.
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Success:   true,
		Message:   "TechHub API Server is running!",
		Timestamp: c.now().UTC(),
	})
}

// Ready handles GET /ready and fails while the database is unreachable.
func (c *HealthController) Ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if c.db != nil {
		if err := c.db.Ping(pingCtx); err != nil {
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unavailable")))
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Success:   true,
		Message:   "ready",
		Timestamp: c.now().UTC(),
	})
}
