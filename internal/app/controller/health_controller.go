package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/mapaddress-backend/internal/middleware"
)

// Pinger checks a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	store Pinger
}

func NewHealthController(store Pinger) *HealthController {
	return &HealthController{store: store}
}

// Root is a plain liveness string
// GET /
func (ctrl *HealthController) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend is running!")
}

// Health reports store reachability
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := ctrl.store.Ping(ctx); err != nil {
		middleware.GetLoggerFromContext(c).Error("Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"store":  "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  "ok",
	})
}
