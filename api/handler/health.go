package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/renderer"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports pool utilisation and degrades status when > 80% of pages are active.
func Health(r renderer.Renderer, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxPages, activePages := r.Stats()

		status := "healthy"
		if maxPages > 0 && activePages > int(float64(maxPages)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status: status,
			Uptime: time.Since(startTime).Round(time.Second).String(),
			PoolStats: models.PoolStats{
				MaxPages:    maxPages,
				ActivePages: activePages,
			},
			Version: "0.1.0",
		})
	}
}
