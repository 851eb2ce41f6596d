// Package handler contains the gin handlers for the HTTP API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/scrape"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when the request opts in via max_age.
//  3. Service.Single → typed result (never an error).
//  4. 200 when the result succeeded, 422 when it failed; the result body is
//     the same shape either way.
func Scrape(svc *scrape.Service, cc *cache.Cache, requestTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Kind:    models.KindValidation,
					Message: err.Error(),
				},
			})
			return
		}
		opts := req.Options()

		cacheKey := cache.Key(req.URL, opts.OutputFormat)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		ctx := c.Request.Context()
		if requestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, requestTimeout)
			defer cancel()
		}

		result := svc.Single(ctx, req.URL, opts)

		if !result.Success {
			c.JSON(http.StatusUnprocessableEntity, result)
			return
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, result)
		}
		c.JSON(http.StatusOK, result)
	}
}
