package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/scrape"
	"github.com/use-agent/distill/validate"
)

// Batch returns a handler for POST /api/v1/scrape/batch.
//
// The batch runs synchronously: the response carries every per-URL result.
// Status code reflects the aggregate outcome:
//
//	200 — every URL scraped successfully
//	207 — some URLs succeeded, some failed
//	422 — no URL produced content (or no URL passed validation)
func Batch(svc *scrape.Service, requestTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchScrapeRequest
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

		urls, err := validate.Batch(req.URLs)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Success: false,
				Error:   models.AsScrapeError(err, models.KindValidation).ToDetail(),
			})
			return
		}

		opts := req.Options()

		ctx := c.Request.Context()
		if requestTimeout > 0 {
			// The batch budget scales with its size: each URL gets the
			// single-scrape budget, spread across the worker slots.
			perWorker := (len(urls) + opts.MaxConcurrent - 1) / opts.MaxConcurrent
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(perWorker)*requestTimeout)
			defer cancel()
		}

		batch := svc.Batch(ctx, urls, opts)

		status := http.StatusOK
		switch {
		case batch.SuccessfulScrapes == 0:
			status = http.StatusUnprocessableEntity
		case batch.FailedScrapes > 0:
			status = http.StatusMultiStatus
		}
		c.JSON(status, batch)
	}
}
