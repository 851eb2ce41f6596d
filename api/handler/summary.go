package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/normalize"
)

// defaultSummaryLength caps the summary when the request does not specify one.
const defaultSummaryLength = 200

// Summary returns a handler for POST /api/v1/summary. It condenses already
// scraped markdown into a plain-text excerpt plus counting statistics; no
// network or browser work is involved.
func Summary() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SummaryRequest
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

		maxLength := req.MaxLength
		if maxLength == 0 {
			maxLength = defaultSummaryLength
		}

		c.JSON(http.StatusOK, models.SummaryResponse{
			Success: true,
			Summary: normalize.Summarize(req.Content, maxLength),
			Stats:   normalize.Stats(req.Content),
		})
	}
}
