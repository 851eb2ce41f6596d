package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/use-agent/distill/models"
)

// networkMarkers are message substrings that indicate a network-level
// failure: Chromium net error codes, DNS resolution, connection refusal.
var networkMarkers = []string{
	"net::",
	"DNS",
	"no such host",
	"connection refused",
	"connection reset",
}

// classifyRenderError sorts a renderer failure into the closed error-kind
// taxonomy. The rules are an ordered heuristic and the first match wins:
//
//  1. context deadline/cancellation, or "timeout" in the message → timeout
//  2. a network marker in the message → network
//  3. anything else → browser
//
// Classification by message substring is deliberately preserved for
// compatibility with existing callers; richer structured signaling from the
// renderer would obsolete rules 2-3.
func classifyRenderError(err error, url string, waitSeconds int) *models.ScrapeError {
	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		strings.Contains(lower, "timeout"):
		return models.NewScrapeError(models.KindTimeout,
			fmt.Sprintf("page load timeout for %s", url), err).
			WithDetail("url", url).
			WithDetail("timeout_seconds", fmt.Sprintf("%d", waitSeconds))

	case containsAny(msg, networkMarkers):
		return models.NewScrapeError(models.KindNetwork,
			fmt.Sprintf("network error accessing %s: %s", url, msg), err).
			WithDetail("url", url)

	default:
		return models.NewScrapeError(models.KindBrowser,
			fmt.Sprintf("browser error for %s: %s", url, msg), err).
			WithDetail("url", url).
			WithDetail("browser_error", msg)
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
