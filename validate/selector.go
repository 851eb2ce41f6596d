package validate

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/use-agent/distill/models"
)

// maxSelectorLength bounds a single CSS selector.
const maxSelectorLength = 200

// dangerousSubstrings are patterns that have no business inside a CSS
// selector and suggest an injection attempt.
var dangerousSubstrings = []string{
	"javascript:",
	"eval(",
	"<script",
	"</script>",
	"onclick=",
	"onerror=",
	"onload=",
}

// selectorPattern is the allowed character class for CSS selectors.
var selectorPattern = regexp.MustCompile(`^[a-zA-Z0-9\s.#\[\]:\-_,>+~*="'()]+$`)

// Selector reports whether a single CSS selector is safe to hand to the
// renderer and the normalizer. Besides the character allowlist, the selector
// must actually parse.
func Selector(selector string) bool {
	if selector == "" || len(selector) > maxSelectorLength {
		return false
	}

	lower := strings.ToLower(selector)
	for _, bad := range dangerousSubstrings {
		if strings.Contains(lower, bad) {
			return false
		}
	}

	if !selectorPattern.MatchString(selector) {
		return false
	}

	if _, err := cascadia.Parse(selector); err != nil {
		return false
	}
	return true
}

// Selectors validates a list of CSS selectors, silently dropping invalid
// ones. It fails only when the list exceeds the cap.
func Selectors(selectors []string) ([]string, error) {
	if len(selectors) == 0 {
		return nil, nil
	}
	if len(selectors) > maxSelectors {
		return nil, models.NewScrapeError(models.KindValidation,
			fmt.Sprintf("too many CSS selectors (max %d)", maxSelectors), nil).
			WithDetail("field", "remove_elements")
	}

	valid := make([]string, 0, len(selectors))
	for _, s := range selectors {
		if Selector(s) {
			valid = append(valid, s)
		} else {
			slog.Warn("invalid CSS selector ignored", "selector", s)
		}
	}
	return valid, nil
}
