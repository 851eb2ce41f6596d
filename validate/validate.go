// Package validate gates which URLs and CSS selectors the scraper will
// accept: format checks, a safety blocklist for internal/private targets,
// and batch partitioning that drops invalid entries instead of failing.
package validate

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/use-agent/distill/models"
)

// maxURLLength is the common URL length limit enforced by Strict.
const maxURLLength = 2048

// maxBatchSize caps how many URLs a single batch validation accepts.
// The HTTP layer enforces a stricter cap of 50 at its own boundary.
const maxBatchSize = 100

// maxSelectors caps how many CSS selectors one request may carry.
const maxSelectors = 50

// blockedDomains are hosts never scraped, compared case-insensitively.
var blockedDomains = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// blockedExtensions are path suffixes for document/archive/executable/media
// payloads that a page renderer cannot usefully process.
var blockedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip", ".rar", ".tar", ".gz", ".exe", ".dmg", ".pkg",
	".mp3", ".mp4", ".avi", ".mov", ".wav", ".flv",
}

// urlPattern is the coarse shape check: http(s), a domain / IP / localhost
// host, optional port, optional path.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// privateIPPatterns match RFC1918, loopback, link-local, and 0.* hosts.
var privateIPPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.1[6-9]\.`),
	regexp.MustCompile(`^172\.2[0-9]\.`),
	regexp.MustCompile(`^172\.3[0-1]\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^0\.`),
	regexp.MustCompile(`^169\.254\.`),
}

// suspiciousKeywords are logged as an audit signal when found in the host or
// as a path segment. They never block a scrape.
var suspiciousKeywords = []string{"admin", "login", "secure", "private", "internal"}

// IsValid is the non-throwing, best-effort check combining format and safety
// validation. Used for lenient filtering.
func IsValid(rawURL string) bool {
	return validFormat(rawURL) && validSafety(rawURL)
}

// Strict validates one URL and returns a validation-kind ScrapeError
// describing the first failed check.
func Strict(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return models.NewScrapeError(models.KindValidation, "URL cannot be empty", nil).
			WithDetail("field", "url")
	}
	if len(rawURL) > maxURLLength {
		return models.NewScrapeError(models.KindValidation,
			fmt.Sprintf("URL too long (max %d characters)", maxURLLength), nil).
			WithDetail("field", "url")
	}
	if !validFormat(rawURL) {
		return models.NewScrapeError(models.KindValidation,
			fmt.Sprintf("invalid URL format: %s", rawURL), nil).
			WithDetail("field", "url").WithDetail("value", rawURL)
	}
	if !validSafety(rawURL) {
		return models.NewScrapeError(models.KindValidation,
			fmt.Sprintf("URL not allowed for scraping: %s", rawURL), nil).
			WithDetail("field", "url").WithDetail("value", rawURL)
	}
	return nil
}

// Batch validates a list of URLs and returns the valid ones in input order.
// Invalid entries are logged and dropped; the call fails only when the input
// is empty, exceeds the batch cap, or contains no valid URL at all.
func Batch(urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, models.NewScrapeError(models.KindValidation,
			"URL list cannot be empty", nil).WithDetail("field", "urls")
	}
	if len(urls) > maxBatchSize {
		return nil, models.NewScrapeError(models.KindValidation,
			fmt.Sprintf("too many URLs in batch (max %d)", maxBatchSize), nil).
			WithDetail("field", "urls")
	}

	valid := make([]string, 0, len(urls))
	var invalid []string
	var examples []string

	for _, u := range urls {
		if err := Strict(u); err != nil {
			invalid = append(invalid, u)
			if len(examples) < 3 {
				examples = append(examples, err.Error())
			}
			continue
		}
		valid = append(valid, u)
	}

	if len(valid) == 0 {
		return nil, models.NewScrapeError(models.KindValidation,
			"no valid URLs found in batch", nil).
			WithDetail("field", "urls").
			WithDetail("invalid_count", fmt.Sprintf("%d", len(invalid))).
			WithDetail("examples", strings.Join(examples, "; "))
	}

	if len(invalid) > 0 {
		slog.Warn("batch contains invalid URLs, dropping them",
			"invalid", len(invalid), "valid", len(valid))
	}
	return valid, nil
}

// Domain extracts the lowercased host (with port, if any) from a URL, or ""
// when unparseable.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.ToLower(parsed.Host)
}

// Normalize strips the fragment and lowercases the host.
func Normalize(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	parsed.Host = strings.ToLower(parsed.Host)
	return parsed.String()
}

func validFormat(rawURL string) bool {
	if !urlPattern.MatchString(rawURL) {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if parsed.Host == "" {
		return false
	}

	path := strings.ToLower(parsed.Path)
	for _, ext := range blockedExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	return true
}

func validSafety(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "" {
		return false
	}

	if _, blocked := blockedDomains[strings.ToLower(host)]; blocked {
		return false
	}
	for _, p := range privateIPPatterns {
		if p.MatchString(host) {
			return false
		}
	}

	lowerHost := strings.ToLower(host)
	lowerURL := strings.ToLower(rawURL)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lowerHost, kw) || strings.Contains(lowerURL, "/"+kw) {
			slog.Warn("suspicious URL pattern", "keyword", kw, "url", rawURL)
		}
	}
	return true
}
