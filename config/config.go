package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Loaded once at startup and
// immutable thereafter.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Content   ContentConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless by default.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// Stealth enables anti-bot-detection JS injection before navigation.
	Stealth bool // default: false
}

// ScraperConfig controls scraping behavior.
type ScraperConfig struct {
	// DefaultWaitTime is the per-render wait budget applied when a request
	// does not specify one.
	DefaultWaitTime int // seconds; default: 5

	// MaxWaitTime caps the client-supplied wait budget.
	MaxWaitTime int // seconds; default: 30

	// MaxConcurrentRequests caps batch concurrency regardless of the
	// client-supplied value.
	MaxConcurrentRequests int // default: 10

	// RequestTimeout is the outer deadline for one scrape operation
	// (render + normalize).
	RequestTimeout time.Duration // default: 60s

	// FetchMode selects the renderer implementation: "browser" (default)
	// or "http" for JS-less deployments.
	FetchMode string

	// DefaultRemoveElements lists CSS selectors stripped from every page
	// in addition to the per-request ones.
	DefaultRemoveElements []string

	// BlockedResourceTypes lists sub-resource types the renderer aborts
	// before navigation completes. default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string
}

// ContentConfig controls content normalization.
type ContentConfig struct {
	// IgnoreLinks drops hyperlinks from markdown output, keeping the
	// anchor text.
	IgnoreLinks bool // default: true

	// IgnoreImages drops images from markdown output.
	IgnoreImages bool // default: true

	// BodyWidth is the wrap column for markdown output; 0 disables wrapping.
	BodyWidth int // default: 0

	// UnicodeSnob preserves unicode characters instead of ASCII fallbacks.
	UnicodeSnob bool // default: true

	// IgnoreEmphasis drops bold/italic markers from markdown output.
	IgnoreEmphasis bool // default: false

	// SkipInternalLinks unwraps same-page fragment links.
	SkipInternalLinks bool // default: true

	// MaxContentBytes rejects pages larger than this before processing.
	MaxContentBytes int // default: 20 MB

	// MinContentLength triggers a warning (not a failure) for output
	// shorter than this many characters.
	MinContentLength int // default: 100
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per identity.
	Burst int // default: 10
}

// CacheConfig controls the scrape response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("DISTILL_HOST", "0.0.0.0"),
			Port: envIntOr("DISTILL_PORT", 8080),
			Mode: envOr("DISTILL_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:   envBoolOr("DISTILL_HEADLESS", true),
			MaxPages:   envIntOr("DISTILL_MAX_PAGES", 10),
			NoSandbox:  envBoolOr("DISTILL_NO_SANDBOX", false),
			BrowserBin: os.Getenv("DISTILL_BROWSER_BIN"),
			Stealth:    envBoolOr("DISTILL_STEALTH", false),
		},
		Scraper: ScraperConfig{
			DefaultWaitTime:       envIntOr("DISTILL_DEFAULT_WAIT", 5),
			MaxWaitTime:           envIntOr("DISTILL_MAX_WAIT", 30),
			MaxConcurrentRequests: envIntOr("DISTILL_MAX_CONCURRENT", 10),
			RequestTimeout:        envDurationOr("DISTILL_REQUEST_TIMEOUT", 60*time.Second),
			FetchMode:             envOr("DISTILL_FETCH_MODE", "browser"),
			DefaultRemoveElements: envSliceOr("DISTILL_REMOVE_ELEMENTS", []string{
				"script", "style", "noscript",
				"nav", "header", "footer",
				".advertisement", ".ads", ".ad",
				".social-share", ".social-sharing",
				"#comments", ".comments",
				".sidebar", ".related-articles",
				".newsletter-signup", ".popup",
				".cookie-notice", ".gdpr-notice",
			}),
			BlockedResourceTypes: envSliceOr("DISTILL_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
		},
		Content: ContentConfig{
			IgnoreLinks:       envBoolOr("DISTILL_IGNORE_LINKS", true),
			IgnoreImages:      envBoolOr("DISTILL_IGNORE_IMAGES", true),
			BodyWidth:         envIntOr("DISTILL_BODY_WIDTH", 0),
			UnicodeSnob:       envBoolOr("DISTILL_UNICODE_SNOB", true),
			IgnoreEmphasis:    envBoolOr("DISTILL_IGNORE_EMPHASIS", false),
			SkipInternalLinks: envBoolOr("DISTILL_SKIP_INTERNAL_LINKS", true),
			MaxContentBytes:   envIntOr("DISTILL_MAX_CONTENT_BYTES", 20*1024*1024),
			MinContentLength:  envIntOr("DISTILL_MIN_CONTENT_LENGTH", 100),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DISTILL_AUTH_ENABLED", false),
			APIKeys: envSliceOr("DISTILL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DISTILL_RATE_RPS", 5.0),
			Burst:             envIntOr("DISTILL_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("DISTILL_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("DISTILL_LOG_LEVEL", "info"),
			Format: envOr("DISTILL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
