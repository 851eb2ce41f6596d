package models

import "time"

// Output formats for processed content.
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatBoth     = "both"
)

// ScrapeOptions carries the per-request scrape settings. Construct it with
// NewScrapeOptions so defaults and bounds are applied once; the value is
// read-only for the duration of the request.
type ScrapeOptions struct {
	// WaitTime bounds a single render in seconds. Range [1,30], default 5.
	WaitTime int

	// Headless controls the browser mode. Default true.
	Headless bool

	// IncludeTitle includes the page title in the result. Default true.
	IncludeTitle bool

	// RemoveElements lists CSS selectors to strip before conversion.
	RemoveElements []string

	// ExtractMetadata extracts page metadata (description, author, ...).
	ExtractMetadata bool

	// OutputFormat is one of markdown, html, both. Default markdown.
	OutputFormat string

	// MaxConcurrent bounds batch concurrency. Range [1,10], default 3.
	MaxConcurrent int

	// DelayBetweenRequests paces each batch worker slot after a completed
	// scrape. Range [0.1,10.0] seconds, default 1.0.
	DelayBetweenRequests float64
}

// NewScrapeOptions returns options with all defaults applied.
func NewScrapeOptions() ScrapeOptions {
	return ScrapeOptions{
		WaitTime:             5,
		Headless:             true,
		IncludeTitle:         true,
		OutputFormat:         FormatMarkdown,
		MaxConcurrent:        3,
		DelayBetweenRequests: 1.0,
	}
}

// Clamp forces every numeric field into its allowed range and every enum
// field onto a known value. Called once at construction time.
func (o *ScrapeOptions) Clamp() {
	if o.WaitTime < 1 {
		o.WaitTime = 1
	}
	if o.WaitTime > 30 {
		o.WaitTime = 30
	}
	if o.MaxConcurrent < 1 {
		o.MaxConcurrent = 1
	}
	if o.MaxConcurrent > 10 {
		o.MaxConcurrent = 10
	}
	if o.DelayBetweenRequests < 0.1 {
		o.DelayBetweenRequests = 0.1
	}
	if o.DelayBetweenRequests > 10.0 {
		o.DelayBetweenRequests = 10.0
	}
	switch o.OutputFormat {
	case FormatMarkdown, FormatHTML, FormatBoth:
	default:
		o.OutputFormat = FormatMarkdown
	}
}

// WaitBudget returns WaitTime as a duration.
func (o ScrapeOptions) WaitBudget() time.Duration {
	return time.Duration(o.WaitTime) * time.Second
}

// Delay returns DelayBetweenRequests as a duration.
func (o ScrapeOptions) Delay() time.Duration {
	return time.Duration(o.DelayBetweenRequests * float64(time.Second))
}
