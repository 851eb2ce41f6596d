package models

// ScrapeRequest is the payload for POST /api/v1/scrape.
type ScrapeRequest struct {
	// URL is the target page to scrape. Required.
	URL string `json:"url" binding:"required,url"`

	// WaitTime bounds the render in seconds. Default: 5. Range: 1-30.
	WaitTime int `json:"wait_time,omitempty" binding:"omitempty,min=1,max=30"`

	// Headless controls the browser mode. Default: true.
	Headless *bool `json:"headless,omitempty"`

	// IncludeTitle includes the page title in the response. Default: true.
	IncludeTitle *bool `json:"include_title,omitempty"`

	// RemoveElements lists CSS selectors to strip before conversion.
	RemoveElements []string `json:"remove_elements,omitempty" binding:"omitempty,max=50"`

	// ExtractMetadata extracts page metadata. Default: false.
	ExtractMetadata bool `json:"extract_metadata,omitempty"`

	// OutputFormat controls the response content.
	// Allowed: "markdown" (default), "html", "both".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html both"`

	// MaxAge enables the response cache: serve a cached result no older
	// than this many milliseconds. 0 (default) bypasses the cache.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// Options converts the request into a clamped ScrapeOptions value.
func (r *ScrapeRequest) Options() ScrapeOptions {
	o := NewScrapeOptions()
	if r.WaitTime != 0 {
		o.WaitTime = r.WaitTime
	}
	if r.Headless != nil {
		o.Headless = *r.Headless
	}
	if r.IncludeTitle != nil {
		o.IncludeTitle = *r.IncludeTitle
	}
	o.RemoveElements = r.RemoveElements
	o.ExtractMetadata = r.ExtractMetadata
	if r.OutputFormat != "" {
		o.OutputFormat = r.OutputFormat
	}
	o.Clamp()
	return o
}

// BatchScrapeRequest is the payload for POST /api/v1/scrape/batch.
// The transport-facing cap is 50 URLs; the core validator allows up to 100,
// so the stricter bound applies here.
type BatchScrapeRequest struct {
	URLs            []string `json:"urls" binding:"required,min=1,max=50,unique"`
	WaitTime        int      `json:"wait_time,omitempty" binding:"omitempty,min=1,max=30"`
	Headless        *bool    `json:"headless,omitempty"`
	IncludeTitle    *bool    `json:"include_title,omitempty"`
	RemoveElements  []string `json:"remove_elements,omitempty" binding:"omitempty,max=50"`
	ExtractMetadata bool     `json:"extract_metadata,omitempty"`
	OutputFormat    string   `json:"output_format,omitempty" binding:"omitempty,oneof=markdown html both"`

	// MaxConcurrent bounds in-flight scrapes. Default: 3. Range: 1-10.
	MaxConcurrent int `json:"max_concurrent,omitempty" binding:"omitempty,min=1,max=10"`

	// DelayBetweenRequests paces each worker slot, in seconds.
	// Default: 1.0. Range: 0.1-10.0.
	DelayBetweenRequests float64 `json:"delay_between_requests,omitempty" binding:"omitempty,min=0.1,max=10"`
}

// Options converts the batch request into a clamped ScrapeOptions value.
func (r *BatchScrapeRequest) Options() ScrapeOptions {
	o := NewScrapeOptions()
	if r.WaitTime != 0 {
		o.WaitTime = r.WaitTime
	}
	if r.Headless != nil {
		o.Headless = *r.Headless
	}
	if r.IncludeTitle != nil {
		o.IncludeTitle = *r.IncludeTitle
	}
	o.RemoveElements = r.RemoveElements
	o.ExtractMetadata = r.ExtractMetadata
	if r.OutputFormat != "" {
		o.OutputFormat = r.OutputFormat
	}
	if r.MaxConcurrent != 0 {
		o.MaxConcurrent = r.MaxConcurrent
	}
	if r.DelayBetweenRequests != 0 {
		o.DelayBetweenRequests = r.DelayBetweenRequests
	}
	o.Clamp()
	return o
}

// SummaryRequest is the payload for POST /api/v1/summary.
type SummaryRequest struct {
	Content   string `json:"content" binding:"required"`
	MaxLength int    `json:"max_length,omitempty" binding:"omitempty,min=10,max=2000"`
}
