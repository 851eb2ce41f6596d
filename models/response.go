package models

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Kind    ErrorKind         `json:"kind"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Kind: e.Kind, Message: e.Message, Details: e.Details}
}

// ErrorResponse is the generic error envelope for non-scrape failures
// (bad payloads, auth, rate limiting).
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// SummaryResponse is the response for POST /api/v1/summary.
type SummaryResponse struct {
	Success bool         `json:"success"`
	Summary string       `json:"summary"`
	Stats   ContentStats `json:"stats"`
}

// ContentStats reports counting statistics for a piece of content.
type ContentStats struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
	Lines      int `json:"lines"`
	Headers    int `json:"headers"`
	Links      int `json:"links"`
	CodeBlocks int `json:"code_blocks"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the renderer page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
