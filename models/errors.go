package models

import "fmt"

// ErrorKind is the closed classification of why a scrape failed. The kind is
// decided at the point of failure and never inferred afterwards.
type ErrorKind string

const (
	// KindValidation marks bad input. Never worth retrying.
	KindValidation ErrorKind = "validation"

	// KindNetwork marks transient network failures (DNS, connection reset).
	// The caller may retry the same URL.
	KindNetwork ErrorKind = "network"

	// KindTimeout marks a render that exceeded its wait budget. The caller
	// may retry with a larger wait_time.
	KindTimeout ErrorKind = "timeout"

	// KindBrowser marks renderer-internal failures. The caller may retry.
	KindBrowser ErrorKind = "browser"

	// KindContentProcessing marks normalization failures on already-fetched
	// HTML. Retrying the fetch will not help.
	KindContentProcessing ErrorKind = "content_processing"

	// KindInternal marks unexpected failures outside the taxonomy above.
	KindInternal ErrorKind = "internal"
)

// Transport-level kinds. These appear only in HTTP error envelopes, never in
// a ScrapeResult.
const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rate_limited"
)

// ScrapeError is the internal error type carrying an error kind and
// structured details. It implements the error interface and supports
// wrapping via Unwrap.
type ScrapeError struct {
	Kind    ErrorKind
	Message string
	Details map[string]string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError without details.
func NewScrapeError(kind ErrorKind, message string, err error) *ScrapeError {
	return &ScrapeError{Kind: kind, Message: message, Err: err}
}

// WithDetail attaches a key-value detail and returns the error for chaining.
func (e *ScrapeError) WithDetail(key, value string) *ScrapeError {
	if e.Details == nil {
		e.Details = make(map[string]string, 2)
	}
	e.Details[key] = value
	return e
}

// AsScrapeError converts any error into a *ScrapeError, wrapping unknown
// errors with the given fallback kind.
func AsScrapeError(err error, fallback ErrorKind) *ScrapeError {
	if se, ok := err.(*ScrapeError); ok {
		return se
	}
	return NewScrapeError(fallback, err.Error(), err)
}
