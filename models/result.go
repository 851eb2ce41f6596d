package models

import "time"

// ScrapeResult is the outcome of one URL attempt. It is created once per
// attempt and immutable after construction.
//
// Invariant: Success implies Error/ErrorKind are empty and Content or HTML is
// set per the requested output format; !Success implies Content, HTML,
// Length and WordCount are all empty.
type ScrapeResult struct {
	Success        bool              `json:"success"`
	URL            string            `json:"url"`
	Title          string            `json:"title,omitempty"`
	Content        string            `json:"content,omitempty"`
	HTML           string            `json:"html,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Length         int               `json:"length,omitempty"`
	WordCount      int               `json:"word_count,omitempty"`
	ProcessingTime float64           `json:"processing_time"`
	Timestamp      string            `json:"timestamp"`
	Error          string            `json:"error,omitempty"`
	ErrorKind      ErrorKind         `json:"error_kind,omitempty"`
	ErrorDetails   map[string]string `json:"error_details,omitempty"`
}

// NewSuccessResult assembles a success result for the given URL.
func NewSuccessResult(url string, elapsed time.Duration) *ScrapeResult {
	return &ScrapeResult{
		Success:        true,
		URL:            url,
		ProcessingTime: elapsed.Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
}

// NewFailureResult converts a ScrapeError into a well-formed failure result
// so batch aggregation stays uniform.
func NewFailureResult(url string, err *ScrapeError, elapsed time.Duration) *ScrapeResult {
	return &ScrapeResult{
		Success:        false,
		URL:            url,
		ProcessingTime: elapsed.Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Error:          err.Message,
		ErrorKind:      err.Kind,
		ErrorDetails:   err.Details,
	}
}

// BatchResult aggregates the outcomes of a batch scrape. Success reflects
// that the batch executed to completion, independent of per-item outcomes;
// status-code derivation from the counts belongs to the transport layer.
type BatchResult struct {
	Success               bool            `json:"success"`
	TotalURLs             int             `json:"total_urls"`
	SuccessfulScrapes     int             `json:"successful_scrapes"`
	FailedScrapes         int             `json:"failed_scrapes"`
	Results               []*ScrapeResult `json:"results"`
	ProcessingTime        float64         `json:"processing_time"`
	Timestamp             string          `json:"timestamp"`
	TotalWords            int             `json:"total_words"`
	TotalContentLength    int             `json:"total_content_length"`
	AverageProcessingTime float64         `json:"average_processing_time"`
}

// NewBatchResult derives the aggregate fields from the collected results.
// elapsed is the wall clock for the whole batch, not the sum of per-item
// times.
func NewBatchResult(results []*ScrapeResult, elapsed time.Duration) *BatchResult {
	b := &BatchResult{
		Success:        true,
		TotalURLs:      len(results),
		Results:        results,
		ProcessingTime: elapsed.Seconds(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}

	var timed int
	var timeSum float64
	for _, r := range results {
		if r.Success {
			b.SuccessfulScrapes++
			b.TotalWords += r.WordCount
			b.TotalContentLength += r.Length
		} else {
			b.FailedScrapes++
		}
		if r.ProcessingTime > 0 {
			timed++
			timeSum += r.ProcessingTime
		}
	}
	if timed > 0 {
		b.AverageProcessingTime = timeSum / float64(timed)
	}
	return b
}
