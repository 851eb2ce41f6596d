package scrape

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/use-agent/distill/models"
)

// Batch scrapes all URLs with a bounded worker pool and returns once every
// task has completed. One URL's failure never aborts or blocks the others;
// per-item outcomes are reported inside the aggregated result, and the
// result's Success flag means only that the batch executed to completion.
func (s *Service) Batch(ctx context.Context, urls []string, opts models.ScrapeOptions) *models.BatchResult {
	start := time.Now()

	workers := opts.MaxConcurrent
	if s.cfg.MaxConcurrentRequests > 0 && workers > s.cfg.MaxConcurrentRequests {
		workers = s.cfg.MaxConcurrentRequests
	}
	if workers > len(urls) {
		workers = len(urls)
	}
	if workers < 1 {
		workers = 1
	}

	slog.Info("starting batch scrape", "urls", len(urls), "workers", workers)

	// Results are written by index, so no two workers ever touch the same
	// slot. Completion order is not input order.
	results := make([]*models.ScrapeResult, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = s.Single(ctx, urls[idx], opts)

				// Pace this worker slot before it accepts further work.
				if d := opts.Delay(); d > 0 {
					select {
					case <-time.After(d):
					case <-ctx.Done():
					}
				}
			}
		}()
	}

	for idx := range urls {
		jobs <- idx
	}
	close(jobs)

	// The pool is fully drained before Batch returns, on every path.
	wg.Wait()

	batch := models.NewBatchResult(results, time.Since(start))
	slog.Info("batch scrape completed",
		"successful", batch.SuccessfulScrapes,
		"failed", batch.FailedScrapes,
		"total", batch.TotalURLs,
		"seconds", batch.ProcessingTime,
	)
	return batch
}
