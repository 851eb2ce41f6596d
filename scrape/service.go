// Package scrape orchestrates the scrape workflow: validate the URL, render
// the page, normalize the content, and assemble a typed result. Errors never
// escape to callers; every failure is captured into the result it produced.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/normalize"
	"github.com/use-agent/distill/renderer"
	"github.com/use-agent/distill/validate"
)

// Service runs single and batch scrapes. Construct once and share; all
// methods are safe for concurrent use.
type Service struct {
	cfg       config.ScraperConfig
	processor *normalize.Processor
	renderer  renderer.Renderer
}

// NewService wires the orchestrator to its collaborators.
func NewService(cfg config.ScraperConfig, processor *normalize.Processor, r renderer.Renderer) *Service {
	return &Service{cfg: cfg, processor: processor, renderer: r}
}

// Single scrapes one URL. It never returns an error: any failure along the
// validate → render → normalize path is captured into the result, with
// processing time measured from entry to exit regardless of outcome.
func (s *Service) Single(ctx context.Context, url string, opts models.ScrapeOptions) (result *models.ScrapeResult) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("scrape panicked", "url", url, "panic", r)
			result = models.NewFailureResult(url,
				models.NewScrapeError(models.KindBrowser,
					fmt.Sprintf("unexpected error scraping %s: %v", url, r), nil).
					WithDetail("url", url),
				time.Since(start))
		}
	}()

	if !validate.IsValid(url) {
		return models.NewFailureResult(url,
			models.NewScrapeError(models.KindValidation,
				fmt.Sprintf("invalid URL: %s", url), nil).
				WithDetail("field", "url").WithDetail("value", url),
			time.Since(start))
	}

	slog.Info("starting scrape", "url", url)

	if s.cfg.MaxWaitTime > 0 && opts.WaitTime > s.cfg.MaxWaitTime {
		opts.WaitTime = s.cfg.MaxWaitTime
	}
	waitSeconds := opts.WaitTime

	selectors, err := validate.Selectors(opts.RemoveElements)
	if err != nil {
		return models.NewFailureResult(url, models.AsScrapeError(err, models.KindValidation), time.Since(start))
	}
	selectors = append(selectors, s.cfg.DefaultRemoveElements...)

	renderCtx, cancel := context.WithTimeout(ctx, opts.WaitBudget())
	defer cancel()

	rendered, err := s.renderer.Render(renderCtx, url, renderer.RenderOptions{
		Headless:     opts.Headless,
		IncludeTitle: opts.IncludeTitle,
	})
	if err != nil {
		return models.NewFailureResult(url, classifyRenderError(err, url, waitSeconds), time.Since(start))
	}

	title := ""
	if opts.IncludeTitle {
		title = rendered.Title
	}

	processed, err := s.processor.Process(rendered.HTML, title, url, opts.OutputFormat, selectors)
	if err != nil {
		return models.NewFailureResult(url,
			models.AsScrapeError(err, models.KindContentProcessing), time.Since(start))
	}

	var metadata map[string]string
	if opts.ExtractMetadata {
		metadata = normalize.ExtractMetadata(rendered.HTML, url)
	}

	elapsed := time.Since(start)
	result = models.NewSuccessResult(url, elapsed)
	result.Title = title
	result.Content = processed.Content
	result.HTML = processed.HTML
	result.Metadata = metadata
	result.Length = len(processed.Content)
	result.WordCount = len(strings.Fields(processed.Content))

	slog.Info("scrape finished", "url", url, "seconds", elapsed.Seconds())
	return result
}
