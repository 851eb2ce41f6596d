// Package normalize converts rendered page HTML into clean markdown and/or
// cleaned HTML: script/style stripping, html-to-markdown conversion, a
// deterministic markdown cleanup pipeline, plus summary/statistics helpers.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/validate"
)

// Processor runs the content normalization pipeline. The configuration and
// the markdown converter are fixed at construction; Process is safe for
// concurrent use.
type Processor struct {
	cfg  config.ContentConfig
	conv *converter.Converter
}

// NewProcessor builds a Processor from immutable content configuration.
func NewProcessor(cfg config.ContentConfig) *Processor {
	return &Processor{
		cfg:  cfg,
		conv: newMarkdownConverter(),
	}
}

// Processed carries the normalized outputs. Fields are populated per the
// requested output format.
type Processed struct {
	Content string // markdown
	HTML    string // cleaned HTML
}

// Process converts rendered HTML into the requested output format(s).
//
// format is one of models.FormatMarkdown, FormatHTML, FormatBoth. sourceURL
// resolves relative links that survive the pre-filter; removeSelectors are
// stripped from the DOM before conversion. A non-blank title is prepended as
// an H1 after cleanup so the cleanup rules only ever see the body.
func (p *Processor) Process(htmlContent, title, sourceURL, format string, removeSelectors []string) (*Processed, error) {
	if len(htmlContent) > p.cfg.MaxContentBytes {
		return nil, models.NewScrapeError(models.KindContentProcessing,
			fmt.Sprintf("content too large: %d bytes (max %d)", len(htmlContent), p.cfg.MaxContentBytes), nil).
			WithDetail("processing_stage", "validation")
	}

	out := &Processed{}

	if format == models.FormatHTML || format == models.FormatBoth {
		out.HTML = CleanHTML(htmlContent)
	}

	if format == models.FormatMarkdown || format == models.FormatBoth {
		md, err := p.htmlToMarkdown(htmlContent, title, sourceURL, removeSelectors)
		if err != nil {
			return nil, models.NewScrapeError(models.KindContentProcessing,
				fmt.Sprintf("error converting HTML to markdown: %v", err), err).
				WithDetail("processing_stage", "html_to_markdown")
		}

		if len(strings.TrimSpace(md)) < p.cfg.MinContentLength {
			slog.Warn("content shorter than configured minimum",
				"length", len(md), "min", p.cfg.MinContentLength, "url", sourceURL)
		}
		out.Content = md
	}

	return out, nil
}

func (p *Processor) htmlToMarkdown(htmlContent, title, sourceURL string, removeSelectors []string) (string, error) {
	filtered := p.prefilter(htmlContent, removeSelectors)

	md, err := p.toMarkdown(filtered, validate.Domain(sourceURL))
	if err != nil {
		return "", err
	}

	md = CleanupMarkdown(md)
	if !p.cfg.UnicodeSnob {
		md = asciiPunctuation(md)
	}
	md = wrapMarkdown(md, p.cfg.BodyWidth)

	if t := strings.TrimSpace(title); t != "" {
		md = "# " + t + "\n\n" + md
	}
	return md, nil
}

// asciiPunctuation downgrades common typographic unicode punctuation to
// ASCII equivalents.
var asciiPunctuation = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
	"–", "-", "—", "--",
	"…", "...",
	" ", " ",
).Replace
