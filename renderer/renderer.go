// Package renderer abstracts the page-rendering capability: fetch a URL,
// execute it until DOM content is loaded, and hand back HTML plus title.
// Two implementations exist: a Rod-driven headless browser and a plain
// HTTP client for JS-less deployments.
package renderer

import "context"

// RenderOptions carries the per-render settings.
type RenderOptions struct {
	// Headless controls the browser mode for this render.
	Headless bool

	// IncludeTitle asks the renderer to report the page title.
	IncludeTitle bool

	// Stealth enables anti-bot-detection JS injection before navigation.
	Stealth bool
}

// RenderResult is what a renderer hands back on success.
type RenderResult struct {
	// HTML is the rendered page markup.
	HTML string

	// Title is the page title. Empty unless IncludeTitle was set.
	Title string
}

// Renderer is the opaque page-rendering capability the orchestrator consumes.
// Render must honor ctx cancellation and deadline; a deadline overrun is
// reported by returning an error wrapping context.DeadlineExceeded.
type Renderer interface {
	Render(ctx context.Context, url string, opts RenderOptions) (*RenderResult, error)
	Stats() (maxPages, activePages int)
	Close()
}
