package renderer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/use-agent/distill/config"
)

// configToProto maps human-readable config strings to Rod protocol resource
// types.
var configToProto = map[string]proto.NetworkResourceType{
	"Image":      proto.NetworkResourceTypeImage,
	"Stylesheet": proto.NetworkResourceTypeStylesheet,
	"Font":       proto.NetworkResourceTypeFont,
	"Media":      proto.NetworkResourceTypeMedia,
	"Script":     proto.NetworkResourceTypeScript,
}

// Rod renders pages with a shared Chromium instance. Each render runs in its
// own incognito browser context so page state never leaks between concurrent
// scrapes; a semaphore caps concurrent pages at the configured pool size.
//
// Browsers are launched lazily per headless mode: the configured default mode
// is launched at construction, the other only if a request ever asks for it.
type Rod struct {
	cfg         config.BrowserConfig
	blocked     map[proto.NetworkResourceType]struct{}
	mu          sync.Mutex
	browsers    map[bool]*rod.Browser // keyed by headless
	sem         chan struct{}
	activePages atomic.Int32
}

// NewRod launches the default-mode browser and prepares the page semaphore.
func NewRod(cfg config.BrowserConfig, blockedResources []string) (*Rod, error) {
	blocked := make(map[proto.NetworkResourceType]struct{}, len(blockedResources))
	for _, name := range blockedResources {
		if rt, ok := configToProto[name]; ok {
			blocked[rt] = struct{}{}
		}
	}

	r := &Rod{
		cfg:      cfg,
		blocked:  blocked,
		browsers: make(map[bool]*rod.Browser, 2),
		sem:      make(chan struct{}, cfg.MaxPages),
	}

	if _, err := r.browser(cfg.Headless); err != nil {
		return nil, err
	}
	return r, nil
}

// browser returns the (lazily launched) browser for the given headless mode.
func (r *Rod) browser(headless bool) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.browsers[headless]; ok {
		return b, nil
	}

	l := launcher.New().
		Headless(headless).
		NoSandbox(r.cfg.NoSandbox)

	if r.cfg.BrowserBin != "" {
		l = l.Bin(r.cfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser (headless=%v): %w", headless, err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	slog.Info("browser launched", "headless", headless, "controlURL", controlURL)
	r.browsers[headless] = b
	return b, nil
}

// Render navigates to the URL in a fresh incognito context and returns the
// DOM-content-loaded HTML.
//
// Order matters inside: the resource hijack and stealth JS must be installed
// before Navigate, or they do not apply to the navigation.
func (r *Rod) Render(ctx context.Context, targetURL string, opts RenderOptions) (*RenderResult, error) {
	// Acquire a page slot, honoring cancellation while waiting.
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for page slot: %w", ctx.Err())
	}
	defer func() { <-r.sem }()

	r.activePages.Add(1)
	defer r.activePages.Add(-1)

	browser, err := r.browser(opts.Headless)
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("create incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	// Close with the original page reference so cleanup succeeds even after
	// the request context has expired.
	defer func() { _ = page.Close() }()

	if opts.Stealth || r.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr)
		}
	}

	// Referer makes some origins serve full pages instead of bot walls.
	if u, parseErr := url.Parse(targetURL); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(page)
	}

	router := r.setupHijack(page)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	if err := p.Navigate(targetURL); err != nil {
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	// DOM-content-loaded semantics: wait for the DOM to stop mutating
	// rather than for network idle, which JS-heavy pages may never reach.
	if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
		slog.Debug("DOM did not stabilize, proceeding with current state",
			"url", targetURL, "error", stableErr)
	}

	html, err := p.HTML()
	if err != nil {
		return nil, fmt.Errorf("extract page HTML: %w", err)
	}

	result := &RenderResult{HTML: html}
	if opts.IncludeTitle {
		if res, evalErr := p.Eval(`() => document.title`); evalErr == nil {
			result.Title = res.Value.Str()
		}
	}
	return result, nil
}

// setupHijack aborts sub-resource requests of the blocked types (images,
// fonts, media) before navigation completes. Returns nil when there is
// nothing to block.
func (r *Rod) setupHijack(page *rod.Page) *rod.HijackRouter {
	if len(r.blocked) == 0 {
		return nil
	}

	router := page.HijackRequests()
	_ = router.Add("*", "", func(hctx *rod.Hijack) {
		if _, shouldBlock := r.blocked[hctx.Request.Type()]; shouldBlock {
			hctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		hctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks until router.Stop() is called.
	go router.Run()
	return router
}

// Stats reports the page slot utilisation.
func (r *Rod) Stats() (maxPages, activePages int) {
	return r.cfg.MaxPages, int(r.activePages.Load())
}

// Close kills every launched browser. Call on graceful shutdown to prevent
// zombie Chrome processes.
func (r *Rod) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for headless, b := range r.browsers {
		slog.Info("closing browser", "headless", headless)
		_ = b.Close()
	}
	r.browsers = make(map[bool]*rod.Browser)
}
