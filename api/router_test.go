package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/normalize"
	"github.com/use-agent/distill/renderer"
	"github.com/use-agent/distill/scrape"
)

// stubRenderer serves canned HTML, with per-URL scripted failures.
type stubRenderer struct {
	html   string
	errFor map[string]error
}

func (s *stubRenderer) Render(ctx context.Context, url string, opts renderer.RenderOptions) (*renderer.RenderResult, error) {
	if err, ok := s.errFor[url]; ok {
		return nil, err
	}
	return &renderer.RenderResult{HTML: s.html, Title: "Stub Page"}, nil
}

func (s *stubRenderer) Stats() (int, int) { return 10, 0 }
func (s *stubRenderer) Close()            {}

func testRouter(t *testing.T, rend renderer.Renderer) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Scraper: config.ScraperConfig{
			DefaultWaitTime:       5,
			MaxWaitTime:           30,
			MaxConcurrentRequests: 10,
			RequestTimeout:        10 * time.Second,
		},
		Content: config.ContentConfig{
			IgnoreLinks:       true,
			IgnoreImages:      true,
			UnicodeSnob:       true,
			SkipInternalLinks: true,
			MaxContentBytes:   20 * 1024 * 1024,
			MinContentLength:  1,
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Cache:     config.CacheConfig{MaxEntries: 10},
	}

	processor := normalize.NewProcessor(cfg.Content)
	svc := scrape.NewService(cfg.Scraper, processor, rend)
	return NewRouter(svc, rend, cfg, cache.New(cfg.Cache.MaxEntries), time.Now())
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestScrapeEndpoint_Success(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<h1>Hi</h1><p>Body text.</p>"})

	w := postJSON(t, h, "/api/v1/scrape", `{"url": "https://example.com/page"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res models.ScrapeResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Errorf("success = false: %s", res.Error)
	}
	if !strings.Contains(res.Content, "Body text") {
		t.Errorf("content = %q", res.Content)
	}
	if res.Title != "Stub Page" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestScrapeEndpoint_BadPayload(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	tests := []struct {
		name string
		body string
	}{
		{"missing url", `{}`},
		{"malformed json", `{"url": `},
		{"bad format", `{"url": "https://example.com", "output_format": "pdf"}`},
		{"wait_time too high", `{"url": "https://example.com", "wait_time": 99}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/api/v1/scrape", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestScrapeEndpoint_FailedScrapeIs422(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	// Valid URL shape, but blocked by the safety rules.
	w := postJSON(t, h, "/api/v1/scrape", `{"url": "http://localhost/admin"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var res models.ScrapeResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Success {
		t.Error("success = true for failed scrape")
	}
	if res.ErrorKind != models.KindValidation {
		t.Errorf("error_kind = %q, want %q", res.ErrorKind, models.KindValidation)
	}
}

func TestBatchEndpoint_PartialIs207(t *testing.T) {
	rend := &stubRenderer{
		html: "<p>fine</p>",
		errFor: map[string]error{
			"https://example.com/two": context.DeadlineExceeded,
		},
	}
	h := testRouter(t, rend)

	body := `{
		"urls": ["https://example.com/one", "https://example.com/two"],
		"delay_between_requests": 0.1
	}`
	w := postJSON(t, h, "/api/v1/scrape/batch", body)
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207, body = %s", w.Code, w.Body.String())
	}

	var batch models.BatchResult
	if err := json.Unmarshal(w.Body.Bytes(), &batch); err != nil {
		t.Fatal(err)
	}
	if batch.SuccessfulScrapes != 1 || batch.FailedScrapes != 1 {
		t.Errorf("counts = %d/%d, want 1/1", batch.SuccessfulScrapes, batch.FailedScrapes)
	}
}

func TestBatchEndpoint_AllInvalidIs422(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	w := postJSON(t, h, "/api/v1/scrape/batch",
		`{"urls": ["ftp://example.com/a", "not-a-url"]}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	var res models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Error == nil || res.Error.Kind != models.KindValidation {
		t.Errorf("error = %+v, want validation kind", res.Error)
	}
}

func TestBatchEndpoint_DuplicateURLsRejected(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	w := postJSON(t, h, "/api/v1/scrape/batch",
		`{"urls": ["https://example.com/a", "https://example.com/a"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	w := postJSON(t, h, "/api/v1/summary",
		`{"content": "# Title\n\nSome body text here.", "max_length": 50}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var res models.SummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Error("success = false")
	}
	if !strings.Contains(res.Summary, "Some body text") {
		t.Errorf("summary = %q", res.Summary)
	}
	if res.Stats.Headers != 1 {
		t.Errorf("headers = %d, want 1", res.Stats.Headers)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := testRouter(t, &stubRenderer{html: "<p>x</p>"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var res models.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Status != "healthy" {
		t.Errorf("status = %q", res.Status)
	}
	if res.PoolStats.MaxPages != 10 {
		t.Errorf("max_pages = %d", res.PoolStats.MaxPages)
	}
}

func TestAuthRequired(t *testing.T) {
	rend := &stubRenderer{html: "<p>x</p>"}

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Scraper: config.ScraperConfig{DefaultWaitTime: 5, MaxWaitTime: 30, MaxConcurrentRequests: 10},
		Content: config.ContentConfig{MaxContentBytes: 1 << 20, MinContentLength: 1},
		Auth: config.AuthConfig{
			Enabled: true,
			APIKeys: []string{"secret-key"},
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
	}
	processor := normalize.NewProcessor(cfg.Content)
	svc := scrape.NewService(cfg.Scraper, processor, rend)
	h := NewRouter(svc, rend, cfg, nil, time.Now())

	// No key: 401.
	w := postJSON(t, h, "/api/v1/scrape", `{"url": "https://example.com"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without key = %d, want 401", w.Code)
	}

	// Health stays open.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	// Valid key via X-API-Key: passes auth.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/scrape",
		strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "secret-key")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized {
		t.Error("valid key rejected")
	}
}
