package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/normalize"
	"github.com/use-agent/distill/renderer"
)

// fakeRenderer is a scripted Renderer that records how many renders are in
// flight at once.
type fakeRenderer struct {
	mu          sync.Mutex
	inFlight    int
	maxInFlight int

	// html returned for every URL unless errFor matches.
	html   string
	title  string
	errFor map[string]error
	sleep  time.Duration
}

func (f *fakeRenderer) Render(ctx context.Context, url string, opts renderer.RenderOptions) (*renderer.RenderResult, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.sleep > 0 {
		select {
		case <-time.After(f.sleep):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := f.errFor[url]; ok {
		return nil, err
	}

	title := ""
	if opts.IncludeTitle {
		title = f.title
	}
	return &renderer.RenderResult{HTML: f.html, Title: title}, nil
}

func (f *fakeRenderer) Stats() (int, int) { return 0, 0 }
func (f *fakeRenderer) Close()            {}

func testService(r renderer.Renderer) *Service {
	cfg := config.ScraperConfig{
		DefaultWaitTime:       5,
		MaxWaitTime:           30,
		MaxConcurrentRequests: 10,
	}
	proc := normalize.NewProcessor(config.ContentConfig{
		IgnoreLinks:       true,
		IgnoreImages:      true,
		UnicodeSnob:       true,
		SkipInternalLinks: true,
		MaxContentBytes:   20 * 1024 * 1024,
		MinContentLength:  1,
	})
	return NewService(cfg, proc, r)
}

func testOptions() models.ScrapeOptions {
	o := models.NewScrapeOptions()
	o.DelayBetweenRequests = 0 // keep tests fast
	return o
}

func TestSingle_Success(t *testing.T) {
	fake := &fakeRenderer{
		html:  "<h1>Hello</h1><p>Some article text.</p>",
		title: "Page Title",
	}
	svc := testService(fake)

	res := svc.Single(context.Background(), "https://example.com/article", testOptions())

	if !res.Success {
		t.Fatalf("scrape failed: %s (%s)", res.Error, res.ErrorKind)
	}
	if res.Title != "Page Title" {
		t.Errorf("title = %q", res.Title)
	}
	if !strings.Contains(res.Content, "Hello") || !strings.Contains(res.Content, "article text") {
		t.Errorf("content = %q", res.Content)
	}
	if res.Length != len(res.Content) {
		t.Errorf("length = %d, want %d", res.Length, len(res.Content))
	}
	if res.WordCount == 0 {
		t.Error("word count is zero")
	}
	if res.Error != "" || res.ErrorKind != "" {
		t.Errorf("success result carries error: %q %q", res.Error, res.ErrorKind)
	}
	if res.ProcessingTime < 0 {
		t.Errorf("processing time = %f", res.ProcessingTime)
	}
}

func TestSingle_InvalidURL(t *testing.T) {
	svc := testService(&fakeRenderer{html: "<p>x</p>"})

	for _, url := range []string{"ftp://example.com/x", "http://localhost/x", ""} {
		res := svc.Single(context.Background(), url, testOptions())
		if res.Success {
			t.Errorf("invalid URL %q scraped successfully", url)
		}
		if res.ErrorKind != models.KindValidation {
			t.Errorf("error kind for %q = %q, want %q", url, res.ErrorKind, models.KindValidation)
		}
	}
}

func TestSingle_FailureResultIsEmpty(t *testing.T) {
	// The renderer returns HTML, but normalization fails on the size guard:
	// the failure result must not leak any content fields.
	fake := &fakeRenderer{html: strings.Repeat("<p>filler</p>", 100)}
	svc := testService(fake)
	svc.processor = normalize.NewProcessor(config.ContentConfig{MaxContentBytes: 16})

	res := svc.Single(context.Background(), "https://example.com/big", testOptions())

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.ErrorKind != models.KindContentProcessing {
		t.Errorf("error kind = %q, want %q", res.ErrorKind, models.KindContentProcessing)
	}
	if res.Content != "" || res.HTML != "" || res.Length != 0 || res.WordCount != 0 {
		t.Errorf("failure result leaks content fields: %+v", res)
	}
}

func TestSingle_TitleExcluded(t *testing.T) {
	fake := &fakeRenderer{html: "<p>body</p>", title: "Ignored"}
	svc := testService(fake)

	opts := testOptions()
	opts.IncludeTitle = false
	res := svc.Single(context.Background(), "https://example.com/", opts)

	if !res.Success {
		t.Fatalf("scrape failed: %s", res.Error)
	}
	if res.Title != "" {
		t.Errorf("title = %q, want empty", res.Title)
	}
	if strings.HasPrefix(res.Content, "#") {
		t.Errorf("content got a title header: %q", res.Content)
	}
}

func TestClassifyRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want models.ErrorKind
	}{
		{"deadline", context.DeadlineExceeded, models.KindTimeout},
		{"wrapped deadline", fmt.Errorf("navigate: %w", context.DeadlineExceeded), models.KindTimeout},
		{"timeout message", errors.New("page load timeout after 5s"), models.KindTimeout},
		{"chromium net code", errors.New("net::ERR_NAME_NOT_RESOLVED"), models.KindNetwork},
		{"dns", errors.New("DNS lookup failed"), models.KindNetwork},
		{"no such host", errors.New("dial tcp: lookup x: no such host"), models.KindNetwork},
		{"other", errors.New("target crashed"), models.KindBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyRenderError(tt.err, "https://example.com", 5)
			if got.Kind != tt.want {
				t.Errorf("kind = %q, want %q", got.Kind, tt.want)
			}
		})
	}

	// Timeout classification must carry the wait budget.
	se := classifyRenderError(context.DeadlineExceeded, "https://example.com", 7)
	if se.Details["timeout_seconds"] != "7" {
		t.Errorf("timeout_seconds = %q, want 7", se.Details["timeout_seconds"])
	}
}

func TestBatch_ConcurrencyBound(t *testing.T) {
	fake := &fakeRenderer{
		html:  "<p>content</p>",
		sleep: 20 * time.Millisecond,
	}
	svc := testService(fake)

	urls := make([]string, 12)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://example.com/page-%d", i)
	}

	opts := testOptions()
	opts.MaxConcurrent = 3
	batch := svc.Batch(context.Background(), urls, opts)

	if fake.maxInFlight > 3 {
		t.Errorf("max in-flight renders = %d, want <= 3", fake.maxInFlight)
	}
	if batch.SuccessfulScrapes != len(urls) {
		t.Errorf("successful = %d, want %d", batch.SuccessfulScrapes, len(urls))
	}
}

func TestBatch_PartialFailure(t *testing.T) {
	urls := []string{
		"https://example.com/one",
		"https://example.com/two",
		"https://example.com/three",
	}
	fake := &fakeRenderer{
		html: "<p>fine</p>",
		errFor: map[string]error{
			urls[1]: errors.New("page load timeout exceeded"),
		},
	}
	svc := testService(fake)

	batch := svc.Batch(context.Background(), urls, testOptions())

	if !batch.Success {
		t.Error("batch success flag must be true once execution completes")
	}
	if batch.TotalURLs != 3 || batch.SuccessfulScrapes != 2 || batch.FailedScrapes != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1",
			batch.TotalURLs, batch.SuccessfulScrapes, batch.FailedScrapes)
	}

	var failed *models.ScrapeResult
	for _, r := range batch.Results {
		if !r.Success {
			failed = r
		}
	}
	if failed == nil {
		t.Fatal("no failed result found")
	}
	if failed.URL != urls[1] {
		t.Errorf("failed URL = %q, want %q", failed.URL, urls[1])
	}
	if failed.ErrorKind != models.KindTimeout {
		t.Errorf("error kind = %q, want %q", failed.ErrorKind, models.KindTimeout)
	}
}

func TestBatch_Aggregates(t *testing.T) {
	fake := &fakeRenderer{html: "<p>five words of body text</p>"}
	svc := testService(fake)

	urls := []string{"https://example.com/a", "https://example.com/b"}
	batch := svc.Batch(context.Background(), urls, testOptions())

	if batch.SuccessfulScrapes != 2 {
		t.Fatalf("successful = %d", batch.SuccessfulScrapes)
	}
	wantWords := batch.Results[0].WordCount + batch.Results[1].WordCount
	if batch.TotalWords != wantWords {
		t.Errorf("total words = %d, want %d", batch.TotalWords, wantWords)
	}
	wantLen := batch.Results[0].Length + batch.Results[1].Length
	if batch.TotalContentLength != wantLen {
		t.Errorf("total length = %d, want %d", batch.TotalContentLength, wantLen)
	}
	if batch.AverageProcessingTime < 0 {
		t.Errorf("average processing time = %f", batch.AverageProcessingTime)
	}
	if batch.ProcessingTime < 0 {
		t.Errorf("batch processing time = %f", batch.ProcessingTime)
	}
}

func TestBatch_WorkerPacing(t *testing.T) {
	fake := &fakeRenderer{html: "<p>x</p>"}
	svc := testService(fake)

	urls := []string{"https://example.com/a", "https://example.com/b"}
	opts := testOptions()
	opts.MaxConcurrent = 1
	opts.DelayBetweenRequests = 0.05

	start := time.Now()
	batch := svc.Batch(context.Background(), urls, opts)
	elapsed := time.Since(start)

	if batch.SuccessfulScrapes != 2 {
		t.Fatalf("successful = %d", batch.SuccessfulScrapes)
	}
	// One worker, two items, 50ms pacing after each: at least 100ms total.
	if elapsed < 100*time.Millisecond {
		t.Errorf("batch finished in %v, pacing not applied", elapsed)
	}
}
