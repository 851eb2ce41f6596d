package renderer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/html"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodyBytes caps how much of a response body the HTTP renderer reads.
const maxBodyBytes = 10 * 1024 * 1024

// HTTPClient is the Renderer for JS-less deployments: a plain GET with a
// Chrome TLS fingerprint. Pages that require JavaScript come back as their
// server-rendered shell; Headless and Stealth options do not apply.
type HTTPClient struct {
	active atomic.Int32
}

// NewHTTPClient creates the HTTP renderer.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{}
}

// Render fetches the URL over HTTP and extracts the <title>.
func (f *HTTPClient) Render(ctx context.Context, targetURL string, opts RenderOptions) (*RenderResult, error) {
	f.active.Add(1)
	defer f.active.Add(-1)

	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpfetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("httpfetch: HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("httpfetch: read body: %w", err)
	}

	result := &RenderResult{HTML: string(body)}
	if opts.IncludeTitle {
		result.Title = extractTitle(body)
	}
	return result, nil
}

// Stats reports in-flight fetches. The HTTP renderer has no page pool, so
// maxPages is 0.
func (f *HTTPClient) Stats() (maxPages, activePages int) {
	return 0, int(f.active.Load())
}

// Close is a no-op; the renderer holds no long-lived resources.
func (f *HTTPClient) Close() {}

// dialTLSChrome establishes a TLS connection with a Chrome fingerprint.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
	}, utls.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}

// extractTitle pulls the <title> content from raw HTML bytes.
func extractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
