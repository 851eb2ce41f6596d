// Command distill-mcp exposes the distill HTTP API as MCP tools over stdio,
// so agent runtimes can scrape pages without speaking HTTP themselves.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeResult mirrors the distill API scrape result model.
type scrapeResult struct {
	Success   bool              `json:"success"`
	URL       string            `json:"url"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
	WordCount int               `json:"word_count"`
	Error     string            `json:"error"`
	ErrorKind string            `json:"error_kind"`
}

// batchResult mirrors the distill API batch result model.
type batchResult struct {
	Success           bool              `json:"success"`
	TotalURLs         int               `json:"total_urls"`
	SuccessfulScrapes int               `json:"successful_scrapes"`
	FailedScrapes     int               `json:"failed_scrapes"`
	Results           []json.RawMessage `json:"results"`
}

func main() {
	apiURL := os.Getenv("DISTILL_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("DISTILL_API_KEY")

	s := server.NewMCPServer(
		"distill",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeURLTool := mcp.NewTool("scrape_url",
		mcp.WithDescription("Scrape a web page and return its main content as clean markdown. Uses a headless browser to render JavaScript-heavy pages."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to scrape"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'html', or 'both'"),
			mcp.Enum("markdown", "html", "both"),
		),
		mcp.WithNumber("wait_time",
			mcp.Description("Seconds to wait for the page to render (default: 5, max: 30)"),
		),
		mcp.WithBoolean("extract_metadata",
			mcp.Description("Also extract page metadata (description, author, publication date)"),
		),
	)
	s.AddTool(scrapeURLTool, handleScrapeURL(apiURL, apiKey))

	batchScrapeTool := mcp.NewTool("batch_scrape",
		mcp.WithDescription("Scrape multiple URLs concurrently and return cleaned markdown for each. Useful for gathering content from many pages at once."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("List of URLs to scrape (max 50)"),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format: 'markdown' (default), 'html', or 'both'"),
			mcp.Enum("markdown", "html", "both"),
		),
		mcp.WithNumber("max_concurrent",
			mcp.Description("Maximum concurrent scrapes (default: 3, max: 10)"),
		),
	)
	s.AddTool(batchScrapeTool, handleBatchScrape(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the distill API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleScrapeURL(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		payload := map[string]interface{}{"url": url}
		if format := request.GetString("output_format", ""); format != "" {
			payload["output_format"] = format
		}
		if wait := request.GetInt("wait_time", 0); wait > 0 {
			payload["wait_time"] = wait
		}
		if request.GetBool("extract_metadata", false) {
			payload["extract_metadata"] = true
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("scrape request failed: %v", err)), nil
		}

		var result scrapeResult
		if err := json.Unmarshal(respBody, &result); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !result.Success {
			return mcp.NewToolResultError(formatFailure(&result)), nil
		}

		return mcp.NewToolResultText(formatResult(&result)), nil
	}
}

func handleBatchScrape(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{"urls": urls}
		if format := request.GetString("output_format", ""); format != "" {
			payload["output_format"] = format
		}
		if mc := request.GetInt("max_concurrent", 0); mc > 0 {
			payload["max_concurrent"] = mc
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/scrape/batch", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batch batchResult
		if err := json.Unmarshal(respBody, &batch); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch: %d/%d succeeded, %d failed\n\n",
			batch.SuccessfulScrapes, batch.TotalURLs, batch.FailedScrapes))

		for i, raw := range batch.Results {
			var sr scrapeResult
			if err := json.Unmarshal(raw, &sr); err != nil {
				sb.WriteString(fmt.Sprintf("--- [%d] parse error ---\n\n", i+1))
				continue
			}
			if sr.Success {
				sb.WriteString(fmt.Sprintf("--- [%d] %s ---\n%s\n\n", i+1, sr.URL, formatResult(&sr)))
			} else {
				sb.WriteString(fmt.Sprintf("--- [%d] %s FAILED: %s ---\n\n", i+1, sr.URL, formatFailure(&sr)))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// formatResult renders a successful scrape with a small metadata header.
func formatResult(r *scrapeResult) string {
	var sb strings.Builder
	if r.Title != "" {
		sb.WriteString("Title: " + r.Title + "\n")
	}
	if desc, ok := r.Metadata["description"]; ok && desc != "" {
		sb.WriteString("Description: " + desc + "\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(r.Content)
	return sb.String()
}

// formatFailure renders a failed scrape as "[kind] message".
func formatFailure(r *scrapeResult) string {
	if r.Error == "" {
		return "scrape failed"
	}
	if r.ErrorKind != "" {
		return fmt.Sprintf("[%s] %s", r.ErrorKind, r.Error)
	}
	return r.Error
}
