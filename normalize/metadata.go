package normalize

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// publishedDateSelectors are tried in order; the first non-empty value wins.
var publishedDateSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="article:published_time"]`, "content"},
	{`meta[name="publication_date"]`, "content"},
	{`meta[name="date"]`, "content"},
	{`time[datetime]`, "datetime"},
}

// ExtractMetadata pulls page-level metadata out of rendered HTML:
// description, keywords, author, published date, canonical URL and language
// from the document head, enriched with byline/site name/excerpt from a
// readability parse when one succeeds.
//
// Extraction is best-effort. Missing fields are simply absent from the map;
// the function never fails.
func ExtractMetadata(rawHTML, sourceURL string) map[string]string {
	meta := make(map[string]string)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Warn("metadata: HTML parse failed", "url", sourceURL, "error", err)
		return meta
	}

	setIfPresent := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			meta[key] = v
		}
	}

	setIfPresent("description", doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))
	setIfPresent("keywords", doc.Find(`meta[name="keywords"]`).First().AttrOr("content", ""))
	setIfPresent("author", doc.Find(`meta[name="author"]`).First().AttrOr("content", ""))
	setIfPresent("canonical_url", doc.Find(`link[rel="canonical"]`).First().AttrOr("href", ""))
	setIfPresent("language", doc.Find("html").First().AttrOr("lang", ""))

	for _, pd := range publishedDateSelectors {
		if v := doc.Find(pd.selector).First().AttrOr(pd.attr, ""); strings.TrimSpace(v) != "" {
			meta["published_date"] = strings.TrimSpace(v)
			break
		}
	}

	enrichFromReadability(meta, rawHTML, sourceURL)
	return meta
}

// enrichFromReadability fills byline, site name and excerpt from a
// readability parse. Failures are logged and ignored; the head-tag values
// above always take precedence.
func enrichFromReadability(meta map[string]string, rawHTML, sourceURL string) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("metadata: readability parse failed", "url", sourceURL, "error", err)
		return
	}

	if _, ok := meta["author"]; !ok && strings.TrimSpace(article.Byline) != "" {
		meta["author"] = strings.TrimSpace(article.Byline)
	}
	if _, ok := meta["description"]; !ok && strings.TrimSpace(article.Excerpt) != "" {
		meta["description"] = strings.TrimSpace(article.Excerpt)
	}
	if strings.TrimSpace(article.SiteName) != "" {
		meta["site_name"] = strings.TrimSpace(article.SiteName)
	}
	if _, ok := meta["language"]; !ok && strings.TrimSpace(article.Language) != "" {
		meta["language"] = strings.TrimSpace(article.Language)
	}
}
