package normalize

import "testing"

func TestExtractMetadata(t *testing.T) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
<meta name="description" content="A guide to web scraping">
<meta name="keywords" content="scraping, automation">
<meta name="author" content="Jane Smith">
<meta property="article:published_time" content="2024-01-15T10:30:00Z">
<link rel="canonical" href="https://example.com/guide">
<title>Guide</title>
</head>
<body><article><p>Body</p></article></body>
</html>`

	meta := ExtractMetadata(html, "https://example.com/guide")

	want := map[string]string{
		"description":    "A guide to web scraping",
		"keywords":       "scraping, automation",
		"author":         "Jane Smith",
		"published_date": "2024-01-15T10:30:00Z",
		"canonical_url":  "https://example.com/guide",
		"language":       "en",
	}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("meta[%q] = %q, want %q", k, meta[k], v)
		}
	}
}

func TestExtractMetadata_DateFallback(t *testing.T) {
	html := `<html><head></head><body><time datetime="2023-06-01">June</time></body></html>`
	meta := ExtractMetadata(html, "https://example.com")
	if meta["published_date"] != "2023-06-01" {
		t.Errorf("published_date = %q, want 2023-06-01", meta["published_date"])
	}
}

func TestExtractMetadata_MissingFieldsAbsent(t *testing.T) {
	meta := ExtractMetadata("<html><body><p>nothing here</p></body></html>", "https://example.com")
	for _, k := range []string{"description", "keywords", "author", "canonical_url", "published_date"} {
		if v, ok := meta[k]; ok && v == "" {
			t.Errorf("meta[%q] present but empty", k)
		}
	}
}
