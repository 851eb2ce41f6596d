package normalize

import (
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// newMarkdownConverter creates a reusable, goroutine-safe Converter:
//
//   - base plugin: strips script, style, iframe, noscript, head, meta, link,
//     input, textarea, HTML comments.
//   - commonmark plugin: standard Markdown rendering (headings, lists, links,
//     code blocks, emphasis, blockquotes, etc.).
//   - table plugin: preserves table structure with minimal cell padding.
//
// The converter carries no per-request state; request-level variation
// (remove-selectors, link/image policy) happens in prefilter before
// conversion, so concurrent scrapes never share mutable converter config.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// toMarkdown converts pre-filtered HTML to Markdown. The domain resolves
// relative URLs in any links that survived the pre-filter.
func (p *Processor) toMarkdown(htmlContent, domain string) (string, error) {
	return p.conv.ConvertString(htmlContent, converter.WithDomain(domain))
}

// prefilter applies the request-level HTML surgery that must happen before
// conversion: drop elements matching the remove selectors, then enforce the
// configured link/image/emphasis policy.
//
// Unknown or unparseable HTML is returned as-is; the converter downstream is
// tolerant and the caller treats prefilter as best-effort.
func (p *Processor) prefilter(rawHTML string, removeSelectors []string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	for _, sel := range removeSelectors {
		doc.Find(sel).Remove()
	}

	if p.cfg.IgnoreImages {
		doc.Find("img, picture, figure > img").Remove()
	}

	if p.cfg.IgnoreLinks {
		unwrapText(doc, "a")
	} else if p.cfg.SkipInternalLinks {
		doc.Find("a").Each(func(_ int, s *goquery.Selection) {
			if href, ok := s.Attr("href"); ok && strings.HasPrefix(href, "#") {
				s.ReplaceWithHtml(html.EscapeString(s.Text()))
			}
		})
	}

	if p.cfg.IgnoreEmphasis {
		unwrapText(doc, "em, strong, b, i")
	}

	out, err := doc.Html()
	if err != nil {
		return rawHTML
	}
	return out
}

// unwrapText replaces every element matching sel with its plain text,
// dropping the markup but keeping the content.
func unwrapText(doc *goquery.Document, sel string) {
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml(html.EscapeString(s.Text()))
	})
}
