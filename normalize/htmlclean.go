package normalize

import (
	"regexp"
	"strings"
)

var (
	reScriptBlocks = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	reStyleBlocks  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	reHTMLComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	reWhitespace   = regexp.MustCompile(`\s+`)
	reBlankLines   = regexp.MustCompile(`\n\s*\n`)
)

// CleanHTML strips script and style blocks (including their content),
// comments, and collapses whitespace runs. Used for the "html" output format.
func CleanHTML(htmlContent string) string {
	htmlContent = reScriptBlocks.ReplaceAllString(htmlContent, "")
	htmlContent = reStyleBlocks.ReplaceAllString(htmlContent, "")
	htmlContent = reHTMLComments.ReplaceAllString(htmlContent, "")
	htmlContent = reWhitespace.ReplaceAllString(htmlContent, " ")
	htmlContent = reBlankLines.ReplaceAllString(htmlContent, "\n")
	return strings.TrimSpace(htmlContent)
}
