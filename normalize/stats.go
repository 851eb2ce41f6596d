package normalize

import (
	"regexp"
	"strings"

	"github.com/use-agent/distill/models"
)

var (
	reHeaderLines    = regexp.MustCompile(`(?m)^#+`)
	reMarkdownLinks  = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	codeFenceMarker  = "```"
)

// Stats counts basic and markdown-specific statistics for a piece of
// content. It never fails; callers get zeroed markdown fields at worst.
func Stats(content string) models.ContentStats {
	return models.ContentStats{
		Characters: len(content),
		Words:      len(strings.Fields(content)),
		Lines:      len(strings.Split(content, "\n")),
		Headers:    len(reHeaderLines.FindAllString(content, -1)),
		Links:      len(reMarkdownLinks.FindAllString(content, -1)),
		CodeBlocks: strings.Count(content, codeFenceMarker) / 2,
	}
}
