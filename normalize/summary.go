package normalize

import (
	"regexp"
	"strings"
)

var (
	reMarkdownPunct = regexp.MustCompile("[#*_`\\[\\]()]")
	reNewlineRuns   = regexp.MustCompile(`\n+`)
	reSpaceRuns     = regexp.MustCompile(`\s+`)
)

// Summarize extracts a plain-text summary of at most maxLength characters.
//
// Markdown punctuation is stripped and whitespace collapsed first. The cut
// point prefers the last sentence-ending punctuation when it falls at least
// 70% into the limit, then the last word boundary when it falls at least 80%
// in (with an ellipsis), and otherwise truncates hard with an ellipsis.
func Summarize(content string, maxLength int) string {
	text := reMarkdownPunct.ReplaceAllString(content, "")
	text = reNewlineRuns.ReplaceAllString(text, " ")
	text = strings.TrimSpace(reSpaceRuns.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	truncated := string(runes[:maxLength])

	sentenceEnd := lastIndexAny(truncated, ".!?")
	if float64(sentenceEnd) > float64(maxLength)*0.7 {
		return truncated[:sentenceEnd+1]
	}

	if lastSpace := strings.LastIndexByte(truncated, ' '); float64(lastSpace) > float64(maxLength)*0.8 {
		return truncated[:lastSpace] + "..."
	}

	return truncated + "..."
}

// lastIndexAny returns the highest index of any byte from chars in s, or -1.
func lastIndexAny(s, chars string) int {
	best := -1
	for _, c := range chars {
		if i := strings.LastIndexByte(s, byte(c)); i > best {
			best = i
		}
	}
	return best
}
