package normalize

import (
	"regexp"
	"strings"
)

// The markdown cleanup pipeline. Every rule is applied in a fixed order and
// the whole pipeline is idempotent: CleanupMarkdown(CleanupMarkdown(x)) ==
// CleanupMarkdown(x).
var (
	reExcessNewlines = regexp.MustCompile(`\n{3,}`)
	reTrailingSpaces = regexp.MustCompile(` +\n`)
	reEmptyLinks     = regexp.MustCompile(`\[\]\([^)]*\)`)
	reEmptyBrackets  = regexp.MustCompile(`(?m)^\[\]\s*$`)
	reHorizontalRule = regexp.MustCompile(`(?m)^[-_]{3,}$`)
	reEmptyHeaders   = regexp.MustCompile(`(?m)^#+\s*$`)
	reBlankRuns      = regexp.MustCompile(`\n\s*\n\s*\n`)
	reBulletMarkers  = regexp.MustCompile(`(?m)^[*\-+]\s+`)
	reHeaderSpacing  = regexp.MustCompile(`(?m)^(#{1,6})\s*(.+)$`)
)

// CleanupMarkdown normalizes converter output into tidy markdown:
// collapsed blank runs, no trailing spaces, no empty link/header artifacts,
// uniform horizontal rules, bullets and header spacing.
func CleanupMarkdown(markdown string) string {
	markdown = reExcessNewlines.ReplaceAllString(markdown, "\n\n")
	markdown = reTrailingSpaces.ReplaceAllString(markdown, "\n")
	markdown = reEmptyLinks.ReplaceAllString(markdown, "")
	markdown = reEmptyBrackets.ReplaceAllString(markdown, "")
	markdown = reHorizontalRule.ReplaceAllString(markdown, "---")
	markdown = reEmptyHeaders.ReplaceAllString(markdown, "")
	markdown = reBlankRuns.ReplaceAllString(markdown, "\n\n")

	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	markdown = strings.Join(lines, "\n")

	markdown = strings.TrimSpace(markdown)
	markdown = reBulletMarkers.ReplaceAllString(markdown, "- ")
	markdown = reHeaderSpacing.ReplaceAllString(markdown, "$1 $2")

	return markdown
}

// wrapMarkdown soft-wraps body text at the given column, leaving fenced code
// blocks, headers, and rules untouched. A width of 0 disables wrapping.
func wrapMarkdown(markdown string, width int) string {
	if width <= 0 {
		return markdown
	}

	var out []string
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence || len(line) <= width ||
			strings.HasPrefix(trimmed, "#") || trimmed == "---" {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var wrapped []string
	current := words[0]
	for _, w := range words[1:] {
		if len(current)+1+len(w) > width {
			wrapped = append(wrapped, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(wrapped, current)
}
