package normalize

import (
	"strings"
	"testing"
)

func TestCleanupMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"collapses newline runs",
			"para one\n\n\n\n\npara two",
			"para one\n\npara two",
		},
		{
			"strips trailing spaces",
			"line one   \nline two",
			"line one\nline two",
		},
		{
			"removes empty links",
			"before [](https://example.com/x) after",
			"before  after",
		},
		{
			"removes empty bracket lines",
			"text\n[]\nmore",
			"text\n\nmore",
		},
		{
			"normalizes horizontal rules",
			"above\n\n----------\n\nbelow",
			"above\n\n---\n\nbelow",
		},
		{
			"normalizes underscore rules",
			"above\n\n_____\n\nbelow",
			"above\n\n---\n\nbelow",
		},
		{
			"removes empty headers",
			"text\n###\nmore",
			"text\n\nmore",
		},
		{
			"normalizes bullets",
			"* first\n+ second\n-   third",
			"- first\n- second\n- third",
		},
		{
			"normalizes header spacing",
			"#Title\n##   Sub",
			"# Title\n## Sub",
		},
		{
			"trims document",
			"\n\n  \ncontent\n \n\n",
			"content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanupMarkdown(tt.in); got != tt.want {
				t.Errorf("CleanupMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanupMarkdown_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain paragraph",
		"#Header\n\n\n\n* bullet  \n[]\n----\n[](x)\n###\n\ntext   ",
		"# A\n\ncontent with [link](https://example.com) kept\n\n```\ncode   \n```",
		"_____\n* a\n+ b\n- c\n\n\n\n##heading",
		strings.Repeat("line with trailing  \n\n\n", 10),
		"[]()\n[]\n[] \n#\n######\n",
	}

	for _, in := range inputs {
		once := CleanupMarkdown(in)
		twice := CleanupMarkdown(once)
		if once != twice {
			t.Errorf("cleanup not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestWrapMarkdown(t *testing.T) {
	in := "one two three four five six seven"
	got := wrapMarkdown(in, 12)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Errorf("line longer than width: %q", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != in {
		t.Errorf("wrapping lost words: %q", got)
	}

	if got := wrapMarkdown(in, 0); got != in {
		t.Errorf("width 0 should disable wrapping, got %q", got)
	}

	fenced := "```\na very long code line that must never be wrapped at all\n```"
	if got := wrapMarkdown(fenced, 10); got != fenced {
		t.Errorf("code fence was wrapped: %q", got)
	}
}
