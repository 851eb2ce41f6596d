package normalize

import (
	"strings"
	"testing"
)

func TestSummarize(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		if got := Summarize("Just a few words.", 200); got != "Just a few words." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("markdown punctuation stripped", func(t *testing.T) {
		got := Summarize("# Header\n\nSome *bold* and [linked](url) text.", 200)
		for _, banned := range []string{"#", "*", "[", "]", "(", ")"} {
			if strings.Contains(got, banned) {
				t.Errorf("summary contains %q: %q", banned, got)
			}
		}
		if !strings.Contains(got, "Header") || !strings.Contains(got, "bold") {
			t.Errorf("summary lost words: %q", got)
		}
	})

	t.Run("cuts at sentence boundary", func(t *testing.T) {
		// The period falls at index 9 of 12, past the 70% threshold.
		got := Summarize("Short one. Second sentence here.", 12)
		if got != "Short one." {
			t.Errorf("got %q, want %q", got, "Short one.")
		}
	})

	t.Run("falls back to word boundary", func(t *testing.T) {
		got := Summarize("A sentence. Another one here that is long.", 20)
		if got != "A sentence. Another..." {
			t.Errorf("got %q, want %q", got, "A sentence. Another...")
		}
	})

	t.Run("hard truncation", func(t *testing.T) {
		got := Summarize("Supercalifragilisticexpialidocious indeed", 10)
		if got != "Supercalif..." {
			t.Errorf("got %q, want %q", got, "Supercalif...")
		}
	})
}

func TestStats(t *testing.T) {
	content := "# Title\n\n## Sub\n\nSome body text with a [link](https://example.com).\n\n```\ncode here\n```\n"

	got := Stats(content)
	if got.Characters != len(content) {
		t.Errorf("characters = %d, want %d", got.Characters, len(content))
	}
	if got.Headers != 2 {
		t.Errorf("headers = %d, want 2", got.Headers)
	}
	if got.Links != 1 {
		t.Errorf("links = %d, want 1", got.Links)
	}
	if got.CodeBlocks != 1 {
		t.Errorf("code blocks = %d, want 1", got.CodeBlocks)
	}
	if got.Words == 0 || got.Lines == 0 {
		t.Errorf("zeroed basic counts: %+v", got)
	}
}

func TestStats_Empty(t *testing.T) {
	got := Stats("")
	if got.Characters != 0 || got.Words != 0 || got.Headers != 0 || got.Links != 0 || got.CodeBlocks != 0 {
		t.Errorf("empty content should zero counts: %+v", got)
	}
	if got.Lines != 1 {
		t.Errorf("lines = %d, want 1 (split of empty string)", got.Lines)
	}
}
