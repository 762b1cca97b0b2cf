package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := SplitText("short", 100, 10)
		if len(chunks) != 1 || chunks[0] != "short" {
			t.Errorf("chunks = %v, want [short]", chunks)
		}
	})

	t.Run("long text split with overlap", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := SplitText(text, 100, 20)

		if len(chunks) != 3 {
			t.Fatalf("chunks = %d, want 3", len(chunks))
		}
		if len(chunks[0]) != 100 || len(chunks[1]) != 100 {
			t.Errorf("full chunks should be 100 runes")
		}
		// step is 80, so the last chunk starts at 160
		if len(chunks[2]) != 90 {
			t.Errorf("tail chunk = %d runes, want 90", len(chunks[2]))
		}
	})

	t.Run("overlap greater than chunk size degrades to no overlap", func(t *testing.T) {
		text := strings.Repeat("b", 30)
		chunks := SplitText(text, 10, 15)
		if len(chunks) != 3 {
			t.Errorf("chunks = %d, want 3", len(chunks))
		}
	})

	t.Run("multibyte runes never cut", func(t *testing.T) {
		text := strings.Repeat("日本語テキスト", 40)
		chunks := SplitText(text, 50, 5)
		for i, c := range chunks {
			for _, r := range c {
				if r == '�' {
					t.Fatalf("chunk %d contains a broken rune", i)
				}
			}
		}
	})
}

func TestHeadChunk(t *testing.T) {
	t.Run("short text returned whole", func(t *testing.T) {
		if got := HeadChunk("tiny", 100); got != "tiny" {
			t.Errorf("got %q, want tiny", got)
		}
	})

	t.Run("long text capped", func(t *testing.T) {
		text := strings.Repeat("x", 500)
		got := HeadChunk(text, 100)
		if len(got) != 100 {
			t.Errorf("len = %d, want 100", len(got))
		}
	})
}
