package service

import (
	"context"
	"strings"
	"testing"

	"notetree-be/internal/dto"

	"github.com/google/uuid"
)

func TestExtractPreview(t *testing.T) {
	t.Run("match in the middle gets a window with ellipses", func(t *testing.T) {
		prefix := strings.Repeat("a", 100)
		suffix := strings.Repeat("b", 100)
		content := prefix + "Kyoto" + suffix

		got := extractPreview(content, "kyoto")

		if !strings.Contains(got, "Kyoto") {
			t.Fatalf("preview %q does not contain the match", got)
		}
		if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
			t.Errorf("preview %q should be ellipsized on both sides", got)
		}
		// 40 chars each side plus the match plus two ellipses
		if want := 3 + 40 + len("Kyoto") + 40 + 3; len(got) != want {
			t.Errorf("preview length = %d, want %d", len(got), want)
		}
	})

	t.Run("match at the start has no leading ellipsis", func(t *testing.T) {
		content := "Kyoto travel plans " + strings.Repeat("x", 100)
		got := extractPreview(content, "Kyoto")
		if strings.HasPrefix(got, "...") {
			t.Errorf("preview %q should not start with ellipsis", got)
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("preview %q should end with ellipsis", got)
		}
	})

	t.Run("no occurrence falls back to opening of the note", func(t *testing.T) {
		content := strings.Repeat("word ", 40)
		got := extractPreview(content, "missing")
		if !strings.HasSuffix(got, "...") {
			t.Errorf("fallback preview %q should end with ellipsis", got)
		}
		if len(got) != previewFallbackLen+3 {
			t.Errorf("fallback length = %d, want %d", len(got), previewFallbackLen+3)
		}
	})

	t.Run("short note without occurrence returned whole", func(t *testing.T) {
		got := extractPreview("just a short note", "missing")
		if got != "just a short note" {
			t.Errorf("got %q, want full text without ellipsis", got)
		}
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		got := extractPreview("Planning the KYOTO trip", "kyoto")
		if !strings.Contains(got, "KYOTO") {
			t.Errorf("preview %q should contain the original-case match", got)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		if got := extractPreview("", "anything"); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("whitespace collapsed before extraction", func(t *testing.T) {
		got := extractPreview("line one\n\nline   two", "two")
		if strings.Contains(got, "\n") {
			t.Errorf("preview %q should not contain newlines", got)
		}
	})
}

func TestMergeResults(t *testing.T) {
	mk := func(id uuid.UUID, matchType string) *dto.SearchResultResponse {
		return &dto.SearchResultResponse{Id: id, MatchType: matchType}
	}

	shared := uuid.New()
	kwOnly := uuid.New()
	semOnly := uuid.New()

	keyword := []*dto.SearchResultResponse{
		mk(kwOnly, dto.MatchTypeKeyword),
		mk(shared, dto.MatchTypeKeyword),
	}
	semantic := []*dto.SearchResultResponse{
		mk(shared, dto.MatchTypeSemantic),
		mk(semOnly, dto.MatchTypeSemantic),
	}

	got := mergeResults(keyword, semantic, 20)

	if len(got) != 3 {
		t.Fatalf("merged = %d, want 3", len(got))
	}
	if got[0].Id != kwOnly || got[1].Id != shared {
		t.Errorf("keyword results must come first in their original order")
	}
	if got[1].MatchType != dto.MatchTypeKeyword {
		t.Errorf("a note found by both passes keeps its keyword tag")
	}
	if got[2].Id != semOnly {
		t.Errorf("semantic-only result missing from tail")
	}

	t.Run("cap applied after merge", func(t *testing.T) {
		var many []*dto.SearchResultResponse
		for i := 0; i < 30; i++ {
			many = append(many, mk(uuid.New(), dto.MatchTypeKeyword))
		}
		if got := mergeResults(many, nil, 20); len(got) != 20 {
			t.Errorf("merged = %d, want cap of 20", len(got))
		}
	})

	t.Run("both passes empty", func(t *testing.T) {
		if got := mergeResults(nil, nil, 20); len(got) != 0 {
			t.Errorf("merged = %d, want 0", len(got))
		}
	})
}

func TestSearchShortQueryFastPath(t *testing.T) {
	// No collaborators needed: queries under two characters never reach
	// storage or the embedding provider.
	s := &searchService{}

	for _, query := range []string{"", "a", " a ", "  "} {
		got, err := s.Search(context.Background(), uuid.New(), query)
		if err != nil {
			t.Fatalf("Search(%q) error: %v", query, err)
		}
		if len(got) != 0 {
			t.Errorf("Search(%q) = %d results, want 0", query, len(got))
		}
	}
}

func TestRuneIndexFold(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		query string
		want  int
	}{
		{"exact match", "Hello World", "World", 6},
		{"case-insensitive match", "Hello World", "world", 6},
		{"no match", "Hello World", "Kyoto", -1},
		{"empty query", "Hello World", "", -1},
		{"query longer than text", "hi", "hello", -1},
		{"multibyte runes before the match", "日本語のノート Kyoto", "kyoto", 8},
		// Lowercasing U+0130 grows it from one rune to two; the index must
		// still point at the original text.
		{"length-changing case fold before the match", "İİİ abc", "abc", 4},
		{"multibyte query", "go to İstanbul", "İstanbul", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runeIndexFold(tt.text, tt.query); got != tt.want {
				t.Errorf("runeIndexFold(%q, %q) = %d, want %d", tt.text, tt.query, got, tt.want)
			}
		})
	}
}
