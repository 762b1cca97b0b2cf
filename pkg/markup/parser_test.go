package markup

import (
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "single paragraph",
			content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"hello world"}]}]}}`,
			want:    "hello world",
		},
		{
			name:    "two paragraphs separated by newline",
			content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"first"}]},{"type":"paragraph","children":[{"type":"text","text":"second"}]}]}}`,
			want:    "first\nsecond",
		},
		{
			name:    "inline formatting discarded",
			content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"plain "},{"type":"text","text":"bold","format":1}]}]}}`,
			want:    "plain bold",
		},
		{
			name:    "heading and list flattened",
			content: `{"root":{"type":"root","children":[{"type":"heading","tag":"h1","children":[{"type":"text","text":"Title"}]},{"type":"list","listType":"bullet","children":[{"type":"listitem","children":[{"type":"text","text":"item one"}]},{"type":"listitem","children":[{"type":"text","text":"item two"}]}]}]}}`,
			want:    "Title\nitem one\nitem two",
		},
		{
			name:    "linebreak inside paragraph",
			content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"line one"},{"type":"linebreak"},{"type":"text","text":"line two"}]}]}}`,
			want:    "line one\nline two",
		},
		{
			name:    "empty document",
			content: `{"root":{"type":"root","children":[]}}`,
			want:    "",
		},
		{
			name:    "invalid json",
			content: `{"root":`,
			wantErr: true,
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "rich text stripped",
			content: `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"stripped"}]}]}}`,
			want:    "stripped",
		},
		{
			name:    "plain text passes through",
			content: "just plain text",
			want:    "just plain text",
		},
		{
			name:    "unparseable rich text returned raw",
			content: `{"root": not valid json`,
			want:    `{"root": not valid json`,
		},
		{
			name:    "empty string",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripContent(tt.content); got != tt.want {
				t.Errorf("StripContent() = %q, want %q", got, tt.want)
			}
		})
	}
}
