package markup

import (
	"encoding/json"
	"strings"
)

// Parser flattens a rich-text document into plain text for previews and
// embedding input.
type Parser struct{}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a rich-text JSON string to plain text. Block-level nodes are
// separated by single newlines; inline formatting is discarded.
func (p *Parser) Parse(jsonContent string) (string, error) {
	var doc Document
	if err := json.Unmarshal([]byte(jsonContent), &doc); err != nil {
		return "", err
	}

	var sb strings.Builder
	p.walkNode(doc.Root, &sb)
	return strings.TrimSpace(sb.String()), nil
}

// StripContent is a convenience function to flatten a raw content blob.
// If the blob doesn't look like rich-text JSON (or fails to parse), the
// original string is returned as-is.
func StripContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, `{"root":`) {
		return content
	}

	p := NewParser()
	plain, err := p.Parse(trimmed)
	if err != nil {
		return content
	}
	return plain
}

func (p *Parser) walkNode(node Node, sb *strings.Builder) {
	switch node.Type {
	case "text":
		sb.WriteString(node.Text)

	case "linebreak":
		sb.WriteString("\n")

	case "root":
		for _, child := range node.Children {
			p.walkNode(child, sb)
		}

	default:
		// Every other node type is treated as a block: walk children and
		// terminate with a newline so words from adjacent blocks don't fuse.
		for _, child := range node.Children {
			p.walkNode(child, sb)
		}
		if len(node.Children) > 0 || node.Type == "paragraph" {
			sb.WriteString("\n")
		}
	}
}
