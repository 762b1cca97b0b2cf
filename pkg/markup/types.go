package markup

// Document represents the top-level structure of a rich-text blob.
type Document struct {
	Root Node `json:"root"`
}

// Node represents any node in the rich-text tree. Only the fields the
// plain-text pass cares about are decoded; formatting attributes are dropped.
type Node struct {
	Type     string `json:"type"`
	Version  int    `json:"version"`
	Children []Node `json:"children,omitempty"`

	// Text specific
	Text string `json:"text,omitempty"`

	// Link specific
	URL string `json:"url,omitempty"`

	// List specific
	ListType string `json:"listType,omitempty"`
	Start    int    `json:"start,omitempty"`
	Tag      string `json:"tag,omitempty"`

	// ListItem specific
	Checked bool `json:"checked,omitempty"`
	Value   int  `json:"value,omitempty"`
}
