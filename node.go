package harvest

// Node is a read-only handle to an element of a parsed document.
// A whole document is also a Node.
type Node interface {
	// Find returns the descendants matching selector in document order.
	// An error is returned when the selector cannot be compiled.
	Find(selector string) ([]Node, error)

	// Text returns the combined text of the node and its descendants.
	Text() string

	// OwnText returns the node's direct text children, one entry per text
	// node, untrimmed.
	OwnText() []string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
}

// Parser turns raw HTML into a queryable document.
type Parser interface {
	Parse(html string) (Node, error)
}
