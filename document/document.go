// Package document defines the read-only node view the parser consumes and
// an in-memory implementation the loaders build.
package document

//go:generate mockgen -destination=mock/mock_node.go -package=mockdocument -source=document.go

// Node is a read-only view over one element of a rules document.
// Implementations must be safe for concurrent reads.
type Node interface {
	// Name returns the element's tag.
	Name() string

	// Attribute returns the value for key and whether it was present.
	Attribute(key string) (string, bool)

	// Children returns the child nodes in document order.
	Children() []Node
}

// Positioner is implemented by nodes that know where they came from.
type Positioner interface {
	Position() (line, column int)
}

// Attrs is an element's attribute set.
type Attrs map[string]string

// Element is the in-memory Node built by the loaders and by tests.
// It is not modified after construction.
type Element struct {
	Tag    string
	Attrs  Attrs
	Kids   []Node
	Line   int
	Column int
}

// Elem builds an Element with the given attributes and children.
func Elem(name string, attrs Attrs, children ...Node) *Element {
	return &Element{
		Tag:   name,
		Attrs: attrs,
		Kids:  children,
	}
}

// Name implements Node.
func (e *Element) Name() string {
	return e.Tag
}

// Attribute implements Node.
func (e *Element) Attribute(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// Children implements Node.
func (e *Element) Children() []Node {
	return e.Kids
}

// Position implements Positioner. Zero means unknown.
func (e *Element) Position() (int, int) {
	return e.Line, e.Column
}

// Find returns the first child of n named name.
func Find(n Node, name string) (Node, bool) {
	for _, c := range n.Children() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}
