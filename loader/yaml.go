package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nathoo/rewardcore/document"
)

// decodeYAML builds an element tree from a YAML document.
//
// An element is a single-key mapping {name: body}, or a bare scalar naming a
// leaf. A null body is a leaf and a sequence body lists the children. In a
// mapping body, scalar values are attributes, sequence values become a child
// element named by the key, and mapping or null values become a child element
// named by the key whose body is read the same way.
func decodeYAML(data []byte) (*document.Element, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	d := &yamlDecoder{}
	return d.element(doc.Content[0])
}

// yamlDecoder follows aliases, so it refuses a container that is already
// being decoded further up.
type yamlDecoder struct {
	nest nesting[*yaml.Node]
}

func (d *yamlDecoder) element(n *yaml.Node) (*document.Element, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return nil, yamlErr(n, "element name must not be empty")
		}
		return &document.Element{Tag: n.Value, Line: n.Line, Column: n.Column}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, yamlErr(n, "an element is a mapping with exactly one key, got %d", len(n.Content)/2)
		}
		key, body := n.Content[0], n.Content[1]
		el := &document.Element{Tag: key.Value, Line: key.Line, Column: key.Column}
		if err := d.body(el, body); err != nil {
			return nil, err
		}
		return el, nil
	case yaml.AliasNode:
		return d.element(n.Alias)
	default:
		return nil, yamlErr(n, "expected an element, got a sequence")
	}
}

func (d *yamlDecoder) body(el *document.Element, body *yaml.Node) error {
	if body.Kind == yaml.AliasNode {
		body = body.Alias
	}
	if body.Kind == yaml.ScalarNode {
		if body.Tag != "!!null" {
			return yamlErr(body, "body of %q must be a mapping, a sequence or empty", el.Tag)
		}
		return nil
	}

	if err := d.nest.enter(body); err != nil {
		return fmt.Errorf("line %d, column %d: %q: %w", body.Line, body.Column, el.Tag, err)
	}
	defer d.nest.leave(body)

	switch body.Kind {
	case yaml.SequenceNode:
		return d.children(el, body)
	case yaml.MappingNode:
		for i := 0; i+1 < len(body.Content); i += 2 {
			key, val := body.Content[i], body.Content[i+1]
			if val.Kind == yaml.AliasNode {
				val = val.Alias
			}
			if val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
				if el.Attrs == nil {
					el.Attrs = document.Attrs{}
				}
				if _, dup := el.Attrs[key.Value]; dup {
					return yamlErr(key, "duplicate attribute %q", key.Value)
				}
				el.Attrs[key.Value] = val.Value
				continue
			}
			child := &document.Element{Tag: key.Value, Line: key.Line, Column: key.Column}
			if err := d.body(child, val); err != nil {
				return err
			}
			el.Kids = append(el.Kids, child)
		}
		return nil
	}
	return yamlErr(body, "unsupported YAML node in %q", el.Tag)
}

func (d *yamlDecoder) children(el *document.Element, seq *yaml.Node) error {
	for _, item := range seq.Content {
		child, err := d.element(item)
		if err != nil {
			return err
		}
		el.Kids = append(el.Kids, child)
	}
	return nil
}

func yamlErr(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d, column %d: %s", n.Line, n.Column, fmt.Sprintf(format, args...))
}
