package loader

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nathoo/rewardcore/document"
)

// decodeXML builds an element tree from an XML stream. Text content and
// comments are dropped; only elements and their attributes matter.
func decodeXML(r io.Reader) (*document.Element, error) {
	d := xml.NewDecoder(r)

	var (
		root  *document.Element
		stack []*document.Element
	)
	for {
		line, col := d.InputPos()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &document.Element{
				Tag:    t.Name.Local,
				Attrs:  make(document.Attrs, len(t.Attr)),
				Line:   line,
				Column: col,
			}
			for _, a := range t.Attr {
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("line %d: second root element <%s>", line, el.Tag)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, fmt.Errorf("line %d: text outside the root element", line)
			}
		}
	}

	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}
