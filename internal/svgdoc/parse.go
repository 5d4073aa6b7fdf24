package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Document is a parsed XML document: a single root element plus whatever
// comments, processing instructions and directives surround it.
type Document struct {
	Prolog []*Node
	Root   *Node
	Epilog []*Node
}

// ErrNoRoot is returned for input without a root element.
var ErrNoRoot = errors.New("document has no root element")

// Parse reads a document from r. Tags must be balanced and there must be
// exactly one root element; non-whitespace text outside it is an error.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	doc := &Document{}
	var stack []*Node

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Kind: ElementNode, Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			switch {
			case len(stack) > 0:
				stack[len(stack)-1].AppendChild(n)
			case doc.Root != nil:
				return nil, fmt.Errorf("failed to parse document: second root element <%s>", qualified(t.Name))
			default:
				doc.Root = n
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("failed to parse document: unexpected </%s>", qualified(t.Name))
			}
			open := stack[len(stack)-1]
			if open.Name != t.Name {
				return nil, fmt.Errorf("failed to parse document: <%s> closed by </%s>", qualified(open.Name), qualified(t.Name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return nil, fmt.Errorf("failed to parse document: text outside the root element")
				}
				continue
			}
			stack[len(stack)-1].AppendChild(&Node{Kind: TextNode, Data: string(t)})

		case xml.Comment:
			doc.place(stack, &Node{Kind: CommentNode, Data: string(t)})

		case xml.ProcInst:
			doc.place(stack, &Node{Kind: ProcInstNode, Name: xml.Name{Local: t.Target}, Data: string(t.Inst)})

		case xml.Directive:
			doc.place(stack, &Node{Kind: DirectiveNode, Data: string(t)})
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("failed to parse document: <%s> is never closed", qualified(stack[len(stack)-1].Name))
	}
	if doc.Root == nil {
		return nil, ErrNoRoot
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// place attaches a non-element node to the open element, or to the prolog
// or epilog when it lies outside the root.
func (d *Document) place(stack []*Node, n *Node) {
	switch {
	case len(stack) > 0:
		stack[len(stack)-1].AppendChild(n)
	case d.Root == nil:
		d.Prolog = append(d.Prolog, n)
	default:
		d.Epilog = append(d.Epilog, n)
	}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
