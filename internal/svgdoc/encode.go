package svgdoc

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

const indent = "  "

// Encode writes the document to w, one node per line, indenting nested
// elements. Whitespace-only text is dropped; an element whose children are
// all text is written on a single line.
func (d *Document) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, n := range d.Prolog {
		writeNode(bw, n, 0)
	}
	writeNode(bw, d.Root, 0)
	for _, n := range d.Epilog {
		writeNode(bw, n, 0)
	}
	return bw.Flush()
}

// String returns the encoded document.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Encode(&b)
	return b.String()
}

func writeNode(w *bufio.Writer, n *Node, depth int) {
	pad := strings.Repeat(indent, depth)

	switch n.Kind {
	case TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			w.WriteString(pad)
			escape(w, s)
			w.WriteByte('\n')
		}
	case CommentNode:
		w.WriteString(pad + "<!--" + n.Data + "-->\n")
	case ProcInstNode:
		w.WriteString(pad + "<?" + n.Name.Local)
		if n.Data != "" {
			w.WriteString(" " + n.Data)
		}
		w.WriteString("?>\n")
	case DirectiveNode:
		w.WriteString(pad + "<!" + n.Data + ">\n")
	case ElementNode:
		writeElement(w, n, depth, pad)
	}
}

func writeElement(w *bufio.Writer, n *Node, depth int, pad string) {
	name := qualified(n.Name)
	w.WriteString(pad + "<" + name)
	for _, a := range n.Attr {
		w.WriteString(" " + qualified(a.Name) + `="`)
		escape(w, a.Value)
		w.WriteString(`"`)
	}

	children := significant(n.Children)
	if len(children) == 0 {
		w.WriteString("/>\n")
		return
	}

	if textOnly(children) {
		w.WriteString(">")
		for _, c := range children {
			escape(w, strings.TrimSpace(c.Data))
		}
		w.WriteString("</" + name + ">\n")
		return
	}

	w.WriteString(">\n")
	for _, c := range children {
		writeNode(w, c, depth+1)
	}
	w.WriteString(pad + "</" + name + ">\n")
}

// significant drops whitespace-only text children.
func significant(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, c := range nodes {
		if c.Kind == TextNode && strings.TrimSpace(c.Data) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func textOnly(nodes []*Node) bool {
	for _, c := range nodes {
		if c.Kind != TextNode {
			return false
		}
	}
	return true
}

func escape(w io.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}
