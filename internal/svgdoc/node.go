package svgdoc

import "encoding/xml"

// Kind identifies the type of a Node.
type Kind int

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
	ProcInstNode
	DirectiveNode
)

// Node is one item of the document tree. Name and Attr are set for
// elements; Data holds the content of every other kind, and the target of a
// processing instruction is kept in Name.Local.
type Node struct {
	Kind     Kind
	Name     xml.Name
	Attr     []xml.Attr
	Data     string
	Children []*Node
	Parent   *Node
}

// NewElement creates a detached element with the given local name.
func NewElement(local string) *Node {
	return &Node{Kind: ElementNode, Name: xml.Name{Local: local}}
}

// Is reports whether n is an element with the given local name, ignoring any
// namespace prefix.
func (n *Node) Is(local string) bool {
	return n.Kind == ElementNode && n.Name.Local == local
}

// AttrValue returns the value of the attribute with the given local name.
func (n *Node) AttrValue(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or appends the attribute with the given local name.
func (n *Node) SetAttr(local, value string) {
	for i, a := range n.Attr {
		if a.Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// AppendChild attaches c as the last child of n.
func (n *Node) AppendChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Remove detaches n from its parent. It is a no-op for detached nodes.
func (n *Node) Remove() {
	p := n.Parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.Parent = nil
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FindAll returns the descendant elements of n (n excluded) with the given
// local name, in document order.
func (n *Node) FindAll(local string) []*Node {
	found := make([]*Node, 0)
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.Is(local) {
				found = append(found, d)
			}
			return true
		})
	}
	return found
}

// FindByID returns the first descendant element with the given local name
// and id attribute, or nil.
func (n *Node) FindByID(local, id string) *Node {
	for _, e := range n.FindAll(local) {
		if v, ok := e.AttrValue("id"); ok && v == id {
			return e
		}
	}
	return nil
}
