package dom

import (
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	DocumentNode NodeType = iota // Root of a tree
	ElementNode                  // <div>, <input>, etc.
	TextNode                     // Character data
	CommentNode                  // <!-- ... -->
	DoctypeNode                  // <!DOCTYPE html>
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "Document"
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DoctypeNode:
		return "Doctype"
	default:
		return "Unknown"
	}
}

// Node is one node of a document tree.
type Node struct {
	Type     NodeType
	Tag      string // Lowercase tag name, for elements
	Data     string // Text, comment or doctype content
	Attrs    []Attr // Attributes in source order
	Parent   *Node
	Children []*Node

	value    string
	hasValue bool

	listeners map[string][]Listener
}

// NewDocument creates an empty document root.
func NewDocument() *Node {
	return &Node{Type: DocumentNode}
}

// NewElement creates a detached element with the given tag.
func NewElement(tag string, attrs ...Attr) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), Attrs: attrs}
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Data: text}
}

// NewComment creates a detached comment node.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Data: text}
}

// IsElement reports whether n is an element, optionally with one of tags.
func (n *Node) IsElement(tags ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.Tag == t {
			return true
		}
	}
	return false
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) *Node {
	child.Remove()
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	if ref == nil {
		return n.AppendChild(child)
	}
	idx := n.indexOf(ref)
	if idx < 0 {
		return n.AppendChild(child)
	}
	child.Remove()
	child.Parent = n
	n.Children = append(n.Children, nil)
	copy(n.Children[idx+1:], n.Children[idx:])
	n.Children[idx] = child
	return child
}

// RemoveChild detaches child from n. It is a no-op if child is not a child of n.
func (n *Node) RemoveChild(child *Node) {
	idx := n.indexOf(child)
	if idx < 0 {
		return
	}
	n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	child.Parent = nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ReplaceWith replaces n in its parent with nodes, in order.
func (n *Node) ReplaceWith(nodes ...*Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for _, r := range nodes {
		parent.InsertBefore(r, n)
	}
	parent.RemoveChild(n)
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Root returns the topmost ancestor of n.
func (n *Node) Root() *Node {
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Connected reports whether n is attached to a document.
func (n *Node) Connected() bool {
	return n.Root().Type == DocumentNode
}

// TextContent returns the text of n: its own data for text nodes, or the
// concatenated text of all descendants for elements and documents.
func (n *Node) TextContent() string {
	switch n.Type {
	case TextNode, CommentNode:
		return n.Data
	case DoctypeNode:
		return ""
	}
	var b strings.Builder
	n.Walk(func(d *Node) bool {
		if d.Type == TextNode {
			b.WriteString(d.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the text of n. For elements, all children are
// replaced by one text node.
func (n *Node) SetTextContent(text string) {
	switch n.Type {
	case TextNode, CommentNode:
		n.Data = text
		return
	case DoctypeNode:
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	if text != "" {
		n.AppendChild(NewText(text))
	}
}

// Value returns the value property of a form control. Until SetValue is
// called, inputs report their value attribute, textareas their text and
// selects their selected (or first) option. An option without a value
// attribute reports its trimmed text.
func (n *Node) Value() string {
	if n.hasValue {
		return n.value
	}
	switch {
	case n.IsElement("textarea"):
		return n.TextContent()
	case n.IsElement("select"):
		opts := n.options()
		for _, o := range opts {
			if o.HasAttribute("selected") {
				return o.Value()
			}
		}
		if len(opts) > 0 {
			return opts[0].Value()
		}
		return ""
	case n.IsElement("option"):
		if v, ok := n.GetAttribute("value"); ok {
			return v
		}
		return strings.TrimSpace(n.TextContent())
	}
	v, _ := n.GetAttribute("value")
	return v
}

// SetValue sets the value property. Inputs also reflect it into their value
// attribute, textareas into their text and selects into the selected
// attribute of their options, so rendered HTML shows the current value.
func (n *Node) SetValue(v string) {
	n.value = v
	n.hasValue = true
	switch {
	case n.IsElement("input", "option"):
		n.SetAttribute("value", v)
	case n.IsElement("textarea"):
		n.SetTextContent(v)
	case n.IsElement("select"):
		matched := false
		for _, o := range n.options() {
			if !matched && o.Value() == v {
				o.SetAttribute("selected", "")
				matched = true
				continue
			}
			o.RemoveAttribute("selected")
		}
	}
}

// options returns the option descendants of a select, optgroups included.
func (n *Node) options() []*Node {
	var out []*Node
	for _, c := range n.Children {
		switch {
		case c.IsElement("option"):
			out = append(out, c)
		case c.IsElement("optgroup"):
			out = append(out, c.options()...)
		}
	}
	return out
}

// SetProperty writes a named property; it implements reactive.Target.
func (n *Node) SetProperty(name, value string) error {
	if !n.Connected() {
		return ErrDetached
	}
	switch name {
	case "textContent", "innerText":
		n.SetTextContent(value)
	case "value":
		if n.Type != ElementNode {
			return &PropertyError{Name: name, Type: n.Type}
		}
		n.SetValue(value)
	default:
		if n.Type != ElementNode {
			return &PropertyError{Name: name, Type: n.Type}
		}
		n.SetAttribute(name, value)
	}
	return nil
}

// Walk visits n and its descendants depth-first in document order. If fn
// returns false, the children of that node are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	// Copy so fn may restructure the children it is visiting.
	children := append([]*Node(nil), n.Children...)
	for _, c := range children {
		c.Walk(fn)
	}
}
