package dom

import "strings"

// Attr is a single attribute.
type Attr struct {
	Key string
	Val string
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute sets an attribute, keeping its position if it already exists.
func (n *Node) SetAttribute(key, val string) {
	key = strings.ToLower(key)
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs[i].Val = val
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
}

// RemoveAttribute deletes the named attribute if present.
func (n *Node) RemoveAttribute(key string) {
	key = strings.ToLower(key)
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// ID returns the id attribute.
func (n *Node) ID() string {
	v, _ := n.GetAttribute("id")
	return v
}

// HasClass reports whether the class attribute contains name.
func (n *Node) HasClass(name string) bool {
	v, ok := n.GetAttribute("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == name {
			return true
		}
	}
	return false
}
