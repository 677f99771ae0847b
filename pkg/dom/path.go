package dom

import "strings"

// Path returns the child indices leading from the root of n's tree to n.
// The root itself has an empty path.
func Path(n *Node) []int {
	var rev []int
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		rev = append(rev, cur.Parent.indexOf(cur))
	}
	path := make([]int, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path
}

// NodeAt resolves a path produced by Path against root. It returns nil if
// the path does not exist.
func NodeAt(root *Node, path []int) *Node {
	n := root
	for _, idx := range path {
		if idx < 0 || idx >= len(n.Children) {
			return nil
		}
		n = n.Children[idx]
	}
	return n
}

// ElementPath is like Path but counts only element siblings, matching the
// browser's Element.children. Text nodes that a browser would merge do not
// shift the indices. n must be an element.
func ElementPath(n *Node) []int {
	var rev []int
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		idx := 0
		for _, sib := range cur.Parent.Children {
			if sib == cur {
				break
			}
			if sib.Type == ElementNode {
				idx++
			}
		}
		rev = append(rev, idx)
	}
	path := make([]int, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path
}

// ElementAt resolves a path produced by ElementPath. It returns nil if the
// path does not exist.
func ElementAt(root *Node, path []int) *Node {
	n := root
	for _, idx := range path {
		var next *Node
		i := 0
		for _, c := range n.Children {
			if c.Type != ElementNode {
				continue
			}
			if i == idx {
				next = c
				break
			}
			i++
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}

// ClosestElement returns n if it is an element, otherwise its nearest
// element ancestor, or nil.
func ClosestElement(n *Node) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == ElementNode {
			return cur
		}
	}
	return nil
}

// TextSlot locates a text node within its parent the way a browser sees it
// after parsing: adjacent text nodes merge into one, so children are grouped
// into slots separated by non-text nodes. slot is the number of non-text
// siblings before n, and text is the merged text of n's slot.
func TextSlot(n *Node) (slot int, text string) {
	if n.Parent == nil {
		return 0, n.Data
	}
	var b strings.Builder
	found := false
	for _, sib := range n.Parent.Children {
		if sib.Type != TextNode {
			if found {
				break
			}
			slot++
			b.Reset()
			continue
		}
		b.WriteString(sib.Data)
		if sib == n {
			found = true
		}
	}
	return slot, b.String()
}
