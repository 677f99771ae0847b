package dom

import (
	"fmt"
	"strings"
)

// Selector is a parsed CSS selector. Supported syntax: type (div), id (#a),
// class (.b), attribute ([c], [c=d], [c="d"]), compounds of these (input#a.b)
// and the descendant combinator (form input).
type Selector struct {
	// parts are compound selectors, outermost ancestor first.
	parts []compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatch
}

type attrMatch struct {
	key      string
	val      string
	hasValue bool
}

// ParseSelector parses a selector string.
func ParseSelector(s string) (*Selector, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("dom: empty selector")
	}
	sel := &Selector{}
	for _, f := range fields {
		c, err := parseCompound(f)
		if err != nil {
			return nil, fmt.Errorf("dom: selector %q: %w", s, err)
		}
		sel.parts = append(sel.parts, c)
	}
	return sel, nil
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readName := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune("#.[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != '[' {
		c.tag = strings.ToLower(readName())
		if c.tag == "*" {
			c.tag = ""
		}
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			c.id = readName()
			if c.id == "" {
				return c, fmt.Errorf("empty id")
			}
		case '.':
			i++
			name := readName()
			if name == "" {
				return c, fmt.Errorf("empty class")
			}
			c.classes = append(c.classes, name)
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector")
			}
			body := s[i+1 : i+end]
			i += end + 1
			m := attrMatch{key: strings.ToLower(body)}
			if k, v, ok := strings.Cut(body, "="); ok {
				m = attrMatch{
					key:      strings.ToLower(k),
					val:      strings.Trim(v, `"'`),
					hasValue: true,
				}
			}
			if m.key == "" {
				return c, fmt.Errorf("empty attribute name")
			}
			c.attrs = append(c.attrs, m)
		default:
			return c, fmt.Errorf("unexpected %q", s[i])
		}
	}
	return c, nil
}

func (c compound) matches(n *Node) bool {
	if n.Type != ElementNode {
		return false
	}
	if c.tag != "" && n.Tag != c.tag {
		return false
	}
	if c.id != "" && n.ID() != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := n.GetAttribute(a.key)
		if !ok || (a.hasValue && v != a.val) {
			return false
		}
	}
	return true
}

// Matches reports whether n matches the selector.
func (s *Selector) Matches(n *Node) bool {
	last := len(s.parts) - 1
	if !s.parts[last].matches(n) {
		return false
	}
	i := last - 1
	for anc := n.Parent; anc != nil && i >= 0; anc = anc.Parent {
		if s.parts[i].matches(anc) {
			i--
		}
	}
	return i < 0
}

// QuerySelectorAll returns every descendant of n matching sel, in document
// order. An invalid selector matches nothing.
func (n *Node) QuerySelectorAll(sel string) []*Node {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if s.Matches(d) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// QuerySelector returns the first descendant of n matching sel, or nil.
func (n *Node) QuerySelector(sel string) *Node {
	if all := n.QuerySelectorAll(sel); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Matches reports whether n itself matches sel. An invalid selector matches
// nothing.
func (n *Node) Matches(sel string) bool {
	s, err := ParseSelector(sel)
	if err != nil {
		return false
	}
	return s.Matches(n)
}
