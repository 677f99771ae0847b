package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses an HTML document. The result is always a complete document
// with html, head and body elements.
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	doc := convert(root)
	if doc.Type != DocumentNode {
		return nil, fmt.Errorf("dom: parse: root is %s, want Document", doc.Type)
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

// convert copies an x/net/html tree into a dom tree.
func convert(src *html.Node) *Node {
	n := &Node{}
	switch src.Type {
	case html.DocumentNode:
		n.Type = DocumentNode
	case html.ElementNode:
		n.Type = ElementNode
		n.Tag = strings.ToLower(src.Data)
		for _, a := range src.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.Attrs = append(n.Attrs, Attr{Key: key, Val: a.Val})
		}
	case html.TextNode:
		n.Type = TextNode
		n.Data = src.Data
	case html.CommentNode:
		n.Type = CommentNode
		n.Data = src.Data
	case html.DoctypeNode:
		n.Type = DoctypeNode
		n.Data = src.Data
	default:
		n.Type = CommentNode
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		child := convert(c)
		child.Parent = n
		n.Children = append(n.Children, child)
	}
	return n
}
