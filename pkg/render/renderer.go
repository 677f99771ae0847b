package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/vbind/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output. Whitespace-only text nodes are dropped
	// in pretty mode.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// StripDirectives omits binding directives (@event and v-model
	// attributes) from the output.
	StripDirectives bool
}

// Renderer writes dom trees as HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node and its descendants to a string.
func (r *Renderer) RenderToString(node *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node and its descendants to w.
func (r *Renderer) RenderToWriter(w io.Writer, node *dom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderChildren renders only the children of node.
func (r *Renderer) RenderChildren(w io.Writer, node *dom.Node) error {
	for _, c := range node.Children {
		if err := r.renderNode(w, c, 0); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderNode(w io.Writer, node *dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Type {
	case dom.DocumentNode:
		for _, c := range node.Children {
			if err := r.renderNode(w, c, depth); err != nil {
				return err
			}
		}
		return nil
	case dom.DoctypeNode:
		_, err := fmt.Fprintf(w, "<!DOCTYPE %s>%s", node.Data, r.newline())
		return err
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		return r.renderText(w, node, depth)
	case dom.CommentNode:
		r.writeIndent(w, depth)
		_, err := fmt.Fprintf(w, "<!--%s-->%s", escapeComment(node.Data), r.lineEnd(depth))
		return err
	default:
		return fmt.Errorf("render: unknown node type: %s", node.Type)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *dom.Node, depth int) error {
	tag := node.Tag
	r.writeIndent(w, depth)

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if isVoidElement(tag) {
		_, err := io.WriteString(w, r.lineEnd(depth))
		return err
	}

	if isRawTextElement(tag) {
		for _, c := range node.Children {
			if _, err := io.WriteString(w, c.Data); err != nil {
				return err
			}
		}
	} else {
		block := r.config.Pretty && len(node.Children) > 0 && !isInlineElement(tag)
		if block {
			io.WriteString(w, "\n")
		}

		childDepth := depth + 1
		if !block {
			childDepth = -1
		}
		for _, c := range node.Children {
			if err := r.renderNode(w, c, childDepth); err != nil {
				return err
			}
		}

		if block {
			r.writeIndent(w, depth)
		}
	}

	_, err := fmt.Fprintf(w, "</%s>%s", tag, r.lineEnd(depth))
	return err
}

// renderText writes escaped text. In pretty block context (depth >= 0) text
// gets its own indented line.
func (r *Renderer) renderText(w io.Writer, node *dom.Node, depth int) error {
	text := node.Data
	if r.config.Pretty && depth >= 0 {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		r.writeIndent(w, depth)
		_, err := fmt.Fprintf(w, "%s\n", escapeHTML(text))
		return err
	}
	_, err := io.WriteString(w, escapeHTML(text))
	return err
}

func (r *Renderer) renderAttributes(w io.Writer, node *dom.Node) error {
	for _, a := range node.Attrs {
		if r.config.StripDirectives && isDirective(a.Key) {
			continue
		}
		if isBooleanAttr(a.Key) && (a.Val == "" || a.Val == a.Key) {
			if _, err := fmt.Fprintf(w, " %s", a.Key); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Key, escapeAttr(a.Val)); err != nil {
			return err
		}
	}
	return nil
}

// isDirective reports whether an attribute is binding markup.
func isDirective(key string) bool {
	return strings.HasPrefix(key, "@") || strings.HasPrefix(key, "v-on:") || key == "v-model"
}

func (r *Renderer) newline() string {
	return r.lineEnd(0)
}

// lineEnd returns the line terminator for a node at depth. Nodes in inline
// context (negative depth) never end a line.
func (r *Renderer) lineEnd(depth int) string {
	if r.config.Pretty && depth >= 0 {
		return "\n"
	}
	return ""
}

// writeIndent writes depth levels of indentation in pretty mode. Negative
// depth marks inline context.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	if !r.config.Pretty || depth <= 0 {
		return
	}
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}

// RenderToString is a convenience helper using the default configuration.
func RenderToString(node *dom.Node) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}
