package render

import "strings"

// Text and attribute values share the five entity replacements. Attribute
// values also encode tab, newline and carriage return so that a value read
// back from the DOM keeps its exact whitespace.
var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\t", "&#9;",
		"\n", "&#10;",
		"\r", "&#13;",
	)
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

// escapeComment breaks up "--" so comment data cannot close the comment.
func escapeComment(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
