package binder

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// SegmentKind distinguishes literal text from interpolation markers.
type SegmentKind uint8

const (
	SegmentText SegmentKind = iota // Literal text
	SegmentKey                     // {{ key }}
)

// Segment is one piece of a scanned text node.
type Segment struct {
	Kind SegmentKind
	// Text is the literal text, or the trimmed key for SegmentKey.
	Text string
	// Offset is the byte offset of the segment in the scanned text.
	Offset int
}

// SyntaxError reports malformed template markup.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("binder: %s at offset %d in %q", e.Msg, e.Offset, e.Input)
}

// HasMarkers reports whether s contains an interpolation opener.
func HasMarkers(s string) bool {
	return strings.Contains(s, openDelim)
}

// ScanText splits s into literal and key segments. Empty literals are
// omitted. Markers must be closed and contain a single identifier.
func ScanText(s string) ([]Segment, error) {
	var segs []Segment
	pos := 0
	for pos < len(s) {
		open := strings.Index(s[pos:], openDelim)
		if open < 0 {
			segs = append(segs, Segment{Kind: SegmentText, Text: s[pos:], Offset: pos})
			break
		}
		open += pos
		if open > pos {
			segs = append(segs, Segment{Kind: SegmentText, Text: s[pos:open], Offset: pos})
		}

		bodyStart := open + len(openDelim)
		closeIdx := strings.Index(s[bodyStart:], closeDelim)
		if closeIdx < 0 {
			return nil, &SyntaxError{Input: s, Offset: open, Msg: "unterminated interpolation"}
		}
		closeIdx += bodyStart

		key := strings.TrimSpace(s[bodyStart:closeIdx])
		if key == "" {
			return nil, &SyntaxError{Input: s, Offset: open, Msg: "empty interpolation"}
		}
		if !isIdent(key) {
			return nil, &SyntaxError{Input: s, Offset: open, Msg: fmt.Sprintf("interpolation %q is not a data key", key)}
		}
		segs = append(segs, Segment{Kind: SegmentKey, Text: key, Offset: open})
		pos = closeIdx + len(closeDelim)
	}
	return segs, nil
}

// EventName returns the event type bound by an attribute name: "@click"
// and "v-on:click" both bind "click".
func EventName(attr string) (string, bool) {
	switch {
	case strings.HasPrefix(attr, "@") && len(attr) > 1:
		return attr[1:], true
	case strings.HasPrefix(attr, "v-on:") && len(attr) > len("v-on:"):
		return attr[len("v-on:"):], true
	}
	return "", false
}

// ArgKind classifies a handler argument.
type ArgKind uint8

const (
	ArgLiteral ArgKind = iota // Number, string, bool or null
	ArgKey                    // Data key, read when the handler runs
	ArgEvent                  // $event, the event value
)

// Arg is one parsed handler argument.
type Arg struct {
	Kind  ArgKind
	Value any    // For ArgLiteral
	Key   string // For ArgKey
}

// Handler is a parsed handler expression such as add(1, 'x').
type Handler struct {
	Method string
	Args   []Arg
}

// ParseHandler parses "name" or "name(arg, ...)".
func ParseHandler(s string) (Handler, error) {
	src := strings.TrimSpace(s)
	i := 0
	for i < len(src) && isIdentByte(src[i], i == 0) {
		i++
	}
	if i == 0 {
		return Handler{}, &SyntaxError{Input: s, Offset: 0, Msg: "handler must start with a method name"}
	}
	h := Handler{Method: src[:i]}

	rest := strings.TrimSpace(src[i:])
	if rest == "" {
		return h, nil
	}
	if rest[0] != '(' || rest[len(rest)-1] != ')' {
		return Handler{}, &SyntaxError{Input: s, Offset: i, Msg: "expected argument list"}
	}

	raw, err := splitArgs(rest[1 : len(rest)-1])
	if err != nil {
		return Handler{}, &SyntaxError{Input: s, Offset: i, Msg: err.Error()}
	}
	for _, r := range raw {
		arg, err := parseArg(r)
		if err != nil {
			return Handler{}, &SyntaxError{Input: s, Offset: i, Msg: err.Error()}
		}
		h.Args = append(h.Args, arg)
	}
	return h, nil
}

// splitArgs splits on commas outside quotes.
func splitArgs(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		args  []string
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated string")
	}
	args = append(args, strings.TrimSpace(s[start:]))
	for _, a := range args {
		if a == "" {
			return nil, fmt.Errorf("empty argument")
		}
	}
	return args, nil
}

func parseArg(s string) (Arg, error) {
	switch s {
	case "true":
		return Arg{Kind: ArgLiteral, Value: true}, nil
	case "false":
		return Arg{Kind: ArgLiteral, Value: false}, nil
	case "null", "undefined":
		return Arg{Kind: ArgLiteral, Value: nil}, nil
	case "$event":
		return Arg{Kind: ArgEvent}, nil
	}

	if q := s[0]; q == '\'' || q == '"' {
		if len(s) < 2 || s[len(s)-1] != q {
			return Arg{}, fmt.Errorf("bad string literal %s", s)
		}
		unq, err := strconv.Unquote(`"` + requote(s[1:len(s)-1]) + `"`)
		if err != nil {
			return Arg{}, fmt.Errorf("bad string literal %s", s)
		}
		return Arg{Kind: ArgLiteral, Value: unq}, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		return Arg{Kind: ArgLiteral, Value: n}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Arg{Kind: ArgLiteral, Value: f}, nil
	}
	if isIdent(s) {
		return Arg{Kind: ArgKey, Key: s}, nil
	}
	return Arg{}, fmt.Errorf("unsupported argument %s", s)
}

// requote rewrites the body of a quoted literal as the body of a
// double-quoted Go string: \' becomes ', a bare " is escaped and every other
// escape sequence is kept as written.
func requote(body string) string {
	var b strings.Builder
	b.Grow(len(body) + 2)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			if body[i] == '\'' {
				b.WriteByte('\'')
				continue
			}
			b.WriteByte('\\')
			b.WriteByte(body[i])
		case c == '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}
	return true
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}
