package main

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
)

// assignment is one --set key=value or --input selector=value.
type assignment struct {
	Name  string
	Value string
}

// parseAssignment splits s at the first "=" outside square brackets, so
// attribute selectors like input[name=q] survive as names.
func parseAssignment(flag, s string) (assignment, error) {
	name, value, ok := cutOutsideBrackets(s)
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return assignment{}, errors.New("E040").
			WithDetail("--" + flag + " " + s + ": expected NAME=VALUE").
			WithSuggestion("Write --" + flag + ` name=value, quoting the whole argument if it contains spaces`)
	}
	return assignment{Name: name, Value: value}, nil
}

func cutOutsideBrackets(s string) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

func parseAssignments(flag string, raw []string) ([]assignment, error) {
	out := make([]assignment, 0, len(raw))
	for _, s := range raw {
		a, err := parseAssignment(flag, s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// decodeValue reads a --set value as JSON when it is valid JSON, and as a
// plain string otherwise. count=5 sets a number, name=Ada sets "Ada".
func decodeValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
