package binder

import (
	"errors"
	"reflect"
	"testing"
)

func TestScanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Segment
	}{
		{
			name: "plain",
			in:   "hello",
			want: []Segment{{SegmentText, "hello", 0}},
		},
		{
			name: "single marker",
			in:   "{{count}}",
			want: []Segment{{SegmentKey, "count", 0}},
		},
		{
			name: "marker with spaces and text",
			in:   "Count: {{ count }}!",
			want: []Segment{
				{SegmentText, "Count: ", 0},
				{SegmentKey, "count", 7},
				{SegmentText, "!", 18},
			},
		},
		{
			name: "adjacent markers",
			in:   "{{a}}{{ b }}",
			want: []Segment{{SegmentKey, "a", 0}, {SegmentKey, "b", 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanText(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanText(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScanTextErrors(t *testing.T) {
	for _, in := range []string{"{{ count", "{{ }}", "{{ a + b }}", "x {{1a}}"} {
		_, err := ScanText(in)
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("ScanText(%q) err = %v, want *SyntaxError", in, err)
		}
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		attr   string
		want   string
		wantOK bool
	}{
		{"@click", "click", true},
		{"v-on:input", "input", true},
		{"@", "", false},
		{"v-on:", "", false},
		{"onclick", "", false},
		{"v-model", "", false},
	}
	for _, tt := range tests {
		got, ok := EventName(tt.attr)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("EventName(%q) = %q, %v", tt.attr, got, ok)
		}
	}
}

func TestParseHandler(t *testing.T) {
	tests := []struct {
		in   string
		want Handler
	}{
		{"reset", Handler{Method: "reset"}},
		{" reset ", Handler{Method: "reset"}},
		{"reset()", Handler{Method: "reset"}},
		{"add(1)", Handler{Method: "add", Args: []Arg{{Kind: ArgLiteral, Value: 1}}}},
		{"add(2.5, -3)", Handler{Method: "add", Args: []Arg{
			{Kind: ArgLiteral, Value: 2.5},
			{Kind: ArgLiteral, Value: -3},
		}}},
		{`greet('it\'s, ok', "x")`, Handler{Method: "greet", Args: []Arg{
			{Kind: ArgLiteral, Value: "it's, ok"},
			{Kind: ArgLiteral, Value: "x"},
		}}},
		{`f('a\"b', 'say "hi"')`, Handler{Method: "f", Args: []Arg{
			{Kind: ArgLiteral, Value: `a"b`},
			{Kind: ArgLiteral, Value: `say "hi"`},
		}}},
		{`f("it\'s", 'tab\tend')`, Handler{Method: "f", Args: []Arg{
			{Kind: ArgLiteral, Value: "it's"},
			{Kind: ArgLiteral, Value: "tab\tend"},
		}}},
		{"toggle(true, false, null)", Handler{Method: "toggle", Args: []Arg{
			{Kind: ArgLiteral, Value: true},
			{Kind: ArgLiteral, Value: false},
			{Kind: ArgLiteral, Value: nil},
		}}},
		{"copy(name, $event)", Handler{Method: "copy", Args: []Arg{
			{Kind: ArgKey, Key: "name"},
			{Kind: ArgEvent},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHandler(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseHandler(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHandlerErrors(t *testing.T) {
	for _, in := range []string{"", "(1)", "add(", "add 1", "add(1,)", "add('x)", "add(a-b)", "9lives"} {
		if _, err := ParseHandler(in); err == nil {
			t.Errorf("ParseHandler(%q) should fail", in)
		}
	}
}
