package binder

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

// Method handles an event bound with @event. args holds the resolved
// handler arguments.
type Method func(ev *dom.Event, args []any) error

// Config configures a Binder.
type Config struct {
	// Store is the reactive store bindings read from and write to. Required.
	Store *reactive.Store

	// Methods are the handlers @event attributes may name.
	Methods map[string]Method

	// Source names the template in error locations.
	Source string

	// Logger receives binding traces. Defaults to slog.Default().
	Logger *slog.Logger
}

// Stats counts what a Bind pass wired.
type Stats struct {
	Observers int // Registered observers, text and v-model
	Listeners int // Event listeners, @event and v-model
	Models    int // v-model bindings
}

// Binder wires markup under a mount element to a store.
type Binder struct {
	store   *reactive.Store
	methods map[string]Method
	source  string
	logger  *slog.Logger

	stats Stats
	errs  []error
}

// New creates a Binder.
func New(cfg Config) *Binder {
	if cfg.Store == nil {
		panic("binder: Config.Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Binder{
		store:   cfg.Store,
		methods: cfg.Methods,
		source:  cfg.Source,
		logger:  logger,
	}
}

// Bind compiles every descendant of root. All problems are collected and
// returned joined; bindings that were valid stay wired.
func (b *Binder) Bind(root *dom.Node) error {
	b.compile(root)
	b.logger.Debug("bind complete",
		"observers", b.stats.Observers,
		"listeners", b.stats.Listeners,
		"models", b.stats.Models,
		"errors", len(b.errs),
	)
	return stderrors.Join(b.errs...)
}

// Stats returns the counts of wired bindings.
func (b *Binder) Stats() Stats {
	return b.stats
}

// compile visits the children of node.
func (b *Binder) compile(node *dom.Node) {
	children := append([]*dom.Node(nil), node.Children...)
	for _, item := range children {
		switch item.Type {
		case dom.ElementNode:
			b.compileElement(item)
			if item.IsElement("script", "style") {
				continue
			}
		case dom.TextNode:
			b.compileText(item)
			continue
		}
		if len(item.Children) > 0 {
			b.compile(item)
		}
	}
}

func (b *Binder) compileElement(el *dom.Node) {
	for _, attr := range append([]dom.Attr(nil), el.Attrs...) {
		if event, ok := EventName(attr.Key); ok {
			b.bindEvent(el, event, attr)
		}
	}
	if key, ok := el.GetAttribute("v-model"); ok {
		b.bindModel(el, strings.TrimSpace(key))
	}
}

func (b *Binder) bindEvent(el *dom.Node, event string, attr dom.Attr) {
	h, err := ParseHandler(attr.Val)
	if err != nil {
		b.fail(errors.New("E012").Wrap(err), el)
		return
	}
	method, ok := b.methods[h.Method]
	if !ok {
		b.fail(errors.New("E011").
			WithSuggestion(fmt.Sprintf("Declare a method named %q in the instance options", h.Method)), el)
		return
	}
	for _, a := range h.Args {
		if a.Kind == ArgKey && !b.store.Has(a.Key) {
			b.fail(unknownKey(a.Key), el)
			return
		}
	}

	el.AddEventListener(event, func(ev *dom.Event) error {
		args, err := b.resolveArgs(h.Args, ev)
		if err != nil {
			return err
		}
		return method(ev, args)
	})
	b.stats.Listeners++
	b.logger.Debug("bound event", "event", event, "method", h.Method, "node", describe(el))
}

func (b *Binder) resolveArgs(args []Arg, ev *dom.Event) ([]any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make([]any, len(args))
	for i, a := range args {
		switch a.Kind {
		case ArgLiteral:
			out[i] = a.Value
		case ArgEvent:
			out[i] = ev.Value
		case ArgKey:
			v, err := b.store.Get(a.Key)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
	}
	return out, nil
}

func (b *Binder) bindModel(el *dom.Node, key string) {
	if !el.IsElement("input", "textarea", "select") {
		b.fail(errors.New("E015"), el)
		return
	}
	if !b.store.Has(key) {
		b.fail(unknownKey(key), el)
		return
	}

	value, _ := b.store.Get(key)
	el.SetValue(reactive.Stringify(value))

	b.store.Registry().Register(key, reactive.NewObserver(b.store, key, el, "value"))
	b.stats.Observers++

	event := "input"
	if el.IsElement("select") {
		event = "change"
	}
	el.AddEventListener(event, func(ev *dom.Event) error {
		return b.store.Set(key, el.Value())
	})
	b.stats.Listeners++
	b.stats.Models++
	b.logger.Debug("bound model", "key", key, "node", describe(el))
}

func (b *Binder) compileText(item *dom.Node) {
	if !HasMarkers(item.Data) {
		return
	}
	segs, err := ScanText(item.Data)
	if err != nil {
		b.fail(errors.New("E013").Wrap(err), item)
		return
	}

	replacement := make([]*dom.Node, 0, len(segs))
	var pending []*dom.Node // key nodes, registered once attached
	var keys []string
	for _, seg := range segs {
		if seg.Kind == SegmentText {
			replacement = append(replacement, dom.NewText(seg.Text))
			continue
		}
		if !b.store.Has(seg.Text) {
			b.fail(unknownKey(seg.Text), item)
			return
		}
		value, _ := b.store.Get(seg.Text)
		slot := dom.NewText(reactive.Stringify(value))
		replacement = append(replacement, slot)
		pending = append(pending, slot)
		keys = append(keys, seg.Text)
	}

	item.ReplaceWith(replacement...)

	for i, slot := range pending {
		b.store.Registry().Register(keys[i], reactive.NewObserver(b.store, keys[i], slot, "textContent"))
		b.stats.Observers++
		b.logger.Debug("bound text", "key", keys[i], "node", describe(slot.Parent))
	}
}

func (b *Binder) fail(err *errors.BindError, n *dom.Node) {
	target := n
	if n.Type == dom.TextNode && n.Parent != nil {
		target = n.Parent
	}
	err.WithLocation(b.source, describe(target))
	if n.Type == dom.TextNode {
		err.WithSnippet(n.Data)
	} else {
		err.WithSnippet(openTag(n))
	}
	b.errs = append(b.errs, err)
}

func unknownKey(key string) *errors.BindError {
	return errors.New("E010").
		Wrap(&reactive.KeyError{Op: "bind", Key: key}).
		WithSuggestion(fmt.Sprintf("Add %q to the data object", key))
}

// describe returns a selector-like path such as "html>body>div#app>p".
func describe(n *dom.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Type == dom.ElementNode; cur = cur.Parent {
		part := cur.Tag
		if id := cur.ID(); id != "" {
			part += "#" + id
		}
		parts = append(parts, part)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ">")
}

// openTag renders the start tag of an element for error snippets.
func openTag(n *dom.Node) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(&b, " %s=%q", a.Key, a.Val)
	}
	b.WriteString(">")
	return b.String()
}
