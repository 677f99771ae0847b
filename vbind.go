// Package vbind is a small reactive binding engine for HTML documents.
//
// A VM takes a data object and a mount element, and keeps the text and form
// controls under that element in sync with the data:
//
//	vm, err := vbind.MountString(page, vbind.Options{
//	    El:   "#app",
//	    Data: map[string]any{"count": 0},
//	    Methods: map[string]vbind.Method{
//	        "add": func(vm *vbind.VM, ev *dom.Event, args []any) error {
//	            return vm.Field("count").Update(func(v any) any {
//	                switch n := v.(type) {
//	                case int:
//	                    return n + 1
//	                case float64: // numbers decoded from JSON data
//	                    return n + 1
//	                }
//	                return v
//	            })
//	        },
//	    },
//	})
//
//	vm.Set("count", 5)       // every {{ count }} now reads "5"
//	vm.Click("button")       // runs add
//	html, _ := vm.Render(render.RendererConfig{})
//
// Construction runs three steps in order: a Facade exposing one accessor
// per key, a reactive Store intercepting every read and write, and a binder
// pass that creates one observer per interpolation marker or v-model.
package vbind

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	vberrors "github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binder"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/render"
)

// ErrNoMatch is returned by the dispatch helpers when a selector matches no
// element under the mount element.
var ErrNoMatch = errors.New("vbind: selector matched no element")

// Method handles a bound event. vm is the instance the handler belongs to.
type Method func(vm *VM, ev *dom.Event, args []any) error

// VM is one mounted instance.
type VM struct {
	id     string
	doc    *dom.Node
	el     *dom.Node
	store  *reactive.Store
	facade *reactive.Facade
	stats  binder.Stats
	logger *slog.Logger
}

// New mounts a VM on the element of doc selected by opts.El.
func New(doc *dom.Node, opts Options) (*VM, error) {
	opts = opts.withDefaults()

	el := doc.QuerySelector(opts.El)
	if el == nil {
		return nil, vberrors.New("E014").
			WithLocation(opts.Source, opts.El).
			WithSuggestion(fmt.Sprintf("Add an element matching %q or change Options.El", opts.El))
	}

	vm := &VM{
		id:     uuid.NewString(),
		doc:    doc,
		el:     el,
		logger: opts.Logger,
	}
	vm.logger = vm.logger.With("vm", vm.id)

	// observe
	registry := reactive.NewRegistry()
	vm.store = reactive.NewStore(opts.Data, registry,
		reactive.WithLogger(vm.logger),
		reactive.WithHooks(opts.Hooks),
	)
	// proxy
	vm.facade = reactive.NewFacade(vm.store)

	// compile
	b := binder.New(binder.Config{
		Store:   vm.store,
		Methods: vm.bindMethods(opts.Methods),
		Source:  opts.Source,
		Logger:  vm.logger,
	})
	if err := b.Bind(el); err != nil {
		return nil, err
	}
	vm.stats = b.Stats()

	vm.logger.Info("mounted",
		"el", opts.El,
		"keys", len(vm.store.Keys()),
		"observers", vm.stats.Observers,
		"listeners", vm.stats.Listeners,
	)
	return vm, nil
}

// Mount parses an HTML document from r and mounts a VM on it.
func Mount(r io.Reader, opts Options) (*VM, error) {
	doc, err := dom.Parse(r)
	if err != nil {
		return nil, vberrors.New("E030").WithLocation(opts.Source, "").Wrap(err)
	}
	return New(doc, opts)
}

// MountString is Mount over a string.
func MountString(src string, opts Options) (*VM, error) {
	return Mount(strings.NewReader(src), opts)
}

// bindMethods gives each method the VM as receiver.
func (vm *VM) bindMethods(methods map[string]Method) map[string]binder.Method {
	bound := make(map[string]binder.Method, len(methods))
	for name, m := range methods {
		name, m := name, m
		bound[name] = func(ev *dom.Event, args []any) error {
			vm.logger.Debug("method", "name", name, "event", ev.Type)
			return m(vm, ev, args)
		}
	}
	return bound
}

// ID returns the instance's unique identifier.
func (vm *VM) ID() string { return vm.id }

// Document returns the document the VM is mounted in.
func (vm *VM) Document() *dom.Node { return vm.doc }

// El returns the mount element.
func (vm *VM) El() *dom.Node { return vm.el }

// Store returns the reactive store.
func (vm *VM) Store() *reactive.Store { return vm.store }

// Registry returns the dependency registry.
func (vm *VM) Registry() *reactive.Registry { return vm.store.Registry() }

// Facade returns the per-key accessors.
func (vm *VM) Facade() *reactive.Facade { return vm.facade }

// Field returns the accessor for key, or nil if key is not tracked.
func (vm *VM) Field(key string) *reactive.Field { return vm.facade.Field(key) }

// Stats returns what the binder wired at mount time.
func (vm *VM) Stats() binder.Stats { return vm.stats }

// Get returns the current value of key.
func (vm *VM) Get(key string) (any, error) { return vm.store.Get(key) }

// Set writes key and refreshes every dependent binding before returning.
func (vm *VM) Set(key string, value any) error { return vm.store.Set(key, value) }

// Notify refreshes the bindings of key without changing it.
func (vm *VM) Notify(key string) error { return vm.store.Notify(key) }

// Data returns a copy of the current data.
func (vm *VM) Data() map[string]any { return vm.store.Snapshot() }

// Render renders the mount element.
func (vm *VM) Render(cfg render.RendererConfig) (string, error) {
	return render.NewRenderer(cfg).RenderToString(vm.el)
}

// RenderDocument renders the whole document.
func (vm *VM) RenderDocument(cfg render.RendererConfig) (string, error) {
	return render.NewRenderer(cfg).RenderToString(vm.doc)
}

// Query returns the first element under the mount element matching sel.
func (vm *VM) Query(sel string) *dom.Node {
	return vm.el.QuerySelector(sel)
}

// Dispatch fires an event of type typ on the first element matching sel.
// For input and change events, value is written to the element first.
func (vm *VM) Dispatch(sel, typ, value string) error {
	n := vm.Query(sel)
	if n == nil {
		return fmt.Errorf("%w: %q", ErrNoMatch, sel)
	}
	return vm.DispatchNode(n, typ, value)
}

// DispatchNode fires an event of type typ on n, which must be inside the
// mount element.
func (vm *VM) DispatchNode(n *dom.Node, typ, value string) error {
	if !vm.contains(n) {
		return fmt.Errorf("%w: node outside mount element", ErrNoMatch)
	}
	ev := dom.NewEvent(typ)
	if typ == "input" || typ == "change" {
		n.SetValue(value)
		ev.Value = value
	}
	return n.DispatchEvent(ev)
}

func (vm *VM) contains(n *dom.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == vm.el {
			return true
		}
	}
	return false
}

// Input simulates typing value into the element matching sel.
func (vm *VM) Input(sel, value string) error {
	return vm.Dispatch(sel, "input", value)
}

// Click simulates a click on the element matching sel.
func (vm *VM) Click(sel string) error {
	return vm.Dispatch(sel, "click", "")
}
