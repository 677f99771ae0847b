package vtest

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/render"
)

// Harness wraps a mounted VM for tests.
type Harness struct {
	t  testing.TB
	vm *vbind.VM
}

// Mount mounts src and fails the test immediately if mounting fails.
func Mount(t testing.TB, src string, opts vbind.Options) *Harness {
	t.Helper()
	vm, err := vbind.MountString(src, opts)
	if err != nil {
		t.Fatalf("mount failed: %v", err)
		return nil
	}
	return &Harness{t: t, vm: vm}
}

// VM returns the mounted instance.
func (h *Harness) VM() *vbind.VM { return h.vm }

// Set writes key.
func (h *Harness) Set(key string, value any) *Harness {
	h.t.Helper()
	if err := h.vm.Set(key, value); err != nil {
		h.t.Errorf("Set(%q, %v): %v", key, value, err)
	}
	return h
}

// Input types value into the element matching sel.
func (h *Harness) Input(sel, value string) *Harness {
	h.t.Helper()
	if err := h.vm.Input(sel, value); err != nil {
		h.t.Errorf("Input(%q): %v", sel, err)
	}
	return h
}

// Click clicks the element matching sel.
func (h *Harness) Click(sel string) *Harness {
	h.t.Helper()
	if err := h.vm.Click(sel); err != nil {
		h.t.Errorf("Click(%q): %v", sel, err)
	}
	return h
}

// Dispatch fires an arbitrary event.
func (h *Harness) Dispatch(sel, event, value string) *Harness {
	h.t.Helper()
	if err := h.vm.Dispatch(sel, event, value); err != nil {
		h.t.Errorf("Dispatch(%q, %q): %v", sel, event, err)
	}
	return h
}

// HTML renders the mount element without directives.
func (h *Harness) HTML() string {
	h.t.Helper()
	html, err := h.vm.Render(render.RendererConfig{StripDirectives: true})
	if err != nil {
		h.t.Errorf("render: %v", err)
	}
	return html
}

// Text returns the text content of the element matching sel, or "" with a
// test error if there is none.
func (h *Harness) Text(sel string) string {
	h.t.Helper()
	n := h.vm.Query(sel)
	if n == nil {
		if h.vm.El().Matches(sel) {
			return h.vm.El().TextContent()
		}
		h.t.Errorf("no element matches %q, got:\n%s", sel, truncate(h.HTML(), 500))
		return ""
	}
	return n.TextContent()
}

// ExpectText asserts the text content of the element matching sel.
func (h *Harness) ExpectText(sel, want string) *Harness {
	h.t.Helper()
	if got := h.Text(sel); got != want {
		h.t.Errorf("text of %q = %q, want %q", sel, got, want)
	}
	return h
}

// ExpectValue asserts the value of the form control matching sel.
func (h *Harness) ExpectValue(sel, want string) *Harness {
	h.t.Helper()
	n := h.vm.Query(sel)
	if n == nil {
		h.t.Errorf("no element matches %q", sel)
		return h
	}
	if got := n.Value(); got != want {
		h.t.Errorf("value of %q = %q, want %q", sel, got, want)
	}
	return h
}

// ExpectData asserts the stored value of key.
func (h *Harness) ExpectData(key string, want any) *Harness {
	h.t.Helper()
	got, err := h.vm.Get(key)
	if err != nil {
		h.t.Errorf("Get(%q): %v", key, err)
		return h
	}
	if !reflect.DeepEqual(got, want) {
		h.t.Errorf("data %q = %#v, want %#v", key, got, want)
	}
	return h
}

// ExpectObservers asserts how many observers are bound to key.
func (h *Harness) ExpectObservers(key string, want int) *Harness {
	h.t.Helper()
	if got := len(h.vm.Registry().ObserversFor(key)); got != want {
		h.t.Errorf("observers for %q = %d, want %d", key, got, want)
	}
	return h
}

// ExpectContains asserts the rendered HTML contains s.
func (h *Harness) ExpectContains(s string) *Harness {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, s) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", s, truncate(html, 500))
	}
	return h
}

// ExpectNotContains asserts the rendered HTML does not contain s.
func (h *Harness) ExpectNotContains(s string) *Harness {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, s) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", s, truncate(html, 500))
	}
	return h
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
