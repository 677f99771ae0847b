package binder

import (
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
)

func mount(t *testing.T, src string, data map[string]any, methods map[string]Method) (*dom.Node, *reactive.Store, *Binder, error) {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	app := doc.QuerySelector("#app")
	if app == nil {
		t.Fatal("#app not found")
	}
	store := reactive.NewStore(data, reactive.NewRegistry())
	b := New(Config{Store: store, Methods: methods, Source: "test.html"})
	return app, store, b, b.Bind(app)
}

func TestBindTextInitialPaint(t *testing.T) {
	app, _, b, err := mount(t, `<div id="app"><p>Count: {{ count }} of {{max}}</p></div>`,
		map[string]any{"count": 0, "max": 10}, nil)
	if err != nil {
		t.Fatal(err)
	}

	p := app.QuerySelector("p")
	if got := p.TextContent(); got != "Count: 0 of 10" {
		t.Errorf("TextContent = %q", got)
	}
	if len(p.Children) != 4 {
		t.Errorf("children = %d, want 4 split text nodes", len(p.Children))
	}
	if b.Stats().Observers != 2 {
		t.Errorf("Observers = %d, want 2", b.Stats().Observers)
	}
}

func TestBindTextUpdates(t *testing.T) {
	app, store, _, err := mount(t, `<div id="app"><p>Count: {{ count }}!</p><span>{{ other }}</span></div>`,
		map[string]any{"count": 0, "other": "x"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Set("count", 5); err != nil {
		t.Fatal(err)
	}
	if got := app.QuerySelector("p").TextContent(); got != "Count: 5!" {
		t.Errorf("p = %q", got)
	}
	if got := app.QuerySelector("span").TextContent(); got != "x" {
		t.Errorf("span = %q", got)
	}
}

func TestBindSameKeyTwice(t *testing.T) {
	app, store, _, err := mount(t, `<div id="app"><h1>{{ msg }}</h1><p>{{ msg }}</p></div>`,
		map[string]any{"msg": "hi"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if n := len(store.Registry().ObserversFor("msg")); n != 2 {
		t.Fatalf("observers for msg = %d", n)
	}
	_ = store.Set("msg", "bye")
	if app.QuerySelector("h1").TextContent() != "bye" || app.QuerySelector("p").TextContent() != "bye" {
		t.Errorf("got h1=%q p=%q", app.QuerySelector("h1").TextContent(), app.QuerySelector("p").TextContent())
	}
}

func TestBindModel(t *testing.T) {
	app, store, b, err := mount(t, `<div id="app"><input id="name" v-model="name"><p>{{ name }}</p></div>`,
		map[string]any{"name": "Grace"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	input := app.QuerySelector("#name")
	if input.Value() != "Grace" {
		t.Errorf("initial value = %q", input.Value())
	}

	if err := input.Input("Ada"); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get("name"); v != "Ada" {
		t.Errorf("store name = %v", v)
	}
	if got := app.QuerySelector("p").TextContent(); got != "Ada" {
		t.Errorf("p = %q", got)
	}

	// Programmatic writes reach the input too.
	_ = store.Set("name", "Linus")
	if input.Value() != "Linus" {
		t.Errorf("input value = %q", input.Value())
	}

	if s := b.Stats(); s.Models != 1 || s.Listeners != 1 || s.Observers != 2 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestBindSelectModelUsesChange(t *testing.T) {
	app, store, _, err := mount(t, `<div id="app"><select v-model="pick"><option value="a">A</option></select></div>`,
		map[string]any{"pick": "a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	sel := app.QuerySelector("select")
	sel.SetValue("b")
	if err := sel.DispatchEvent(dom.NewEvent("change")); err != nil {
		t.Fatal(err)
	}
	if v, _ := store.Get("pick"); v != "b" {
		t.Errorf("pick = %v", v)
	}
}

func TestBindEvents(t *testing.T) {
	var calls [][]any
	methods := map[string]Method{
		"add": func(ev *dom.Event, args []any) error {
			calls = append(calls, args)
			return nil
		},
	}
	app, store, b, err := mount(t,
		`<div id="app"><button id="one" @click="add(1, step, 'x')">+</button><input id="in" v-on:input="add($event)"></div>`,
		map[string]any{"step": 3}, methods)
	if err != nil {
		t.Fatal(err)
	}

	_ = store.Set("step", 4)
	if err := app.QuerySelector("#one").Click(); err != nil {
		t.Fatal(err)
	}
	if err := app.QuerySelector("#in").Input("typed"); err != nil {
		t.Fatal(err)
	}

	want := [][]any{{1, 4, "x"}, {"typed"}}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if b.Stats().Listeners != 2 {
		t.Errorf("Listeners = %d", b.Stats().Listeners)
	}
}

func TestBindSkipsScriptAndMountAttrs(t *testing.T) {
	_, store, _, err := mount(t,
		`<div id="app" @click="nope"><script>var s = "{{ x }}";</script><style>p{}</style></div>`,
		map[string]any{}, nil)
	if err != nil {
		t.Fatalf("script contents and mount attributes must be ignored: %v", err)
	}
	if store.Registry().Len() != 0 {
		t.Error("no observers expected")
	}
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"unknown interpolation key", `<div id="app"><p>{{ missing }}</p></div>`, "E010"},
		{"unknown model key", `<div id="app"><input v-model="missing"></div>`, "E010"},
		{"unknown arg key", `<div id="app"><button @click="go(missing)"></button></div>`, "E010"},
		{"unknown method", `<div id="app"><button @click="nope"></button></div>`, "E011"},
		{"bad handler", `<div id="app"><button @click="go("></button></div>`, "E012"},
		{"bad interpolation", `<div id="app"><p>{{ a + b }}</p></div>`, "E013"},
		{"model on div", `<div id="app"><div v-model="k"></div></div>`, "E015"},
	}

	methods := map[string]Method{"go": func(*dom.Event, []any) error { return nil }}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := mount(t, tt.src, map[string]any{"k": 1}, methods)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Code(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
			var be *errors.BindError
			if !stderrors.As(err, &be) || be.Location == nil || be.Location.Source != "test.html" {
				t.Errorf("missing location: %+v", be)
			}
		})
	}
}

func TestBindCollectsAllErrors(t *testing.T) {
	app, store, _, err := mount(t, `<div id="app"><p>{{ a }}</p><p>{{ ok }}</p><p>{{ b }}</p></div>`,
		map[string]any{"ok": "yes"}, nil)

	joined, isJoined := err.(interface{ Unwrap() []error })
	if !isJoined || len(joined.Unwrap()) != 2 {
		t.Fatalf("err = %v, want two joined errors", err)
	}
	if !stderrors.Is(err, reactive.ErrUnknownKey) {
		t.Error("unknown-key errors should match reactive.ErrUnknownKey")
	}
	// The valid binding is still wired.
	_ = store.Set("ok", "still")
	if app.QuerySelectorAll("p")[1].TextContent() != "still" {
		t.Error("valid binding not wired")
	}
}

func TestDescribe(t *testing.T) {
	doc, _ := dom.ParseString(`<div id="app"><p>x</p></div>`)
	p := doc.QuerySelector("p")
	if got := describe(p); got != "html>body>div#app>p" {
		t.Errorf("describe = %q", got)
	}
}
