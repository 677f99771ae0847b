package live

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/instrument"
)

const page = `<!DOCTYPE html><html><head><title>t</title></head><body>
<div id="app">
  <p>Count: {{ count }}</p>
  <h2>{{ count }} / {{ name }}</h2>
  <input v-model="name">
  <button @click="add(1)">+</button>
</div>
</body></html>`

func newServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(doc, vbind.Options{
		Data: map[string]any{"count": 0.0, "name": "Ada"},
		Methods: map[string]vbind.Method{
			"add": func(vm *vbind.VM, ev *dom.Event, args []any) error {
				return vm.Field("count").Update(func(v any) any {
					return v.(float64) + float64(args[0].(int))
				})
			},
		},
	}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPage(t *testing.T) {
	s := newServer(t, Config{})
	rec := do(t, s.Handler(), "GET", "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<p>Count: 0</p>") {
		t.Errorf("page not painted:\n%s", body)
	}
	if !strings.Contains(body, `@click="add(1)"`) {
		t.Error("directives should be kept for the client script")
	}
	if idx := strings.Index(body, "new WebSocket"); idx == -1 || idx > strings.Index(body, "</body>") {
		t.Error("client script should be injected before </body>")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDataEndpoints(t *testing.T) {
	s := newServer(t, Config{})
	h := s.Handler()

	rec := do(t, h, "POST", "/api/data/count", "5")
	if rec.Code != http.StatusOK {
		t.Fatalf("set status = %d body = %s", rec.Code, rec.Body)
	}
	var setResp SetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &setResp); err != nil {
		t.Fatal(err)
	}
	// One patch each for p and h2.
	if setResp.Patches != 2 || setResp.Value != 5.0 {
		t.Errorf("set response = %+v", setResp)
	}

	rec = do(t, h, "GET", "/api/data", "")
	var data map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data["count"] != 5.0 || data["name"] != "Ada" {
		t.Errorf("data = %v", data)
	}

	if !strings.Contains(do(t, h, "GET", "/", "").Body.String(), "<p>Count: 5</p>") {
		t.Error("page should reflect the update")
	}
}

func TestDataErrors(t *testing.T) {
	s := newServer(t, Config{})
	h := s.Handler()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown key", "/api/data/nope", "1", http.StatusNotFound, "E001"},
		{"bad json", "/api/data/count", "{", http.StatusBadRequest, "E031"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", tt.path, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var resp ErrorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestSetDetachedTarget(t *testing.T) {
	s := newServer(t, Config{})
	h := s.Handler()
	if _, err := s.Do(func(vm *vbind.VM) error {
		vm.Query("p").Remove()
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	rec := do(t, h, "POST", "/api/data/count", "3")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != "E002" {
		t.Errorf("code = %q, want E002", resp.Code)
	}
}

func TestDispatch(t *testing.T) {
	s := newServer(t, Config{})
	h := s.Handler()

	rec := do(t, h, "POST", "/api/dispatch", `{"selector":"button","event":"click"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	rec = do(t, h, "POST", "/api/dispatch", `{"selector":"input","event":"input","value":"Grace"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}

	s.Do(func(vm *vbind.VM) error {
		if got := vm.Query("h2").TextContent(); got != "1 / Grace" {
			t.Errorf("h2 = %q", got)
		}
		return nil
	})

	// The button by element path: html > body > div#app > button.
	doRec := do(t, h, "POST", "/api/dispatch", `{"path":[0,1,0,3],"event":"click"}`)
	if doRec.Code != http.StatusOK {
		t.Fatalf("path dispatch status = %d body = %s", doRec.Code, doRec.Body)
	}
	s.Do(func(vm *vbind.VM) error {
		if v, _ := vm.Get("count"); v != 2.0 {
			t.Errorf("count = %v", v)
		}
		return nil
	})

	for _, body := range []string{
		`{"selector":"nav","event":"click"}`,
		`{"path":[0,9],"event":"click"}`,
	} {
		if rec := do(t, h, "POST", "/api/dispatch", body); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
	}
	if rec := do(t, h, "POST", "/api/dispatch", `{"selector":"button"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing event: status = %d", rec.Code)
	}
}

func TestWebSocketPatches(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := instrument.NewMetrics(instrument.WithRegistry(reg))
	s := newServer(t, Config{
		Metrics:        metrics,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Stop()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello Message
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatal(err)
	}
	if hello.Type != MessageHello || hello.ID == "" {
		t.Fatalf("hello = %+v", hello)
	}
	waitFor(t, func() bool { return s.Hub().ClientCount() == 1 })

	resp, err := http.Post(ts.URL+"/api/data/name", "application/json", strings.NewReader(`"Lin"`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	var got []Message
	for len(got) < 2 {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read patch %d: %v", len(got), err)
		}
		got = append(got, m)
	}

	h2 := got[0]
	if h2.Type != MessagePatch || h2.Attr != "text" || h2.Slot != 0 || h2.Value != "0 / Lin" {
		t.Errorf("h2 patch = %+v", h2)
	}
	if len(h2.Path) != 4 || h2.Path[3] != 1 {
		t.Errorf("h2 path = %v", h2.Path)
	}
	input := got[1]
	if input.Attr != "value" || input.Value != "Lin" {
		t.Errorf("input patch = %+v", input)
	}

	mresp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer mresp.Body.Close()
	var buf strings.Builder
	_, _ = io.Copy(&buf, mresp.Body)
	for _, want := range []string{"vbind_patches_sent_total 2", "vbind_live_clients 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestTextPatchKeepsSiblings(t *testing.T) {
	doc, err := dom.ParseString(`<html><body><div id="app">{{ x }}<input v-model="y">{{ y }}!</div></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(doc, vbind.Options{Data: map[string]any{"x": "a", "y": "b"}}, Config{})
	if err != nil {
		t.Fatal(err)
	}

	set := func(key string, v any) []Message {
		t.Helper()
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.vm.Set(key, v); err != nil {
			t.Fatal(err)
		}
		out := coalesce(s.pending)
		s.pending = nil
		return out
	}

	got := set("x", "hi")
	if len(got) != 1 {
		t.Fatalf("patches = %+v", got)
	}
	if m := got[0]; m.Attr != "text" || m.Slot != 0 || m.Value != "hi" {
		t.Errorf("x patch = %+v", m)
	}

	got = set("y", "z")
	if len(got) != 2 {
		t.Fatalf("patches = %+v", got)
	}
	if m := got[0]; m.Attr != "value" || m.Value != "z" {
		t.Errorf("input patch = %+v", m)
	}
	if m := got[1]; m.Attr != "text" || m.Slot != 1 || m.Value != "z!" {
		t.Errorf("y patch = %+v", m)
	}
}

func TestCoalesce(t *testing.T) {
	in := []Message{
		{Path: []int{0}, Attr: "text", Value: "a"},
		{Path: []int{1}, Attr: "value", Value: "x"},
		{Path: []int{0}, Attr: "text", Slot: 1, Value: "c"},
		{Path: []int{0}, Attr: "text", Value: "b"},
	}
	out := coalesce(in)
	if len(out) != 3 || out[0].Value != "b" || out[1].Value != "x" || out[2].Value != "c" {
		t.Errorf("coalesce = %+v", out)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
