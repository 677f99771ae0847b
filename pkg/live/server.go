package live

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/instrument"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/render"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address for Start. Default: "localhost:3000".
	Addr string

	// Logger is the structured logger. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Metrics, if set, counts patches and live clients.
	Metrics *instrument.Metrics

	// MetricsHandler is mounted at MetricsPath when non-nil.
	MetricsHandler http.Handler

	// MetricsPath defaults to "/metrics".
	MetricsPath string
}

// Server hosts one VM.
type Server struct {
	cfg    Config
	logger *slog.Logger
	hub    *Hub
	router chi.Router

	// mu serializes every VM access. pending is filled by refreshes that
	// happen under mu and drained by the request that caused them.
	mu      sync.Mutex
	vm      *vbind.VM
	pending []Message

	httpServer *http.Server
}

// New mounts a VM on doc and returns a server for it. The server chains its
// own hooks after opts.Hooks.
func New(doc *dom.Node, opts vbind.Options, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:3000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
		hub:    NewHub(cfg.Logger),
	}
	if cfg.Metrics != nil {
		s.hub.OnCount = cfg.Metrics.SetLiveClients
	}

	opts.Hooks = reactive.ChainHooks(opts.Hooks, reactive.Hooks{OnRefresh: s.recordPatch})
	if opts.Logger == nil {
		opts.Logger = cfg.Logger
	}
	vm, err := vbind.New(doc, opts)
	if err != nil {
		return nil, err
	}
	s.vm = vm
	s.pending = nil

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.hub.HandleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/data", s.handleData)
		r.Post("/data/{key}", s.handleSet)
		r.Post("/dispatch", s.handleDispatch)
	})
	if s.cfg.MetricsHandler != nil {
		r.Handle(s.cfg.MetricsPath, s.cfg.MetricsHandler)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Do runs fn with exclusive access to the VM and broadcasts the patches it
// produced. It returns the number of patches sent.
func (s *Server) Do(fn func(vm *vbind.VM) error) (int, error) {
	s.mu.Lock()
	err := fn(s.vm)
	patches := coalesce(s.pending)
	s.pending = nil
	s.mu.Unlock()

	s.hub.Broadcast(patches...)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordPatches(len(patches))
	}
	return len(patches), err
}

// recordPatch runs under mu, from inside a Set.
func (s *Server) recordPatch(o *reactive.Observer, err error) {
	if err != nil {
		return
	}
	node, ok := o.Target().(*dom.Node)
	if !ok {
		return
	}
	el := dom.ClosestElement(node)
	if el == nil {
		return
	}

	msg := Message{Type: MessagePatch, Path: dom.ElementPath(el), Attr: o.Attr()}
	switch {
	case node.Type == dom.TextNode:
		msg.Attr = "text"
		msg.Slot, msg.Value = dom.TextSlot(node)
	case o.Attr() == "value":
		msg.Value = el.Value()
	case o.Attr() == "textContent" || o.Attr() == "innerText":
		msg.Attr = "textContent"
		msg.Value = el.TextContent()
	default:
		msg.Value, _ = el.GetAttribute(o.Attr())
	}
	s.pending = append(s.pending, msg)
}

// coalesce keeps the last patch per element, attribute and text slot, in
// order of first appearance.
func coalesce(msgs []Message) []Message {
	if len(msgs) < 2 {
		return msgs
	}
	index := make(map[string]int, len(msgs))
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		k := fmt.Sprint(m.Path, m.Attr, m.Slot)
		if i, ok := index[k]; ok {
			out[i] = m
			continue
		}
		index[k] = len(out)
		out = append(out, m)
	}
	return out
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page, err := s.vm.RenderDocument(render.RendererConfig{})
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	if idx := strings.LastIndex(page, "</body>"); idx != -1 {
		page = page[:idx] + ClientScript + page[idx:]
	} else {
		page += ClientScript
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := s.vm.Data()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, data)
}

// SetResponse is the body of a successful POST /api/data/{key}.
type SetResponse struct {
	Key     string `json:"key"`
	Value   any    `json:"value"`
	Patches int    `json:"patches"`
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var value any
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("E031").Wrap(err))
		return
	}

	n, err := s.Do(func(vm *vbind.VM) error { return vm.Set(key, value) })
	switch {
	case stderrors.Is(err, reactive.ErrUnknownKey):
		s.writeError(w, http.StatusNotFound, errors.FromSet(err))
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, errors.FromSet(err))
		return
	}
	s.writeJSON(w, http.StatusOK, SetResponse{Key: key, Value: value, Patches: n})
}

// DispatchRequest is the body of POST /api/dispatch. Path, an element path
// as produced by dom.ElementPath, takes precedence over Selector.
type DispatchRequest struct {
	Selector string `json:"selector,omitempty"`
	Path     []int  `json:"path,omitempty"`
	Event    string `json:"event"`
	Value    string `json:"value,omitempty"`
}

// DispatchResponse is the body of a successful dispatch.
type DispatchResponse struct {
	Patches int `json:"patches"`
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Event == "" || (req.Selector == "" && req.Path == nil) {
		s.writeError(w, http.StatusBadRequest, stderrors.New("event and one of selector or path are required"))
		return
	}

	n, err := s.Do(func(vm *vbind.VM) error {
		if req.Path != nil {
			node := dom.ElementAt(vm.Document(), req.Path)
			if node == nil {
				return fmt.Errorf("%w: path %v", vbind.ErrNoMatch, req.Path)
			}
			return vm.DispatchNode(node, req.Event, req.Value)
		}
		return vm.Dispatch(req.Selector, req.Event, req.Value)
	})
	switch {
	case stderrors.Is(err, vbind.ErrNoMatch):
		s.writeError(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.hub.Broadcast(Message{Type: MessageError, Error: err.Error()})
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DispatchResponse{Patches: n})
}

// ErrorResponse is the body of a failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug("api error", "status", status, "error", err)
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: errors.Code(err)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Start listens on Config.Addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("live server running", "url", "http://"+s.cfg.Addr, "vm", s.vm.ID())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		return err
	}
}

// Stop closes client connections and shuts the HTTP server down.
func (s *Server) Stop() {
	s.hub.Close()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
	}
}
