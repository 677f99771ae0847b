package reactive

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// Store holds the data of one runtime instance and turns writes into
// observer refreshes.
type Store struct {
	values map[string]any
	mu     sync.RWMutex

	reg    *Registry
	hooks  Hooks
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for access tracing and refresh failures.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHooks installs instrumentation callbacks.
func WithHooks(h Hooks) StoreOption {
	return func(s *Store) {
		s.hooks = h
	}
}

// NewStore creates a Store over a copy of data. The keys of data are the
// store's fixed key set for its whole lifetime.
func NewStore(data map[string]any, reg *Registry, opts ...StoreOption) *Store {
	if reg == nil {
		reg = NewRegistry()
	}
	values := make(map[string]any, len(data))
	for k, v := range data {
		values[k] = v
	}

	s := &Store{
		values: values,
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the registry the store notifies.
func (s *Store) Registry() *Registry {
	return s.reg
}

// Has reports whether key belongs to the store's key set.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys returns the store's key set, sorted.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the current data.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Get returns the current value for key.
// It returns a *KeyError matching ErrUnknownKey if key is not tracked.
func (s *Store) Get(key string) (any, error) {
	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()

	if !ok {
		return nil, &KeyError{Op: "get", Key: key}
	}

	s.logger.Debug("access", "key", key)
	if s.hooks.OnGet != nil {
		s.hooks.OnGet(key)
	}
	return value, nil
}

// Set stores value under key and refreshes every dependent observer before
// returning. The refresh happens even if value equals the previous value.
//
// Unknown keys fail with a *KeyError and nothing is stored or refreshed.
// Otherwise the returned error is the joined refresh failures, if any.
func (s *Store) Set(key string, value any) error {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return &KeyError{Op: "set", Key: key}
	}
	s.values[key] = value
	s.mu.Unlock()

	s.logger.Debug("set", "key", key, "value", value)

	var done func(int, error)
	if s.hooks.OnSet != nil {
		done = s.hooks.OnSet(key)
	}

	refreshed, err := s.notify(key)

	if done != nil {
		done(refreshed, err)
	}
	return err
}

// Notify refreshes every observer registered for key, in registration
// order. A key without observers is a no-op.
func (s *Store) Notify(key string) error {
	_, err := s.notify(key)
	return err
}

// notify attempts every observer and joins the failures.
func (s *Store) notify(key string) (int, error) {
	observers := s.reg.ObserversFor(key)

	var errs []error
	for _, o := range observers {
		err := o.Refresh()
		if err != nil {
			s.logger.Warn("refresh failed",
				"key", key,
				"observer", o.ID(),
				"attr", o.Attr(),
				"error", err,
			)
			errs = append(errs, err)
		}
		if s.hooks.OnRefresh != nil {
			s.hooks.OnRefresh(o, err)
		}
	}
	return len(observers), errors.Join(errs...)
}
