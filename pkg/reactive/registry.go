package reactive

import (
	"sort"
	"sync"
)

// Registry maps data keys to the ordered observers that depend on them.
//
// It is filled once by the binder and read by the Store on every Set.
type Registry struct {
	deps map[string]*observerList
	mu   sync.RWMutex
}

// observerList is boxed so that ObserversFor hands out the same list for a
// key on every call.
type observerList struct {
	items []*Observer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		deps: make(map[string]*observerList),
	}
}

// Register appends o to the list for key, creating the list on first use.
// Observers are refreshed in the order they were registered.
func (r *Registry) Register(key string, o *Observer) {
	if o == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.deps[key]
	if !ok {
		list = &observerList{}
		r.deps[key] = list
	}
	list.items = append(list.items, o)
}

// ObserversFor returns the observers registered for key in registration
// order, or nil if there are none. The returned slice must not be modified.
func (r *Registry) ObserversFor(key string) []*Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if list, ok := r.deps[key]; ok {
		return list.items
	}
	return nil
}

// Keys returns the keys that have at least one observer, sorted.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.deps))
	for k := range r.deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the total number of registered observers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, list := range r.deps {
		n += len(list.items)
	}
	return n
}
