// Package reactive provides the dependency-tracking core of vbind.
//
// A Store wraps a fixed set of data keys. Every write goes through Set, which
// stores the value and then refreshes every Observer registered for that key
// in the Registry. Observers bind one key to one rendering slot (a Target and
// the property to write).
//
// # Core Types
//
// Store intercepts reads and writes:
//
//	reg := reactive.NewRegistry()
//	store := reactive.NewStore(map[string]any{"count": 0}, reg)
//	reg.Register("count", reactive.NewObserver(store, "count", node, "textContent"))
//
//	store.Set("count", 5) // node now reads "5"
//
// Facade exposes per-key accessors over the same store:
//
//	f := reactive.NewFacade(store)
//	f.Field("count").Set(6)
//
// # Update Semantics
//
// Set never compares the old and new value; every assignment refreshes all
// dependents, in registration order, before Set returns. Refresh failures do
// not stop the fan-out: all observers are attempted and the failures are
// joined into the returned error.
//
// # Thread Safety
//
// Values and registry lists are guarded, so concurrent reads are safe.
// Targets are written without synchronization; hosts that mutate from more
// than one goroutine must serialize Set calls themselves.
package reactive
