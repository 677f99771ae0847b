package reactive

import "sync/atomic"

// observerIDCounter is the source of unique observer IDs.
var observerIDCounter uint64

// nextID returns the next observer ID. IDs are never reused.
func nextID() uint64 {
	return atomic.AddUint64(&observerIDCounter, 1)
}
