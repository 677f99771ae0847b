package reactive

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned when Get or Set is called with a key that was not
// present in the data the Store was created with.
var ErrUnknownKey = errors.New("reactive: unknown data key")

// ErrMissingTarget is returned when an Observer's target is no longer
// connected to its document.
var ErrMissingTarget = errors.New("reactive: observer target detached")

// KeyError reports an access to a key outside the store's fixed key set.
type KeyError struct {
	Op  string // "get" or "set"
	Key string
}

// Error implements the error interface.
func (e *KeyError) Error() string {
	return fmt.Sprintf("reactive: %s %q: unknown data key", e.Op, e.Key)
}

// Is reports whether target is ErrUnknownKey.
func (e *KeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// RefreshError reports a failed Observer refresh.
type RefreshError struct {
	Key        string
	Attr       string
	ObserverID uint64
	Err        error
}

// Error implements the error interface.
func (e *RefreshError) Error() string {
	return fmt.Sprintf("reactive: refresh observer %d (%s -> %s): %v", e.ObserverID, e.Key, e.Attr, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RefreshError) Unwrap() error {
	return e.Err
}
