package reactive

import (
	"fmt"
	"strconv"
)

// Source is anything an Observer can read current values from.
// Store and Facade both implement it.
type Source interface {
	Get(key string) (any, error)
}

// Target is a rendering slot an Observer writes into.
// The dom package's *Node implements it.
type Target interface {
	// SetProperty writes value into the named property ("textContent",
	// "value", or an attribute name).
	SetProperty(name, value string) error

	// Connected reports whether the target is still attached to its document.
	Connected() bool
}

// Observer binds one data key to one property of one Target.
// It is immutable after construction.
type Observer struct {
	id     uint64
	src    Source
	key    string
	target Target
	attr   string
}

// NewObserver creates an Observer that refreshes target's attr from key.
// All arguments are required; passing a nil source or target, or an empty
// key or attribute, panics.
func NewObserver(src Source, key string, target Target, attr string) *Observer {
	if src == nil || target == nil {
		panic("reactive: NewObserver requires a source and a target")
	}
	if key == "" || attr == "" {
		panic("reactive: NewObserver requires a key and an attribute")
	}
	return &Observer{
		id:     nextID(),
		src:    src,
		key:    key,
		target: target,
		attr:   attr,
	}
}

// Refresh reads the current value of the observer's key and writes it into
// the target. Calling it repeatedly without an intervening Set yields the
// same content.
func (o *Observer) Refresh() error {
	if !o.target.Connected() {
		return o.fail(ErrMissingTarget)
	}

	value, err := o.src.Get(o.key)
	if err != nil {
		return o.fail(err)
	}

	if err := o.target.SetProperty(o.attr, Stringify(value)); err != nil {
		return o.fail(err)
	}
	return nil
}

func (o *Observer) fail(err error) error {
	return &RefreshError{Key: o.key, Attr: o.attr, ObserverID: o.id, Err: err}
}

// ID returns the observer's unique identifier.
func (o *Observer) ID() uint64 { return o.id }

// Key returns the data key the observer depends on.
func (o *Observer) Key() string { return o.key }

// Target returns the rendering slot the observer writes into.
func (o *Observer) Target() Target { return o.target }

// Attr returns the property the observer writes.
func (o *Observer) Attr() string { return o.attr }

// Stringify converts a data value to the text written into a target.
// nil renders as the empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
