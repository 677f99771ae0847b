package dom

import "errors"

// Listener handles an event dispatched to a node.
type Listener func(ev *Event) error

// Event is a dispatched DOM event.
type Event struct {
	// Type is the event name, e.g. "click" or "input".
	Type string

	// Target is the node the event was dispatched to.
	Target *Node

	// CurrentTarget is the node whose listeners are running.
	CurrentTarget *Node

	// Value carries the control value for input events.
	Value string

	stopped bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ}
}

// StopPropagation prevents the event from bubbling further.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// AddEventListener registers l for events of type typ on n.
func (n *Node) AddEventListener(typ string, l Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// ListenerCount returns the number of listeners registered for typ on n.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent runs the listeners for ev on n and then on each ancestor.
// Every listener runs even if an earlier one fails; failures are joined.
func (n *Node) DispatchEvent(ev *Event) error {
	ev.Target = n

	var errs []error
	for cur := n; cur != nil && !ev.stopped; cur = cur.Parent {
		ev.CurrentTarget = cur
		for _, l := range cur.listeners[ev.Type] {
			if err := l(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	ev.CurrentTarget = nil
	return errors.Join(errs...)
}

// Input sets the value of a form control and dispatches an "input" event,
// as a user typing would.
func (n *Node) Input(value string) error {
	n.SetValue(value)
	ev := NewEvent("input")
	ev.Value = value
	return n.DispatchEvent(ev)
}

// Click dispatches a "click" event on n.
func (n *Node) Click() error {
	return n.DispatchEvent(NewEvent("click"))
}
