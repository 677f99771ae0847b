// Package binder compiles a dom tree against a reactive store.
//
// Bind walks the children of a mount element once and wires three kinds of
// markup:
//
//	<p>Count: {{ count }}</p>          text interpolation
//	<button @click="add(1)">+</button>  event handler
//	<input v-model="name">              two-way input binding
//
// Each interpolation marker gets its own text node and one observer that
// writes the key's value into it. Literal text around markers is kept in
// separate text nodes. Handlers are looked up by name; their arguments may be
// numbers, quoted strings, true/false/null, data keys (read when the event
// fires) or $event (the event's value). v-model writes the initial value,
// registers a value observer, and sets the key from the element's value on
// every input event.
//
// The lexer (ScanText, ParseHandler, EventName) is independent of the walk
// and can be used on its own.
package binder
