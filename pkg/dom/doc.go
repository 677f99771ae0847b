// Package dom provides the in-memory document tree that vbind binds to.
//
// The tree mirrors the parts of the browser DOM the binder needs: element,
// text, comment and doctype nodes under a document root, ordered attributes,
// a "value" property for form controls, event listeners with bubbling, and
// simple CSS selectors.
//
// # Building Trees
//
// Trees are usually parsed from HTML:
//
//	doc, err := dom.Parse(strings.NewReader(`<div id="app">{{ count }}</div>`))
//	app := doc.QuerySelector("#app")
//
// or assembled by hand:
//
//	doc := dom.NewDocument()
//	p := dom.NewElement("p")
//	p.AppendChild(dom.NewText("hello"))
//	doc.AppendChild(p)
//
// # Properties
//
// *Node implements reactive.Target. SetProperty("textContent", s) replaces
// the node's text, SetProperty("value", s) sets a form control's value, and
// any other name is written as an attribute.
//
// # Events
//
// AddEventListener registers listeners; DispatchEvent runs the target's
// listeners and then bubbles to each ancestor until a listener calls
// StopPropagation.
package dom
