// Package vtest provides testing helpers for vbind templates.
//
// A Harness mounts a template, drives it with simulated events and asserts
// on the resulting DOM. Failures are reported through the testing.TB, so
// calls chain without error handling.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    vtest.Mount(t, `<div id="app"><button @click="inc">+</button>{{ n }}</div>`, vbind.Options{
//	        Data:    map[string]any{"n": 0},
//	        Methods: map[string]vbind.Method{"inc": inc},
//	    }).
//	        ExpectText("#app", "+0").
//	        Click("button").
//	        ExpectText("#app", "+1")
//	}
//
// # Form Input
//
//	h.Input("input[name=email]", "ada@example.com").
//	    ExpectData("email", "ada@example.com")
package vtest
