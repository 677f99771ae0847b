// Package live serves a mounted VM over HTTP and streams its DOM updates to
// browsers over WebSocket.
//
// The page is the VM's document rendered with directives intact and a small
// client script appended. The script delegates DOM events to the server
// (POST /api/dispatch) and applies the patches pushed on /ws. Every
// observer refresh on the server becomes one patch, addressed by the
// element path of the refreshed node. Text bindings patch only their text
// slot, so neighbouring elements keep focus and typed input.
//
// Routes:
//
//	GET  /                 rendered page
//	GET  /ws               patch stream
//	GET  /api/data         current data as JSON
//	POST /api/data/{key}   set key to the JSON request body
//	POST /api/dispatch     {"selector" | "path", "event", "value"}
//	GET  /metrics          Prometheus metrics, if configured
//
// All VM access is serialized by the server. The DOM is not safe for
// concurrent use.
package live
