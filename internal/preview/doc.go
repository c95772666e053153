// Package preview serves a live preview of a tree file.
//
// The page is materialized once by a ui.Engine into an in-memory body
// element. Changing a variable through the HTTP API flushes the scheduler,
// which updates only the affected ranges, and the new markup is pushed to
// every connected browser over a WebSocket. Editing the tree file swaps the
// mounted page for a fresh one.
//
// Routes:
//
//	GET  /                    the page, with the live client script
//	GET  /_spark/ws           WebSocket push channel
//	GET  /_spark/vars         current variable values as JSON
//	POST /_spark/vars/{name}  set a variable ({"value": "..."})
//	GET  /metrics             Prometheus metrics
//	GET  /healthz             liveness probe
package preview
