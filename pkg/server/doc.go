// Package server serves a bound document and lets clients mutate its data
// over a websocket.
//
// Every operation received on /ws is applied to the document's binding
// core under one lock, acknowledged to the sender, and followed by a
// "render" message carrying the new body HTML to every connected client.
//
// Routes:
//
//	GET /         full document with a small live-update script
//	GET /data     current data as JSON
//	GET /ws       operation channel
//	GET /metrics  Prometheus metrics (when a gatherer is configured)
//
// Operations are JSON objects:
//
//	{"id": 1, "op": "set", "values": {"title": "Hello"}}
//	{"id": 2, "op": "push", "ref": "items", "items": [{"v": 4}]}
//	{"id": 3, "op": "move", "ref": "items", "from": 0, "to": 2}
package server
