// Package transport exposes vtree.Diff over HTTP and WebSocket, grounded on
// the teacher's pkg/server: a chi-routed HTTP surface (test/integration/chi_test.go's
// router.Use/r.Handle shape) fronting a gorilla/websocket connection hub
// (pkg/server/websocket.go's upgrade-then-read-loop shape).
//
// POST /diff computes a patch between two trees (either side, if omitted, is
// the document's latest stored snapshot) and returns it as JSON. GET /ws?doc=<id> subscribes a socket to
// a document's patch stream: every subsequent /diff call for that document
// also pushes the patch to subscribed sockets, modeling the renderer
// collaborator the diffing core itself never implements.
package transport
