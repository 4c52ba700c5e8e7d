package transport

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vtree-dev/vtree/pkg/vtree"
)

// Hub fans a document's computed patches out to every WebSocket subscribed
// to that document, grounded on the teacher's per-session write loop in
// pkg/server/websocket.go, generalized here from one connection per session
// to many connections per document.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*websocket.Conn]struct{}

	logger *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{subs: make(map[string]map[*websocket.Conn]struct{}), logger: logger}
}

// Subscribe registers conn to receive patches published for docID.
func (h *Hub) Subscribe(docID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[docID]
	if !ok {
		set = make(map[*websocket.Conn]struct{})
		h.subs[docID] = set
	}
	set[conn] = struct{}{}
}

// Unsubscribe removes conn from docID's subscriber set.
func (h *Hub) Unsubscribe(docID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[docID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.subs, docID)
	}
}

// Publish JSON-encodes patch and writes it to every socket subscribed to
// docID. A write failure drops that subscriber rather than aborting the
// publish to the rest.
func (h *Hub) Publish(docID string, patch vtree.NodeOp) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[docID]))
	for c := range h.subs[docID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warn("dropping unresponsive subscriber", "doc", docID, "error", err)
			h.Unsubscribe(docID, c)
		}
	}
	return nil
}

// subscriberCount reports how many sockets are subscribed to docID, for tests.
func (h *Hub) subscriberCount(docID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[docID])
}
