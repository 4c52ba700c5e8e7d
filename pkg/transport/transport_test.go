package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vtree-dev/vtree/pkg/snapshot"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(Config{
		Store:       snapshot.NewMemoryStore(),
		CheckOrigin: func(*http.Request) bool { return true },
	})
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestHandleDiffWithInlineTrees(t *testing.T) {
	_, ts := newTestServer(t)

	oldNode, _ := json.Marshal(vtree.Element("div", vtree.Class("a")))
	newNode, _ := json.Marshal(vtree.Element("div", vtree.Class("b")))
	body, _ := json.Marshal(map[string]json.RawMessage{
		"docID": json.RawMessage(`"doc-1"`),
		"old":   oldNode,
		"new":   newNode,
	})

	resp, err := http.Post(ts.URL+"/diff", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /diff: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var op vtree.NodeOp
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if op.Kind != vtree.OpUpdate {
		t.Fatalf("op.Kind = %v, want OpUpdate", op.Kind)
	}
}

func TestHandleDiffMissingDocIDReturns400(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/diff", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("POST /diff: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleDiffOmittedOldWithoutSnapshotReturns404(t *testing.T) {
	_, ts := newTestServer(t)

	first, _ := json.Marshal(vtree.Element("div", vtree.Class("a")))
	body, _ := json.Marshal(map[string]json.RawMessage{
		"docID": json.RawMessage(`"doc-2"`),
		"new":   first,
	})
	resp, err := http.Post(ts.URL+"/diff", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /diff (seed): %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("seeding with no prior snapshot: status = %d, want 404", resp.StatusCode)
	}
}

func TestHandleWSMissingDocReturns400(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatalf("GET /ws: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleWSSubscribesAndReceivesPublishedPatch(t *testing.T) {
	s, ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?doc=doc-3"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give the server goroutine a moment to register the subscription
	for i := 0; i < 100 && s.hub.subscriberCount("doc-3") == 0; i++ {
		time.Sleep(time.Millisecond)
	}

	if err := s.hub.Publish("doc-3", vtree.Skip(1)); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var op vtree.NodeOp
	if err := json.Unmarshal(data, &op); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}
	if op.Kind != vtree.OpSkip {
		t.Fatalf("op.Kind = %v, want OpSkip", op.Kind)
	}
}
