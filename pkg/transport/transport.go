package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	vtreeerrors "github.com/vtree-dev/vtree/internal/errors"
	"github.com/vtree-dev/vtree/pkg/metrics"
	"github.com/vtree-dev/vtree/pkg/snapshot"
	"github.com/vtree-dev/vtree/pkg/tracing"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

// Config configures a Server.
type Config struct {
	// Store persists document snapshots. Required.
	Store snapshot.Store

	// Tracer wraps Diff calls in OpenTelemetry spans. Defaults to
	// tracing.New(tracing.WithDiffFunc(metrics.InstrumentedDiff)) if unset.
	Tracer *tracing.Tracer

	// Logger receives request-lifecycle and subscriber-drop events.
	Logger *slog.Logger

	// CheckOrigin authorizes WebSocket upgrade requests. Defaults to the
	// gorilla/websocket package default (same-origin only) if unset.
	CheckOrigin func(r *http.Request) bool
}

// Server hosts the diff HTTP endpoint and the patch-broadcast WebSocket hub.
type Server struct {
	store    snapshot.Store
	tracer   *tracing.Tracer
	logger   *slog.Logger
	upgrader websocket.Upgrader
	hub      *Hub
}

// New builds a Server from cfg.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		panic("transport: Config.Store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		// Compose tracing with Prometheus instrumentation by default: every
		// Diff call both gets a span and counts toward the diffs_total /
		// diff_duration_seconds / patch_ops collectors.
		tracer = tracing.New(tracing.WithDiffFunc(metrics.InstrumentedDiff))
	}
	return &Server{
		store:  cfg.Store,
		tracer: tracer,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: cfg.CheckOrigin,
		},
		hub: NewHub(logger),
	}
}

// Router builds the chi handler exposing POST /diff and GET /ws, grounded
// on the teacher's chi.NewRouter / r.Use / r.Handle composition
// (test/integration/chi_test.go).
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Post("/diff", s.handleDiff)
	r.Get("/ws", s.handleWS)
	return r
}

// diffRequest is the POST /diff wire payload. Old and New are raw node
// trees; either may be omitted, in which case the handler loads the
// document's most recent stored snapshot instead.
type diffRequest struct {
	DocID string          `json:"docID"`
	Old   json.RawMessage `json:"old,omitempty"`
	New   json.RawMessage `json:"new,omitempty"`
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req diffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, vtreeerrors.New("E020").Wrap(err))
		return
	}
	if req.DocID == "" {
		writeError(w, vtreeerrors.New("E040"))
		return
	}

	old, err := s.resolveTree(ctx, req.DocID, req.Old)
	if err != nil {
		writeError(w, err)
		return
	}
	newTree, err := s.resolveTree(ctx, req.DocID, req.New)
	if err != nil {
		writeError(w, err)
		return
	}

	op, err := s.tracer.Diff(ctx, old, newTree)
	if err != nil {
		writeError(w, vtreeerrors.New("E020").WithDetail("tree violates keyed-children invariants").Wrap(err))
		return
	}

	if err := s.store.Put(ctx, req.DocID, newTree); err != nil {
		writeError(w, err)
		return
	}
	if err := s.hub.Publish(req.DocID, op); err != nil {
		s.logger.Warn("failed to publish patch", "doc", req.DocID, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(op); err != nil {
		s.logger.Error("failed to encode patch response", "error", err)
	}
}

// resolveTree decodes raw if present, otherwise loads docID's latest stored
// snapshot.
func (s *Server) resolveTree(ctx context.Context, docID string, raw json.RawMessage) (*vtree.Node, error) {
	if len(raw) == 0 {
		return s.store.Get(ctx, docID)
	}
	var n vtree.Node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, malformedPayloadError(raw, err)
	}
	return &n, nil
}

// malformedPayloadError reports a node-payload decode failure with the
// offending line shown inline. The payload arrives over the wire rather
// than from a file on disk, so WithLocation's own file read can't recover
// source context the way it can for internal/config's file-backed errors;
// WithContext carries the lines this handler already has in memory.
func malformedPayloadError(raw []byte, err error) *vtreeerrors.TreeError {
	te := vtreeerrors.New("E020").Wrap(err)
	offset, ok := jsonErrorOffset(err)
	if !ok {
		return te
	}
	line, col := lineColAtOffset(raw, offset)
	return te.WithLocation("request body", line, col).WithContext(linesAround(raw, line, 2))
}

func jsonErrorOffset(err error) (int64, bool) {
	switch e := err.(type) {
	case *json.SyntaxError:
		return e.Offset, true
	case *json.UnmarshalTypeError:
		return e.Offset, true
	default:
		return 0, false
	}
}

// lineColAtOffset converts a byte offset into a 1-based line/column pair.
func lineColAtOffset(data []byte, offset int64) (line, col int) {
	line = 1
	lastNewline := -1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			lastNewline = int(i)
		}
	}
	col = int(offset) - lastNewline
	return line, col
}

// linesAround returns the lines within radius of line (1-based, inclusive).
func linesAround(data []byte, line, radius int) []string {
	all := strings.Split(string(data), "\n")
	start := line - radius
	if start < 1 {
		start = 1
	}
	end := line + radius
	if end > len(all) {
		end = len(all)
	}
	if start > end {
		return nil
	}
	return all[start-1 : end]
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("doc")
	if docID == "" {
		writeError(w, vtreeerrors.New("E040"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Subscribe(docID, conn)
	defer func() {
		s.hub.Unsubscribe(docID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("websocket read error", "doc", docID, "error", err)
			}
			return
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	te, ok := err.(*vtreeerrors.TreeError)
	if !ok {
		te = vtreeerrors.New("E061").Wrap(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForCategory(te.Category))
	json.NewEncoder(w).Encode(map[string]string{
		"code":    te.Code,
		"message": te.Message,
	})
}

func statusForCategory(cat vtreeerrors.Category) int {
	switch cat {
	case vtreeerrors.CategoryTransport:
		return http.StatusBadRequest
	case vtreeerrors.CategoryCodec:
		return http.StatusUnprocessableEntity
	case vtreeerrors.CategorySnapshot:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
