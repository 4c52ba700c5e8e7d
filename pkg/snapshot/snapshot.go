// Package snapshot stores the latest known Node tree per document ID so a
// transport caller can fetch the "old" side of a diff without round-
// tripping the whole tree on every request. The Store interface and its
// in-memory implementation follow the teacher's small-interface-plus-
// swappable-backend shape; S3Store adapts the teacher's upload.S3Store
// (pkg/upload/s3_example.go) from a temp-file upload store into a
// durable, overwrite-in-place document store.
package snapshot

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vtree-dev/vtree/internal/errors"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

// Store persists the latest Node tree for a document ID.
type Store interface {
	// Get returns the stored tree for docID, or an E060 error if none exists.
	Get(ctx context.Context, docID string) (*vtree.Node, error)

	// Put stores tree as the latest snapshot for docID.
	Put(ctx context.Context, docID string, tree *vtree.Node) error
}

// MemoryStore is an in-process Store backed by a map, guarded by a mutex the
// way the teacher's in-memory session registries are.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*vtree.Node
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*vtree.Node)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, docID string) (*vtree.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tree, ok := s.docs[docID]
	if !ok {
		return nil, errors.New("E060").WithDetail("no snapshot for document " + docID)
	}
	return tree, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, docID string, tree *vtree.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docID] = tree
	return nil
}

// marshalTree is shared by every non-memory Store implementation.
func marshalTree(tree *vtree.Node) ([]byte, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, errors.New("E062").Wrap(err)
	}
	return data, nil
}

// unmarshalTree is shared by every non-memory Store implementation.
func unmarshalTree(data []byte) (*vtree.Node, error) {
	var tree vtree.Node
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.New("E062").Wrap(err)
	}
	return &tree, nil
}
