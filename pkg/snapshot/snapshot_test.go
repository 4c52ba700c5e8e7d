package snapshot

import (
	"context"
	"testing"

	"github.com/vtree-dev/vtree/internal/errors"
	"github.com/vtree-dev/vtree/pkg/vtree"
)

func TestMemoryStoreGetMissingReturnsE060(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "doc-1")
	if err == nil {
		t.Fatal("expected an error for a missing document")
	}
	te, ok := err.(*errors.TreeError)
	if !ok {
		t.Fatalf("expected *errors.TreeError, got %T", err)
	}
	if te.Code != "E060" {
		t.Fatalf("Code = %q, want E060", te.Code)
	}
}

func TestMemoryStorePutThenGetRoundTrips(t *testing.T) {
	s := NewMemoryStore()
	tree := vtree.Element("div", vtree.Class("a"), vtree.Kids(vtree.Text("hello")))

	if err := s.Put(context.Background(), "doc-1", tree); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, err := s.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Tag() != "div" {
		t.Fatalf("got.Tag() = %q, want div", got.Tag())
	}
}

func TestMemoryStorePutOverwritesInPlace(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "doc-1", vtree.Element("div")); err != nil {
		t.Fatalf("Put 1 returned error: %v", err)
	}
	if err := s.Put(ctx, "doc-1", vtree.Element("span")); err != nil {
		t.Fatalf("Put 2 returned error: %v", err)
	}
	got, err := s.Get(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Tag() != "span" {
		t.Fatalf("got.Tag() = %q, want span (overwrite should replace, not merge)", got.Tag())
	}
}

func TestMarshalUnmarshalTreeRoundTrips(t *testing.T) {
	tree := vtree.Element("ul", vtree.Kids(
		vtree.Element("li", vtree.Key("a"), vtree.Kids(vtree.Text("one"))),
		vtree.Element("li", vtree.Key("b"), vtree.Kids(vtree.Text("two"))),
	))

	data, err := marshalTree(tree)
	if err != nil {
		t.Fatalf("marshalTree returned error: %v", err)
	}
	got, err := unmarshalTree(data)
	if err != nil {
		t.Fatalf("unmarshalTree returned error: %v", err)
	}
	if got.Tag() != "ul" || len(got.Children()) != 2 {
		t.Fatalf("got = %+v, want round-tripped ul with 2 children", got)
	}
	key0, _ := got.Children()[0].Key()
	key1, _ := got.Children()[1].Key()
	if key0 != "a" || key1 != "b" {
		t.Fatalf("children keys not preserved: %q, %q", key0, key1)
	}
}

func TestUnmarshalTreeMalformedReturnsE062(t *testing.T) {
	_, err := unmarshalTree([]byte("not json"))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	te, ok := err.(*errors.TreeError)
	if !ok {
		t.Fatalf("expected *errors.TreeError, got %T", err)
	}
	if te.Code != "E062" {
		t.Fatalf("Code = %q, want E062", te.Code)
	}
}
