package vtree

import (
	"encoding/json"
	"fmt"
)

// Node, NodeOp, and AttrOp are pure data with no encoding concern of their
// own; the diff engine never serializes anything. pkg/transport needs a
// wire format to ship a Node tree to a caller and a NodeOp patch to a
// renderer, so the codec lives here, next to the types it encodes,
// grounded on the same "explicit codec for a tagged union" idiom the
// teacher's wire-facing protocol types use rather than relying on struct
// tags over an interface.

type nodeWire struct {
	Kind     string            `json:"kind"`
	Tag      string            `json:"tag,omitempty"`
	Void     bool              `json:"void,omitempty"`
	Key      string            `json:"key,omitempty"`
	HasKey   bool              `json:"hasKey,omitempty"`
	Classes  []string          `json:"classes,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*Node           `json:"children,omitempty"`
	Text     string            `json:"text,omitempty"`
}

// MarshalJSON encodes a Node for transport over the wire.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	w := nodeWire{Kind: n.kind.String()}
	switch n.kind {
	case KindText:
		w.Text = n.text
	case KindElement:
		w.Tag = n.tag
		w.Void = n.void
		if n.hasKey {
			w.Key = n.key
			w.HasKey = true
		}
		w.Classes = n.Classes()
		w.Attrs = n.attrs
		w.Children = n.children
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a Node received over the wire.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "Text":
		*n = Node{kind: KindText, text: w.Text}
	case "Element":
		classes := make(map[string]struct{}, len(w.Classes))
		for _, c := range w.Classes {
			classes[c] = struct{}{}
		}
		attrs := w.Attrs
		if attrs == nil {
			attrs = make(map[string]string)
		}
		*n = Node{
			kind:     KindElement,
			tag:      w.Tag,
			void:     w.Void,
			key:      w.Key,
			hasKey:   w.HasKey,
			classes:  classes,
			attrs:    attrs,
			children: w.Children,
		}
	default:
		return fmt.Errorf("vtree: unknown node kind %q", w.Kind)
	}
	return nil
}

type attrOpWire struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// MarshalJSON encodes an AttrOp for transport over the wire.
func (a AttrOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(attrOpWire{Kind: a.Kind.String(), Name: a.Name, Value: a.Value})
}

// UnmarshalJSON decodes an AttrOp received over the wire.
func (a *AttrOp) UnmarshalJSON(data []byte) error {
	var w attrOpWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := parseAttrOpKind(w.Kind)
	if err != nil {
		return err
	}
	a.Kind, a.Name, a.Value = kind, w.Name, w.Value
	return nil
}

func parseAttrOpKind(s string) (AttrOpKind, error) {
	switch s {
	case "InsertClass":
		return AttrOpInsertClass, nil
	case "RemoveClass":
		return AttrOpRemoveClass, nil
	case "Insert":
		return AttrOpInsert, nil
	case "Update":
		return AttrOpUpdate, nil
	case "Remove":
		return AttrOpRemove, nil
	default:
		return 0, fmt.Errorf("vtree: unknown AttrOp kind %q", s)
	}
}

type nodeOpWire struct {
	Kind      string   `json:"kind"`
	Count     int      `json:"count,omitempty"`
	NewIndex  int      `json:"newIndex,omitempty"`
	AttrDiff  []AttrOp `json:"attrDiff,omitempty"`
	ChildDiff []NodeOp `json:"childDiff,omitempty"`
	Inserts   []Insert `json:"inserts,omitempty"`
	New       *Node    `json:"new,omitempty"`
}

// MarshalJSON encodes a NodeOp for transport over the wire.
func (op NodeOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeOpWire{
		Kind:      op.Kind.String(),
		Count:     op.Count,
		NewIndex:  op.NewIndex,
		AttrDiff:  op.AttrDiff,
		ChildDiff: op.ChildDiff,
		Inserts:   op.Inserts,
		New:       op.New,
	})
}

// UnmarshalJSON decodes a NodeOp received over the wire.
func (op *NodeOp) UnmarshalJSON(data []byte) error {
	var w nodeOpWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, err := parseNodeOpKind(w.Kind)
	if err != nil {
		return err
	}
	*op = NodeOp{
		Kind:      kind,
		Count:     w.Count,
		NewIndex:  w.NewIndex,
		AttrDiff:  w.AttrDiff,
		ChildDiff: w.ChildDiff,
		Inserts:   w.Inserts,
		New:       w.New,
	}
	return nil
}

func parseNodeOpKind(s string) (NodeOpKind, error) {
	switch s {
	case "Skip":
		return OpSkip, nil
	case "Remove":
		return OpRemove, nil
	case "Move":
		return OpMove, nil
	case "Update":
		return OpUpdate, nil
	case "Replace":
		return OpReplace, nil
	default:
		return 0, fmt.Errorf("vtree: unknown NodeOp kind %q", s)
	}
}
