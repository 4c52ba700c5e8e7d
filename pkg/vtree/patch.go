package vtree

import "fmt"

// Defect signals a contract violation inside the diff engine: malformed
// input (an unkeyed child in a region that reached the keyed reconciler)
// or an internal invariant failure. There are no recoverable errors inside
// vtree — Diff is total for valid input, and a Defect is always a bug to
// report, never something to retry or recover from.
type Defect struct {
	Op  string
	Msg string
}

func (d Defect) Error() string {
	return fmt.Sprintf("vtree: %s: %s", d.Op, d.Msg)
}

// AttrOpKind discriminates the AttrOp sum type.
type AttrOpKind uint8

const (
	AttrOpInsertClass AttrOpKind = iota
	AttrOpRemoveClass
	AttrOpInsert
	AttrOpUpdate
	AttrOpRemove
)

func (k AttrOpKind) String() string {
	switch k {
	case AttrOpInsertClass:
		return "InsertClass"
	case AttrOpRemoveClass:
		return "RemoveClass"
	case AttrOpInsert:
		return "Insert"
	case AttrOpUpdate:
		return "Update"
	case AttrOpRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// AttrOp is one edit to an element's class set or attribute map.
// It is a closed sum type; switch on Kind and handle every case.
type AttrOp struct {
	Kind  AttrOpKind
	Name  string
	Value string // set only for AttrOpInsert / AttrOpUpdate
}

// AttrInsertClass records that Name should be added to the class set.
func AttrInsertClass(name string) AttrOp { return AttrOp{Kind: AttrOpInsertClass, Name: name} }

// AttrRemoveClass records that Name should be removed from the class set.
func AttrRemoveClass(name string) AttrOp { return AttrOp{Kind: AttrOpRemoveClass, Name: name} }

// AttrInsert records that attribute Name did not exist and should be set
// to Value.
func AttrInsert(name, value string) AttrOp {
	return AttrOp{Kind: AttrOpInsert, Name: name, Value: value}
}

// AttrUpdate records that attribute Name exists with a different value and
// should be set to Value.
func AttrUpdate(name, value string) AttrOp {
	return AttrOp{Kind: AttrOpUpdate, Name: name, Value: value}
}

// AttrRemove records that attribute Name should be removed.
func AttrRemove(name string) AttrOp { return AttrOp{Kind: AttrOpRemove, Name: name} }

// NodeOpKind discriminates the NodeOp sum type.
type NodeOpKind uint8

const (
	OpSkip NodeOpKind = iota
	OpRemove
	OpMove
	OpUpdate
	OpReplace
)

func (k NodeOpKind) String() string {
	switch k {
	case OpSkip:
		return "Skip"
	case OpRemove:
		return "Remove"
	case OpMove:
		return "Move"
	case OpUpdate:
		return "Update"
	case OpReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// Insert is one (position, node) pair to splice into a parent's new
// children list, applied after all ops for that parent, in ascending
// Index order.
type Insert struct {
	Index int
	Node  *Node
}

// NodeOp is one edit positionally aligned to the old children list it was
// produced against (or, at the root, the single diffed pair). It is a
// closed sum type; switch on Kind and handle every case:
//
//   - OpSkip: the next Count old siblings are unchanged.
//   - OpRemove: the next Count old siblings are deleted.
//   - OpMove: the next old sibling relocates to NewIndex, with AttrDiff /
//     ChildDiff / Inserts applied during the move.
//   - OpUpdate: the next old sibling stays in place; AttrDiff / ChildDiff /
//     Inserts describe how it changes.
//   - OpReplace: the next old sibling is discarded and New takes its
//     place.
type NodeOp struct {
	Kind      NodeOpKind
	Count     int      // OpSkip, OpRemove
	NewIndex  int      // OpMove
	AttrDiff  []AttrOp // OpMove, OpUpdate — nil means "no attribute change"
	ChildDiff []NodeOp // OpMove, OpUpdate — nil means "no child change"
	Inserts   []Insert // OpMove, OpUpdate — nil means "no inserts"
	New       *Node    // OpReplace — borrowed reference into the new tree
}

// Skip records that the next n old siblings are unchanged.
func Skip(n int) NodeOp { return NodeOp{Kind: OpSkip, Count: n} }

// Remove records that the next n old siblings are deleted.
func Remove(n int) NodeOp { return NodeOp{Kind: OpRemove, Count: n} }

// Move records that the next old sibling relocates to newIndex.
func Move(newIndex int, attrDiff []AttrOp, childDiff []NodeOp, inserts []Insert) NodeOp {
	return NodeOp{Kind: OpMove, NewIndex: newIndex, AttrDiff: attrDiff, ChildDiff: childDiff, Inserts: inserts}
}

// Update records that the next old sibling stays in place but changes.
func Update(attrDiff []AttrOp, childDiff []NodeOp, inserts []Insert) NodeOp {
	return NodeOp{Kind: OpUpdate, AttrDiff: attrDiff, ChildDiff: childDiff, Inserts: inserts}
}

// Replace records that the next old sibling is discarded and new mounted
// in its place.
func Replace(new *Node) NodeOp { return NodeOp{Kind: OpReplace, New: new} }

// Equal reports structural equality between two AttrOp values. Pure data
// comparison; AttrOp has no behavior beyond construction and equality.
func (a AttrOp) Equal(b AttrOp) bool {
	return a.Kind == b.Kind && a.Name == b.Name && a.Value == b.Value
}

// Equal reports structural equality between two NodeOp trees, recursing
// into ChildDiff and comparing New by Node.Equal. Pure data comparison,
// used only by the test suite.
func (a NodeOp) Equal(b NodeOp) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case OpSkip, OpRemove:
		return a.Count == b.Count
	case OpReplace:
		return a.New.Equal(b.New)
	case OpMove:
		if a.NewIndex != b.NewIndex {
			return false
		}
		fallthrough
	case OpUpdate:
		return attrDiffEqual(a.AttrDiff, b.AttrDiff) &&
			childDiffEqual(a.ChildDiff, b.ChildDiff) &&
			insertsEqual(a.Inserts, b.Inserts)
	default:
		return false
	}
}

func attrDiffEqual(a, b []AttrOp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func childDiffEqual(a, b []NodeOp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func insertsEqual(a, b []Insert) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Index != b[i].Index || !a[i].Node.Equal(b[i].Node) {
			return false
		}
	}
	return true
}
