package vtree

import "sort"

// Diff compares old and new and returns the NodeOp needed to transform old
// into new. Diff is total, pure, and synchronous: it never mutates either
// input, never blocks, and always returns — there is no error return.
// Malformed input reaching the keyed reconciler (an unkeyed child in a
// keyed middle) panics with a Defect; that is a programmer error, not a
// recoverable condition.
func Diff(old, new *Node) NodeOp {
	return diffNode(old, new)
}

// diffNode implements the decision order from the top-level node diff:
// Text/Text compares content (see the deviation note below),
// Element/Element with matching tag and key diffs attributes and children,
// everything else replaces.
//
// Deviation from the literal source: a naive port of the original
// algorithm replaces any Text node unconditionally, even when content is
// identical. That is almost certainly a bug in the original — this
// implementation checks content equality and emits Skip(1) instead.
func diffNode(old, new *Node) NodeOp {
	if old.kind == KindText && new.kind == KindText {
		if old.text == new.text {
			return Skip(1)
		}
		return Replace(new)
	}

	if old.kind == KindElement && new.kind == KindElement {
		if old.tag != new.tag {
			return Replace(new)
		}
		if !keyEqual(old, new) {
			return Replace(new)
		}

		attrDiff := diffAttrs(old, new)
		childDiff, inserts := diffChildren(old.children, new.children)

		if attrDiff == nil && childDiff == nil && inserts == nil {
			return Skip(1)
		}
		return Update(attrDiff, childDiff, inserts)
	}

	return Replace(new)
}

// diffAttrs computes the AttrDiff between two elements' class sets and
// attribute maps. Classes are removed then inserted; attributes are
// compared over the union of old and new keys. Emission order is sorted
// by name purely for deterministic output — the spec leaves it
// unspecified.
func diffAttrs(old, new *Node) []AttrOp {
	var ops []AttrOp

	for _, c := range old.Classes() {
		if !new.HasClass(c) {
			ops = append(ops, AttrRemoveClass(c))
		}
	}
	for _, c := range new.Classes() {
		if !old.HasClass(c) {
			ops = append(ops, AttrInsertClass(c))
		}
	}

	keys := make(map[string]struct{}, len(old.attrs)+len(new.attrs))
	for k := range old.attrs {
		keys[k] = struct{}{}
	}
	for k := range new.attrs {
		keys[k] = struct{}{}
	}
	sortedKeys := make([]string, 0, len(keys))
	for k := range keys {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	for _, k := range sortedKeys {
		oldVal, oldOK := old.attrs[k]
		newVal, newOK := new.attrs[k]
		switch {
		case oldOK && !newOK:
			ops = append(ops, AttrRemove(k))
		case !oldOK && newOK:
			ops = append(ops, AttrInsert(k, newVal))
		case oldOK && newOK && oldVal != newVal:
			ops = append(ops, AttrUpdate(k, newVal))
		}
	}

	return ops
}

// diffChildren computes the ChildDiff and Inserts for a pair of children
// sequences: degenerate empty cases, common-prefix and common-suffix
// trimming by key equality, and keyed-middle reconciliation in between.
func diffChildren(oldKids, newKids []*Node) ([]NodeOp, []Insert) {
	oldLen, newLen := len(oldKids), len(newKids)

	if oldLen == 0 && newLen == 0 {
		return nil, nil
	}
	if newLen == 0 {
		return []NodeOp{Remove(oldLen)}, nil
	}
	if oldLen == 0 {
		inserts := make([]Insert, newLen)
		for i, child := range newKids {
			inserts[i] = Insert{Index: i, Node: child}
		}
		return nil, inserts
	}

	minLen := oldLen
	if newLen < minLen {
		minLen = newLen
	}

	prefixLen := 0
	for prefixLen < minLen && keyEqual(oldKids[prefixLen], newKids[prefixLen]) {
		prefixLen++
	}

	maxSuffixLen := minLen - prefixLen
	suffixLen := 0
	for suffixLen < maxSuffixLen &&
		keyEqual(oldKids[oldLen-suffixLen-1], newKids[newLen-suffixLen-1]) {
		suffixLen++
	}

	queue := newOpQueue()
	var inserts []Insert

	for i := 0; i < prefixLen; i++ {
		queue.push(diffNode(oldKids[i], newKids[i]))
	}

	oldMiddle := oldKids[prefixLen : oldLen-suffixLen]
	newMiddle := newKids[prefixLen : newLen-suffixLen]

	switch {
	case len(oldMiddle) == 0 && len(newMiddle) == 0:
		// nothing
	case len(newMiddle) == 0:
		queue.push(Remove(len(oldMiddle)))
	case len(oldMiddle) == 0:
		for i, child := range newMiddle {
			inserts = append(inserts, Insert{Index: prefixLen + i, Node: child})
		}
	default:
		reconcileKeyedMiddle(prefixLen, oldMiddle, newMiddle, queue, &inserts)
	}

	for i := 0; i < suffixLen; i++ {
		oldIdx := oldLen - suffixLen + i
		newIdx := newLen - suffixLen + i
		queue.push(diffNode(oldKids[oldIdx], newKids[newIdx]))
	}

	ops := queue.stripSingletonSkip().done()

	switch {
	case len(ops) == 0 && len(inserts) == 0:
		return nil, nil
	case len(inserts) == 0:
		return ops, nil
	case len(ops) == 0:
		return nil, inserts
	default:
		return ops, inserts
	}
}

// reconcileKeyedMiddle implements keyed middle reconciliation: every child
// on both sides of this region must carry a key (it is a Defect if not).
// It aligns old children to new positions by key, detects whether any
// alignment is out of order, and if so uses an LIS over old positions (in
// new-middle order) to pick the largest set of children that need not
// move; everything else becomes a Move.
func reconcileKeyedMiddle(offset int, oldMiddle, newMiddle []*Node, queue *opQueue, inserts *[]Insert) {
	oldLen, newLen := len(oldMiddle), len(newMiddle)

	planned := make([]NodeOp, oldLen)
	for i := range planned {
		planned[i] = Skip(1)
	}

	newIndexByKey := make(map[string]int, newLen)
	for idx, child := range newMiddle {
		key, has := getKey(child)
		if !has {
			panic(Defect{Op: "reconcileKeyedMiddle", Msg: "unkeyed child in keyed middle (new side)"})
		}
		newIndexByKey[key] = idx // duplicate keys: last writer wins (documented, not rejected)
	}

	oldPositionForNewIndex := make([]int, newLen)
	for i := range oldPositionForNewIndex {
		oldPositionForNewIndex[i] = -1
	}

	lastSeenP := -1
	moved := false
	removedCount := 0
	for i, child := range oldMiddle {
		key, has := getKey(child)
		if !has {
			panic(Defect{Op: "reconcileKeyedMiddle", Msg: "unkeyed child in keyed middle (old side)"})
		}
		if p, ok := newIndexByKey[key]; ok {
			oldPositionForNewIndex[p] = i
			if lastSeenP > p {
				moved = true
			}
			lastSeenP = p
		} else {
			planned[i] = Remove(1)
			removedCount++
		}
	}

	oldRemaining := oldLen - removedCount
	if oldRemaining != newLen {
		for p := 0; p < newLen; p++ {
			if oldPositionForNewIndex[p] == -1 {
				*inserts = append(*inserts, Insert{Index: offset + p, Node: newMiddle[p]})
			}
		}
	}

	if moved {
		lisOldIndices := longestIncreasingOldIndices(oldPositionForNewIndex)
		inLIS := make(map[int]bool, len(lisOldIndices))
		for _, idx := range lisOldIndices {
			inLIS[idx] = true
		}

		for i, child := range oldMiddle {
			key, _ := getKey(child)
			p, ok := newIndexByKey[key]
			if !ok {
				continue // already planned as Remove(1)
			}
			d := diffNode(child, newMiddle[p])
			if inLIS[i] {
				planned[i] = d
				continue
			}
			if d.Kind == OpUpdate {
				planned[i] = Move(offset+p, d.AttrDiff, d.ChildDiff, d.Inserts)
			} else {
				planned[i] = Move(offset+p, nil, nil, nil)
			}
		}
	} else {
		for i, child := range oldMiddle {
			key, _ := getKey(child)
			p, ok := newIndexByKey[key]
			if !ok {
				continue
			}
			planned[i] = diffNode(child, newMiddle[p])
		}
	}

	for _, op := range planned {
		queue.push(op)
	}
}
