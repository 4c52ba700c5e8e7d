package vtree

import "testing"

// --- invariant 1 & 2: identical trees diff to Skip(1) ---

func TestDiffIdenticalElementIsSkip(t *testing.T) {
	a := Element("div", Class("a"), Attr("id", "1"), Kids(Text("x")))
	b := Element("div", Class("a"), Attr("id", "1"), Kids(Text("x")))
	got := Diff(a, b)
	if !got.Equal(Skip(1)) {
		t.Fatalf("Diff(a,b) = %+v, want Skip(1)", got)
	}
}

func TestDiffIdenticalTextIsSkip(t *testing.T) {
	a := Text("hello")
	b := Text("hello")
	got := Diff(a, b)
	if !got.Equal(Skip(1)) {
		t.Fatalf("Diff(a,b) = %+v, want Skip(1)", got)
	}
}

func TestDiffSelfIsSkip(t *testing.T) {
	x := Element("div", Kids(Element("p", Kids(Text("hi")))))
	if got := Diff(x, x); !got.Equal(Skip(1)) {
		t.Fatalf("Diff(x,x) = %+v, want Skip(1)", got)
	}
}

// --- S1: unchanged element ---

func TestScenarioS1UnchangedElement(t *testing.T) {
	old := Element("div", Class("a"))
	new := Element("div", Class("a"))
	got := Diff(old, new)
	if !got.Equal(Skip(1)) {
		t.Fatalf("S1: Diff = %+v, want Skip(1)", got)
	}
}

// --- S2: toggled class ---

func TestScenarioS2ToggledClass(t *testing.T) {
	old := Element("div", Class("user", "offline"))
	new := Element("div", Class("user", "online"))
	got := Diff(old, new)
	want := Update([]AttrOp{AttrRemoveClass("offline"), AttrInsertClass("online")}, nil, nil)
	if !got.Equal(want) {
		t.Fatalf("S2: Diff = %+v, want %+v", got, want)
	}
}

// --- S3: unkeyed prepend ---

func TestScenarioS3UnkeyedPrepend(t *testing.T) {
	old := Element("div", Kids(Element("p")))
	new := Element("div", Kids(Element("div"), Element("div"), Element("p")))
	got := Diff(old, new)

	want := Update(nil,
		[]NodeOp{Replace(Element("div"))},
		[]Insert{{Index: 1, Node: Element("div")}, {Index: 2, Node: Element("p")}},
	)
	if !got.Equal(want) {
		t.Fatalf("S3: Diff = %+v, want %+v", got, want)
	}
}

// --- S4: keyed removal of middle ---

func TestScenarioS4KeyedRemovalOfMiddle(t *testing.T) {
	mk := func(k string) *Node { return Element("c", Key(k)) }
	old := Element("div", Kids(mk("c1"), mk("c2"), mk("c3"), mk("c4"), mk("c5"), mk("c6")))
	new := Element("div", Kids(mk("c1"), mk("c4"), mk("c5")))

	got := Diff(old, new)
	want := Update(nil, []NodeOp{Skip(1), Remove(2), Skip(2), Remove(1)}, nil)
	if !got.Equal(want) {
		t.Fatalf("S4: Diff = %+v, want %+v", got, want)
	}
}

// --- S5: keyed reorder with update ---

func TestScenarioS5KeyedReorderWithUpdate(t *testing.T) {
	mk := func(k string) *Node { return Element("c", Key(k)) }
	old := Element("div", Kids(mk("c1"), mk("c2"), mk("c3"), mk("c4"), mk("c5")))
	new := Element("div", Kids(
		Element("c", Key("c2"), Kids(Element("p"))),
		Element("c", Key("c1"), Class("aaa")),
		mk("c3"),
		mk("c5"),
		mk("c4"),
	))

	got := Diff(old, new)
	want := Update(nil, []NodeOp{
		Update([]AttrOp{AttrInsertClass("aaa")}, nil, nil),
		Move(0, nil, nil, []Insert{{Index: 0, Node: Element("p")}}),
		Skip(2),
		Move(3, nil, nil, nil),
	}, nil)
	if !got.Equal(want) {
		t.Fatalf("S5: Diff = %+v, want %+v", got, want)
	}
}

// --- S6: full replace (different tag) ---

func TestScenarioS6DifferentTag(t *testing.T) {
	old := Element("div")
	new := Element("p")
	got := Diff(old, new)
	if !got.Equal(Replace(new)) {
		t.Fatalf("S6: Diff = %+v, want Replace(new)", got)
	}
}

// --- more coverage: attributes, keys, text/element type switches ---

func TestDiffDifferentTypesReplaces(t *testing.T) {
	old := Element("div")
	new := Text("hi")
	got := Diff(old, new)
	if !got.Equal(Replace(new)) {
		t.Fatalf("Diff(element,text) = %+v, want Replace(new)", got)
	}
}

func TestDiffDifferentTextReplaces(t *testing.T) {
	old := Text("a")
	new := Text("b")
	got := Diff(old, new)
	if !got.Equal(Replace(new)) {
		t.Fatalf("Diff(text,text) differing content = %+v, want Replace(new)", got)
	}
}

func TestDiffRootKeyMismatchReplaces(t *testing.T) {
	old := Element("div", Key("a"))
	new := Element("div", Key("b"))
	got := Diff(old, new)
	if !got.Equal(Replace(new)) {
		t.Fatalf("Diff with mismatched root keys = %+v, want Replace(new)", got)
	}
}

func TestDiffRootKeyPresentVsAbsentReplaces(t *testing.T) {
	old := Element("div", Key("a"))
	new := Element("div")
	got := Diff(old, new)
	if !got.Equal(Replace(new)) {
		t.Fatalf("Diff with one keyed one unkeyed root = %+v, want Replace(new)", got)
	}
}

func TestDiffAttributesInsertUpdateRemove(t *testing.T) {
	old := Element("div", Attr("hidden", ""), Attr("id", "1"))
	new := Element("div", Attr("data-user", "username"), Attr("id", "2"))

	got := Diff(old, new)
	update, ok := asUpdate(got)
	if !ok {
		t.Fatalf("Diff = %+v, want Update", got)
	}
	wantOps := []AttrOp{
		AttrInsert("data-user", "username"),
		AttrRemove("hidden"),
		AttrUpdate("id", "2"),
	}
	if !sameAttrOpsUnordered(update.AttrDiff, wantOps) {
		t.Fatalf("AttrDiff = %+v, want (unordered) %+v", update.AttrDiff, wantOps)
	}
	if update.ChildDiff != nil {
		t.Fatalf("ChildDiff = %+v, want nil", update.ChildDiff)
	}
}

func TestDiffAppendedKeyedChildren(t *testing.T) {
	mk := func(k string) *Node { return Element("p", Key(k)) }
	old := Element("div", Kids(mk("c1"), mk("c2")))
	new := Element("div", Kids(mk("c1"), mk("c2"), mk("c3"), mk("c4"), mk("c5")))

	got := Diff(old, new)
	// The prefix coalesces into a lone Skip(2), which is stripped: no ChildDiff.
	want := Update(nil, nil, []Insert{
		{Index: 2, Node: mk("c3")},
		{Index: 3, Node: mk("c4")},
		{Index: 4, Node: mk("c5")},
	})
	if !got.Equal(want) {
		t.Fatalf("Diff = %+v, want %+v", got, want)
	}
}

func TestDiffPrependedKeyedChildren(t *testing.T) {
	mk := func(k string) *Node { return Element("p", Key(k)) }
	old := Element("div", Kids(mk("c1"), mk("c2")))
	new := Element("div", Kids(mk("c3"), mk("c4"), mk("c5"), mk("c1"), mk("c2")))

	got := Diff(old, new)
	// The suffix coalesces into a lone Skip(2), which is stripped: no ChildDiff.
	want := Update(nil, nil, []Insert{
		{Index: 0, Node: mk("c3")},
		{Index: 1, Node: mk("c4")},
		{Index: 2, Node: mk("c5")},
	})
	if !got.Equal(want) {
		t.Fatalf("Diff = %+v, want %+v", got, want)
	}
}

func TestDiffAllChildrenRemoved(t *testing.T) {
	old := Element("div", Kids(Element("p"), Element("p")))
	new := Element("div")
	got := Diff(old, new)
	want := Update(nil, []NodeOp{Remove(2)}, nil)
	if !got.Equal(want) {
		t.Fatalf("Diff = %+v, want %+v", got, want)
	}
}

func TestDiffAllChildrenInserted(t *testing.T) {
	old := Element("div")
	new := Element("div", Kids(Element("p"), Element("span")))
	got := Diff(old, new)
	want := Update(nil, nil, []Insert{
		{Index: 0, Node: Element("p")},
		{Index: 1, Node: Element("span")},
	})
	if !got.Equal(want) {
		t.Fatalf("Diff = %+v, want %+v", got, want)
	}
}

func TestDiffPanicsOnUnkeyedChildInKeyedMiddle(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for unkeyed child in keyed middle")
		}
		if _, ok := r.(Defect); !ok {
			t.Fatalf("expected panic value of type Defect, got %T", r)
		}
	}()

	old := Element("div", Kids(Element("p", Key("a")), Element("p")))
	new := Element("div", Kids(Element("p", Key("b")), Element("p", Key("a"))))
	Diff(old, new)
}

func TestDiffDuplicateKeysDoesNotPanic(t *testing.T) {
	mk := func(k string) *Node { return Element("p", Key(k)) }
	old := Element("div", Kids(mk("dup"), mk("dup")))
	new := Element("div", Kids(mk("dup")))

	// Should not panic; diff is total even over duplicate-keyed siblings.
	got := Diff(old, new)
	if got.Kind != OpUpdate {
		t.Fatalf("Diff = %+v, want an Update", got)
	}
}

// TestReconcileKeyedMiddleDuplicateKeysLastWriterWins exercises the
// documented (§9 Open Questions) last-writer-wins behavior directly: when
// two new-middle children share a key, newIndexByKey's last writer wins,
// so only the later position is considered "found" during alignment.
func TestReconcileKeyedMiddleDuplicateKeysLastWriterWins(t *testing.T) {
	mk := func(k string) *Node { return Element("p", Key(k)) }
	oldMiddle := []*Node{mk("dup")}
	newMiddle := []*Node{mk("dup"), mk("dup")}

	queue := newOpQueue()
	var inserts []Insert
	reconcileKeyedMiddle(0, oldMiddle, newMiddle, queue, &inserts)

	// newIndexByKey["dup"] == 1 (last writer), so the old child aligns to
	// new position 1, and new position 0 is reported as a fresh insert.
	if len(inserts) != 1 || inserts[0].Index != 0 {
		t.Fatalf("inserts = %+v, want a single insert at index 0", inserts)
	}
	ops := queue.done()
	if len(ops) != 1 || !ops[0].Equal(Skip(1)) {
		t.Fatalf("ops = %+v, want [Skip(1)] (old child aligned to new position 1)", ops)
	}
}

// --- helpers ---

func asUpdate(op NodeOp) (NodeOp, bool) {
	if op.Kind != OpUpdate {
		return NodeOp{}, false
	}
	return op, true
}

func sameAttrOpsUnordered(got, want []AttrOp) bool {
	if len(got) != len(want) {
		return false
	}
	used := make([]bool, len(want))
	for _, g := range got {
		found := false
		for i, w := range want {
			if !used[i] && g.Equal(w) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
