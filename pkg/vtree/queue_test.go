package vtree

import "testing"

func nodeOpsEqual(a, b []NodeOp) bool {
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

func TestQueueAddingSkips(t *testing.T) {
	q := newOpQueue()
	q.push(Skip(1))
	q.push(Skip(2))
	q.push(Skip(1))

	got := q.done()
	want := []NodeOp{Skip(4)}
	if !nodeOpsEqual(got, want) {
		t.Fatalf("done() = %+v, want %+v", got, want)
	}
}

func TestQueueAddingRemoves(t *testing.T) {
	q := newOpQueue()
	q.push(Remove(3))
	q.push(Remove(1))
	q.push(Remove(5))

	got := q.done()
	want := []NodeOp{Remove(9)}
	if !nodeOpsEqual(got, want) {
		t.Fatalf("done() = %+v, want %+v", got, want)
	}
}

func TestQueueAddingMixedOps(t *testing.T) {
	node := Element("div")
	q := newOpQueue()

	q.push(Skip(1))
	q.push(Skip(1))
	q.push(Skip(1))
	q.push(Remove(2))
	q.push(Replace(node))
	q.push(Replace(node))
	q.push(Skip(2))
	q.push(Skip(5))
	q.push(Remove(1))
	q.push(Replace(node))
	q.push(Remove(4))
	q.push(Skip(4))

	got := q.done()
	want := []NodeOp{
		Skip(3),
		Remove(2),
		Replace(node),
		Replace(node),
		Skip(7),
		Remove(1),
		Replace(node),
		Remove(4),
		Skip(4),
	}
	if !nodeOpsEqual(got, want) {
		t.Fatalf("done() = %+v, want %+v", got, want)
	}
}

func TestQueueRemovingSingletonSkip(t *testing.T) {
	q := newOpQueue()
	q.push(Skip(5))
	q.push(Skip(2))
	if got := q.stripSingletonSkip().done(); len(got) != 0 {
		t.Fatalf("two adjacent skips coalesce into one Skip(7), which is then stripped; got %+v, want empty", got)
	}

	// A lone trailing Skip strips to empty.
	q2 := newOpQueue()
	q2.push(Skip(5))
	if got := q2.stripSingletonSkip().done(); len(got) != 0 {
		t.Fatalf("stripSingletonSkip().done() = %+v, want empty", got)
	}

	// A Skip followed by something else is never a singleton and survives.
	q3 := newOpQueue()
	q3.push(Skip(5))
	q3.push(Remove(4))
	got := q3.stripSingletonSkip().done()
	want := []NodeOp{Skip(5), Remove(4)}
	if !nodeOpsEqual(got, want) {
		t.Fatalf("done() = %+v, want %+v", got, want)
	}
}

func TestQueueNeverReordersNonAdjacentOps(t *testing.T) {
	a := Replace(Text("a"))
	b := Replace(Text("b"))
	q := newOpQueue()
	q.push(a)
	q.push(Skip(1))
	q.push(b)

	got := q.done()
	want := []NodeOp{a, Skip(1), b}
	if !nodeOpsEqual(got, want) {
		t.Fatalf("done() = %+v, want %+v", got, want)
	}
}
