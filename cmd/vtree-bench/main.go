package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/vtree-dev/vtree/pkg/vtree"
)

// profile bundles the synthetic-tree shape and iteration count for a named
// benchmark run, grounded on the teacher's cmd/vango-bench profile map,
// scaled down from an HTTP/WebSocket load profile to a pure diff workload.
type profile struct {
	Name       string
	Shape      string
	Size       int
	Iterations int
}

var profiles = map[string]profile{
	"fast": {
		Name:       "fast",
		Shape:      "flat",
		Size:       20,
		Iterations: 10_000,
	},
	"standard": {
		Name:       "standard",
		Shape:      "keyed-list",
		Size:       50,
		Iterations: 10_000,
	},
	"stress": {
		Name:       "stress",
		Shape:      "nested",
		Size:       200,
		Iterations: 2_000,
	},
}

func main() {
	var (
		profileName = flag.String("profile", "standard", "Named profile: fast, standard, stress")
		shape       = flag.String("shape", "", "Tree shape: flat, nested, keyed-list (overrides profile)")
		size        = flag.Int("size", 0, "Child/list count per tree (overrides profile)")
		iterations  = flag.Int("iterations", 0, "Number of diff calls to run (overrides profile)")
		seed        = flag.Int64("seed", 1, "Random seed for synthetic tree generation")
	)
	flag.Parse()

	p, ok := profiles[*profileName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown profile %q (want one of: fast, standard, stress)\n", *profileName)
		os.Exit(1)
	}
	if *shape != "" {
		p.Shape = *shape
	}
	if *size != 0 {
		p.Size = *size
	}
	if *iterations != 0 {
		p.Iterations = *iterations
	}

	rng := rand.New(rand.NewSource(*seed))
	old, newTree := synthesize(rng, p.Shape, p.Size)

	durations := make([]time.Duration, 0, p.Iterations)
	patchOps := make([]int, 0, p.Iterations)

	for i := 0; i < p.Iterations; i++ {
		start := time.Now()
		op := vtree.Diff(old, newTree)
		durations = append(durations, time.Since(start))
		patchOps = append(patchOps, countOps(op))
	}

	report(p, durations, patchOps)
}

// synthesize builds an (old, new) tree pair of the requested shape and
// size, with new changing a fraction of old's text leaves (flat, nested) or
// shuffling old's keyed children (keyed-list) so the diff has actual work
// to do.
func synthesize(rng *rand.Rand, shape string, size int) (*vtree.Node, *vtree.Node) {
	switch shape {
	case "flat":
		return flatPair(rng, size)
	case "nested":
		return nestedPair(rng, size)
	case "keyed-list":
		return keyedListPair(rng, size)
	default:
		fmt.Fprintf(os.Stderr, "unknown shape %q (want one of: flat, nested, keyed-list)\n", shape)
		os.Exit(1)
		return nil, nil
	}
}

func flatPair(rng *rand.Rand, size int) (*vtree.Node, *vtree.Node) {
	oldKids := make([]*vtree.Node, size)
	newKids := make([]*vtree.Node, size)
	for i := range oldKids {
		oldKids[i] = vtree.Element("li", vtree.Kids(vtree.Text(fmt.Sprintf("item-%d", i))))
		text := fmt.Sprintf("item-%d", i)
		if rng.Intn(4) == 0 {
			text = fmt.Sprintf("item-%d-changed", i)
		}
		newKids[i] = vtree.Element("li", vtree.Kids(vtree.Text(text)))
	}
	return vtree.Element("ul", vtree.Kids(oldKids...)), vtree.Element("ul", vtree.Kids(newKids...))
}

func nestedPair(rng *rand.Rand, depth int) (*vtree.Node, *vtree.Node) {
	build := func(mutate bool) *vtree.Node {
		var n *vtree.Node
		for i := depth; i > 0; i-- {
			text := fmt.Sprintf("level-%d", i)
			if mutate && rng.Intn(5) == 0 {
				text = fmt.Sprintf("level-%d-changed", i)
			}
			kids := []*vtree.Node{vtree.Text(text)}
			if n != nil {
				kids = append(kids, n)
			}
			n = vtree.Element("div", vtree.Kids(kids...))
		}
		return n
	}
	return build(false), build(true)
}

func keyedListPair(rng *rand.Rand, size int) (*vtree.Node, *vtree.Node) {
	oldKids := make([]*vtree.Node, size)
	for i := range oldKids {
		oldKids[i] = vtree.Element("li", vtree.Key(fmt.Sprintf("k%d", i)), vtree.Kids(vtree.Text(fmt.Sprintf("item-%d", i))))
	}
	newKids := make([]*vtree.Node, len(oldKids))
	copy(newKids, oldKids)
	rng.Shuffle(len(newKids), func(i, j int) { newKids[i], newKids[j] = newKids[j], newKids[i] })
	return vtree.Element("ul", vtree.Kids(oldKids...)), vtree.Element("ul", vtree.Kids(newKids...))
}

func countOps(op vtree.NodeOp) int {
	n := 1
	for _, child := range op.ChildDiff {
		n += countOps(child)
	}
	return n
}

func report(p profile, durations []time.Duration, patchOps []int) {
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var totalOps int
	for _, n := range patchOps {
		totalOps += n
	}

	p50 := durations[len(durations)/2]
	p99 := durations[len(durations)*99/100]

	fmt.Printf("profile:     %s (shape=%s size=%d)\n", p.Name, p.Shape, p.Size)
	fmt.Printf("iterations:  %d\n", p.Iterations)
	fmt.Printf("p50 latency: %s\n", p50)
	fmt.Printf("p99 latency: %s\n", p99)
	fmt.Printf("avg patch ops per diff: %.1f\n", float64(totalOps)/float64(len(patchOps)))
}
