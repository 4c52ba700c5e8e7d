package vtree

import (
	"math/rand"
	"testing"
)

// bruteForceLISLength returns the length of the longest strictly increasing
// subsequence of the defined (>=0) entries of positions, used as an oracle
// to check longestIncreasingOldIndices against.
func bruteForceLISLength(positions []int) int {
	n := len(positions)
	best := make([]int, n)
	maxLen := 0
	for i := 0; i < n; i++ {
		if positions[i] < 0 {
			continue
		}
		best[i] = 1
		for j := 0; j < i; j++ {
			if positions[j] >= 0 && positions[j] < positions[i] && best[j]+1 > best[i] {
				best[i] = best[j] + 1
			}
		}
		if best[i] > maxLen {
			maxLen = best[i]
		}
	}
	return maxLen
}

func isStrictlyIncreasing(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

func TestLISBasic(t *testing.T) {
	positions := []int{1, 0, 2, 4, 3} // from spec scenario S5
	got := longestIncreasingOldIndices(positions)
	if !isStrictlyIncreasing(got) {
		t.Fatalf("result %v is not strictly increasing", got)
	}
	if len(got) != bruteForceLISLength(positions) {
		t.Fatalf("len(%v) = %d, want %d", got, len(got), bruteForceLISLength(positions))
	}
}

func TestLISAllAbsent(t *testing.T) {
	got := longestIncreasingOldIndices([]int{-1, -1, -1})
	if got != nil {
		t.Fatalf("all-absent input should yield nil, got %v", got)
	}
}

func TestLISEmpty(t *testing.T) {
	if got := longestIncreasingOldIndices(nil); got != nil {
		t.Fatalf("empty input should yield nil, got %v", got)
	}
}

func TestLISSkipsAbsentEntries(t *testing.T) {
	positions := []int{5, -1, 3, -1, 7}
	got := longestIncreasingOldIndices(positions)
	for _, v := range got {
		found := false
		for _, p := range positions {
			if p == v {
				found = true
			}
		}
		if !found {
			t.Fatalf("result %v contains value %d not present in input", got, v)
		}
	}
	if !isStrictlyIncreasing(got) {
		t.Fatalf("result %v not strictly increasing", got)
	}
}

func TestLISAgainstBruteForceRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(12)
		positions := make([]int, n)
		used := make(map[int]bool)
		for i := range positions {
			if rng.Intn(4) == 0 {
				positions[i] = -1
				continue
			}
			v := rng.Intn(20)
			for used[v] {
				v = rng.Intn(20)
			}
			used[v] = true
			positions[i] = v
		}

		got := longestIncreasingOldIndices(positions)
		if !isStrictlyIncreasing(got) {
			t.Fatalf("trial %d: result %v not strictly increasing (input %v)", trial, got, positions)
		}
		wantLen := bruteForceLISLength(positions)
		if len(got) != wantLen {
			t.Fatalf("trial %d: len(%v) = %d, want %d (input %v)", trial, got, len(got), wantLen, positions)
		}
	}
}
