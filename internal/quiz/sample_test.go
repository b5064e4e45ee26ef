package quiz

import (
	"math/rand/v2"
	"testing"
)

func TestSampleIndicesIsUniform(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	counts := map[[2]int]int{}
	const trials = 6000
	for i := 0; i < trials; i++ {
		idx := sampleIndices(4, 2, r)
		a, b := idx[0], idx[1]
		if a > b {
			a, b = b, a
		}
		counts[[2]int{a, b}]++
	}
	if len(counts) != 6 {
		t.Fatalf("want all 6 pairs drawn, got %v", counts)
	}
	for pair, n := range counts {
		if n < 800 || n > 1200 {
			t.Fatalf("pair %v drawn %d times out of %d", pair, n, trials)
		}
	}
}

func TestSampleIndicesBounds(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 1))
	if got := sampleIndices(3, 10, r); len(got) != 3 {
		t.Fatalf("k > n should return n indices, got %v", got)
	}
	if got := sampleIndices(0, 5, r); len(got) != 0 {
		t.Fatalf("empty pool should return nothing, got %v", got)
	}
}
