package draw

import (
	"slices"
	"sort"
)

// pool returns every number in the universe except exclude, ascending.
func pool(exclude int) []int {
	out := make([]int, 0, MaxNumber-MinNumber+1)
	for n := MinNumber; n <= MaxNumber; n++ {
		if n != exclude {
			out = append(out, n)
		}
	}
	return out
}

// choices draws k values from population with replacement. Each draw is
// independent and picks population[i] with probability weights[i]/sum.
func choices(rng RNG, population []int, weights []float64, k int) []int {
	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		cum[i] = total
	}

	out := make([]int, k)
	last := len(population) - 1
	for i := range out {
		x := rng.Float64() * total
		// first index with cum > x
		idx := sort.Search(len(cum), func(j int) bool { return cum[j] > x })
		if idx > last {
			idx = last
		}
		out[i] = population[idx]
	}
	return out
}

// appendUnique appends the values of sample not already in dst, keeping
// first-occurrence order, and stops once dst holds limit values.
func appendUnique(dst, sample []int, limit int) []int {
	for _, n := range sample {
		if len(dst) >= limit {
			break
		}
		if !slices.Contains(dst, n) {
			dst = append(dst, n)
		}
	}
	return dst
}
