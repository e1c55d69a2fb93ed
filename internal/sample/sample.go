// Package sample bounds how many candidate documents a detection call
// evaluates against a large directory listing.
package sample

import (
	"math"
	"math/rand"
)

// Normal draws up to n items from candidates without replacement, normally
// distributed around the middle of the input order. Output is deterministic
// for a fixed input and seed.
//
// n >= len(candidates) returns a copy of all candidates.
func Normal[T any](candidates []T, n int, seed int64) []T {
	if n >= len(candidates) {
		out := make([]T, len(candidates))
		copy(out, candidates)
		return out
	}
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	mean := float64(len(candidates)-1) / 2
	// Three standard deviations cover the whole listing.
	dev := float64(len(candidates)) / 6

	picked := make(map[int]bool, n)
	out := make([]T, 0, n)
	for attempts := 0; len(out) < n && attempts < 20*len(candidates); attempts++ {
		idx := int(math.Round(rng.NormFloat64()*dev + mean))
		if idx < 0 || idx >= len(candidates) || picked[idx] {
			continue
		}
		picked[idx] = true
		out = append(out, candidates[idx])
	}

	// The rejection loop can stall when n approaches len(candidates); fill
	// the remainder from the middle outward.
	for delta := 0; len(out) < n; delta++ {
		for _, idx := range [2]int{int(mean) - delta, int(mean) + delta} {
			if len(out) == n || idx < 0 || idx >= len(candidates) || picked[idx] {
				continue
			}
			picked[idx] = true
			out = append(out, candidates[idx])
		}
	}
	return out
}
