package utils

import (
	"math/rand"
	"time"
)

// Sample picks up to n distinct elements of items with a partial Fisher-Yates
// shuffle over a copy, so items itself is never reordered.
func Sample[T any](rng *rand.Rand, items []T, n int) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return []T{}
	}
	pool := make([]T, len(items))
	copy(pool, items)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

// IntBetween returns a uniform int in [lo, hi].
func IntBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// FloatBetween returns lo + u*(hi-lo) with u uniform in [0, 1).
func FloatBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// TimeBetween returns a uniform instant in [start, end), truncated to milliseconds.
func TimeBetween(rng *rand.Rand, start, end time.Time) time.Time {
	span := end.Sub(start)
	if span <= 0 {
		return start.UTC().Truncate(time.Millisecond)
	}
	offset := time.Duration(rng.Int63n(int64(span)))
	return start.Add(offset).UTC().Truncate(time.Millisecond)
}
