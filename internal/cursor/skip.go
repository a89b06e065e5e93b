package cursor

import "golang.org/x/exp/constraints"

// clampSkip bounds a requested skip count n to [0, limit], guarding the
// SkipNextRows/SkipPreviousRows family against negative or unbounded
// counts from callers.
func clampSkip[T constraints.Integer](n, limit T) T {
	if n < 0 {
		return 0
	}
	if n > limit {
		return limit
	}
	return n
}
