package detect

import (
	"iter"
	"math"
	"math/bits"
)

// Combinations yields every k-sized subset of the positions 0..n-1 in
// lexicographic order, so each subset keeps source order. k == 0 yields a
// single empty subset; k < 0 or k > n yields nothing.
//
// The yielded slice is reused; copy it to keep it past the next iteration.
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 0 || k > n {
			return
		}

		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}

		for {
			if !yield(idx) {
				return
			}

			// Rightmost position that can still move right.
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}

			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// Binomial returns C(n, k), saturating at math.MaxUint64
func Binomial(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}

	var result uint64 = 1
	for i := 1; i <= k; i++ {
		// result * (n-k+i) / i is always integral at this step.
		hi, lo := bits.Mul64(result, uint64(n-k+i))
		if hi >= uint64(i) {
			return math.MaxUint64
		}
		q, _ := bits.Div64(hi, lo, uint64(i))
		result = q
	}
	return result
}
