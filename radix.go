package seedindex

import intbits "github.com/tamirms/seedindex/internal/bits"

// radixSortPairs sorts the (key, value) word pairs in a by key using a
// least-significant-digit radix sort over the low w bits, d bits per pass.
// b is a work buffer of the same length. Every placement moves a key and its
// value together.
//
// Passes alternate between a and b; the return value reports whether the
// sorted result ended up in b. Each pass is a stable counting sort: buckets
// are filled back to front while walking the input in reverse, which keeps
// equal digits in their previous relative order.
func radixSortPairs(a, b []uint64, counts []int, w, d int, progress ProgressReporter) (swapped bool) {
	steps := w / d
	n := len(a)
	mask := intbits.Mask(d)
	counts = counts[:1<<d]

	if progress != nil {
		progress.SetMaximum(int64(steps))
		progress.SetProgress(0)
	}

	for p := 0; p < steps; p++ {
		shift := uint(d * p)

		clear(counts)
		for i := 0; i < n; i += 2 {
			counts[(a[i]>>shift)&mask]++
		}
		// Inclusive prefix sums: counts[k] is one past the last slot of
		// bucket k.
		for k := 1; k < len(counts); k++ {
			counts[k] += counts[k-1]
		}
		for i := n - 2; i >= 0; i -= 2 {
			digit := (a[i] >> shift) & mask
			counts[digit]--
			j := counts[digit] << 1
			b[j] = a[i]
			b[j+1] = a[i+1]
		}

		a, b = b, a
		swapped = !swapped

		if progress != nil {
			progress.SetProgress(int64(p + 1))
		}
	}
	return swapped
}
