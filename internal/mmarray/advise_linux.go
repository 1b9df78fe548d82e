//go:build linux

package mmarray

import "golang.org/x/sys/unix"

// adviseRandom hints that the mapping will be accessed randomly, which
// disables readahead for bucket lookups.
// Best-effort: errors are silently ignored.
func adviseRandom(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_RANDOM)
}
