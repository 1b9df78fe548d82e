//go:build linux

package seedindex

import "golang.org/x/sys/unix"

// madvPopulateWrite is MADV_POPULATE_WRITE (Linux 5.14+).
const madvPopulateWrite = 23

// prefaultWrite asks the kernel to fault in a writable mapping up front.
// Older kernels answer EINVAL, which is ignored.
func prefaultWrite(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, madvPopulateWrite)
}
