//go:build linux

package seedindex

import (
	"os"

	"golang.org/x/sys/unix"
)

// allocateFile reserves size bytes for file so that writes through a shared
// mapping cannot hit SIGBUS when the disk fills up, then sets the file size.
func allocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	// Some filesystems (NFS, tmpfs on old kernels) reject fallocate.
	_ = unix.Fallocate(fd, 0, 0, size)
	return unix.Ftruncate(fd, size)
}
