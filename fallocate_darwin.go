//go:build darwin

package seedindex

import (
	"os"

	"golang.org/x/sys/unix"
)

// allocateFile reserves size bytes for file with F_PREALLOCATE and sets the
// file size.
func allocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}
