//go:build !linux && !darwin

package seedindex

import "os"

// allocateFile sets the file size. Disk blocks may not be reserved.
func allocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
