package seedindex

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	streamerrors "github.com/tamirms/seedindex/errors"
)

// osFs backs the package-level helpers. Memory-mapped arrays always go
// through the real filesystem since mmap needs a file descriptor.
var osFs afero.Fs = afero.NewOsFs()

// metadataPath is the shard metadata file index<N>.idx.
func metadataPath(dir string, number int) string {
	return filepath.Join(dir, "index"+strconv.Itoa(number)+".idx")
}

// bucketPath is the bucket array file table<N>.idx.
func bucketPath(dir string, number int) string {
	return filepath.Join(dir, "table"+strconv.Itoa(number)+".idx")
}

// dataPath is the data block file table<N>.db.
func dataPath(dir string, number int) string {
	return filepath.Join(dir, "table"+strconv.Itoa(number)+".db")
}

// CheckFilesExist verifies that the index directory and the three files of
// table number exist. Call it before Open for a clearer diagnostic than a
// failure in the middle of reading.
func CheckFilesExist(dir string, number int) error {
	return checkFilesExist(osFs, dir, number)
}

func checkFilesExist(fs afero.Fs, dir string, number int) error {
	for _, path := range []string{dir, metadataPath(dir, number), bucketPath(dir, number), dataPath(dir, number)} {
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", streamerrors.ErrMissingFile, path)
		}
	}
	return nil
}

// NumberOfTables counts the tables in dir by probing index0.idx,
// index1.idx, ... until one is missing.
func NumberOfTables(dir string) int {
	return numberOfTables(osFs, dir)
}

func numberOfTables(fs afero.Fs, dir string) int {
	n := 0
	for {
		ok, err := afero.Exists(fs, metadataPath(dir, n))
		if err != nil || !ok {
			return n
		}
		n++
	}
}

// IndexSequenceType reads only the sequence type from table 0, for a quick
// compatibility check before opening the whole index.
func IndexSequenceType(dir string) (SequenceType, error) {
	return indexSequenceType(osFs, dir)
}

func indexSequenceType(fs afero.Fs, dir string) (SequenceType, error) {
	path := metadataPath(dir, 0)
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, fmt.Errorf("read shard metadata: %w", err)
	}
	return decodeSequenceType(path, buf)
}
