//go:build !seedindex_debug

package seedindex

// checkLocusRange is a no-op unless built with -tags seedindex_debug.
func checkLocusRange(seqID, pos uint32, frame uint8) {}
