//go:build !linux

package mmarray

// adviseRandom is a no-op on non-Linux platforms.
func adviseRandom(data []byte) {
	// No-op
}
