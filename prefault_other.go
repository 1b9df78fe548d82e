//go:build !linux

package seedindex

func prefaultWrite(data []byte) {}
