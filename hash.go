package seedindex

import "github.com/spaolacci/murmur3"

// BucketIndex maps seed bytes to a bucket: 32-bit MurmurHash3 (x86 variant)
// seeded with randomSeed, masked with hashMask, and reduced modulo
// MaxArraySize only when the masked value reaches that bound. The common
// case is a single AND.
func BucketIndex(seed []byte, randomSeed, hashMask int32) int {
	v := murmur3.Sum32WithSeed(seed, uint32(randomSeed)) & uint32(hashMask)
	return reduceBucket(v)
}

func reduceBucket(v uint32) int {
	if v >= MaxArraySize {
		v %= MaxArraySize
	}
	return int(v)
}
