package cache

import "hash/fnv"

// Hasher computes a bucket hash for a key.
type Hasher[K any] func(K) uint64

// Equal reports whether two keys identify the same entry.
type Equal[K any] func(a, b K) bool

// StringHasher computes FNV-1a hash of a string key.
func StringHasher(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}

// IntPairHasher packs two small integers the way display/view keys are
// packed: the first value in the high bits, the second in the low 16 bits.
func IntPairHasher(a, b int) uint64 {
	return uint64(uint32(a))<<16 | uint64(uint32(b)&0xffff)
}

// ComparableEqual is an Equal for comparable key types.
func ComparableEqual[K comparable](a, b K) bool {
	return a == b
}
