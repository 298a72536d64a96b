package dictionary

import "github.com/cespare/xxhash/v2"

// HashFunc maps a key to a bucket hash. A HashFunc must be deterministic:
// the same key must hash to the same value across calls and processes.
type HashFunc func(key string) uint32

// OneAtATime is Bob Jenkins' one-at-a-time hash over the bytes of key.
// It is the default HashFunc. It is unseeded, so bucket placement is
// reproducible, and the empty key hashes to 0.
func OneAtATime(key string) uint32 {
	var h uint32
	for i := 0; i < len(key); i++ {
		h += uint32(key[i])
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

// XXHash hashes key with unseeded xxHash64 and folds the result to 32 bits.
// It is faster than OneAtATime on long keys.
func XXHash(key string) uint32 {
	h := xxhash.Sum64String(key)
	return uint32(h) ^ uint32(h>>32)
}
