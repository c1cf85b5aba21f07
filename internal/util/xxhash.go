package util

import "github.com/cespare/xxhash/v2"

// XXHash64String hashes s with xxhash, a faster, better-distributed
// alternative to Fnv64a for string keys.
func XXHash64String(s string) uint64 { return xxhash.Sum64String(s) }

// XXHash64Bytes hashes b with xxhash.
func XXHash64Bytes(b []byte) uint64 { return xxhash.Sum64(b) }
