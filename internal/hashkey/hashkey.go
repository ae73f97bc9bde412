package hashkey

// djb2Seed is the classic DJB2 initial basis.
const djb2Seed = 5381

// Wang64 is the 64-bit variant of Thomas Wang's integer hash. It avalanches
// single-bit input changes across the whole output word.
//
// Not suitable for any security-related purpose.
func Wang64(key uint64) uint64 {
	key = (^key) + (key << 21) // key = (key << 21) - key - 1
	key = key ^ (key >> 24)
	key = (key + (key << 3)) + (key << 8) // key * 265
	key = key ^ (key >> 14)
	key = (key + (key << 2)) + (key << 4) // key * 21
	key = key ^ (key >> 28)
	key = key + (key << 31)
	return key
}

// Wang32 is the 32-bit variant of Thomas Wang's integer hash.
//
// Not suitable for any security-related purpose.
func Wang32(key uint32) uint32 {
	key = (^key) + (key << 15) // key = (key << 15) - key - 1
	key = key ^ (key >> 12)
	key = key + (key << 2)
	key = key ^ (key >> 4)
	key = key * 2057 // key = key + (key << 3) + (key << 11)
	key = key ^ (key >> 16)
	return key
}

// Mix diffuses an unsigned key. Table keys are uint64 on every supported
// target, so Wang64 backs it unconditionally; Wang32 is kept as a public
// helper for callers that hash narrower values themselves.
func Mix(key uint64) uint64 {
	return Wang64(key)
}

// DJB2 hashes b with a multiply-by-33 accumulation seeded at 5381. Scanning
// stops at the first NUL byte or the end of the buffer, whichever comes
// first, matching the bounded-string semantics of byte-string keys.
//
// Not suitable for any security-related purpose.
func DJB2(b []byte) uint64 {
	h := uint64(djb2Seed)
	for _, c := range b {
		if c == 0 {
			break
		}
		h = h*33 + uint64(c)
	}
	return h
}

// Index folds a diffused hash into a bucket index. buckets must be a power
// of two; the caller's table geometry guarantees that.
func Index(h, buckets uint64) uint64 {
	return (h ^ (h >> 32)) & (buckets - 1)
}

// NextPowerOfTwo returns the smallest power of two >= n. It returns 1 for 0
// and 0 if the result would overflow uint64.
func NextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n > 1<<63 {
		return 0
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// IsPowerOfTwo reports whether n is a power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}
