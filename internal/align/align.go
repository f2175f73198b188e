// Package align holds power-of-two alignment helpers shared by the sizing
// policy and the commit budget. Every alignment handled here must be a power
// of two; callers check that with IsPowerOfTwo before trusting the masks.
package align

// IsPowerOfTwo reports whether n is a non-zero power of two.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// Up returns n aligned up to the next multiple of alignment.
//
// Example:
//
//	Up(1, 4096)    = 4096
//	Up(4096, 4096) = 4096
//	Up(4097, 4096) = 8192
func Up(n, alignment uint64) uint64 {
	mask := alignment - 1
	return (n + mask) &^ mask
}

// Down returns n aligned down to the previous multiple of alignment.
//
// Example:
//
//	Down(4095, 4096) = 0
//	Down(8191, 4096) = 4096
func Down(n, alignment uint64) uint64 {
	return n &^ (alignment - 1)
}

// IsAligned reports whether n is a multiple of alignment.
func IsAligned(n, alignment uint64) bool {
	return n&(alignment-1) == 0
}

// Max returns the largest of the given alignments. For powers of two the
// maximum is also the least common multiple, which is what combining
// several alignment requirements needs.
func Max(first uint64, rest ...uint64) uint64 {
	m := first
	for _, a := range rest {
		if a > m {
			m = a
		}
	}
	return m
}
