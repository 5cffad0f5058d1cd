// Package simd provides the accelerated byte scans behind the search
// pre-filter: finding the first occurrence of any byte of a small accept
// set in a haystack. The wide path processes 8 bytes per step with SWAR
// (SIMD within a register) arithmetic; CPU feature detection on amd64
// only decides how eagerly the wide path is entered.
package simd

import (
	"encoding/binary"
	"math/bits"
)

// IndexAny returns the index of the first byte in haystack that occurs in
// accept, or -1 if none does. The search loop probes with the literal
// payload of a STRING-opening program as the accept set.
func IndexAny(haystack, accept []byte) int {
	if len(haystack) == 0 || len(accept) == 0 {
		return -1
	}
	if len(accept) == 1 {
		return IndexByte(haystack, accept[0])
	}

	var set byteSet
	for _, c := range accept {
		set.add(c)
	}
	for i, c := range haystack {
		if set.has(c) {
			return i
		}
	}
	return -1
}

// IndexByte returns the index of the first instance of needle in
// haystack, or -1.
func IndexByte(haystack []byte, needle byte) int {
	if len(haystack) >= wideScanMin {
		return indexByteSWAR(haystack, needle)
	}
	for i, c := range haystack {
		if c == needle {
			return i
		}
	}
	return -1
}

// indexByteSWAR scans 8 bytes per iteration: the needle is broadcast into
// every byte of a uint64 and the Hacker's Delight zero-byte formula finds
// a match lane without a per-byte branch.
func indexByteSWAR(haystack []byte, needle byte) int {
	mask := uint64(needle) * 0x0101010101010101

	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		x := chunk ^ mask
		if z := (x - 0x0101010101010101) & ^x & 0x8080808080808080; z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// byteSet is a 256-bit membership bitmap.
type byteSet [4]uint64

func (s *byteSet) add(c byte) { s[c>>6] |= 1 << (c & 63) }

func (s *byteSet) has(c byte) bool { return s[c>>6]&(1<<(c&63)) != 0 }
