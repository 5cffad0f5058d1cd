// Package intconv provides panic-on-overflow narrowing conversions for
// the signed 16-bit displacement and unsigned 8-bit operand fields of the
// byte-code format. A failed conversion is a compiler bug, never an input
// error, so these panic instead of returning an error.
package intconv

//go:inline
func IntToInt16(n int) int16 {
	if n < -(1<<15) || n > (1<<15)-1 {
		panic("intconv: int does not fit in int16")
	}
	return int16(n)
}

//go:inline
func IntToUint8(n int) uint8 {
	if n < 0 || n > 0xFF {
		panic("intconv: int does not fit in uint8")
	}
	return uint8(n)
}
