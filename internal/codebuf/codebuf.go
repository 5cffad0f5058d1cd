// Package codebuf implements the append-only byte-code array with
// splice-insertion and little-endian 16-bit displacement encoding. The
// appending store methods return the offset at which they wrote;
// StoreJump returns nothing, and StoreClosureCount returns the new tail.
package codebuf

import (
	"github.com/coregx/vre/internal/intconv"
	"github.com/coregx/vre/internal/token"
)

// Buffer is a growable byte-code array. The zero value is ready to use.
type Buffer struct {
	code []byte
}

// Offset returns the current tail of the buffer (one past the last
// written byte).
func (b *Buffer) Offset() int { return len(b.code) }

// Bytes returns the underlying byte-code. Callers must not retain or
// mutate the slice across further Buffer writes.
func (b *Buffer) Bytes() []byte { return b.code }

// At returns the byte stored at position i.
func (b *Buffer) At(i int) byte { return b.code[i] }

// Store appends a single code byte (an opcode with no operand, or a bare
// literal) and returns the offset written.
func (b *Buffer) Store(c byte) int {
	start := len(b.code)
	b.code = append(b.code, c)
	return start
}

// StoreOp is Store typed for an Opcode.
func (b *Buffer) StoreOp(op token.Opcode) int {
	return b.Store(byte(op))
}

// Store2 appends an opcode followed by a one-byte operand (e.g.
// CHAR c, DIGIT neg) and returns the offset of the opcode.
func (b *Buffer) Store2(op token.Opcode, operand byte) int {
	start := len(b.code)
	b.code = append(b.code, byte(op), operand)
	return start
}

// StoreBytes appends raw bytes (used for RANGE a b and STRING's payload)
// and returns the offset of the first byte written.
func (b *Buffer) StoreBytes(bs ...byte) int {
	start := len(b.code)
	b.code = append(b.code, bs...)
	return start
}

// PutAddress writes a 16-bit signed displacement at off, off+1: the
// distance from the byte after the displacement field to target.
func (b *Buffer) PutAddress(off, target int) {
	dsp := intconv.IntToInt16(target - off - 2)
	b.code[off] = byte(dsp & 0xFF)
	b.code[off+1] = byte((dsp >> 8) & 0xFF)
}

// DecodeAddress reads the displacement at off and returns the absolute
// target it encodes (off+2+displacement).
func (b *Buffer) DecodeAddress(off int) int {
	dsp := int16(uint16(b.code[off]) | uint16(b.code[off+1])<<8)
	return off + 2 + int(dsp)
}

// putNumber writes a plain (non-relative) 16-bit little-endian value,
// used for CLOSURE/CLOSURE_INC's min/max fields.
func putNumber(dst []byte, off int, n int) {
	dst[off] = byte(n & 0xFF)
	dst[off+1] = byte((n >> 8) & 0xFF)
}

// ReadNumber is the counterpart to putNumber, used by the VM to decode a
// CLOSURE/CLOSURE_INC min or max field.
func (b *Buffer) ReadNumber(off int) int {
	return int(uint16(b.code[off]) | uint16(b.code[off+1])<<8)
}

// StoreJump splices a 3-byte jump instruction (opcode + 16-bit
// displacement) in *at* pos, shifting everything from pos onward three
// bytes to the right, then patches the new instruction's address field to
// point at target. Every pre-existing absolute offset ≥ pos is
// invalidated by 3 bytes; callers (the compiler driver) only ever call
// this at a precedence band's current operand-start, which by
// construction has nothing "pinned" below it that isn't also being
// updated in the same pass.
func (b *Buffer) StoreJump(pos int, op token.Opcode, target int) {
	b.splice(pos, 3)
	b.code[pos] = byte(op)
	b.PutAddress(pos+1, target)
}

// StoreClosureCount splices a 7-byte CLOSURE(target, min, max) in at pos,
// then appends a CLOSURE_INC(backTarget, min, max) at the (post-splice)
// tail. It returns the new tail offset, which becomes the enclosing
// band's updated operand-start.
func (b *Buffer) StoreClosureCount(pos int, target int, backTarget int, min, max int) int {
	b.splice(pos, 7)
	b.code[pos] = byte(token.CLOSURE)
	b.PutAddress(pos+1, target)
	putNumber(b.code, pos+3, min)
	putNumber(b.code, pos+5, max)

	incPos := len(b.code)
	b.code = append(b.code, byte(token.CLOSURE_INC), 0, 0, 0, 0, 0, 0)
	b.PutAddress(incPos+1, backTarget)
	putNumber(b.code, incPos+3, min)
	putNumber(b.code, incPos+5, max)

	return len(b.code)
}

// splice grows the buffer by n zero bytes inserted at pos, shifting the
// existing tail to the right.
func (b *Buffer) splice(pos, n int) {
	b.code = append(b.code, make([]byte, n)...)
	copy(b.code[pos+n:], b.code[pos:len(b.code)-n])
	for i := 0; i < n; i++ {
		b.code[pos+i] = 0
	}
}
