// Package program holds the immutable compiled byte-code program shared
// between internal/compiler (producer) and internal/vm (consumer), plus
// its disassembler.
package program

import (
	"fmt"
	"io"

	"github.com/coregx/vre/internal/token"
)

// Program is an immutable, read-only sequence of code bytes terminated by
// END. A single Program may be read concurrently by any number of
// matching calls; nothing in this package or internal/vm ever mutates a
// Program after compilation hands it over.
type Program struct {
	Code []byte

	// NumCaptures is the number of capture groups in the pattern,
	// excluding the implicit group 0 (the whole match).
	NumCaptures int

	// Literal holds the leading required byte run when the Optimizer
	// (internal/compiler) has collapsed the program to STRING, n, s...;
	// empty otherwise. internal/vm's search pre-filter reads the same
	// bytes from the STRING payload in Code rather than from this field.
	Literal []byte
}

// Dump writes a disassembly of p to w, one instruction per line: offset,
// opcode name, operands. Jump operands are printed as absolute target
// offsets rather than raw displacements.
func (p *Program) Dump(w io.Writer) error {
	code := p.Code
	pos := 0
	for pos < len(code) {
		start := pos
		op := token.Opcode(code[pos])
		pos++

		switch op {
		case token.END, token.NOOP, token.BACKUP, token.FORWARD,
			token.BOL, token.EOL, token.ANY, token.POP_FAIL,
			token.BOB, token.EOB, token.BOW, token.EOW:
			if _, err := fmt.Fprintf(w, "\t%d\t%s\n", start, op); err != nil {
				return err
			}

		case token.CHAR, token.NOT_CHAR, token.BIN_CHAR, token.NOT_BIN_CHAR:
			c := code[pos]
			pos++
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%c)\n", start, op, c); err != nil {
				return err
			}

		case token.RANGE, token.NOT_RANGE:
			lo, hi := code[pos], code[pos+1]
			pos += 2
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%c,%c)\n", start, op, lo, hi); err != nil {
				return err
			}

		case token.STRING:
			n := int(code[pos])
			pos++
			s := code[pos : pos+n]
			pos += n
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%d) %q\n", start, op, n, s); err != nil {
				return err
			}

		case token.GROUP_BEGIN, token.GROUP_END, token.BACKREF:
			n := code[pos]
			pos++
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%d)\n", start, op, n); err != nil {
				return err
			}

		case token.DIGIT, token.SPACE, token.WORD, token.WORD_BOUNDARY:
			neg := code[pos]
			pos++
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%d)\n", start, op, neg); err != nil {
				return err
			}

		case token.GOTO, token.PUSH_FAIL, token.PUSH_FAIL2,
			token.POP_FAIL_GOTO, token.FAKE_FAIL_GOTO:
			dsp := int16(uint16(code[pos]) | uint16(code[pos+1])<<8)
			target := pos + 2 + int(dsp)
			pos += 2
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%d)\n", start, op, target); err != nil {
				return err
			}

		case token.CLOSURE, token.CLOSURE_INC:
			// The displacement is relative to the end of the three
			// 16-bit fields, as the VM decodes it.
			dsp := int16(uint16(code[pos]) | uint16(code[pos+1])<<8)
			target := pos + 6 + int(dsp)
			min := int(uint16(code[pos+2]) | uint16(code[pos+3])<<8)
			max := int(uint16(code[pos+4]) | uint16(code[pos+5])<<8)
			pos += 6
			if _, err := fmt.Fprintf(w, "\t%d\t%s (%d) {%d,%d}\n", start, op, target, min, max); err != nil {
				return err
			}

		default:
			if _, err := fmt.Fprintf(w, "\t%d\tBAD CASE (%d)\n", start, op); err != nil {
				return err
			}
			return nil
		}
	}
	return nil
}
