package vm

import (
	"github.com/coregx/vre/internal/program"
	"github.com/coregx/vre/internal/simd"
	"github.com/coregx/vre/internal/token"
)

// Result codes shared with the facade: a non-negative result is a match
// length (Run) or a match position (Search).
const (
	// NoMatch is the normal unsuccessful-match result.
	NoMatch = -1
	// Corrupt reports a backtracking stack past its configured depth or a
	// byte-code sequence the interpreter cannot be running (an unknown
	// opcode, a structurally impossible operand).
	Corrupt = -2
)

// Params carries the per-call execution options. Captures, when non-nil,
// must have room for the whole-match entry plus one entry per group; Run
// pre-clears it.
type Params struct {
	CaseInsensitive      bool
	LowerOnlyInsensitive bool
	MaxClosureStackDepth int

	// Partial makes an unsuccessful Run return the furthest text position
	// any executed instruction started from (the longest prefix consumed)
	// instead of NoMatch.
	Partial bool

	Captures []Capture
}

// Run interprets prog against text starting at the cursor's current
// position and returns the matched length, or NoMatch/Corrupt. The
// program is only ever read, so concurrent Runs over one program are
// safe; all mutable state lives in this call frame.
//
// Frames carrying no text position (PUSH_FAIL2, FAKE_FAIL_GOTO) are
// discarded outright during rewind, never resumed. That rule is what
// makes `a+` fail on "b" and `[^a]` fail on "a" instead of falsely
// matching.
func Run(prog *program.Program, text *Text, p Params) int {
	code := prog.Code
	if len(code) == 0 || text.Len() == 0 {
		return NoMatch
	}

	var (
		ms     []frame
		counts []closureCount
	)
	caps := newCaptureStacks(prog.NumCaptures)
	if p.Captures != nil {
		for i := range p.Captures {
			p.Captures[i] = Capture{}
		}
	}

	ip := 0
	lastText := text.Position()

	for {
		if text.Position() > lastText {
			lastText = text.Position()
		}
		fail := false

		op := token.Opcode(code[ip])
		ip++

		switch op {
		case token.NOOP:

		case token.BACKUP:
			text.Unget()

		case token.FORWARD:
			if _, ok := text.Next(); !ok {
				fail = true
			}

		case token.END:
			length := text.Position()
			if p.Captures != nil {
				p.Captures[0] = Capture{Start: 0, Len: length}
				caps.commit(p.Captures)
			}
			return length

		case token.BOL:
			if !(text.AtBegin() || text.ByteAt(text.Position()-1) == '\n') {
				fail = true
			}

		case token.EOL:
			if !(text.AtEnd() || text.ByteAt(text.Position()) == '\n') {
				fail = true
			}

		case token.ANY:
			ch, ok := text.Next()
			if !ok || ch == '\n' {
				fail = true
			}

		case token.BIN_CHAR:
			ch, ok := text.Next()
			if !ok || ch != code[ip] {
				fail = true
			}
			ip++

		case token.NOT_BIN_CHAR:
			ch, ok := text.Next()
			if !ok || ch == code[ip] {
				fail = true
			}
			ip++

		case token.CHAR:
			ch, ok := text.Next()
			if !ok || !charEqual(ch, code[ip], p.CaseInsensitive, p.LowerOnlyInsensitive) {
				fail = true
			}
			ip++

		case token.NOT_CHAR:
			ch, ok := text.Next()
			if !ok || ch == code[ip] {
				fail = true
			}
			ip++

		case token.RANGE:
			ch, ok := text.Next()
			if !ok || ch < code[ip] || ch > code[ip+1] {
				fail = true
			}
			ip += 2

		case token.NOT_RANGE:
			ch, ok := text.Next()
			if !ok || (ch >= code[ip] && ch <= code[ip+1]) {
				fail = true
			}
			ip += 2

		case token.STRING:
			n := int(code[ip])
			ip++
			if text.Position()+n > text.Len() {
				fail = true
			} else {
				for i := 0; i < n; i++ {
					if !charEqual(text.ByteAt(text.Position()+i), code[ip+i],
						p.CaseInsensitive, p.LowerOnlyInsensitive) {
						fail = true
						break
					}
				}
				if !fail {
					text.Advance(n)
				}
			}
			ip += n

		case token.GROUP_BEGIN:
			caps.begin(int(code[ip]), text.Position())
			ip++

		case token.GROUP_END:
			if !caps.end(int(code[ip]), text.Position()) {
				return Corrupt
			}
			ip++

		case token.BACKREF:
			n := int(code[ip])
			ip++
			top, ok := caps.top(n)
			if !ok || top.end == -1 || !text.HasSubstring(top.start, top.end) {
				fail = true
			}

		case token.GOTO:
			ip = ip + 2 + disp(code, ip)

		case token.PUSH_FAIL:
			if len(ms) >= p.MaxClosureStackDepth {
				return Corrupt
			}
			ms = append(ms, frame{
				resume:  ip + 2 + disp(code, ip),
				textPos: text.Position(),
				min:     -1,
				max:     -1,
			})
			ip += 2

		case token.PUSH_FAIL2:
			if len(ms) >= p.MaxClosureStackDepth {
				return Corrupt
			}
			ms = append(ms, frame{
				resume:  ip + 2 + disp(code, ip),
				textPos: noText,
				min:     -1,
				max:     -1,
			})
			ip += 2

		case token.POP_FAIL:
			if len(ms) > 0 && ms[len(ms)-1].plainFailure() {
				ms = ms[:len(ms)-1]
			}

		case token.POP_FAIL_GOTO:
			if len(ms) > 0 && ms[len(ms)-1].plainFailure() {
				ms = ms[:len(ms)-1]
			}
			ip = ip + 2 + disp(code, ip)

		case token.FAKE_FAIL_GOTO:
			// The next instruction is the PUSH_FAIL this op exists to
			// skip; a dummy frame with its resume point (and no text) is
			// pushed instead, so the first loop iteration is not a real
			// failure point.
			next := ip + 2
			if token.Opcode(code[next]) != token.PUSH_FAIL {
				return Corrupt
			}
			if len(ms) >= p.MaxClosureStackDepth {
				return Corrupt
			}
			ms = append(ms, frame{
				resume:  next + 3 + disp(code, next+1),
				textPos: noText,
				min:     -1,
				max:     -1,
			})
			ip = ip + 2 + disp(code, ip)

		case token.CLOSURE:
			if len(ms) >= p.MaxClosureStackDepth {
				return Corrupt
			}
			ms = append(ms, frame{
				resume:  ip + 6 + disp(code, ip),
				textPos: text.Position(),
				min:     num(code, ip+2),
				max:     num(code, ip+4),
			})
			ip += 6

		case token.CLOSURE_INC:
			// The counter is keyed by this instruction's absolute offset
			// so each {n,m} instance counts independently.
			key := ip - 1
			mn, mx := num(code, ip+2), num(code, ip+4)

			idx := findCount(counts, key)
			nMatches := 1
			if idx >= 0 {
				nMatches = counts[idx].count + 1
			} else {
				counts = append(counts, closureCount{addr: key})
				idx = len(counts) - 1
			}

			f := frame{min: mn, max: mx, matched: nMatches}
			if !f.canContinue() {
				// Range exhausted: clear the counter and fall through,
				// committing the repetition.
				counts[idx].count = 0
				ip += 6
				continue
			}
			counts[idx].count = nMatches

			if len(ms) >= p.MaxClosureStackDepth {
				return Corrupt
			}
			f.textPos = text.Position()
			f.resume = ip + 6
			ms = append(ms, f)
			ip = ip + 6 + disp(code, ip)

		case token.BOB:
			if !text.AtBegin() {
				fail = true
			}

		case token.EOB:
			if !text.AtEnd() {
				fail = true
			}

		case token.BOW:
			pos := text.Position()
			if text.AtEnd() || !isWordByte(text.ByteAt(pos)) ||
				(!text.AtBegin() && isWordByte(text.ByteAt(pos-1))) {
				fail = true
			}

		case token.EOW:
			pos := text.Position()
			if text.AtBegin() || !isWordByte(text.ByteAt(pos-1)) ||
				(!text.AtEnd() && isWordByte(text.ByteAt(pos))) {
				fail = true
			}

		case token.DIGIT:
			ch, ok := text.Next()
			if !ok || isDigitByte(ch) == (code[ip] != 0) {
				fail = true
			}
			ip++

		case token.SPACE:
			ch, ok := text.Next()
			if !ok || isSpaceByte(ch) == (code[ip] != 0) {
				fail = true
			}
			ip++

		case token.WORD:
			ch, ok := text.Next()
			if !ok || isWordByte(ch) == (code[ip] != 0) {
				fail = true
			}
			ip++

		case token.WORD_BOUNDARY:
			if atWordBoundary(text) == (code[ip] != 0) {
				fail = true
			}
			ip++

		default:
			return Corrupt
		}

		if !fail {
			continue
		}

		// Rewind: pop failure frames until one can resume execution.
		// Frames without a text position are dropped; unclosed counting
		// frames restore their text and keep rewinding.
		resumed := false
		for len(ms) > 0 {
			f := ms[len(ms)-1]
			ms = ms[:len(ms)-1]
			if f.textPos == noText {
				continue
			}
			text.SetPosition(f.textPos)
			if !f.closed() {
				continue
			}
			ip = f.resume
			caps.rewind(f.textPos)
			resumed = true
			break
		}
		if !resumed {
			if p.Partial {
				text.SetPosition(lastText)
				return lastText
			}
			return NoMatch
		}
	}
}

// Search scans for a match position within text, trying the byte-code at
// successive starting positions: start, start±1, ..., start+rang, so
// |rang|+1 positions in all; a negative rang scans backwards from start.
// A rang of 0 means "every position through the window end". No position
// past start+rang is tried. Returns the matching start position,
// with matchLen the corresponding match length, or NoMatch/Corrupt.
//
// When the program opens with STRING and no case folding is active, a
// pre-filter skips every position before the next occurrence of any of
// the literal's bytes. The probe yields forward distances, so it only
// applies to forward scans.
func Search(prog *program.Program, primary, secondary []byte, start, rang int, p Params) (pos, matchLen int) {
	code := prog.Code
	if len(code) == 0 {
		return NoMatch, 0
	}

	total := len(primary) + len(secondary)
	if rang == 0 {
		rang = total - start
	}
	dir := 1
	if rang < 0 {
		dir = -1
		rang = -rang
	}

	var literal []byte
	if dir > 0 && !p.CaseInsensitive && !p.LowerOnlyInsensitive &&
		token.Opcode(code[0]) == token.STRING {
		literal = code[2 : 2+int(code[1])]
	}

	for at := start; rang >= 0; rang, at = rang-1, at+dir {
		if at < 0 || at > total {
			break
		}

		if literal != nil {
			n := indexAnyAt(primary, secondary, at, literal)
			if n < 0 {
				return NoMatch, 0
			}
			at += n
			rang -= n
			if rang < 0 {
				break
			}
		}

		text := NewText(primary, secondary, at, -1)
		ret := Run(prog, text, p)
		if ret >= 0 {
			return at, ret
		}
		if ret < NoMatch {
			return ret, 0
		}
	}
	return NoMatch, 0
}

// indexAnyAt returns the distance from position at to the first byte of
// the pair window that occurs in accept, or -1 if there is none.
func indexAnyAt(primary, secondary []byte, at int, accept []byte) int {
	if at < len(primary) {
		if n := simd.IndexAny(primary[at:], accept); n >= 0 {
			return n
		}
		if n := simd.IndexAny(secondary, accept); n >= 0 {
			return len(primary) - at + n
		}
		return -1
	}
	return simd.IndexAny(secondary[at-len(primary):], accept)
}

// disp decodes the signed 16-bit little-endian displacement at off.
func disp(code []byte, off int) int {
	return int(int16(uint16(code[off]) | uint16(code[off+1])<<8))
}

// num decodes an unsigned 16-bit little-endian field (CLOSURE min/max).
func num(code []byte, off int) int {
	return int(uint16(code[off]) | uint16(code[off+1])<<8)
}

// charEqual compares a consumed text byte against an expected pattern
// byte under the two independent folding flags.
func charEqual(actual, expected byte, caseless, lowerOnly bool) bool {
	switch {
	case caseless:
		return toUpperByte(actual) == toUpperByte(expected)
	case lowerOnly:
		// Upper-case pattern letters match either case; lower-case ones
		// match only themselves.
		return actual == expected || toUpperByte(actual) == expected
	default:
		return actual == expected
	}
}

// atWordBoundary reports a transition between word and non-word at the
// cursor, counting the window edges as boundaries next to a word byte.
func atWordBoundary(t *Text) bool {
	pos := t.Position()
	switch {
	case t.Len() == 0:
		return false
	case t.AtBegin():
		return isWordByte(t.ByteAt(pos))
	case t.AtEnd():
		return isWordByte(t.ByteAt(pos - 1))
	default:
		return isWordByte(t.ByteAt(pos-1)) != isWordByte(t.ByteAt(pos))
	}
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// isWordByte is the word class behind WORD, BOW/EOW, and WORD_BOUNDARY:
// ASCII letters and digits, no underscore.
func isWordByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func toUpperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
