// Package compiler translates a pattern into byte-code: the token
// classification hooks for all five dialects, the precedence-driven
// compile loop with its splice-and-patch jump emission, character-class
// and counted-repetition emission, and the literal-run optimizer.
//
// This is one package, not one-per-dialect, because every dialect's hooks
// need direct access to the shared compile state; the dialect layering is
// expressed as explicit delegation between sibling functions (see
// hooks.go) rather than a type hierarchy.
package compiler

import (
	"github.com/coregx/vre/internal/codebuf"
	"github.com/coregx/vre/internal/cursor"
	"github.com/coregx/vre/internal/precedence"
	"github.com/coregx/vre/internal/token"
)

// Dialect names the five supported pattern languages.
type Dialect int

const (
	Generic Dialect = iota
	Grep
	Egrep
	Awk
	Perl
)

func (d Dialect) String() string {
	switch d {
	case Generic:
		return "generic"
	case Grep:
		return "grep"
	case Egrep:
		return "egrep"
	case Awk:
		return "awk"
	case Perl:
		return "perl"
	default:
		return "dialect(?)"
	}
}

// state is the shared compile workspace, carried by reference through
// every compile method.
type state struct {
	input *cursor.Cursor
	code  codebuf.Buffer
	prec  *precedence.Stack
	jumps []int // pending-jump stack

	hooks   dialectHooks
	dialect Dialect

	op  token.Token
	ch  byte
	num int // scratch decoded number (backreference index)

	beginningContext bool
	classComplement  bool

	parenNesting int

	nextCapture  int // index of the last group opened (= groups opened so far); 0 is reserved for the whole match
	openCaptures []int

	err       token.ErrorCode
	errOffset int
}

func newState(pattern []byte, d Dialect) *state {
	return &state{
		input:            cursor.New(pattern),
		prec:             precedence.New(),
		hooks:            hooksFor(d),
		dialect:          d,
		beginningContext: true,
	}
}

// fail records a compile error at the current input offset and returns
// it; the driver halts as soon as this is non-zero, so errors are always
// reported on the violating character.
func (s *state) fail(code token.ErrorCode) token.ErrorCode {
	s.err = code
	s.errOffset = s.input.Offset()
	return code
}

func (s *state) pushCapture(idx int) {
	s.openCaptures = append(s.openCaptures, idx)
}

func (s *state) popCapture() (idx int, ok bool) {
	if len(s.openCaptures) == 0 {
		return 0, false
	}
	idx = s.openCaptures[len(s.openCaptures)-1]
	s.openCaptures = s.openCaptures[:len(s.openCaptures)-1]
	return idx, true
}

func (s *state) pushJump(off int) { s.jumps = append(s.jumps, off) }

func (s *state) topJump() (int, bool) {
	if len(s.jumps) == 0 {
		return 0, false
	}
	return s.jumps[len(s.jumps)-1], true
}

func (s *state) popJump() {
	s.jumps = s.jumps[:len(s.jumps)-1]
}
