package compiler

import (
	"github.com/coregx/vre/internal/precedence"
	"github.com/coregx/vre/internal/token"
)

// compileClass emits a `[...]` or `[^...]` character class. The leading
// `[` has already been consumed by the driver.
//
// The active precedence band is left at the reserved top band
// (precedence.NumLevels-1) on return. That is load-bearing: the next
// token the driver processes after `]` always has a lower band, so the
// ordinary precedence-drop patch logic fires immediately and patches
// every pending jump left by class alternation to the offset right after
// the class, which is exactly the address they need.
func compileClass(s *state) token.ErrorCode {
	entryOffset := s.code.Offset()
	s.prec.SetStart(entryOffset)
	s.prec.SetCurrent(precedence.NumLevels - 1)
	s.prec.SetStart(entryOffset)

	ch, ok := s.input.Get()
	if !ok {
		return s.fail(token.ErrMismatchedBrackets)
	}
	complement := false
	if ch == '^' {
		complement = true
		ch, ok = s.input.Get()
		if !ok {
			return s.fail(token.ErrMismatchedBrackets)
		}
	}
	s.classComplement = complement

	first := true
	for {
		if !first && !complement {
			storeClassAlternate(s)
		}
		first = false

		switch {
		case ch == '\\':
			escCh, okE := s.input.Get()
			if !okE {
				return s.fail(token.ErrMismatchedBrackets)
			}
			op, lit, neg, isShortcut := s.hooks.translateClassEscapedOp(s, escCh)
			switch {
			case isShortcut:
				s.code.Store2(op, neg)
			case op == token.BIN_CHAR:
				bop := token.BIN_CHAR
				if complement {
					bop = token.NOT_BIN_CHAR
				}
				s.code.Store2(bop, lit)
			default:
				s.code.Store2(classCharOp(complement), lit)
			}

		case ch == '-' && !peekIs(s, ']'):
			s.code.Store2(classCharOp(complement), '-')

		default:
			if peekIs(s, '-') {
				lo := ch
				s.input.Advance(1) // consume '-'
				if peekIs(s, ']') {
					// `[a-]`: put the '-' back so the next pass emits
					// it as its own (alternated) literal.
					s.input.Unget()
					s.code.Store2(classCharOp(complement), lo)
				} else {
					hi, okHi := s.input.Get()
					if !okHi {
						return s.fail(token.ErrMismatchedBrackets)
					}
					op := token.RANGE
					if complement {
						op = token.NOT_RANGE
					}
					s.code.StoreBytes(byte(op), lo, hi)
				}
			} else {
				s.code.Store2(classCharOp(complement), ch)
			}
		}

		if complement {
			s.code.StoreOp(token.BACKUP)
		}

		var okNext bool
		ch, okNext = s.input.Get()
		if !okNext {
			return s.fail(token.ErrMismatchedBrackets)
		}
		if ch == ']' {
			break
		}
	}

	if complement {
		storeConcatenate(s)
	}

	s.prec.SetStart(entryOffset)
	return 0
}

func classCharOp(complement bool) token.Opcode {
	if complement {
		return token.NOT_CHAR
	}
	return token.CHAR
}

func peekIs(s *state, want byte) bool {
	ch, ok := s.input.Peek()
	return ok && ch == want
}

// storeClassAlternate splices an alternation between two class members.
// Complement sets never alternate; their members run in series as
// AND-of-NOT.
func storeClassAlternate(s *state) {
	start := s.prec.Start()
	tail := s.code.Offset()
	s.code.StoreJump(start, token.PUSH_FAIL, tail+6)
	s.code.StoreOp(token.POP_FAIL_GOTO)
	s.pushJump(s.code.Offset())
	s.code.StoreBytes(0, 0)
	s.prec.SetStart(s.code.Offset())
}

// storeConcatenate closes a complemented class with the "require one
// character and commit" wrapper: every NOT test backed up, so FORWARD
// consumes the single character the class matched.
func storeConcatenate(s *state) {
	start := s.prec.Start()
	tail := s.code.Offset()
	s.code.StoreJump(start, token.PUSH_FAIL2, tail+4)
	s.code.StoreOp(token.FORWARD)
	s.prec.SetStart(s.code.Offset())
	s.code.StoreOp(token.POP_FAIL)
}
