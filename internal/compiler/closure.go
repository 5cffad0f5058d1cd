package compiler

import "github.com/coregx/vre/internal/token"

// compileClosure emits counted repetition `{min,max}`. The `{` itself has
// already been consumed by the driver; this parses the remainder up to
// and including `}`, then splices the CLOSURE/CLOSURE_INC pair around the
// operand.
func compileClosure(s *state) token.ErrorCode {
	min, max, errCode := parseClosureBounds(s)
	if errCode != 0 {
		return s.fail(errCode)
	}

	operandStart := s.prec.Start()
	if operandStart == s.code.Offset() {
		return 0 // empty operand: silently dropped, as with ? * +
	}

	tail := s.code.Offset()
	newStart := s.code.StoreClosureCount(operandStart, tail+10, operandStart+3, min, max)
	s.prec.SetStart(newStart)
	return 0
}

func parseClosureBounds(s *state) (min, max int, errCode token.ErrorCode) {
	ch, ok := s.input.Peek()
	if !ok {
		return 0, 0, token.ErrIllegalClosure
	}

	if ch == ',' {
		s.input.Advance(1)
		m, mok := parseClosureNumber(s)
		if !mok {
			return 0, 0, token.ErrIllegalClosure
		}
		min, max = 0, m
	} else {
		n, nok := parseClosureNumber(s)
		if !nok {
			return 0, 0, token.ErrIllegalClosure
		}
		min = n
		ch2, ok2 := s.input.Peek()
		if ok2 && ch2 == ',' {
			s.input.Advance(1)
			ch3, ok3 := s.input.Peek()
			if ok3 && ch3 == '}' {
				max = 0 // unbounded
			} else {
				m2, mok2 := parseClosureNumber(s)
				if !mok2 {
					return 0, 0, token.ErrIllegalClosure
				}
				max = m2
			}
		} else {
			max = min
		}
	}

	closeCh, okc := s.input.Get()
	if !okc || closeCh != '}' {
		return 0, 0, token.ErrIllegalClosure
	}
	if min < 0 || max < 0 {
		return 0, 0, token.ErrIllegalClosure
	}
	return min, max, 0
}

func parseClosureNumber(s *state) (int, bool) {
	value, digits := s.input.PeekNumber(6)
	if digits == 0 {
		return 0, false
	}
	s.input.Advance(digits)
	return value, true
}

// compileReluctant emits the stingy quantifier variants, which push the
// failure point on the other branch so the shorter match is tried first.
// The caller has already rejected beginning-context and empty operands
// and consumed the trailing `?`.
func compileReluctant(s *state, tok token.Token) token.ErrorCode {
	operandStart := s.prec.Start()

	switch tok {
	case token.Question:
		s.code.StoreJump(operandStart, token.GOTO, s.code.Offset()+3)
		s.code.StoreJump(operandStart, token.PUSH_FAIL, operandStart+6)
	case token.Star:
		s.code.StoreJump(operandStart, token.PUSH_FAIL, s.code.Offset()+6)
		s.code.StoreJump(s.code.Offset(), token.PUSH_FAIL, operandStart)
		s.code.StoreJump(operandStart, token.FAKE_FAIL_GOTO, s.code.Offset())
	case token.Plus:
		s.code.StoreJump(operandStart, token.PUSH_FAIL, s.code.Offset()+6)
		s.code.StoreJump(s.code.Offset(), token.PUSH_FAIL, operandStart)
		s.code.StoreJump(operandStart, token.FAKE_FAIL_GOTO, operandStart+6)
	}
	return 0
}
