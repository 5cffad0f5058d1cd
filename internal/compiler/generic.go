package compiler

import (
	"github.com/coregx/vre/internal/intconv"
	"github.com/coregx/vre/internal/token"
)

// genericHooks implements the common subset every other dialect either
// uses directly or wraps: `c \c ^ $ . [set] [^set] [a-b] [^a-b] r*`.
func genericHooks() dialectHooks {
	return dialectHooks{
		contextIndependentOps:   true,
		precedence:              genericPrecedence,
		incompleteEOI:           genericIncompleteEOI,
		translatePlainOp:        genericTranslatePlainOp,
		translateEscapedOp:      genericTranslateEscapedOp,
		translateClassEscapedOp: genericTranslateClassEscapedOp,
		compileOpcode:           genericCompileOpcode,
	}
}

func genericIncompleteEOI(s *state) bool {
	a, ok := s.input.PeekAt(0)
	return ok && a == '\\' && peekAtIs(s, 1, ')')
}

func peekAtIs(s *state, n int, want byte) bool {
	b, ok := s.input.PeekAt(n)
	return ok && b == want
}

func genericTranslatePlainOp(s *state, ch byte) token.Token {
	switch ch {
	case '^':
		return token.Bol
	case '$':
		return token.Eol
	case '.':
		return token.Dot
	case '[':
		return token.ClassOpen
	case ']':
		return token.ClassClose
	case '\\':
		return token.Escape
	case '*':
		return token.Star
	default:
		return token.Char
	}
}

// genericTranslateEscapedOp: "Generic returns CHAR for any letter" (and,
// by extension, for anything else not recognised by a dialect override) —
// escapes in the common subset are always literal.
func genericTranslateEscapedOp(s *state, ch byte) token.Token {
	s.ch = ch
	return token.Char
}

// genericTranslateClassEscapedOp is the default class-escape table:
// \w→WORD, \s→SPACE, \d→DIGIT, negated by the surrounding [^...]
// complement flag; the uppercase letters flip it back.
func genericTranslateClassEscapedOp(s *state, ch byte) (op token.Opcode, lit byte, neg byte, isShortcut bool) {
	var flag byte
	if s.classComplement {
		flag = 1
	}
	switch ch {
	case 'w':
		return token.WORD, 0, flag, true
	case 'W':
		return token.WORD, 0, 1 - flag, true
	case 's':
		return token.SPACE, 0, flag, true
	case 'S':
		return token.SPACE, 0, 1 - flag, true
	case 'd':
		return token.DIGIT, 0, flag, true
	case 'D':
		return token.DIGIT, 0, 1 - flag, true
	default:
		return 0, ch, 0, false
	}
}

// genericCompileOpcode emits code for the common token set, including
// grep's group and backreference tokens. Perl checks for its own tokens
// (braces, reluctant quantifiers) first and falls back to this function.
func genericCompileOpcode(s *state, tok token.Token) token.ErrorCode {
	switch tok {
	case token.End:
		if s.parenNesting != 0 {
			return s.fail(token.ErrMismatchedParenthesis)
		}
		s.code.StoreOp(token.END)
		return 0

	case token.Char:
		start := s.code.Store2(token.CHAR, s.ch)
		s.prec.SetStart(start)
		return 0

	case token.Dot:
		start := s.code.StoreOp(token.ANY)
		s.prec.SetStart(start)
		return 0

	case token.Bol:
		if s.hooks.contextIndependentOps && !s.beginningContext {
			return s.fail(token.ErrIllegalOperator)
		}
		if !s.beginningContext {
			start := s.code.Store2(token.CHAR, '^')
			s.prec.SetStart(start)
			return 0
		}
		start := s.code.StoreOp(token.BOL)
		s.prec.SetStart(start)
		return 0

	case token.Eol:
		atEnd := s.input.AtEnd()
		atClose := s.hooks.incompleteEOI(s)
		if s.hooks.contextIndependentOps && !atEnd && !atClose {
			return s.fail(token.ErrIllegalOperator)
		}
		if !atEnd && !atClose {
			start := s.code.Store2(token.CHAR, '$')
			s.prec.SetStart(start)
			return 0
		}
		start := s.code.StoreOp(token.EOL)
		s.prec.SetStart(start)
		return 0

	case token.Star, token.Plus, token.Question:
		return compileQuantifier(s, tok)

	case token.ClassOpen:
		return compileClass(s)

	case token.GroupOpen:
		if s.nextCapture+1 >= token.MaxBackrefs {
			return s.fail(token.ErrBackrefOverflow)
		}
		s.parenNesting++
		s.nextCapture++
		idx := s.nextCapture

		// The enclosing band's operand starts at GROUP_BEGIN so a
		// quantifier after the matching ')' wraps the whole group.
		s.prec.SetStart(s.code.Offset())

		s.code.Store2(token.GROUP_BEGIN, intconv.IntToUint8(idx))
		s.pushCapture(idx)
		s.prec.Push()
		s.prec.SetCurrent(0)
		s.prec.SetStart(s.code.Offset())
		return 0

	case token.GroupClose:
		s.parenNesting--
		if s.parenNesting < 0 {
			return s.fail(token.ErrMismatchedParenthesis)
		}
		s.prec.Pop()
		s.prec.SetCurrent(s.hooks.precedence(token.GroupOpen))
		idx, ok := s.popCapture()
		if !ok {
			return s.fail(token.ErrMismatchedParenthesis)
		}
		s.code.Store2(token.GROUP_END, byte(idx))
		return 0

	case token.WordBoundary, token.NotWordBoundary:
		neg := byte(0)
		if tok == token.NotWordBoundary {
			neg = 1
		}
		start := s.code.Store2(token.WORD_BOUNDARY, neg)
		s.prec.SetStart(start)
		return 0

	case token.Digit, token.NotDigit:
		neg := byte(0)
		if tok == token.NotDigit {
			neg = 1
		}
		start := s.code.Store2(token.DIGIT, neg)
		s.prec.SetStart(start)
		return 0

	case token.Space, token.NotSpace:
		neg := byte(0)
		if tok == token.NotSpace {
			neg = 1
		}
		start := s.code.Store2(token.SPACE, neg)
		s.prec.SetStart(start)
		return 0

	case token.Word, token.NotWord:
		neg := byte(0)
		if tok == token.NotWord {
			neg = 1
		}
		start := s.code.Store2(token.WORD, neg)
		s.prec.SetStart(start)
		return 0

	case token.Backref:
		if s.num <= 0 || s.num > s.nextCapture {
			return s.fail(token.ErrIllegalBackref)
		}
		start := s.code.Store2(token.BACKREF, byte(s.num))
		s.prec.SetStart(start)
		return 0

	case token.Alternate:
		start := s.prec.Start()
		tail := s.code.Offset()
		s.code.StoreJump(start, token.PUSH_FAIL, tail+6)
		s.code.StoreOp(token.GOTO)
		s.pushJump(s.code.Offset())
		s.code.StoreBytes(0, 0)
		s.prec.SetStart(s.code.Offset())
		return 0

	default:
		return s.fail(token.ErrIllegalOperator)
	}
}

// compileQuantifier handles `? * +` for the dialects without reluctant
// variants.
func compileQuantifier(s *state, tok token.Token) token.ErrorCode {
	if s.beginningContext {
		if s.hooks.contextIndependentOps {
			return s.fail(token.ErrIllegalOperator)
		}
		start := s.code.Store2(token.CHAR, s.ch)
		s.prec.SetStart(start)
		return 0
	}

	if s.prec.Start() == s.code.Offset() {
		// Empty operand: the quantifier is silently dropped.
		return 0
	}

	emitGreedyQuantifier(s, tok)
	return 0
}

func emitGreedyQuantifier(s *state, tok token.Token) {
	start := s.prec.Start()
	switch tok {
	case token.Question:
		s.code.StoreJump(start, token.PUSH_FAIL, s.code.Offset()+3)
	case token.Star:
		s.code.StoreJump(start, token.PUSH_FAIL, s.code.Offset()+6)
		s.code.StoreJump(s.code.Offset(), token.GOTO, start)
	case token.Plus:
		s.code.StoreJump(start, token.PUSH_FAIL, s.code.Offset()+6)
		s.code.StoreJump(s.code.Offset(), token.GOTO, start)
		s.code.StoreJump(start, token.FAKE_FAIL_GOTO, start+6)
	}
}
