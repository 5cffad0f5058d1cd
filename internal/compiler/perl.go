package compiler

import "github.com/coregx/vre/internal/token"

// perlHooks: egrep + `{n} {n,} {n,m} {,m}`, non-escaped `( )` captures
// (inherited from egrep), `\digit` backrefs ambiguous with numeric
// constants, `\b \B` word boundaries, `\d \D \s \S \w \W` anywhere
// including inside `[...]`, `\cX \xHH` escapes, and reluctant quantifiers
// by suffix `?`.
func perlHooks() dialectHooks {
	g := egrepHooks()
	g.translatePlainOp = perlTranslatePlainOp
	g.translateEscapedOp = perlTranslateEscapedOp
	g.translateClassEscapedOp = perlTranslateClassEscapedOp
	g.compileOpcode = perlCompileOpcode
	return g
}

func perlTranslatePlainOp(s *state, ch byte) token.Token {
	switch ch {
	case '{':
		return token.BraceOpen
	case '}':
		return token.BraceClose
	}
	return egrepTranslatePlainOp(s, ch)
}

func perlTranslateEscapedOp(s *state, ch byte) token.Token {
	switch ch {
	case 'b':
		return token.WordBoundary
	case 'B':
		return token.NotWordBoundary
	case 'd':
		return token.Digit
	case 'D':
		return token.NotDigit
	case 's':
		return token.Space
	case 'S':
		return token.NotSpace
	case 'w':
		return token.Word
	case 'W':
		return token.NotWord
	case 'c', 'x':
		return token.CtrlChar
	}
	if ch >= '0' && ch <= '9' {
		value, extra := s.input.PeekNumber(2)
		value = int(ch-'0')*pow10(extra) + value
		s.input.Advance(extra)
		if value >= 1 && value <= s.nextCapture {
			s.num = value
			return token.Backref
		}
		// Not a live capture: a literal character whose value is the
		// decoded number (\0 is NUL).
		s.ch = byte(value)
		return token.Char
	}
	return egrepTranslateEscapedOp(s, ch)
}

func pow10(digits int) int {
	p := 1
	for i := 0; i < digits; i++ {
		p *= 10
	}
	return p
}

// perlTranslateClassEscapedOp extends the generic class-escape table with
// numeric constants and control escapes, emitted as exact-compare
// BIN_CHAR: inside a class a backslash-digit is never a backreference.
func perlTranslateClassEscapedOp(s *state, ch byte) (op token.Opcode, lit byte, neg byte, isShortcut bool) {
	switch ch {
	case 'n':
		return token.BIN_CHAR, '\n', 0, false
	case 'r':
		return token.BIN_CHAR, '\r', 0, false
	case 't':
		return token.BIN_CHAR, '\t', 0, false
	case 'f':
		return token.BIN_CHAR, '\f', 0, false
	case 'b':
		return token.BIN_CHAR, '\b', 0, false
	}
	if ch >= '0' && ch <= '9' {
		value, extra := s.input.PeekNumber(2)
		value = int(ch-'0')*pow10(extra) + value
		s.input.Advance(extra)
		return token.BIN_CHAR, byte(value), 0, false
	}
	return genericTranslateClassEscapedOp(s, ch)
}

func perlCompileOpcode(s *state, tok token.Token) token.ErrorCode {
	switch tok {
	case token.Star, token.Plus, token.Question:
		if s.beginningContext {
			start := s.code.Store2(token.CHAR, s.ch)
			s.prec.SetStart(start)
			return 0
		}
		if s.prec.Start() == s.code.Offset() {
			// Empty operand: dropped, and a trailing `?` is left in
			// the input to be classified on its own.
			return 0
		}
		if peekReluctant(s) {
			return compileReluctant(s, tok)
		}
		emitGreedyQuantifier(s, tok)
		return 0

	case token.BraceOpen:
		return compileClosure(s)

	default:
		return genericCompileOpcode(s, tok)
	}
}

func peekReluctant(s *state) bool {
	ch, ok := s.input.Peek()
	if !ok || ch != '?' {
		return false
	}
	s.input.Advance(1)
	return true
}
