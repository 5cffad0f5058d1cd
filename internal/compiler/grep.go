package compiler

import "github.com/coregx/vre/internal/token"

// grepHooks: generic + `\( \) \digit`. `+ ? ( ) |` stay literal (grep's
// translatePlainOp is exactly the generic one, which already falls back
// to Char for any character it doesn't special-case).
func grepHooks() dialectHooks {
	g := genericHooks()
	g.contextIndependentOps = false
	g.translateEscapedOp = grepTranslateEscapedOp
	return g
}

func grepTranslateEscapedOp(s *state, ch byte) token.Token {
	switch ch {
	case '(':
		return token.GroupOpen
	case ')':
		return token.GroupClose
	}
	if ch >= '0' && ch <= '9' {
		// The full decimal value decides the register; a number naming
		// no open group is rejected by the emitter.
		value, extra := s.input.PeekNumber(2)
		s.num = int(ch-'0')*pow10(extra) + value
		s.input.Advance(extra)
		return token.Backref
	}
	return genericTranslateEscapedOp(s, ch)
}
