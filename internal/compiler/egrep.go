package compiler

import "github.com/coregx/vre/internal/token"

// egrepHooks: generic + `+ ? ( ) |` as operators, plus `\n \f \b \r \t`
// as control-character escapes. Awk is this table verbatim under a
// distinct Dialect tag.
func egrepHooks() dialectHooks {
	g := genericHooks()
	g.contextIndependentOps = false
	g.translatePlainOp = egrepTranslatePlainOp
	g.translateEscapedOp = egrepTranslateEscapedOp
	g.incompleteEOI = egrepIncompleteEOI
	return g
}

func egrepTranslatePlainOp(s *state, ch byte) token.Token {
	switch ch {
	case '+':
		return token.Plus
	case '?':
		return token.Question
	case '(':
		return token.GroupOpen
	case ')':
		return token.GroupClose
	case '|':
		return token.Alternate
	}
	return genericTranslatePlainOp(s, ch)
}

func egrepTranslateEscapedOp(s *state, ch byte) token.Token {
	switch ch {
	case 'n', 'f', 'b', 'r', 't':
		return token.CtrlChar
	}
	return genericTranslateEscapedOp(s, ch)
}

func egrepIncompleteEOI(s *state) bool {
	ch, ok := s.input.PeekAt(0)
	return ok && (ch == '|' || ch == ')')
}
