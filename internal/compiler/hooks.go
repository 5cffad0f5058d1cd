package compiler

import "github.com/coregx/vre/internal/token"

// dialectHooks holds the behaviours that vary per dialect: context
// independence, precedence lookup, sub-expression end detection, plain,
// escaped and in-class escaped token classification, and opcode emission. The struct of
// function values is built once per Dialect by hooksFor; dialects layer
// on each other by calling the next table's functions directly.
type dialectHooks struct {
	contextIndependentOps bool

	precedence func(tok token.Token) int

	incompleteEOI func(s *state) bool

	translatePlainOp func(s *state, ch byte) token.Token

	translateEscapedOp func(s *state, ch byte) token.Token

	translateClassEscapedOp func(s *state, ch byte) (op token.Opcode, lit byte, neg byte, isShortcut bool)

	compileOpcode func(s *state, tok token.Token) token.ErrorCode
}

func hooksFor(d Dialect) dialectHooks {
	switch d {
	case Grep:
		return grepHooks()
	case Egrep:
		return egrepHooks()
	case Awk:
		// Awk is egrep's hook table under a distinct Dialect tag; there
		// is no parallel implementation.
		return egrepHooks()
	case Perl:
		return perlHooks()
	default:
		return genericHooks()
	}
}

// genericPrecedence is the band mapping every dialect shares:
// END→0, ')'→1, '|'→2, '^','$'→3, everything else→4.
func genericPrecedence(tok token.Token) int {
	switch tok {
	case token.End:
		return 0
	case token.GroupClose:
		return 1
	case token.Alternate:
		return 2
	case token.Bol, token.Eol:
		return 3
	default:
		return 4
	}
}
