package compiler

import (
	"github.com/coregx/vre/internal/program"
	"github.com/coregx/vre/internal/token"
)

// maxProgramLen bounds the byte-code so every displacement the emitters can
// produce still fits the signed 16-bit field of the wire format.
const maxProgramLen = 1<<15 - 16

// Result carries everything a successful or failed compile produced.
type Result struct {
	Program     *program.Program
	Err         token.ErrorCode // 0 on success
	ErrOffset   int
	NumCaptures int
}

// Compile runs the token→precedence→emit loop over pattern under dialect
// d and returns the resulting byte-code program, or a syntax error and
// the pattern offset it was found at.
func Compile(pattern []byte, d Dialect) Result {
	s := newState(pattern, d)
	s.prec.SetCurrent(0)

	for {
		tok, haveCh := nextToken(s)
		if !haveCh {
			tok = token.End
		}
		if s.err != 0 {
			return Result{Err: s.err, ErrOffset: s.errOffset}
		}

		level := s.hooks.precedence(tok)
		current := s.prec.Current()

		switch {
		case level > current:
			// A freshly seen higher-precedence operand must stay
			// addressable at every band that will later want to wrap
			// it, so its start offset is recorded from the old band
			// up through the new one, which becomes active.
			for band := current; band <= level; band++ {
				s.prec.SetStartAt(band, s.code.Offset())
			}
			s.prec.SetCurrent(level)
		case level < current:
			s.prec.SetCurrent(level)
			startAtLevel := s.prec.StartAt(level)
			for {
				top, ok := s.topJump()
				if !ok || top < startAtLevel {
					break
				}
				s.code.PutAddress(top, s.code.Offset())
				s.popJump()
			}
		}

		if errCode := s.hooks.compileOpcode(s, tok); errCode != 0 {
			return Result{Err: errCode, ErrOffset: s.errOffset}
		}
		if s.code.Offset() > maxProgramLen {
			return Result{Err: token.ErrExpressionTooLong, ErrOffset: s.input.Offset()}
		}

		if tok == token.End {
			break
		}

		s.beginningContext = tok == token.GroupOpen || tok == token.Alternate
	}

	if len(s.jumps) != 0 || len(s.openCaptures) != 0 || s.prec.Depth() != 1 {
		return Result{Err: token.ErrSyntax, ErrOffset: s.input.Offset()}
	}

	code := make([]byte, s.code.Offset())
	copy(code, s.code.Bytes())

	return Result{
		Program: &program.Program{
			Code:        code,
			NumCaptures: s.nextCapture,
		},
		NumCaptures: s.nextCapture,
	}
}

// nextToken implements §4.5 step 1-2: read the next character, classify
// it, and resolve the ESCAPE/CTRL_CHAR indirections. ok is false only at
// true end of input.
func nextToken(s *state) (tok token.Token, ok bool) {
	ch, have := s.input.Get()
	if !have {
		return token.End, false
	}
	s.ch = ch

	tok = s.hooks.translatePlainOp(s, ch)
	if tok != token.Escape {
		return tok, true
	}

	ch2, have2 := s.input.Get()
	if !have2 {
		s.fail(token.ErrSyntax)
		return token.End, true
	}

	tok = s.hooks.translateEscapedOp(s, ch2)
	if tok == token.CtrlChar {
		translated, okc := s.input.TranslateCtrlChar(ch2)
		if !okc {
			s.fail(token.ErrSyntax)
			return token.End, true
		}
		s.ch = translated
		return token.Char, true
	}
	return tok, true
}
