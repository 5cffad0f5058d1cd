package compiler

import (
	"github.com/coregx/vre/internal/program"
	"github.com/coregx/vre/internal/token"
)

// Optimize rewrites a program whose code is a run of two to 255 CHAR ops
// followed only by END into a single STRING op (STRING's length is one
// byte). Other programs, including longer literal runs, are left
// unchanged. Reports whether a substitution happened.
func Optimize(p *program.Program) bool {
	code := p.Code
	pos := 0
	var literal []byte
	for pos+1 < len(code) && token.Opcode(code[pos]) == token.CHAR {
		literal = append(literal, code[pos+1])
		pos += 2
	}
	if len(literal) < 2 || len(literal) > 0xFF {
		return false
	}
	if pos >= len(code) || token.Opcode(code[pos]) != token.END {
		return false
	}

	out := make([]byte, 0, len(literal)+3)
	out = append(out, byte(token.STRING), byte(len(literal)))
	out = append(out, literal...)
	out = append(out, byte(token.END))

	p.Code = out
	p.Literal = literal
	return true
}
