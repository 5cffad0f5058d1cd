package vre

import (
	"errors"
	"fmt"

	"github.com/coregx/vre/internal/token"
)

// Run-time error values for errors.Is-style handling. The matching calls
// report outcomes as result codes (see the constants in regex.go), not
// as errors; of these sentinels only ErrNotCompiled is returned, by
// Optimize and Dump.
var (
	// ErrNoMatch indicates an unsuccessful match (not a failure).
	ErrNoMatch = errors.New("no match found")

	// ErrStackOverflow indicates the backtracking stack exceeded the
	// configured MaxClosureStackDepth.
	ErrStackOverflow = errors.New("closure stack overflow")

	// ErrNotCompiled indicates the handle has no compiled program.
	ErrNotCompiled = errors.New("no compiled expression")

	// ErrInvalidProgram indicates the byte-code was corrupt (an unknown
	// opcode reached the interpreter).
	ErrInvalidProgram = errors.New("invalid program")
)

// ErrorCode is the closed set of negative compile-time error codes.
type ErrorCode int

const (
	CodeSyntaxError           ErrorCode = -1
	CodeBackrefOverflow       ErrorCode = -2
	CodeExpressionTooLong     ErrorCode = -3
	CodeIllegalBackref        ErrorCode = -4
	CodeIllegalClosure        ErrorCode = -5
	CodeIllegalDelimiter      ErrorCode = -6
	CodeIllegalOperator       ErrorCode = -7
	CodeIllegalNumber         ErrorCode = -8
	CodeMismatchedBraces      ErrorCode = -9
	CodeMismatchedBrackets    ErrorCode = -10
	CodeMismatchedParenthesis ErrorCode = -11
)

func (c ErrorCode) String() string {
	return token.ErrorCode(c).String()
}

// CompileError reports a failed compilation: which pattern, the byte
// offset of the violating character, and the diagnostic code.
type CompileError struct {
	Pattern string
	Offset  int
	Code    ErrorCode
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("vre: %s at offset %d in %q", e.Code, e.Offset, e.Pattern)
}

// ConfigError indicates an out-of-range configuration field.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("vre: invalid config %s: %s", e.Field, e.Message)
}
