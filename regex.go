// Package vre is a multi-dialect backtracking regular-expression engine.
//
// A pattern is compiled by a syntax-directed, splice-and-patch compiler
// into a linear byte-code program, which a backtracking virtual machine
// then runs against subject text. Five dialects share the one
// compile/execute core: the generic common subset, BSD grep with tagged
// subexpressions, egrep, awk, and a Perl-like superset with counted
// repetition, backreferences, and reluctant quantifiers.
//
// Basic usage:
//
//	re := vre.MustCompile(`a{2,4}`, vre.Perl)
//	re.Match([]byte("aaa"))      // 3
//	re.Match([]byte("a"))        // -1
//
//	re = vre.MustCompile(`(\w+) (\w+)`, vre.Perl)
//	n, caps := re.MatchCaptures([]byte("john doe"))
//	// n == 8, caps[1] == {0,4}, caps[2] == {5,3}
//
// A compiled handle is immutable and safe for concurrent matching; all
// per-match state lives on the calling goroutine's stack.
package vre

import (
	"io"

	"github.com/coregx/vre/internal/compiler"
	"github.com/coregx/vre/internal/program"
	"github.com/coregx/vre/internal/vm"
)

// Result codes returned by the matching entry points: a non-negative
// value is a match length (Match family) or match position (Search).
const (
	// NoMatch reports an unsuccessful match or search.
	NoMatch = -1
	// StackOverflow reports that backtracking exceeded
	// Config.MaxClosureStackDepth, or that the program was corrupt.
	StackOverflow = -2
	// NotCompiled reports a matching call on a handle with no program.
	NotCompiled = -3
)

// Capture is one match-output entry: entry 0 of a capture slice is the
// whole match, entries 1..k the groups in source order. A group that
// never closed, or matched empty, stays the zero value.
type Capture = vm.Capture

// Regexp is a compiled regular expression handle: one dialect, one
// configuration, and (after a successful Compile) one immutable byte-code
// program. Matching calls never mutate the handle, so a compiled Regexp
// is safe for concurrent use; Compile and Optimize are not.
type Regexp struct {
	dialect     Dialect
	config      Config
	pattern     string
	prog        *program.Program
	numCaptures int
}

// New returns an empty handle for the given dialect with the default
// configuration. Compile must be called before matching.
func New(d Dialect) *Regexp {
	return &Regexp{dialect: d, config: DefaultConfig()}
}

// Compile compiles pattern under dialect d and returns a ready handle.
func Compile(pattern string, d Dialect) (*Regexp, error) {
	return CompileWithConfig(pattern, d, DefaultConfig())
}

// MustCompile is Compile, panicking on error. Useful for patterns known
// to be valid at program start.
func MustCompile(pattern string, d Dialect) *Regexp {
	re, err := Compile(pattern, d)
	if err != nil {
		panic("vre: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern under dialect d with a custom
// configuration.
func CompileWithConfig(pattern string, d Dialect, config Config) (*Regexp, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	re := &Regexp{dialect: d, config: config}
	if err := re.Compile(pattern); err != nil {
		return nil, err
	}
	return re, nil
}

// Compile replaces the handle's program with a fresh compilation of
// pattern. Any prior program is discarded before compilation starts, so
// a failed Compile leaves the handle not-compiled rather than holding a
// stale program.
func (re *Regexp) Compile(pattern string) error {
	re.prog = nil
	re.numCaptures = 0
	re.pattern = pattern

	res := compiler.Compile([]byte(pattern), compiler.Dialect(re.dialect))
	if res.Err != 0 {
		return &CompileError{
			Pattern: pattern,
			Offset:  res.ErrOffset,
			Code:    ErrorCode(res.Err),
		}
	}
	re.prog = res.Program
	re.numCaptures = res.NumCaptures
	return nil
}

// Optimize rewrites the compiled program in place, collapsing a leading
// run of literal characters into a single string instruction. It reports
// whether a substitution happened, and ErrNotCompiled when there is no
// program to rewrite.
func (re *Regexp) Optimize() (bool, error) {
	if re.prog == nil {
		return false, ErrNotCompiled
	}
	return compiler.Optimize(re.prog), nil
}

// Pattern returns the most recently compiled pattern source.
func (re *Regexp) Pattern() string { return re.pattern }

// Dialect returns the handle's dialect.
func (re *Regexp) Dialect() Dialect { return re.dialect }

// NumCaptures returns the number of capture groups in the compiled
// pattern, excluding the implicit whole-match entry.
func (re *Regexp) NumCaptures() int { return re.numCaptures }

// Clone returns a fresh handle with the same dialect and configuration
// but no program; a cloned handle must compile before it can match.
func (re *Regexp) Clone() *Regexp {
	return &Regexp{dialect: re.dialect, config: re.config}
}

// Dump writes a disassembly of the compiled program to w.
func (re *Regexp) Dump(w io.Writer) error {
	if re.prog == nil {
		return ErrNotCompiled
	}
	return re.prog.Dump(w)
}

// Match returns the length of the match anchored at the start of text,
// or a negative result code.
func (re *Regexp) Match(text []byte) int {
	return re.MatchPairAt(text, nil, 0, -1)
}

// MatchAt is Match over the window text[start:stop]; stop < 0 means the
// end of text.
func (re *Regexp) MatchAt(text []byte, start, stop int) int {
	return re.MatchPairAt(text, nil, start, stop)
}

// MatchPair is Match over the logical concatenation of two buffers,
// without copying either.
func (re *Regexp) MatchPair(primary, secondary []byte) int {
	return re.MatchPairAt(primary, secondary, 0, -1)
}

// MatchPairAt is MatchPair over the window [start, stop) of the
// concatenation.
func (re *Regexp) MatchPairAt(primary, secondary []byte, start, stop int) int {
	if re.prog == nil {
		return NotCompiled
	}
	return vm.Run(re.prog, vm.NewText(primary, secondary, start, stop), re.params(nil, false))
}

// MatchCaptures is Match with capture output: caps[0] is the whole match
// as (0, length), caps[i] the i'th group. The slice is freshly cleared on
// every call and valid whatever the result code.
func (re *Regexp) MatchCaptures(text []byte) (int, []Capture) {
	return re.MatchCapturesAt(text, 0, -1)
}

// MatchCapturesAt is MatchCaptures over the window text[start:stop], with
// capture offsets relative to start.
func (re *Regexp) MatchCapturesAt(text []byte, start, stop int) (int, []Capture) {
	caps := make([]Capture, re.numCaptures+1)
	if re.prog == nil {
		return NotCompiled, caps
	}
	ret := vm.Run(re.prog, vm.NewText(text, nil, start, stop), re.params(caps, false))
	return ret, caps
}

// PartialMatch returns the length of the longest prefix the program
// consumed before the match failed, or the full match length on success.
func (re *Regexp) PartialMatch(text []byte) int {
	return re.PartialMatchAt(text, 0, -1)
}

// PartialMatchAt is PartialMatch over the window text[start:stop].
func (re *Regexp) PartialMatchAt(text []byte, start, stop int) int {
	if re.prog == nil {
		return NotCompiled
	}
	return vm.Run(re.prog, vm.NewText(text, nil, start, stop), re.params(nil, true))
}

// Search scans text for the first position where the program matches and
// returns it, or a negative result code.
func (re *Regexp) Search(text []byte) int {
	return re.SearchPair(text, nil, 0, 0)
}

// SearchRange tries the positions start through start+rang inclusive
// (|rang|+1 positions); a negative rang scans backwards, and rang == 0
// means "through the end of text".
func (re *Regexp) SearchRange(text []byte, start, rang int) int {
	return re.SearchPair(text, nil, start, rang)
}

// SearchPair is SearchRange over the logical concatenation of two
// buffers.
func (re *Regexp) SearchPair(primary, secondary []byte, start, rang int) int {
	if re.prog == nil {
		return NotCompiled
	}
	pos, _ := vm.Search(re.prog, primary, secondary, start, rang, re.params(nil, false))
	return pos
}

func (re *Regexp) params(caps []Capture, partial bool) vm.Params {
	return vm.Params{
		CaseInsensitive:      re.config.CaseInsensitive,
		LowerOnlyInsensitive: re.config.LowerOnlyInsensitive,
		MaxClosureStackDepth: re.config.MaxClosureStackDepth,
		Partial:              partial,
		Captures:             caps,
	}
}
