package vre

import "github.com/coregx/vre/internal/compiler"

// Dialect selects the pattern language a Regexp handle speaks. A handle is
// constructed with exactly one dialect and keeps it for its lifetime.
//
//   - Generic is the common subset: `c \c ^ $ . [set] [^set] [a-b] r*`.
//   - Grep adds `\( \)` tagged groups and `\digit` backreferences;
//     `+ ? ( ) |` are ordinary characters.
//   - Egrep adds `+ ? ( ) |` as operators and `\n \f \b \r \t` control
//     escapes, with no numbered backreferences.
//   - Awk is egrep under its own name.
//   - Perl adds counted repetition `{n,m}`, capturing `( )`, `\digit`
//     backreferences, `\b \B` word boundaries, `\d \D \s \S \w \W`
//     class shortcuts, `\cX \xHH` escapes, and reluctant quantifiers.
type Dialect int

const (
	Generic Dialect = iota
	Grep
	Egrep
	Awk
	Perl
)

func (d Dialect) String() string {
	return compiler.Dialect(d).String()
}
