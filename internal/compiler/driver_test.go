package compiler

import (
	"bytes"
	"testing"

	"github.com/coregx/vre/internal/token"
)

func mustCompile(t *testing.T, pattern string, d Dialect) []byte {
	t.Helper()
	res := Compile([]byte(pattern), d)
	if res.Err != 0 {
		t.Fatalf("Compile(%q, %v) failed: %v at %d", pattern, d, res.Err, res.ErrOffset)
	}
	return res.Program.Code
}

func op(o token.Opcode) byte { return byte(o) }

// The splice-and-patch emitters must reproduce the byte layouts the VM's
// displacement arithmetic is written against; these pin them exactly.
func TestByteLayouts(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		dialect Dialect
		want    []byte
	}{
		{
			name:    "star",
			pattern: "a*",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL), 5, 0, // to END
				op(token.CHAR), 'a',
				op(token.GOTO), 0xF8, 0xFF, // back to PUSH_FAIL
				op(token.END),
			},
		},
		{
			name:    "plus",
			pattern: "a+",
			dialect: Perl,
			want: []byte{
				op(token.FAKE_FAIL_GOTO), 3, 0, // over the PUSH_FAIL
				op(token.PUSH_FAIL), 5, 0, // to END
				op(token.CHAR), 'a',
				op(token.GOTO), 0xF8, 0xFF, // back to PUSH_FAIL
				op(token.END),
			},
		},
		{
			name:    "question",
			pattern: "a?",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL), 2, 0, // over the operand
				op(token.CHAR), 'a',
				op(token.END),
			},
		},
		{
			name:    "alternate",
			pattern: "a|b",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL), 5, 0, // to the right alternative
				op(token.CHAR), 'a',
				op(token.GOTO), 2, 0, // over it, patched at END
				op(token.CHAR), 'b',
				op(token.END),
			},
		},
		{
			name:    "counted closure",
			pattern: "a{2,4}",
			dialect: Perl,
			want: []byte{
				op(token.CLOSURE), 9, 0, 2, 0, 4, 0,
				op(token.CHAR), 'a',
				op(token.CLOSURE_INC), 0xF7, 0xFF, 2, 0, 4, 0,
				op(token.END),
			},
		},
		{
			name:    "group quantified whole",
			pattern: "(a)*",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL), 9, 0,
				op(token.GROUP_BEGIN), 1,
				op(token.CHAR), 'a',
				op(token.GROUP_END), 1,
				op(token.GOTO), 0xF4, 0xFF,
				op(token.END),
			},
		},
		{
			name:    "reluctant star",
			pattern: "a.*?b",
			dialect: Perl,
			want: []byte{
				op(token.CHAR), 'a',
				op(token.FAKE_FAIL_GOTO), 4, 0, // to the retry push
				op(token.PUSH_FAIL), 4, 0, // exit, to CHAR b
				op(token.ANY),
				op(token.PUSH_FAIL), 0xF9, 0xFF, // retry, back via the exit push
				op(token.CHAR), 'b',
				op(token.END),
			},
		},
		{
			name:    "grep tagged group with backref",
			pattern: `\(a\)\1`,
			dialect: Grep,
			want: []byte{
				op(token.GROUP_BEGIN), 1,
				op(token.CHAR), 'a',
				op(token.GROUP_END), 1,
				op(token.BACKREF), 1,
				op(token.END),
			},
		},
		{
			name:    "class alternation",
			pattern: "[ab]",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL), 5, 0,
				op(token.CHAR), 'a',
				op(token.POP_FAIL_GOTO), 2, 0,
				op(token.CHAR), 'b',
				op(token.END),
			},
		},
		{
			name:    "class complement",
			pattern: "[^ab]",
			dialect: Perl,
			want: []byte{
				op(token.PUSH_FAIL2), 7, 0, // to POP_FAIL
				op(token.NOT_CHAR), 'a',
				op(token.BACKUP),
				op(token.NOT_CHAR), 'b',
				op(token.BACKUP),
				op(token.FORWARD),
				op(token.POP_FAIL),
				op(token.END),
			},
		},
		{
			name:    "class range",
			pattern: "[a-z]",
			dialect: Perl,
			want: []byte{
				op(token.RANGE), 'a', 'z',
				op(token.END),
			},
		},
		{
			name:    "anchors",
			pattern: "^a$",
			dialect: Perl,
			want: []byte{
				op(token.BOL),
				op(token.CHAR), 'a',
				op(token.EOL),
				op(token.END),
			},
		},
		{
			name:    "word class shortcuts",
			pattern: `\d\S`,
			dialect: Perl,
			want: []byte{
				op(token.DIGIT), 0,
				op(token.SPACE), 1,
				op(token.END),
			},
		},
		{
			name:    "word boundary",
			pattern: `\ba`,
			dialect: Perl,
			want: []byte{
				op(token.WORD_BOUNDARY), 0,
				op(token.CHAR), 'a',
				op(token.END),
			},
		},
		{
			name:    "grep literal plus",
			pattern: "a+",
			dialect: Grep,
			want: []byte{
				op(token.CHAR), 'a',
				op(token.CHAR), '+',
				op(token.END),
			},
		},
		{
			name:    "egrep control escape",
			pattern: `a\t`,
			dialect: Egrep,
			want: []byte{
				op(token.CHAR), 'a',
				op(token.CHAR), '\t',
				op(token.END),
			},
		},
		{
			name:    "perl hex escape",
			pattern: `\x41`,
			dialect: Perl,
			want: []byte{
				op(token.CHAR), 0x41,
				op(token.END),
			},
		},
		{
			name:    "perl dead backref digit is a literal",
			pattern: `\9`,
			dialect: Perl,
			want: []byte{
				op(token.CHAR), 9,
				op(token.END),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCompile(t, tt.pattern, tt.dialect)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Compile(%q) =\n% x\nwant\n% x", tt.pattern, got, tt.want)
			}
		})
	}
}

// Alternation inside a group must patch its pending jump when the group
// closes, not leak it to the end of the pattern.
func TestAlternateInsideGroup(t *testing.T) {
	code := mustCompile(t, "(a|b)c", Perl)
	want := []byte{
		op(token.GROUP_BEGIN), 1,
		op(token.PUSH_FAIL), 5, 0,
		op(token.CHAR), 'a',
		op(token.GOTO), 2, 0, // to GROUP_END
		op(token.CHAR), 'b',
		op(token.GROUP_END), 1,
		op(token.CHAR), 'c',
		op(token.END),
	}
	if !bytes.Equal(code, want) {
		t.Errorf("Compile((a|b)c) =\n% x\nwant\n% x", code, want)
	}
}

// An anchored left alternative wraps its ^ into the alternation and the
// pending jump still lands after the right alternative's $.
func TestAnchoredAlternate(t *testing.T) {
	res := Compile([]byte("^a|b$"), Perl)
	if res.Err != 0 {
		t.Fatalf("Compile(^a|b$) failed: %v", res.Err)
	}
	code := res.Program.Code
	// The GOTO's displacement must point at END, past the EOL.
	want := []byte{
		op(token.PUSH_FAIL), 6, 0,
		op(token.BOL),
		op(token.CHAR), 'a',
		op(token.GOTO), 3, 0,
		op(token.CHAR), 'b',
		op(token.EOL),
		op(token.END),
	}
	if !bytes.Equal(code, want) {
		t.Errorf("Compile(^a|b$) =\n% x\nwant\n% x", code, want)
	}
}

func TestCompileIdempotent(t *testing.T) {
	patterns := []string{"a*b", "(x|y)+z", "[^a-f]{2,3}", `(\w+) (\w+)`}
	for _, p := range patterns {
		first := mustCompile(t, p, Perl)
		second := mustCompile(t, p, Perl)
		if !bytes.Equal(first, second) {
			t.Errorf("Compile(%q) is not idempotent:\n% x\n% x", p, first, second)
		}
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		dialect Dialect
		want    token.ErrorCode
	}{
		{"quantifier at start", "*a", Generic, token.ErrIllegalOperator},
		{"caret mid-pattern", "a^b", Generic, token.ErrIllegalOperator},
		{"dollar mid-pattern", "a$b", Generic, token.ErrIllegalOperator},
		{"stray close bracket", "a]", Generic, token.ErrIllegalOperator},
		{"unterminated class", "[ab", Egrep, token.ErrMismatchedBrackets},
		{"unterminated group", "(a", Perl, token.ErrMismatchedParenthesis},
		{"stray close paren", "a)", Egrep, token.ErrMismatchedParenthesis},
		{"bad closure", "a{2", Perl, token.ErrIllegalClosure},
		{"closure missing bounds", "a{x}", Perl, token.ErrIllegalClosure},
		{"stray close brace", "a}", Perl, token.ErrIllegalOperator},
		{"trailing escape", `a\`, Perl, token.ErrSyntax},
		{"grep dead backref", `\(a\)\2`, Grep, token.ErrIllegalBackref},
		{"grep dead multi-digit backref", `\(a\)\12`, Grep, token.ErrIllegalBackref},
		{"bad hex escape", `\xzz`, Perl, token.ErrSyntax},
		{"bad control escape", `\c!`, Perl, token.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compile([]byte(tt.pattern), tt.dialect)
			if res.Err != tt.want {
				t.Errorf("Compile(%q, %v) err = %v, want %v", tt.pattern, tt.dialect, res.Err, tt.want)
			}
			if res.Program != nil {
				t.Errorf("Compile(%q) returned a program alongside the error", tt.pattern)
			}
		})
	}
}

// Operators in illegal positions downgrade to literals in the
// context-dependent dialects (everything but generic) instead of
// erroring.
func TestContextDependentLiteralFallback(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		dialect Dialect
		want    []byte
	}{
		{
			"grep star at start", "*", Grep,
			[]byte{op(token.CHAR), '*', op(token.END)},
		},
		{
			"perl question at start", "?a", Perl,
			[]byte{op(token.CHAR), '?', op(token.CHAR), 'a', op(token.END)},
		},
		{
			"egrep star at start", "*a", Egrep,
			[]byte{op(token.CHAR), '*', op(token.CHAR), 'a', op(token.END)},
		},
		{
			"egrep caret mid-pattern", "a^b", Egrep,
			[]byte{op(token.CHAR), 'a', op(token.CHAR), '^', op(token.CHAR), 'b', op(token.END)},
		},
		{
			"perl dollar mid-pattern", "a$b", Perl,
			[]byte{op(token.CHAR), 'a', op(token.CHAR), '$', op(token.CHAR), 'b', op(token.END)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := mustCompile(t, tt.pattern, tt.dialect)
			if !bytes.Equal(code, tt.want) {
				t.Errorf("Compile(%q, %v) =\n% x\nwant\n% x", tt.pattern, tt.dialect, code, tt.want)
			}
		})
	}
}

// An empty left alternative still emits a working alternation frame.
func TestEmptyLeftAlternative(t *testing.T) {
	code := mustCompile(t, "(|a)", Perl)
	want := []byte{
		op(token.GROUP_BEGIN), 1,
		op(token.PUSH_FAIL), 3, 0,
		op(token.GOTO), 2, 0,
		op(token.CHAR), 'a',
		op(token.GROUP_END), 1,
		op(token.END),
	}
	if !bytes.Equal(code, want) {
		t.Errorf("Compile((|a)) =\n% x\nwant\n% x", code, want)
	}
}

// A quantifier over an empty operand is silently dropped.
func TestEmptyOperandQuantifierDropped(t *testing.T) {
	code := mustCompile(t, "^*", Perl)
	want := []byte{op(token.BOL), op(token.END)}
	if !bytes.Equal(code, want) {
		t.Errorf("Compile(^*) = % x, want % x", code, want)
	}
}

func TestCaptureCounting(t *testing.T) {
	res := Compile([]byte("((a)(b))(c)"), Perl)
	if res.Err != 0 {
		t.Fatalf("compile failed: %v", res.Err)
	}
	if res.NumCaptures != 4 {
		t.Errorf("NumCaptures = %d, want 4", res.NumCaptures)
	}
}

func TestErrorOffsetPointsAtViolation(t *testing.T) {
	res := Compile([]byte("ab)cd"), Egrep)
	if res.Err != token.ErrMismatchedParenthesis {
		t.Fatalf("err = %v, want mismatched parenthesis", res.Err)
	}
	if res.ErrOffset != 3 {
		t.Errorf("ErrOffset = %d, want 3 (just past the ')')", res.ErrOffset)
	}
}
