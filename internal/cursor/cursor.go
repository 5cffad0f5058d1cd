// Package cursor implements a bounded, rewindable read over an immutable
// byte sequence: the pattern-reading side of compilation. The subject
// text gets its own two-buffer flavor of the same idea in internal/vm.
package cursor

// Cursor is a single-pass, rewindable view over an element sequence.
type Cursor struct {
	buf []byte
	pos int
}

// New wraps buf for reading. buf is never copied or mutated.
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Get consumes and returns the next byte. ok is false at end of input.
func (c *Cursor) Get() (ch byte, ok bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	ch = c.buf[c.pos]
	c.pos++
	return ch, true
}

// Peek returns the next byte without consuming it. ok is false at end of
// input.
func (c *Cursor) Peek() (ch byte, ok bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// PeekAt returns the byte n positions ahead of the cursor without
// consuming anything, for dialect lookahead rules that need more than one
// character of context (e.g. generic/grep's incomplete_eoi, which looks
// for `\)`).
func (c *Cursor) PeekAt(n int) (ch byte, ok bool) {
	if c.pos+n >= len(c.buf) || n < 0 {
		return 0, false
	}
	return c.buf[c.pos+n], true
}

// Unget steps the cursor back one position. The caller must have consumed
// at least one byte.
func (c *Cursor) Unget() {
	if c.pos == 0 {
		panic("cursor: unget at start of input")
	}
	c.pos--
}

// Advance skips n bytes forward. n must be non-negative.
func (c *Cursor) Advance(n int) {
	if n < 0 {
		panic("cursor: negative advance")
	}
	c.pos += n
}

// Offset returns the current absolute position.
func (c *Cursor) Offset() int { return c.pos }

// AtBegin reports whether the cursor has not consumed anything yet.
func (c *Cursor) AtBegin() bool { return c.pos == 0 }

// AtEnd reports whether the cursor has consumed the whole sequence.
func (c *Cursor) AtEnd() bool { return c.pos >= len(c.buf) }

// Len returns the length of the underlying sequence.
func (c *Cursor) Len() int { return len(c.buf) }

// At returns the byte at absolute position i, for dialects that need to
// inspect already-consumed context (e.g. beginning-context checks).
func (c *Cursor) At(i int) byte { return c.buf[i] }

// GetNumber consumes a single decimal digit following one the caller has
// already consumed and verified. ok is false, with nothing consumed, when
// the next byte is not a digit.
func (c *Cursor) GetNumber() (digit int, ok bool) {
	if c.pos < 1 || !isDigit(c.buf[c.pos-1]) {
		return 0, false
	}
	ch, have := c.Get()
	if !have {
		return 0, false
	}
	if !isDigit(ch) {
		c.Unget()
		return 0, false
	}
	return int(ch - '0'), true
}

// PeekNumber reads up to maxDigits consecutive decimal digits starting at
// the current position, without consuming them. It returns the decoded
// value and how many digits were available (0 if the next byte isn't a
// digit at all).
func (c *Cursor) PeekNumber(maxDigits int) (value, digits int) {
	if maxDigits > 6 {
		maxDigits = 6
	}
	n := 0
	for n < maxDigits && c.pos+n < len(c.buf) && isDigit(c.buf[c.pos+n]) {
		value = value*10 + int(c.buf[c.pos+n]-'0')
		n++
	}
	return value, n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

// TranslateCtrlChar maps an escape letter already read by the caller (the
// character following a backslash) to its control code point:
// a→7, b→\b, f→\f, n→\n, r→\r, t→\t, v→\v, c<X>→upper(X)-@, x<HH>→hex,
// 0→NUL. ok is false on a malformed \c or \x escape (bad hex digit,
// out-of-range control letter).
func (c *Cursor) TranslateCtrlChar(ch byte) (out byte, ok bool) {
	switch ch {
	case 'a', 'A':
		return 7, true
	case 'b', 'B':
		return '\b', true
	case 'c', 'C':
		next, have := c.Get()
		if !have {
			return 0, false
		}
		upper := next
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		if upper < '@' || upper > '_' {
			return 0, false
		}
		return upper - '@', true
	case 'f', 'F':
		return '\f', true
	case 'n', 'N':
		return '\n', true
	case 'r', 'R':
		return '\r', true
	case 't', 'T':
		return '\t', true
	case 'v', 'V':
		return '\v', true
	case 'x', 'X':
		h1, have1 := c.Get()
		if !have1 {
			return 0, false
		}
		d1, ok1 := isHexDigit(h1)
		if !ok1 {
			return 0, false
		}
		h2, have2 := c.Get()
		if !have2 {
			return 0, false
		}
		d2, ok2 := isHexDigit(h2)
		if !ok2 {
			return 0, false
		}
		return byte(d1*16 + d2), true
	case '0':
		return 0, true
	default:
		return ch, true
	}
}
