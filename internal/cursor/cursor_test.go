package cursor

import "testing"

func TestGetPeekUnget(t *testing.T) {
	c := New([]byte("ab"))
	if ch, ok := c.Peek(); !ok || ch != 'a' {
		t.Fatalf("Peek() = %q, %v", ch, ok)
	}
	if ch, ok := c.Get(); !ok || ch != 'a' {
		t.Fatalf("Get() = %q, %v", ch, ok)
	}
	c.Unget()
	if c.Offset() != 0 {
		t.Fatalf("Offset() = %d, want 0", c.Offset())
	}
	if ch, ok := c.Get(); !ok || ch != 'a' {
		t.Fatalf("Get() after unget = %q, %v", ch, ok)
	}
	if ch, ok := c.Get(); !ok || ch != 'b' {
		t.Fatalf("Get() = %q, %v", ch, ok)
	}
	if _, ok := c.Get(); ok {
		t.Fatalf("Get() at end should fail")
	}
	if !c.AtEnd() {
		t.Fatalf("AtEnd() should be true")
	}
}

func TestUngetAtStartPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("Unget() at start should panic")
		}
	}()
	New([]byte("a")).Unget()
}

func TestGetNumber(t *testing.T) {
	c := New([]byte("12"))
	if !c.AtBegin() {
		t.Fatalf("AtBegin() should be true before any Get")
	}
	c.Get() // the caller has consumed the first digit
	if d, ok := c.GetNumber(); !ok || d != 2 {
		t.Fatalf("GetNumber() = %d, %v; want 2, true", d, ok)
	}
	c = New([]byte("1x"))
	c.Get()
	if _, ok := c.GetNumber(); ok {
		t.Fatalf("GetNumber() after a non-digit should fail")
	}
	if c.Offset() != 1 {
		t.Fatalf("failed GetNumber must unget; offset = %d", c.Offset())
	}
}

func TestPeekNumber(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		max        int
		wantValue  int
		wantDigits int
	}{
		{"no digits", "abc", 6, 0, 0},
		{"short", "12x", 6, 12, 2},
		{"capped", "123456789", 4, 1234, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New([]byte(tt.in))
			v, n := c.PeekNumber(tt.max)
			if v != tt.wantValue || n != tt.wantDigits {
				t.Fatalf("PeekNumber() = %d, %d; want %d, %d", v, n, tt.wantValue, tt.wantDigits)
			}
			if c.Offset() != 0 {
				t.Fatalf("PeekNumber must not consume; offset = %d", c.Offset())
			}
		})
	}
}

func TestTranslateCtrlChar(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ch   byte
		want byte
		ok   bool
	}{
		{"bell", "", 'a', 7, true},
		{"newline", "", 'n', '\n', true},
		{"ctrl-L", "L", 'c', 0x0c, true},
		{"ctrl bad", "!", 'c', 0, false},
		{"hex", "4A", 'x', 0x4A, true},
		{"hex bad", "4z", 'x', 0, false},
		{"nul", "", '0', 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New([]byte(tt.in))
			got, ok := c.TranslateCtrlChar(tt.ch)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("TranslateCtrlChar(%q) = %v, %v; want %v, %v", tt.ch, got, ok, tt.want, tt.ok)
			}
		})
	}
}
