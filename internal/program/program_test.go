package program

import (
	"strings"
	"testing"

	"github.com/coregx/vre/internal/token"
)

func TestDump(t *testing.T) {
	p := &Program{Code: []byte{
		byte(token.PUSH_FAIL), 5, 0,
		byte(token.CHAR), 'a',
		byte(token.GOTO), 0xF8, 0xFF,
		byte(token.END),
	}}
	var sb strings.Builder
	if err := p.Dump(&sb); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"PUSH_FAIL", "CHAR (a)", "GOTO", "END"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q:\n%s", want, out)
		}
	}
	if len(strings.Split(strings.TrimSpace(out), "\n")) != 4 {
		t.Errorf("Dump should print one line per instruction:\n%s", out)
	}
}

func TestDumpString(t *testing.T) {
	p := &Program{Code: []byte{
		byte(token.STRING), 2, 'h', 'i',
		byte(token.END),
	}}
	var sb strings.Builder
	if err := p.Dump(&sb); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	if !strings.Contains(sb.String(), `"hi"`) {
		t.Errorf("Dump output missing string payload:\n%s", sb.String())
	}
}
