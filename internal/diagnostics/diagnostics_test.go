package diagnostics

import (
	"strings"
	"testing"

	"github.com/natded/natded/internal/token"
)

func TestError_WithoutFile(t *testing.T) {
	e := NewError("L001", token.Token{Line: 2, Column: 5}, "unexpected character")
	want := "2:5: unexpected character [L001]"
	if got := e.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestError_WithFile(t *testing.T) {
	e := NewError("L001", token.Token{Line: 2, Column: 5}, "unexpected character")
	e.File = "a.nd"
	want := "a.nd:2:5: unexpected character [L001]"
	if got := e.Error(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRender_CaretUnderOffendingColumn(t *testing.T) {
	source := "atom @;"
	e := NewError("L001", token.Token{Line: 1, Column: 6}, "unexpected character")
	out := Render(e, source)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (message, source, caret), got %d: %q", len(lines), out)
	}
	if lines[1] != source {
		t.Errorf("expected the second line to echo the source line, got %q", lines[1])
	}
	if len(lines[2]) != 6 || lines[2][5] != '^' {
		t.Errorf("expected a caret line with 5 leading spaces then ^, got %q", lines[2])
	}
}

func TestRender_MultilineSourcePicksCorrectLine(t *testing.T) {
	source := "atom P;\natom @;"
	e := NewError("L001", token.Token{Line: 2, Column: 6}, "unexpected character")
	out := Render(e, source)
	if !strings.Contains(out, "atom @;") {
		t.Errorf("expected the rendered output to include the second line, got %q", out)
	}
	if strings.Contains(strings.Split(out, "\n")[1], "atom P;") {
		t.Errorf("expected the rendered source line to be the second line, not the first")
	}
}

func TestRender_FallsBackToErrorWhenLineOutOfRange(t *testing.T) {
	e := NewError("L001", token.Token{Line: 99, Column: 1}, "boom")
	out := Render(e, "atom P;")
	if out != e.Error() {
		t.Errorf("expected a plain Error() fallback for an out-of-range line, got %q", out)
	}
}
