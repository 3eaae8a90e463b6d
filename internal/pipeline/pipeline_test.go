package pipeline

import (
	"testing"

	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/token"
)

type appendStage struct {
	code diagnostics.Code
}

func (s appendStage) Process(ctx *ProcessContext) *ProcessContext {
	ctx.Errors = append(ctx.Errors, diagnostics.NewError(s.code, token.Token{}, "stage ran"))
	return ctx
}

func TestRun_ExecutesStagesInOrderAndAccumulatesErrors(t *testing.T) {
	p := New(appendStage{"A"}, appendStage{"B"}, appendStage{"C"})
	ctx := p.Run(NewProcessContext("source"))

	if len(ctx.Errors) != 3 {
		t.Fatalf("expected 3 accumulated errors, got %d", len(ctx.Errors))
	}
	for i, want := range []diagnostics.Code{"A", "B", "C"} {
		if ctx.Errors[i].Code != want {
			t.Errorf("error %d: expected code %s, got %s", i, want, ctx.Errors[i].Code)
		}
	}
}

func TestRun_ContinuesAfterAStageReportsErrors(t *testing.T) {
	ran := false
	p := New(appendStage{"A"}, stageFunc(func(ctx *ProcessContext) *ProcessContext {
		ran = true
		return ctx
	}))
	p.Run(NewProcessContext("source"))
	if !ran {
		t.Errorf("expected the second stage to run even though the first reported an error")
	}
}

type stageFunc func(ctx *ProcessContext) *ProcessContext

func (f stageFunc) Process(ctx *ProcessContext) *ProcessContext { return f(ctx) }

func TestNewProcessContext_StartsWithNoErrors(t *testing.T) {
	ctx := NewProcessContext("source")
	if ctx.SourceCode != "source" {
		t.Errorf("expected SourceCode to be set, got %q", ctx.SourceCode)
	}
	if len(ctx.Errors) != 0 {
		t.Errorf("expected a fresh context to carry no errors")
	}
}
