// Package driver composes the lex/parse/resolve pipeline with the
// checker and the prover into the single entry point everything else
// (CLI, RPC server, history store) calls: Verify. It recovers the
// prover's precondition panic on open goals, turning it into an Unknown
// solvability tag rather than a crash (the CLI's prove command, which
// calls the prover directly, has its own recover point).
package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/natded/natded/internal/checker"
	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/ident"
	"github.com/natded/natded/internal/lexer"
	"github.com/natded/natded/internal/parser"
	"github.com/natded/natded/internal/pipeline"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/prooftree"
	"github.com/natded/natded/internal/prop"
	"github.com/natded/natded/internal/prover"
	"github.com/natded/natded/internal/resolve"
	"github.com/natded/natded/internal/token"
)

// Solvability tags whether an open goal's underlying proposition could
// be settled by the sequent prover.
type Solvability int

const (
	Unknown Solvability = iota
	Solvable
	Unsolvable
)

func (s Solvability) String() string {
	switch s {
	case Solvable:
		return "solvable"
	case Unsolvable:
		return "unsolvable"
	default:
		return "unknown"
	}
}

// GoalResult records what became of one open goal left by the checker:
// the proof tree's conclusion it must discharge, whether the prover
// settled it, and the witness term the prover built when it did.
type GoalResult struct {
	Conclusion  prooftree.Conclusion
	Solvability Solvability
	Witness     proofterm.Term
}

// VerifyResult is the outcome of one Verify call.
type VerifyResult struct {
	RequestID   uuid.UUID
	Program     *pipeline.Program
	Type        checker.Type
	CheckResult *checker.Result
	Goals       []*GoalResult
	Diagnostics []*diagnostics.DiagnosticError
}

// OK reports whether the term typechecked with no diagnostics and every
// open goal tagged Solvable.
func (r *VerifyResult) OK() bool {
	if len(r.Diagnostics) > 0 {
		return false
	}
	for _, g := range r.Goals {
		if g.Solvability != Solvable {
			return false
		}
	}
	return true
}

// Verify runs the full pipeline over source: lex, parse, resolve
// declarations, synthesize a type for the top-level proof term, then
// attempt to discharge every open goal (every `sorry`) the checker
// reports with the quantifier-free sequent prover.
func Verify(ctx context.Context, source, filePath string) (*VerifyResult, error) {
	pctx := pipeline.NewProcessContext(source)
	pctx.FilePath = filePath

	pl := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, &resolve.Processor{})
	pctx = pl.Run(pctx)

	result := &VerifyResult{
		RequestID:   uuid.New(),
		Program:     pctx.Program,
		Diagnostics: append([]*diagnostics.DiagnosticError{}, pctx.Errors...),
	}

	if pctx.Program == nil || pctx.Program.Term == nil {
		return result, nil
	}
	if len(pctx.Errors) > 0 {
		// Earlier stages already failed; synthesizing against an
		// unresolved program would only produce noise on top of noise.
		return result, nil
	}

	factory := ident.NewFactory()
	cctx := checker.NewContext()

	typ, checkResult, err := synthesizeRecovered(pctx.Program.Term, cctx, factory)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, wrapCheckerError(err, filePath))
		return result, nil
	}
	result.Type = typ
	result.CheckResult = checkResult

	for _, goal := range checkResult.Goals {
		result.Goals = append(result.Goals, solveGoal(ctx, goal, factory))
	}
	return result, nil
}

// synthesizeRecovered calls checker.Synthesize, converting any panic
// raised during checking into a plain error so
// Verify never crashes on malformed but merely-unprovable input.
func synthesizeRecovered(term proofterm.Term, cctx *checker.Context, factory *ident.Factory) (typ checker.Type, result *checker.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal checker error: %v", r)
		}
	}()
	typ, result, err = checker.Synthesize(term, cctx, factory)
	return typ, result, err
}

// solveGoal attempts to discharge one open goal with the prover: Solvable
// when the goal is proved, Unsolvable when its negation is proved,
// Unknown otherwise. It recovers the prover's PreconditionError panic (the goal's
// proposition contains a quantifier or an uninstantiated free
// parameter, which the prover's contraction-free calculus cannot
// handle) into an Unknown solvability rather than propagating it.
func solveGoal(_ context.Context, goal *checker.Goal, factory *ident.Factory) (gr *GoalResult) {
	gr = &GoalResult{Conclusion: goal.Conclusion, Solvability: Unknown}
	if goal.Conclusion.Kind != prooftree.PropIsTrue || goal.Conclusion.Prop == nil {
		return gr
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*prover.PreconditionError); ok {
				gr.Solvability = Unknown
				return
			}
			panic(r)
		}
	}()

	witness, ok := prover.Prove(goal.Conclusion.Prop, factory)
	if ok {
		gr.Solvability = Solvable
		gr.Witness = witness
	} else if _, refuted := prover.Prove(prop.Impl(goal.Conclusion.Prop, prop.False()), factory); refuted {
		gr.Solvability = Unsolvable
	}
	return gr
}

// wrapCheckerError lifts any checker.Error into a DiagnosticError so
// callers only ever deal with one error shape.
func wrapCheckerError(err error, filePath string) *diagnostics.DiagnosticError {
	tok := token.Token{}
	if ce, ok := err.(checker.Error); ok {
		span := ce.Span()
		tok = token.Token{Line: span.StartLine, Column: span.StartColumn}
	}
	d := diagnostics.NewError("C000", tok, err.Error())
	d.File = filePath
	return d
}
