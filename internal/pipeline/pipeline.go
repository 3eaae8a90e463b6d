// Package pipeline implements the Pipeline/Processor abstraction the
// verification driver composes its stages from: lex, parse, resolve
// datatypes/atoms, then check-and-prove. Every stage appends to
// ProcessContext.Errors and keeps going, so a single run surfaces
// diagnostics from every stage instead of halting on the first one.
package pipeline

import (
	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/proofterm"
	"github.com/natded/natded/internal/token"
)

// DatatypeDecl is one `datatype D;` declaration.
type DatatypeDecl struct {
	Name string
	Span token.Span
}

// AtomDecl is one `atom P(n);` declaration.
type AtomDecl struct {
	Name  string
	Arity int
	Span  token.Span
}

// Program is the parsed file: zero or more declarations followed by a
// single proof term (spec.md §6's "Program prefix").
type Program struct {
	Datatypes []DatatypeDecl
	Atoms     []AtomDecl
	Term      proofterm.Term
}

// ProcessContext threads source, tokens, the parsed program, the
// resolved declaration tables, and accumulated diagnostics through a
// Pipeline run.
type ProcessContext struct {
	SourceCode string
	FilePath   string
	Tokens     []token.Token
	Program    *Program

	// Datatypes/AtomArities are populated by the resolve stage from
	// Program's declarations.
	Datatypes   map[string]bool
	AtomArities map[string]int

	Errors []*diagnostics.DiagnosticError
}

func NewProcessContext(source string) *ProcessContext {
	return &ProcessContext{SourceCode: source}
}

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *ProcessContext) *ProcessContext
}

// Pipeline runs a fixed sequence of stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, continuing even after a stage
// reports errors so later stages can still contribute their own
// diagnostics (mirrors the teacher's own multi-stage pipeline comment).
func (p *Pipeline) Run(initial *ProcessContext) *ProcessContext {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
