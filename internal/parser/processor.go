package parser

import (
	"github.com/natded/natded/internal/diagnostics"
	"github.com/natded/natded/internal/pipeline"
	"github.com/natded/natded/internal/token"
)

// ParserProcessor is the pipeline's parse stage: it builds
// ctx.Program from ctx.Tokens, requiring LexerProcessor to have run
// first.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.ProcessContext) *pipeline.ProcessContext {
	if ctx.Tokens == nil {
		ctx.Errors = append(ctx.Errors, diagnostics.NewError("P000", token.Token{}, "parser: token stream is empty"))
		return ctx
	}
	parser := New(ctx.Tokens)
	ctx.Program = parser.ParseProgram()
	for _, err := range parser.Errors() {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	ctx.Errors = append(ctx.Errors, parser.Errors()...)
	return ctx
}
