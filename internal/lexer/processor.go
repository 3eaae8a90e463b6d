package lexer

import "github.com/natded/natded/internal/pipeline"

// LexerProcessor is the pipeline's lex stage: it tokenizes
// ctx.SourceCode into ctx.Tokens.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.ProcessContext) *pipeline.ProcessContext {
	ctx.Tokens = Tokenize(ctx.SourceCode)
	return ctx
}
