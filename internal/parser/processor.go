package parser

import (
	"github.com/marmoset-lang/marmoset/internal/lexer"
	"github.com/marmoset-lang/marmoset/internal/pipeline"
)

// ParserProcessor is the pipeline stage turning source text into an AST.
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := lexer.New(ctx.SourceCode)
	p := New(l)

	program := p.ParseProgram()
	for _, err := range p.Errors() {
		err.File = ctx.FilePath
		ctx.AddError(err)
	}

	program.File = ctx.FilePath
	ctx.Program = program
	return ctx
}
