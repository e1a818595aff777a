package pipeline

import (
	"github.com/marmoset-lang/marmoset/internal/ast"
	"github.com/marmoset-lang/marmoset/internal/object"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries a program through the stages: source text in,
// AST after parsing, result value after execution. Errors accumulate
// per stage.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	Program *ast.Program
	Result  object.Object

	Errors []error
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	return &PipelineContext{SourceCode: sourceCode}
}

// AddError records a stage diagnostic.
func (ctx *PipelineContext) AddError(err error) {
	ctx.Errors = append(ctx.Errors, err)
}
