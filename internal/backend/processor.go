package backend

import (
	"github.com/marmoset-lang/marmoset/internal/diagnostics"
	"github.com/marmoset-lang/marmoset/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline stage for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	result, err := p.Backend.Run(ctx)
	if err != nil {
		// Compile and runtime diagnostics know their position but not
		// the file they came from.
		if d, ok := err.(*diagnostics.Error); ok && d.File == "" {
			d.File = ctx.FilePath
		}
		ctx.AddError(err)
		return ctx
	}

	ctx.Result = result
	return ctx
}
