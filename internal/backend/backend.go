// Package backend separates "how a program runs" from the pipeline
// that feeds it, so the CLI and embedders configure execution once.
package backend

import (
	"github.com/marmoset-lang/marmoset/internal/object"
	"github.com/marmoset-lang/marmoset/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run executes the program from pipeline context and returns the result
	Run(ctx *pipeline.PipelineContext) (object.Object, error)

	// Name returns the backend name for display
	Name() string
}
