// Package rix wires the tokenizer, parser, and lowering stages into the
// three collaborator-facing entry points (Tokenize, Parse, Lower), each
// built on top of a fresh or shared pipeline.PipelineContext.
package rix

import (
	"context"

	"github.com/rixlang/rix/internal/ir"
	"github.com/rixlang/rix/internal/lexer"
	"github.com/rixlang/rix/internal/parser"
	"github.com/rixlang/rix/internal/pipeline"
	"github.com/rixlang/rix/internal/registry"
)

// NewSession starts a fresh invocation over source. reg is the
// keyword/system-function table the invocation will consult and may be
// nil to get a fresh core-tier registry; concurrent sessions may share one
// read-only registry (see registry.Registry's thread-safety contract).
// ctx, if non-nil, is the cancellation token checked between top-level
// statements.
func NewSession(ctx context.Context, source string, reg *registry.Registry) *pipeline.PipelineContext {
	pc := pipeline.NewPipelineContext(source)
	if reg != nil {
		pc.WithRegistry(reg)
	}
	if ctx != nil {
		pc.Ctx = ctx
	}
	return pc
}

// Tokenize runs only the tokenizer stage over pc.
func Tokenize(pc *pipeline.PipelineContext) *pipeline.PipelineContext {
	return pipeline.New(&lexer.TokenizerProcessor{}).Run(pc)
}

// Parse runs the tokenizer followed by the parser stage, leaving pc.AstRoot
// populated (or pc.Errors non-empty on first failure).
func Parse(pc *pipeline.PipelineContext) *pipeline.PipelineContext {
	return pipeline.New(&lexer.TokenizerProcessor{}, &parser.Processor{}).Run(pc)
}

// Lower runs the complete tokenizer -> parser -> lowering pipeline, leaving
// pc.IRRoot populated as an *ir.Node (or pc.Errors non-empty on first
// failure).
func Lower(pc *pipeline.PipelineContext) *pipeline.PipelineContext {
	return pipeline.New(&lexer.TokenizerProcessor{}, &parser.Processor{}, &ir.Processor{}).Run(pc)
}
