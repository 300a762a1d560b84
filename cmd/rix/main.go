// Command rix is the front-end core's CLI collaborator: it reads a source
// file (or stdin) and runs the tokenize/parse/lower pipeline up to a chosen
// stage, printing the result as an s-expression or reporting the first
// diagnostic as (kind line column message).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/ir"
	"github.com/rixlang/rix/internal/sexpr"
	"github.com/rixlang/rix/internal/token"

	"github.com/rixlang/rix/internal/pipeline"

	rix "github.com/rixlang/rix"
)

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	if !isSourceFile(path) {
		slog.Warn("input file does not carry a recognized source extension", "path", path, "extensions", config.SourceFileExtensions)
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func main() {
	stage := flag.String("stage", "lower", "pipeline stage to run: tokenize, parse, or lower")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	path := flag.Arg(0)
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rix: %s\n", err)
		os.Exit(1)
	}

	pc := rix.NewSession(context.Background(), source, nil)
	logger = logger.With("session", pc.SessionID.String())

	switch *stage {
	case "tokenize":
		pc = rix.Tokenize(pc)
		if reportFirstError(logger, pc) {
			os.Exit(1)
		}
		for {
			tok := pc.TokenStream.Next()
			fmt.Println(tok.String())
			if tok.Type == token.EOF {
				break
			}
		}
	case "parse":
		pc = rix.Parse(pc)
		if reportFirstError(logger, pc) {
			os.Exit(1)
		}
		fmt.Println(sexpr.AST(pc.AstRoot))
	case "lower":
		pc = rix.Lower(pc)
		if reportFirstError(logger, pc) {
			os.Exit(1)
		}
		node, _ := pc.IRRoot.(*ir.Node)
		fmt.Println(sexpr.IR(node))
	default:
		fmt.Fprintf(os.Stderr, "rix: unknown -stage %q (want tokenize, parse, or lower)\n", *stage)
		os.Exit(2)
	}
}

// reportFirstError logs and prints the first recorded diagnostic, per the
// pipeline's first-error-halts policy, and reports whether one was found.
func reportFirstError(logger *slog.Logger, pc *pipeline.PipelineContext) bool {
	if !pc.HasErrors() {
		return false
	}
	err := pc.Errors[0]
	kind, line, column, message := err.Tuple()
	logger.Error("pipeline diagnostic", "phase", err.Phase, "code", kind, "line", line, "column", column)
	fmt.Fprintf(os.Stderr, "(%s %d %d %q)\n", kind, line, column, message)
	return true
}
