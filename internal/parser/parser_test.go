package parser_test

import (
	"strings"
	"testing"

	"github.com/rixlang/rix/internal/lexer"
	"github.com/rixlang/rix/internal/parser"
	"github.com/rixlang/rix/internal/pipeline"
	"github.com/rixlang/rix/internal/sexpr"
)

func runParser(t *testing.T, input string) *pipeline.PipelineContext {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.TokenizerProcessor{}).Process(ctx)
	ctx = (&parser.Processor{}).Process(ctx)
	return ctx
}

// TestParserShapes pins the exact s-expression rendering for a handful of
// unambiguous, single-precedence-level inputs (rule 1's case dispatch).
func TestParserShapes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_assignment", "x = 5",
			`(Program (BlockContainer (BinaryOperation "=" (UserIdentifier "x") (Number "5" 10))))`},
		{"implicit_multiplication", "f(x)",
			`(Program (BlockContainer (ImplicitMultiplication (UserIdentifier "f") (UserIdentifier "x"))))`},
		{"uppercase_call", "F(x, y)",
			`(Program (BlockContainer (FunctionCall (UserIdentifier "F") (UserIdentifier "x") (UserIdentifier "y"))))`},
		{"keyword_and", "a AND b",
			`(Program (BlockContainer (BinaryOperation "AND" (UserIdentifier "a") (UserIdentifier "b"))))`},
		{"keyword_or", "a OR b",
			`(Program (BlockContainer (BinaryOperation "OR" (UserIdentifier "a") (UserIdentifier "b"))))`},
		{"keyword_not", "NOT a",
			`(Program (BlockContainer (UnaryOperation "NOT" false (UserIdentifier "a"))))`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := runParser(t, tc.input)
			if len(ctx.Errors) > 0 {
				t.Fatalf("parsing failed: %v", ctx.Errors[0])
			}
			got := sexpr.AST(ctx.AstRoot)
			if got != tc.want {
				t.Errorf("input %q:\n got:  %s\n want: %s", tc.input, got, tc.want)
			}
		})
	}
}

// TestParserAcceptsSurfaceGrammar is a broad table-driven smoke test: every
// construct named by the twelve context-sensitive parse rules must parse
// without a ParseError. Shape details are covered by TestParserShapes and
// ir_test's concrete scenarios; this test's job is breadth of coverage.
func TestParserAcceptsSurfaceGrammar(t *testing.T) {
	inputs := []struct {
		name  string
		input string
	}{
		{"walrus_define", "y := 2 + 3"},
		{"equation", "x :=: y + 1"},
		{"binary_precedence", "a = 1 + 2 * 3"},
		{"unary_prefix", "a = -b"},
		{"logical_not", "a = !b"},
		{"empty_tuple", "()"},
		{"tuple_literal", "(1, 2, 3)"},
		{"trailing_comma_singleton", "(1,)"},
		{"operator_as_value", "f = (+)"},
		{"function_definition_arrow", "add(x, y) -> x + y"},
		{"lambda", "(x, y) -> x + y"},
		{"array_literal", "[1, 2, 3]"},
		{"matrix_literal", "[1, 2; 3, 4]"},
		{"tensor_literal", "[1, 2; 3, 4;; 5, 6; 7, 8]"},
		{"ragged_row_rejected", "[1, 2; 3]"},
		{"generator_chain", "[2, |+2, |; 10]"},
		{"legacy_set", "{1, 2, 3}"},
		{"legacy_map", "{a := 1, b := 2}"},
		{"map_sigil", "{= a := 1, b := 2}"},
		{"set_sigil", "{| 1, 2, 3 }"},
		{"block_sigil", "{; a = 1; b = 2 }"},
		{"case_sigil", "{? x > 0 ? 1; x < 0 ? -1; 0}"},
		{"loop_sigil", "{@ i = 0; i < 10; i; i = i + 1 }"},
		{"postfix_mutation_copy", "obj{= +x=1, -y}"},
		{"postfix_mutation_inplace", "obj{! +x=1}"},
		{"ternary", "a > 0 ? 1 : -1"},
		{"pipe_feed", "x |> f"},
		{"pipe_map", "[1, 2] |>> f"},
		{"interval", "1:10"},
		{"interval_step", "1:10:+2"},
		{"dot_access", "obj.key"},
		{"external_access", "obj..meta"},
		{"external_access_keyless", "obj.."},
		{"key_set", "obj.|"},
		{"value_set", "obj|."},
		{"system_call", "@_ADD(a, b)"},
		{"system_function_ref", "(@_ADD)"},
		{"deferred_block", "@{ a = 1 }"},
		{"placeholder_pipe", "[1, 2] |>> _1 + 1"},
		{"hex_literal", "x = 0x1F"},
		{"custom_base_literal", "x = 0z[17]A2"},
		{"keyword_and_or_not", "NOT a AND b OR c"},
	}

	for _, tc := range inputs {
		t.Run(tc.name, func(t *testing.T) {
			ctx := runParser(t, tc.input)
			wantErr := strings.HasPrefix(tc.name, "ragged_")
			if wantErr {
				if len(ctx.Errors) == 0 {
					t.Fatalf("expected a ragged-matrix ParseError, got none")
				}
				return
			}
			if len(ctx.Errors) > 0 {
				t.Fatalf("parsing %q failed: %v", tc.input, ctx.Errors[0])
			}
			if ctx.AstRoot == nil {
				t.Fatalf("parsing %q produced a nil AST root", tc.input)
			}
		})
	}
}
