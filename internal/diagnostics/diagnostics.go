// Package diagnostics defines the structured error values returned by each
// pipeline stage: LexError, ParseError, and LowerError, each carrying a
// source position and, where the raising site sets one, a hint.
package diagnostics

import "fmt"

// Phase identifies which pipeline stage raised a diagnostic.
type Phase string

const (
	PhaseLex   Phase = "lex"
	PhaseParse Phase = "parse"
	PhaseLower Phase = "lower"
)

// ErrorCode is a stable, documented identifier for a diagnostic template.
type ErrorCode string

const (
	// LexError codes.
	LUnterminatedString  ErrorCode = "L001"
	LUnterminatedComment ErrorCode = "L002"
	LInvalidDigitInBase  ErrorCode = "L003"
	LInvalidBaseSpec     ErrorCode = "L004"
	LUnknownSymbol       ErrorCode = "L005"
	LMalformedNumber     ErrorCode = "L006"

	// ParseError codes.
	PUnexpectedToken    ErrorCode = "P001"
	PUnclosedDelimiter  ErrorCode = "P002"
	PMixedBraceContents ErrorCode = "P003"
	PRaggedMatrix       ErrorCode = "P004"
	PInvalidLHS         ErrorCode = "P005"
	PRedundantSigil     ErrorCode = "P006"
	PPostfixQuestion    ErrorCode = "P007"
	PNoPrefixParseFn    ErrorCode = "P008"

	// LowerError codes.
	WNoLoweringRule ErrorCode = "W001"
	WInvalidLHS     ErrorCode = "W002"

	// CancelError code.
	WCancelled ErrorCode = "W003"
)

var errorTemplates = map[ErrorCode]string{
	LUnterminatedString:  "unterminated string literal",
	LUnterminatedComment: "unterminated block comment",
	LInvalidDigitInBase:  "invalid digit %q for base %d",
	LInvalidBaseSpec:     "invalid base specification",
	LUnknownSymbol:       "unknown symbol %q",
	LMalformedNumber:     "malformed number literal %q",

	PUnexpectedToken:    "unexpected token: expected %s, got %s",
	PUnclosedDelimiter:  "unclosed delimiter: expected %s",
	PMixedBraceContents: "mixed brace contents: cannot combine key-value pairs and plain values in one %s",
	PRaggedMatrix:       "ragged matrix: row %d has a different length than preceding rows",
	PInvalidLHS:         "invalid left-hand side of %s: expected an identifier or function-call pattern",
	PRedundantSigil:     "redundant brace sigil %s",
	PPostfixQuestion:    "postfix '?' must be immediately followed by '('",
	PNoPrefixParseFn:    "no prefix parse rule for %s",

	WNoLoweringRule: "no lowering rule for AST node %s",
	WInvalidLHS:     "'=' applied to a non-identifier, non-function-call left side",
	WCancelled:      "parse cancelled",
}

// Position is a source location: byte offset plus 1-based line/column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// DiagnosticError is the single error value type returned by every stage.
// Args are formatted into the code's template; Hint, when non-empty, is a
// deterministic suggestion appended to the rendered message.
type DiagnosticError struct {
	Code  ErrorCode
	Phase Phase
	Args  []interface{}
	Pos   Position
	Lexeme string
	Hint  string
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		template = string(e.Code)
	}
	message := template
	if len(e.Args) > 0 {
		message = fmt.Sprintf(template, e.Args...)
	}

	result := fmt.Sprintf("%d:%d [%s/%s]: %s", e.Pos.Line, e.Pos.Column, e.Phase, e.Code, message)
	if e.Hint != "" {
		result += "\n  hint: " + e.Hint
	}
	return result
}

// Tuple returns the (kind, line, column, message) shape the spec requires
// any wrapping REPL present to the user.
func (e *DiagnosticError) Tuple() (kind string, line, column int, message string) {
	return string(e.Code), e.Pos.Line, e.Pos.Column, e.Error()
}

// NewLexError builds a LexError at pos with the given args and an optional
// deterministic hint.
func NewLexError(code ErrorCode, pos Position, hint string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: PhaseLex, Pos: pos, Args: args, Hint: hint}
}

// NewParseError builds a ParseError at pos.
func NewParseError(code ErrorCode, pos Position, hint string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: PhaseParse, Pos: pos, Args: args, Hint: hint}
}

// NewLowerError builds a LowerError at pos. Per the spec, this should never
// fire for well-formed AST except invalid-lhs; its presence in output
// indicates either malformed input or a parser bug.
func NewLowerError(code ErrorCode, pos Position, hint string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: PhaseLower, Pos: pos, Args: args, Hint: hint}
}

// CancelError is an error type for a cancelled run. No stage returns it: the
// parser records a cancelled context observed at a statement boundary as a
// DiagnosticError with code WCancelled.
type CancelError struct {
	Pos Position
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("%d:%d: parse cancelled", e.Pos.Line, e.Pos.Column)
}
