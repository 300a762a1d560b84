// Package lexer implements the RiX tokenizer: a single-pass, maximal-munch
// scanner over UTF-8 source text with no backtracking.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rixlang/rix/internal/config"
	"github.com/rixlang/rix/internal/diagnostics"
	"github.com/rixlang/rix/internal/token"
)

// Lexer scans RiX source text into a token sequence.
type Lexer struct {
	input string

	offset     int // byte offset of the current rune
	nextOffset int // byte offset of the following rune
	ch         rune
	chWidth    int

	line   int
	column int

	errs []*diagnostics.DiagnosticError
}

// New constructs a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Errors returns any LexErrors accumulated. An unknown symbol or malformed
// number is also returned inline as an ILLEGAL token; an unterminated string
// or block comment is recorded here only, and scanning goes on to the end of
// input.
func (l *Lexer) Errors() []*diagnostics.DiagnosticError { return l.errs }

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.offset = l.nextOffset
	if l.offset >= len(l.input) {
		l.ch = 0
		l.chWidth = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.ch = r
	l.chWidth = w
	l.nextOffset = l.offset + w
	l.column++
}

func (l *Lexer) peekAt(byteOffset int) rune {
	if byteOffset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[byteOffset:])
	return r
}

func (l *Lexer) peekChar() rune { return l.peekAt(l.nextOffset) }

// NextToken returns the next token in the stream, advancing the scanner.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	startOffset, startLine, startCol := l.offset, l.line, l.column

	switch {
	case l.ch == 0:
		return l.tok(token.EOF, "", startOffset, startLine, startCol)
	case l.ch == '\n':
		l.readChar()
		return l.tok(token.NEWLINE, "\n", startOffset, startLine, startCol)
	case l.ch == '\r':
		l.readChar()
		return l.tok(token.NEWLINE, "\r", startOffset, startLine, startCol)
	case l.ch == '"':
		return l.readQuotedString(startOffset, startLine, startCol)
	case l.ch == '`':
		return l.readInterpString(startOffset, startLine, startCol)
	case l.ch == '@' && l.peekChar() == '_':
		return l.readSystemIdentifier(startOffset, startLine, startCol)
	case l.ch == '_' && (isDigit(l.peekChar()) || l.peekChar() == '_'):
		if tok, ok := l.tryReadPlaceholder(startOffset, startLine, startCol); ok {
			return tok
		}
		return l.readIdentifier(startOffset, startLine, startCol)
	case isDigit(l.ch):
		return l.readNumber(startOffset, startLine, startCol)
	case isIdentStart(l.ch):
		return l.readIdentifier(startOffset, startLine, startCol)
	default:
		return l.readSymbol(startOffset, startLine, startCol)
	}
}

func (l *Lexer) tok(typ token.Type, lexeme string, offset, line, col int) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Offset: offset, Line: line, Column: col}
}

func (l *Lexer) illegal(msg string, offset, line, col int) token.Token {
	l.errs = append(l.errs, &diagnostics.DiagnosticError{
		Code:  diagnostics.LUnknownSymbol,
		Phase: diagnostics.PhaseLex,
		Args:  []interface{}{msg},
		Pos:   diagnostics.Position{Offset: offset, Line: line, Column: col},
	})
	return l.tok(token.ILLEGAL, msg, offset, line, col)
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' {
			l.readChar()
		}
		switch {
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		case l.ch == '/' && l.peekChar() == '/':
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		case l.ch == '/' && l.peekChar() == '*':
			l.skipBlockComment()
			continue
		}
		return
	}
}

// skipBlockComment consumes a nestable /* ... */ or /*** ... ***/ comment.
// The opening run of '*' characters (one or three) determines how many
// stars the matching close must have; nested comments of the same marker
// width increase depth.
func (l *Lexer) skipBlockComment() {
	startLine, startCol, startOffset := l.line, l.column, l.offset
	l.readChar() // consume '/'
	stars := 0
	for l.ch == '*' {
		stars++
		l.readChar()
	}
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			l.errs = append(l.errs, &diagnostics.DiagnosticError{
				Code:  diagnostics.LUnterminatedComment,
				Phase: diagnostics.PhaseLex,
				Pos:   diagnostics.Position{Offset: startOffset, Line: startLine, Column: startCol},
			})
			return
		}
		if l.ch == '/' && l.peekChar() == '*' {
			save := l.offset
			l.readChar()
			n := 0
			for l.ch == '*' {
				n++
				l.readChar()
			}
			if n == stars {
				depth++
				continue
			}
			_ = save
			continue
		}
		if l.ch == '*' {
			n := 0
			for l.ch == '*' {
				n++
				l.readChar()
			}
			if n == stars && l.ch == '/' {
				l.readChar()
				depth--
				continue
			}
			continue
		}
		l.readChar()
	}
}

// readQuotedString handles the N-consecutive-quote string rule: the opening
// run of N '"' characters closes on the next run of exactly N; shorter runs
// are preserved verbatim inside the content.
func (l *Lexer) readQuotedString(startOffset, startLine, startCol int) token.Token {
	n := 0
	for l.ch == '"' {
		n++
		l.readChar()
	}
	var sb strings.Builder
	for {
		if l.ch == 0 {
			l.errs = append(l.errs, &diagnostics.DiagnosticError{
				Code:  diagnostics.LUnterminatedString,
				Phase: diagnostics.PhaseLex,
				Pos:   diagnostics.Position{Offset: startOffset, Line: startLine, Column: startCol},
			})
			break
		}
		if l.ch == '"' {
			closeOffset := l.offset
			m := 0
			for l.ch == '"' {
				m++
				l.readChar()
			}
			if m == n {
				break
			}
			sb.WriteString(l.input[closeOffset : closeOffset+m])
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	content := trimSingleSpacePadding(sb.String(), n)
	lexeme := l.input[startOffset:l.offset]
	t := l.tok(token.STRING, lexeme, startOffset, startLine, startCol)
	t.Value = content
	return t
}

// trimSingleSpacePadding implements the rule: when N>1 and the content opens
// and closes with a space adjacent to an embedded quote run, trim one space
// at each such end.
func trimSingleSpacePadding(content string, n int) string {
	if n <= 1 || len(content) < 2 {
		return content
	}
	trimmed := content
	if strings.HasPrefix(trimmed, " \"") {
		trimmed = trimmed[1:]
	}
	if strings.HasSuffix(trimmed, "\" ") {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return trimmed
}

// readInterpString reads a backtick string, tracking ${ ... } interpolation
// spans. The token carries the raw lexeme, and its Value is the text between
// the backticks. The spans are not re-lexed: the parser keeps that text as one
// interpolated String, which lowering passes whole to STRING_INTERP.
func (l *Lexer) readInterpString(startOffset, startLine, startCol int) token.Token {
	l.readChar() // consume opening `
	hasInterp := false
	depth := 0
	for {
		if l.ch == 0 {
			l.errs = append(l.errs, &diagnostics.DiagnosticError{
				Code:  diagnostics.LUnterminatedString,
				Phase: diagnostics.PhaseLex,
				Pos:   diagnostics.Position{Offset: startOffset, Line: startLine, Column: startCol},
			})
			break
		}
		if l.ch == '`' && depth == 0 {
			l.readChar()
			break
		}
		if l.ch == '$' && l.peekChar() == '{' {
			hasInterp = true
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if depth > 0 && l.ch == '{' {
			depth++
		}
		if depth > 0 && l.ch == '}' {
			depth--
		}
		l.readChar()
	}
	lexeme := l.input[startOffset:l.offset]
	typ := token.STRING
	if hasInterp {
		typ = token.INTERP_STRING
	}
	t := l.tok(typ, lexeme, startOffset, startLine, startCol)
	t.Value = strings.Trim(lexeme, "`")
	return t
}

func (l *Lexer) readSystemIdentifier(startOffset, startLine, startCol int) token.Token {
	l.readChar() // @
	l.readChar() // _
	nameStart := l.offset
	for isIdentPart(l.ch) {
		l.readChar()
	}
	name := l.input[nameStart:l.offset]
	lexeme := l.input[startOffset:l.offset]
	t := l.tok(token.SYSTEM_IDENT, lexeme, startOffset, startLine, startCol)
	t.Value = strings.ToUpper(name)
	return t
}

// tryReadPlaceholder recognizes `_1`, `_2`, `__1` pipe placeholders, which
// would otherwise be indistinguishable from an identifier starting with `_`.
func (l *Lexer) tryReadPlaceholder(startOffset, startLine, startCol int) (token.Token, bool) {
	save := *l
	underscores := 0
	for l.ch == '_' {
		underscores++
		l.readChar()
	}
	if !isDigit(l.ch) {
		*l = save
		return token.Token{}, false
	}
	digitsStart := l.offset
	for isDigit(l.ch) {
		l.readChar()
	}
	if isIdentPart(l.ch) {
		// e.g. "_1x" is an identifier, not a placeholder.
		*l = save
		return token.Token{}, false
	}
	lexeme := l.input[startOffset:l.offset]
	t := l.tok(token.PLACEHOLDER, lexeme, startOffset, startLine, startCol)
	t.Value = l.input[digitsStart:l.offset]
	_ = underscores
	return t, true
}

func (l *Lexer) readIdentifier(startOffset, startLine, startCol int) token.Token {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[startOffset:l.offset]
	firstRune, _ := utf8.DecodeRuneInString(lexeme)
	leadingUpper := unicode.IsUpper(firstRune)

	typ := token.IDENT_LOWER
	value := strings.ToLower(lexeme)
	if leadingUpper {
		typ = token.IDENT_UPPER
		value = strings.ToUpper(lexeme)
	}
	t := l.tok(typ, lexeme, startOffset, startLine, startCol)
	t.Value = value
	t.LeadingUpper = leadingUpper
	return t
}

// readNumber implements the maximal-munch numeric grammar: base-prefixed
// integers, decimals (with optional repeating-decimal or uncertainty-band
// suffix), rationals, and mixed numbers. The lexer does not evaluate the
// literal; it hands the raw text and resolved base to the parser/IR, which
// in turn defers to the external literal parser.
func (l *Lexer) readNumber(startOffset, startLine, startCol int) token.Token {
	base := 10

	if l.ch == '0' && l.peekChar() == 'z' {
		if tok, ok := l.readCustomBaseNumber(startOffset, startLine, startCol); ok {
			return tok
		}
		// Not a well-formed "0z[N]digits" literal; fall through to the
		// base-letter/decimal paths below ('z' is not itself a reserved
		// base letter, so "0z" alone is just "0" followed by an identifier).
	}

	if l.ch == '0' && isBasePrefixLetter(l.peekChar()) {
		letter := byte(l.peekChar())
		radix, reserved := config.BaseLetter[letter]
		l.readChar() // '0'
		l.readChar() // base letter
		digitsStart := l.offset

		if reserved {
			for isBaseDigit(l.ch, radix) {
				l.readChar()
			}
			if l.offset == digitsStart {
				return l.illegal("invalid-base-spec", startOffset, startLine, startCol)
			}
			if isIdentPart(l.ch) {
				return l.illegal("invalid-digit-in-base", l.offset, l.line, l.column)
			}
			base = radix
		} else {
			// User-registered capital-letter base: the tokenizer accepts the
			// alphanumeric digit run but defers validation to the external
			// literal parser, which knows the registered alphabet.
			for isIdentPart(l.ch) {
				l.readChar()
			}
			if l.offset == digitsStart {
				return l.illegal("invalid-base-spec", startOffset, startLine, startCol)
			}
			base = 0
		}
		lexeme := l.input[startOffset:l.offset]
		t := l.tok(token.NUMBER, lexeme, startOffset, startLine, startCol)
		t.Value = strconv.Itoa(base)
		return t
	}

	for isDigit(l.ch) {
		l.readChar()
	}

	// decimal point, guarded against ".." (interval) and ". " (method dot)
	if l.ch == '.' && l.peekChar() != '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '#' {
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if l.ch == '[' {
			l.readChar()
			for l.ch != ']' && l.ch != 0 {
				l.readChar()
			}
			if l.ch == ']' {
				l.readChar()
			}
		}
	} else if l.ch == '/' && isDigit(l.peekChar()) {
		// rational numerator/denominator: the tokenizer always munges the
		// maximal digit run here into one NUMBER token, and the parser keeps
		// it as a single literal, so "6/2" written without spaces is never
		// read as a division.
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	} else if l.ch == '.' && l.peekChar() == '.' {
		// mixed number "a..b/c": only consume the ".." if a "/" follows the
		// next digit run, else leave it for the interval operator.
		save := *l
		l.readChar()
		l.readChar()
		if isDigit(l.ch) {
			digitsAfter := l.offset
			for isDigit(l.ch) {
				l.readChar()
			}
			if l.ch == '/' && isDigit(l.peekChar()) {
				l.readChar()
				for isDigit(l.ch) {
					l.readChar()
				}
			} else {
				*l = save
				_ = digitsAfter
			}
		} else {
			*l = save
		}
	}

	lexeme := l.input[startOffset:l.offset]
	t := l.tok(token.NUMBER, lexeme, startOffset, startLine, startCol)
	t.Value = strconv.Itoa(base)
	return t
}

// readCustomBaseNumber handles the "0z[" N "]" digits form: an explicit
// decimal radix N in brackets followed by a digit run in that base. It
// returns ok=false with the lexer state untouched if the input does not
// actually open with "0z[", so the caller can fall back to treating the
// leading "0" as an ordinary decimal digit. Once the "0z[" prefix is
// matched, any further malformation (bad N, missing "]", empty or
// out-of-range digits) is reported as an illegal token rather than falling
// back, since nothing else in the grammar starts this way.
func (l *Lexer) readCustomBaseNumber(startOffset, startLine, startCol int) (token.Token, bool) {
	save := *l
	l.readChar() // '0'
	l.readChar() // 'z'
	if l.ch != '[' {
		*l = save
		return token.Token{}, false
	}
	l.readChar() // '['

	nStart := l.offset
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.offset == nStart || l.ch != ']' {
		return l.illegal("invalid-base-spec", startOffset, startLine, startCol), true
	}
	radix, err := strconv.Atoi(l.input[nStart:l.offset])
	if err != nil || radix < 2 || radix > 62 {
		return l.illegal("invalid-base-spec", startOffset, startLine, startCol), true
	}
	l.readChar() // ']'

	digitsStart := l.offset
	strict := radix <= 36 || radix == 64
	for {
		if strict {
			if !isBaseDigit(l.ch, radix) {
				break
			}
		} else if !isIdentPart(l.ch) {
			break
		}
		l.readChar()
	}
	if l.offset == digitsStart {
		return l.illegal("invalid-base-spec", startOffset, startLine, startCol), true
	}
	if strict && isIdentPart(l.ch) {
		return l.illegal("invalid-digit-in-base", l.offset, l.line, l.column), true
	}

	lexeme := l.input[startOffset:l.offset]
	t := l.tok(token.NUMBER, lexeme, startOffset, startLine, startCol)
	t.Value = strconv.Itoa(radix)
	return t, true
}

func (l *Lexer) readSymbol(startOffset, startLine, startCol int) token.Token {
	remaining := l.input[l.offset:]
	for _, entry := range token.SymbolTable() {
		if strings.HasPrefix(remaining, entry.Lexeme) {
			// The table has no "{{" entry: two adjacent braces lex as two
			// LBRACE tokens.
			for range entry.Lexeme {
				l.readChar()
			}
			t := l.tok(entry.Type, entry.Lexeme, startOffset, startLine, startCol)
			return t
		}
	}
	bad := string(l.ch)
	l.readChar()
	return l.illegal(bad, startOffset, startLine, startCol)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isBasePrefixLetter(r rune) bool {
	if r <= 0 || r > 127 {
		return false
	}
	return config.IsReservedBaseLetter(byte(r)) || (r >= 'A' && r <= 'Z')
}

func isBaseDigit(r rune, base int) bool {
	if r <= 0 || r > 127 {
		return false
	}
	return config.DigitValue(byte(r), base) >= 0
}
