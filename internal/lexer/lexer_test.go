package lexer_test

import (
	"testing"

	"github.com/rixlang/rix/internal/lexer"
	"github.com/rixlang/rix/internal/token"
)

func tokenTypes(t *testing.T, input string) []token.Type {
	t.Helper()
	l := lexer.New(input)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	return types
}

func TestNumberBasePrefix(t *testing.T) {
	l := lexer.New("0x1F")
	tok := l.NextToken()
	if tok.Type != token.NUMBER {
		t.Fatalf("got %s, want NUMBER", tok.Type)
	}
	if tok.Lexeme != "0x1F" {
		t.Errorf("Lexeme = %q, want %q (full source text, prefix included)", tok.Lexeme, "0x1F")
	}
	if tok.Value != "16" {
		t.Errorf("Value = %q, want base 16", tok.Value)
	}
}

func TestNumberCustomBasePrefix(t *testing.T) {
	l := lexer.New("0z[17]A2")
	tok := l.NextToken()
	if tok.Type != token.NUMBER {
		t.Fatalf("got %s, want NUMBER", tok.Type)
	}
	if tok.Lexeme != "0z[17]A2" {
		t.Errorf("Lexeme = %q, want %q (full source text, prefix included)", tok.Lexeme, "0z[17]A2")
	}
	if tok.Value != "17" {
		t.Errorf("Value = %q, want base 17", tok.Value)
	}
}

func TestNumberCustomBaseInvalidDigit(t *testing.T) {
	l := lexer.New("0z[4]129")
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL (9 is not a valid base-4 digit)", tok.Type)
	}
}

func TestNumberDecimal(t *testing.T) {
	l := lexer.New("42")
	tok := l.NextToken()
	if tok.Type != token.NUMBER || tok.Lexeme != "42" || tok.Value != "10" {
		t.Errorf("got %+v, want NUMBER(42) base 10", tok)
	}
}

func TestIdentifierCaseDispatch(t *testing.T) {
	cases := []struct {
		input        string
		wantType     token.Type
		wantUpperTag bool
	}{
		{"foo", token.IDENT_LOWER, false},
		{"Foo", token.IDENT_UPPER, true},
	}
	for _, tc := range cases {
		l := lexer.New(tc.input)
		tok := l.NextToken()
		if tok.Type != tc.wantType {
			t.Errorf("%q: type = %s, want %s", tc.input, tok.Type, tc.wantType)
		}
		if tok.LeadingUpper != tc.wantUpperTag {
			t.Errorf("%q: LeadingUpper = %v, want %v", tc.input, tok.LeadingUpper, tc.wantUpperTag)
		}
	}
}

func TestSystemIdentifier(t *testing.T) {
	l := lexer.New("@_ADD")
	tok := l.NextToken()
	if tok.Type != token.SYSTEM_IDENT {
		t.Fatalf("got %s, want SYSTEM_IDENT", tok.Type)
	}
	if tok.Value != "ADD" {
		t.Errorf("Value = %q, want %q", tok.Value, "ADD")
	}
}

func TestPunctuationMaximalMunch(t *testing.T) {
	got := tokenTypes(t, "{= {! {? |>> |> :=: := = . .. .| |.")
	want := []token.Type{
		token.BRACE_EQ, token.BRACE_BANG, token.BRACE_Q,
		token.PIPEMAP, token.PIPE, token.EQUATION, token.WALRUS, token.ASSIGN,
		token.DOT, token.DOTDOT, token.DOTPIPE, token.PIPEDOT,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s (full sequence %v)", i, got[i], want[i], got)
		}
	}
}

func TestPositionCoverage(t *testing.T) {
	src := "x = 12 + y"
	l := lexer.New(src)
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		if tok.Lexeme == "" {
			continue
		}
		got := src[tok.Offset : tok.Offset+len(tok.Lexeme)]
		if got != tok.Lexeme {
			t.Errorf("token %+v: source[%d:%d] = %q, want lexeme %q",
				tok, tok.Offset, tok.Offset+len(tok.Lexeme), got, tok.Lexeme)
		}
	}
}
