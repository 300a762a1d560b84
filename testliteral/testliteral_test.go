package testliteral_test

import (
	"math/big"
	"testing"

	"github.com/rixlang/rix/testliteral"
)

func TestParseIntegerBases(t *testing.T) {
	cases := []struct {
		raw  string
		base int
		want int64
	}{
		{"1F", 16, 31},
		{"101", 2, 5},
		{"777", 8, 511},
		{"ZZ", 36, 1295},
	}

	for _, tc := range cases {
		got, err := testliteral.Parser{}.Parse(tc.raw, tc.base)
		if err != nil {
			t.Fatalf("Parse(%q, %d): %v", tc.raw, tc.base, err)
		}
		bi, ok := got.(*big.Int)
		if !ok {
			t.Fatalf("Parse(%q, %d) returned %T, want *big.Int", tc.raw, tc.base, got)
		}
		if bi.Int64() != tc.want {
			t.Errorf("Parse(%q, %d) = %v, want %d", tc.raw, tc.base, bi, tc.want)
		}
	}
}

func TestParseBase10Float(t *testing.T) {
	got, err := testliteral.Parser{}.Parse("3.5", 10)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f, ok := got.(float64)
	if !ok || f != 3.5 {
		t.Errorf("Parse(3.5, 10) = %#v, want float64(3.5)", got)
	}
}

func TestParseInvalidDigit(t *testing.T) {
	if _, err := (testliteral.Parser{}).Parse("12", 2); err == nil {
		t.Error("expected an error for digit '2' in base 2, got none")
	}
}

func TestParseRational(t *testing.T) {
	r, err := testliteral.ParseRational("3/4")
	if err != nil {
		t.Fatalf("ParseRational: %v", err)
	}
	if r.Cmp(big.NewRat(3, 4)) != 0 {
		t.Errorf("ParseRational(3/4) = %v, want 3/4", r)
	}
}
