// Package testliteral provides a reference LiteralParser for use in
// tests. It is not part of the front-end core: the teacher's own
// lexer.readNumber resolves BIG_INT/RATIONAL suffixes with
// big.Int.SetString/big.Rat.SetString, and this package follows the same
// approach for RiX's exact-arithmetic literal kinds, kept external to the
// core per the module's documented LiteralParser boundary.
package testliteral

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/rixlang/rix/internal/config"
)

// Parser implements rix.LiteralParser using math/big for any base RiX's
// tokenizer can produce, falling back to strconv for base-10 floats.
type Parser struct{}

// Parse resolves raw (a digit run with no base prefix, as produced by the
// lowering pass) against base, returning a *big.Int for integral bases and
// a float64 for base-10 literals containing a decimal point.
//
// Digit values come from config.DigitValue rather than big.Int.SetString's
// own base handling, since RiX's base-64 scheme (config.BaseLetter['y'])
// reserves '@'/'&' as its final two digits rather than splitting upper and
// lower case letters the way big.Int's extended bases do.
func (Parser) Parse(raw string, base int) (any, error) {
	if base < 2 || base > 64 {
		return nil, fmt.Errorf("testliteral: unsupported base %d", base)
	}
	if base == 10 && hasDecimalPoint(raw) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("testliteral: invalid base-10 literal %q: %w", raw, err)
		}
		return f, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("testliteral: empty digit run")
	}
	v := new(big.Int)
	radix := big.NewInt(int64(base))
	for i := 0; i < len(raw); i++ {
		d := config.DigitValue(raw[i], base)
		if d < 0 {
			return nil, fmt.Errorf("testliteral: invalid base-%d digit %q in %q", base, raw[i], raw)
		}
		v.Mul(v, radix)
		v.Add(v, big.NewInt(int64(d)))
	}
	return v, nil
}

func hasDecimalPoint(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}

// ParseRational resolves a "p/q"-form rational literal, grounded on the
// teacher's big.Rat.SetString handling of its 'r'-suffixed rational tokens.
func ParseRational(raw string) (*big.Rat, error) {
	v := new(big.Rat)
	if _, ok := v.SetString(raw); !ok {
		return nil, fmt.Errorf("testliteral: invalid rational %q", raw)
	}
	return v, nil
}
