package config

// SourceFileExt is the canonical extension for RiX source files.
const SourceFileExt = ".rix"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".rix"}

// BaseLetter maps a number-literal base letter to its radix, per the
// tokenizer's "0<letter>digits" base-prefixed integer form. Capital letters
// A-Z outside this table are reserved for user-registered bases (via
// Unit(...) at evaluation time); the tokenizer accepts them and defers
// digit-set validation to the external literal parser.
var BaseLetter = map[byte]int{
	'b': 2,
	't': 3,
	'q': 4,
	'f': 5,
	's': 7,
	'd': 10,
	'x': 16,
	'c': 12,
	'm': 60,
	'y': 64,
	'u': 36,
	'j': 20,
}

// DigitValue returns the numeric value of a digit character in the given
// base, or -1 if it is not a valid digit for that base. Bases up to 36 use
// case-insensitive 0-9a-z; base 64 additionally allows '@' and '&'.
func DigitValue(ch byte, base int) int {
	var v int
	switch {
	case ch >= '0' && ch <= '9':
		v = int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		v = int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		v = int(ch-'A') + 10
	case base == 64 && ch == '@':
		v = 62
	case base == 64 && ch == '&':
		v = 63
	default:
		return -1
	}
	if v >= base {
		return -1
	}
	return v
}

// IsReservedBaseLetter reports whether r is a lowercase letter reserved as a
// core base-prefix letter (as opposed to a user-registrable capital).
func IsReservedBaseLetter(r byte) bool {
	_, ok := BaseLetter[r]
	return ok
}
