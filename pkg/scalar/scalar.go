// Package scalar converts loosely typed external fields (strings, decimal numbers)
// into the fixed-width values stored on the ledger.
package scalar

import (
	"fmt"

	"github.com/holiman/uint256"
)

// maxU128Digits is the number of decimal digits in 2^128-1.
const maxU128Digits = 39

// ParseError is returned when a string cannot be read as an unsigned 128-bit integer.
type ParseError struct {
	Input  string
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid u128 %q: %s", truncate(e.Input, 48), e.Reason)
}

// StringToBytes returns the UTF-8 bytes of s.
func StringToBytes(s string) []byte {
	return []byte(s)
}

// StringToU128 parses s as a base-10 non-negative integer that fits in 128 bits.
// Only ASCII digits are accepted: signs, whitespace, separators and empty input fail.
func StringToU128(s string) (U128, error) {
	if s == "" {
		return U128{}, &ParseError{Input: s, Reason: "empty string"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return U128{}, &ParseError{Input: s, Reason: fmt.Sprintf("non-digit character at offset %d", i)}
		}
	}

	// Leading zeros are valid but must not count against the width check below.
	digits := s
	for len(digits) > 1 && digits[0] == '0' {
		digits = digits[1:]
	}
	if len(digits) > maxU128Digits {
		return U128{}, &ParseError{Input: s, Reason: "overflows 128 bits"}
	}

	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return U128{}, &ParseError{Input: s, Reason: err.Error()}
	}
	if v.BitLen() > 128 {
		return U128{}, &ParseError{Input: s, Reason: "overflows 128 bits"}
	}
	return U128{Lo: v[0], Hi: v[1]}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
