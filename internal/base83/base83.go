// Package base83 implements the positional base-83 integer encoding used
// by smearhash strings.
package base83

import (
	"errors"
	"fmt"
)

// Alphabet lists the 83 digit symbols.  A symbol's position is its value.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

var (
	ErrInvalidCharacter = errors.New("base83: invalid character")
	ErrRange            = errors.New("base83: invalid range")
	ErrOverflow         = errors.New("base83: value does not fit in length")
)

// CharError reports a symbol outside the alphabet.
type CharError struct {
	Char byte
	Pos  int
}

func (e *CharError) Error() string {
	return fmt.Sprintf("base83: invalid character %q at position %d", e.Char, e.Pos)
}

func (e *CharError) Unwrap() error { return ErrInvalidCharacter }

// ─── reverse lookup ────────────────────────────────────────────
// -1 marks bytes outside the alphabet.
var digits [256]int8

func init() {
	for i := range digits {
		digits[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digits[Alphabet[i]] = int8(i)
	}
}

// Index returns the value of c, or -1 if c is not a base-83 symbol.
func Index(c byte) int {
	return int(digits[c])
}

// Decode reads s[start:end] as a big-endian base-83 integer.
func Decode(s string, start, end int) (int, error) {
	if start < 0 || start >= end || end > len(s) {
		return 0, fmt.Errorf("%w: [%d:%d] of %d", ErrRange, start, end, len(s))
	}
	v := 0
	for k := start; k < end; k++ {
		d := digits[s[k]]
		if d < 0 {
			return 0, &CharError{Char: s[k], Pos: k}
		}
		v = v*83 + int(d)
	}
	return v, nil
}

// DecodeUnchecked is Decode for trusted input.  The range is clipped to s
// and symbols outside the alphabet count as zero, so it never fails.
func DecodeUnchecked(s string, start, end int) int {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	v := 0
	for k := start; k < end; k++ {
		v *= 83
		if d := digits[s[k]]; d > 0 {
			v += int(d)
		}
	}
	return v
}

// Encode writes value as exactly length base-83 digits.
func Encode(value, length int) (string, error) {
	if value < 0 || length <= 0 {
		return "", fmt.Errorf("%w: value=%d length=%d", ErrOverflow, value, length)
	}
	buf := make([]byte, length)
	v := value
	for i := length - 1; i >= 0; i-- {
		buf[i] = Alphabet[v%83]
		v /= 83
	}
	if v != 0 {
		return "", fmt.Errorf("%w: value=%d length=%d", ErrOverflow, value, length)
	}
	return string(buf), nil
}
