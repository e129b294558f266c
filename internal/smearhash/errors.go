package smearhash

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/smearhash-cli/internal/base83"
)

var (
	// ErrInvalidHash is wrapped by every *HashError, that is by every
	// problem with the hash text itself.  A bad output size is not one:
	// it matches ErrInvalidDimensions only.
	ErrInvalidHash = errors.New("smearhash: invalid hash")

	ErrInvalidCharacter = base83.ErrInvalidCharacter
	ErrTruncatedHash    = errors.New("smearhash: truncated hash")
	ErrTrailingData     = errors.New("smearhash: trailing data after last component")

	// ErrInvalidColor reports an average colour above 0xFFFFFF.
	ErrInvalidColor = errors.New("smearhash: average colour out of range")

	// ErrInvalidDimensions covers both a size flag that needs a tenth row
	// (wrapped in a *HashError) and an output width or height out of range
	// (a plain %w wrap).
	ErrInvalidDimensions = errors.New("smearhash: invalid dimensions")
)

// HashError describes why a hash was rejected.  Kind is one of the
// sentinels above, or a *base83.CharError for a bad symbol.
type HashError struct {
	Hash   string
	Pos    int
	Kind   error
	Detail string
}

func (e *HashError) Error() string {
	msg := fmt.Sprintf("%v: hash %q", e.Kind, clip(e.Hash, 64))
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *HashError) Unwrap() []error {
	return []error{e.Kind, ErrInvalidHash}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
