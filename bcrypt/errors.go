package bcrypt

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by bcrypt operations.
//
// Use [errors.Is] for comparisons:
//
//	_, err := bcrypt.ExtractCost(stored)
//	if errors.Is(err, bcrypt.ErrMalformedSalt) {
//	    // stored value is not a bcrypt hash
//	}
var (
	// ErrInvalidCost is matched by every [InvalidCostError].
	ErrInvalidCost = errors.New("bcrypt: invalid cost")

	// ErrMalformedSalt is returned when a salt or hash string does not have
	// the $<ver>$<cc>$<salt>[<digest>] structure, or carries characters
	// outside the bcrypt alphabet.
	ErrMalformedSalt = errors.New("bcrypt: malformed salt or hash string")

	// ErrDecode is matched by every [DecodeError].
	ErrDecode = errors.New("bcrypt: invalid base64 character")

	// ErrInputType is returned by callers at the API boundary when an
	// argument has the wrong type or is not text.
	ErrInputType = errors.New("bcrypt: invalid argument type")

	// ErrMismatchedHashAndPassword is returned by [CompareHashAndPassword]
	// when the secret does not produce the stored hash.
	ErrMismatchedHashAndPassword = errors.New("bcrypt: hashed secret does not match")
)

// InvalidCostError is returned when a cost falls outside [MinCost, MaxCost].
type InvalidCostError int

func (e InvalidCostError) Error() string {
	return fmt.Sprintf("bcrypt: cost %d is outside allowed range [%d, %d]", int(e), MinCost, MaxCost)
}

// Is reports whether target is [ErrInvalidCost].
func (e InvalidCostError) Is(target error) bool { return target == ErrInvalidCost }

// DecodeError describes the first character outside the bcrypt alphabet.
type DecodeError struct {
	Offset int
	Char   byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bcrypt: illegal base64 character %q at offset %d", e.Char, e.Offset)
}

// Is reports whether target is [ErrDecode].
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func checkCost(cost int) error {
	if cost < MinCost || cost > MaxCost {
		return InvalidCostError(cost)
	}
	return nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedSalt}, args...)...)
}
