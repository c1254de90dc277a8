package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Errors from the bcrypt core ([bcrypt.ErrMalformedSalt],
// [bcrypt.ErrInvalidCost], [bcrypt.ErrInputType]) are wrapped, so both
// families can be tested with [errors.Is]:
//
//	ok, err := hasher.Check(password, hash)
//	if errors.Is(err, hashing.ErrInvalidHash) {
//	    // hash string is malformed
//	}
var (
	// ErrInvalidHash is returned when a hash string cannot be parsed.
	ErrInvalidHash = errors.New("hashing: invalid or unrecognised hash string")

	// ErrInvalidOption is returned when a constructor receives a cost
	// outside [4, 31] or a version it cannot produce.
	ErrInvalidOption = errors.New("hashing: invalid option value")

	// ErrDriverNotFound is returned when the requested driver has not been
	// registered.
	ErrDriverNotFound = errors.New("hashing: driver not found")

	// ErrEmptyDriverName is returned by [Manager.RegisterDriver] when the
	// supplied driver name is an empty string.
	ErrEmptyDriverName = errors.New("hashing: driver name must not be empty")

	// ErrNilHasher is returned by [Manager.RegisterDriver] when a nil [Hasher]
	// is supplied.
	ErrNilHasher = errors.New("hashing: hasher must not be nil")

	// ErrAlgorithmMismatch is returned when a hash string does not carry a
	// bcrypt prefix at all, for example an Argon2 PHC string.
	ErrAlgorithmMismatch = errors.New("hashing: hash was produced by a different algorithm")
)
