package hashing

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/hasbyte1/go-bcrypt/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used when none is configured.
	//
	// Increase it as hardware improves; aim to keep hashing time between
	// 100 ms and 500 ms for your deployment environment.
	DefaultBcryptCost = bcrypt.DefaultCost
)

// BcryptOptions configures a [BcryptHasher].
type BcryptOptions struct {
	// Cost is the bcrypt work factor (logarithmic).
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	Cost int

	// Version is the revision written into new hashes: [bcrypt.Version2b]
	// or [bcrypt.Version2y]. The zero value selects 2b.
	Version bcrypt.Version

	// Rand supplies salt bytes. Nil means crypto/rand.
	Rand io.Reader
}

// DefaultBcryptOptions returns BcryptOptions with [DefaultBcryptCost] and
// revision 2b.
func DefaultBcryptOptions() BcryptOptions {
	return BcryptOptions{Cost: DefaultBcryptCost, Version: bcrypt.Version2b}
}

// BcryptHasher hashes passwords with the bcrypt core of this module.
//
// It checks hashes of every revision but produces only the configured one.
// BcryptHasher is immutable after construction and safe for concurrent use.
type BcryptHasher struct {
	cost    int
	version bcrypt.Version
	rand    io.Reader
}

// NewBcryptHasher constructs a BcryptHasher with the provided options.
// Returns [ErrInvalidOption] if Cost is outside [bcrypt.MinCost,
// bcrypt.MaxCost] or Version is neither 2b nor 2y.
func NewBcryptHasher(opts BcryptOptions) (*BcryptHasher, error) {
	if opts.Cost < bcrypt.MinCost || opts.Cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	v := opts.Version
	if v == bcrypt.Version2 {
		v = bcrypt.Version2b
	}
	if v != bcrypt.Version2b && v != bcrypt.Version2y {
		return nil, fmt.Errorf("%w: bcrypt version %q cannot be produced", ErrInvalidOption, v)
	}
	return &BcryptHasher{cost: opts.Cost, version: v, rand: opts.Rand}, nil
}

// Driver returns [DriverBcrypt] or [DriverBcrypt2y] depending on the
// configured revision.
func (h *BcryptHasher) Driver() DriverName {
	if h.version == bcrypt.Version2y {
		return DriverBcrypt2y
	}
	return DriverBcrypt
}

// Cost returns the configured bcrypt work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

// Version returns the revision written into new hashes.
func (h *BcryptHasher) Version() bcrypt.Version { return h.version }

// Salt returns a fresh encoded salt at the configured revision and cost.
func (h *BcryptHasher) Salt() (string, error) {
	return h.salt(h.cost)
}

func (h *BcryptHasher) salt(cost int) (string, error) {
	s, err := bcrypt.NewSalt(cost, h.rand)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: failed to generate salt: %w", err)
	}
	s.Version = h.version
	return s.String(), nil
}

// Make hashes password with a fresh 128-bit salt and returns the encoded
// hash, e.g. "$2b$10$...".
//
// Security note: bcrypt ignores everything past the first 72 bytes. Pre-hash
// longer secrets if every byte must count.
func (h *BcryptHasher) Make(password string) (string, error) {
	salt, err := h.salt(h.cost)
	if err != nil {
		return "", err
	}
	return h.MakeWithSalt(password, salt)
}

// MakeWithSalt hashes password with an existing salt or hash string. The
// revision tag of salt is kept.
func (h *BcryptHasher) MakeWithSalt(password, salt string) (string, error) {
	if err := checkText("password", password); err != nil {
		return "", err
	}
	hash, err := bcrypt.HashToEncoded([]byte(password), salt)
	if err != nil {
		return "", fmt.Errorf("hashing: bcrypt: failed to hash password: %w", err)
	}
	return hash, nil
}

// MakeWith hashes password with either a salt string or a cost.
//
//   - nil or 0 use the configured cost
//   - an int is a cost; a fresh salt is generated
//   - a string is a salt or hash whose salt is reused
//
// Any other type fails with [bcrypt.ErrInputType].
func (h *BcryptHasher) MakeWith(password string, saltOrCost any) (string, error) {
	switch v := saltOrCost.(type) {
	case nil:
		return h.Make(password)
	case int:
		cost := v
		if cost == 0 {
			cost = h.cost
		}
		salt, err := h.salt(cost)
		if err != nil {
			return "", err
		}
		return h.MakeWithSalt(password, salt)
	case string:
		return h.MakeWithSalt(password, v)
	default:
		return "", fmt.Errorf("%w: salt must be a salt string or a cost, got %T", bcrypt.ErrInputType, saltOrCost)
	}
}

// Check verifies that password matches the bcrypt-encoded hash.
// Returns (false, nil) on mismatch.
func (h *BcryptHasher) Check(password, hash string) (bool, error) {
	if !looksLikeBcrypt(hash) {
		return false, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	if err := checkText("password", password); err != nil {
		return false, err
	}
	ok, err := bcrypt.Verify([]byte(password), hash)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	return ok, nil
}

// NeedsRehash returns true if the cost or revision encoded in hash differs
// from the hasher's configuration. Legacy revisions therefore always need
// a rehash.
func (h *BcryptHasher) NeedsRehash(hash string) (bool, error) {
	s, err := h.parse(hash)
	if err != nil {
		return false, err
	}
	return s.Cost != h.cost || s.Version != h.version, nil
}

// Info extracts the revision and work factor from a bcrypt hash string.
//
// Returned [HashInfo].Params:
//   - "version" → string
//   - "cost"    → int
func (h *BcryptHasher) Info(hash string) (HashInfo, error) {
	s, err := h.parse(hash)
	if err != nil {
		return HashInfo{}, err
	}
	d, _ := DetectDriver(hash)
	return HashInfo{
		Driver: d,
		Params: map[string]any{
			"version": s.Version.String(),
			"cost":    s.Cost,
		},
	}, nil
}

// CostOf returns the work factor recorded in hash.
func (h *BcryptHasher) CostOf(hash string) (int, error) {
	s, err := h.parse(hash)
	if err != nil {
		return 0, err
	}
	return s.Cost, nil
}

func (h *BcryptHasher) parse(hash string) (bcrypt.Salt, error) {
	if !looksLikeBcrypt(hash) {
		return bcrypt.Salt{}, fmt.Errorf("%w: hash does not appear to be bcrypt", ErrAlgorithmMismatch)
	}
	s, err := bcrypt.ParseSalt(hash)
	if err != nil {
		return bcrypt.Salt{}, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	return s, nil
}

func looksLikeBcrypt(hash string) bool {
	_, ok := DetectDriver(hash)
	return ok
}

// checkText rejects secrets that are not valid UTF-8 text.
func checkText(name, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %s must be valid UTF-8 text", bcrypt.ErrInputType, name)
	}
	return nil
}
