package bcrypt

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// MinCost is the smallest accepted work factor.
	MinCost = 4
	// MaxCost is the largest accepted work factor.
	MaxCost = 31
	// DefaultCost is used when a caller does not choose a cost.
	DefaultCost = 10

	// SaltSize is the number of random bytes in a salt.
	SaltSize = 16

	encodedSaltSize = 22
)

// Salt is a decoded salt prefix: the revision, the work factor and the
// 16 raw salt bytes.
type Salt struct {
	Version Version
	Cost    int
	Bytes   [SaltSize]byte
}

// NewSalt draws SaltSize bytes from r and returns a [Version2b] salt.
// A nil r reads from crypto/rand.
func NewSalt(cost int, r io.Reader) (Salt, error) {
	if err := checkCost(cost); err != nil {
		return Salt{}, err
	}
	if r == nil {
		r = rand.Reader
	}
	s := Salt{Version: Version2b, Cost: cost}
	if _, err := io.ReadFull(r, s.Bytes[:]); err != nil {
		return Salt{}, fmt.Errorf("bcrypt: failed to read salt: %w", err)
	}
	return s, nil
}

// GenerateSalt returns a fresh encoded salt, e.g. "$2b$10$" followed by
// 22 alphabet characters.
func GenerateSalt(cost int, r io.Reader) (string, error) {
	s, err := NewSalt(cost, r)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// String encodes s as "$<ver>$<cc>$<22 chars>". The salt characters are
// always re-encoded from Bytes, so unused trailing bits come out as zero.
func (s Salt) String() string {
	var b strings.Builder
	b.Grow(7 + encodedSaltSize)
	b.WriteString(s.prefix())
	b.WriteString(Encode(s.Bytes[:]))
	return b.String()
}

func (s Salt) prefix() string {
	return fmt.Sprintf("$%s$%02d$", s.Version, s.Cost)
}

func (s Salt) validate() error {
	if !s.Version.Valid() {
		return malformed("unknown version %q", byte(s.Version))
	}
	return checkCost(s.Cost)
}

// ParseSalt decodes the prefix of encoded, which may be a bare salt or a
// complete hash. Only the first 22 characters after the cost are decoded;
// anything that follows is ignored.
func ParseSalt(encoded string) (Salt, error) {
	s, rest, err := parsePrefix(encoded)
	if err != nil {
		return Salt{}, err
	}
	if len(rest) < encodedSaltSize {
		return Salt{}, malformed("salt has %d characters, want %d", len(rest), encodedSaltSize)
	}
	raw, err := Decode(rest[:encodedSaltSize])
	if err != nil {
		return Salt{}, malformed("salt: %w", err)
	}
	copy(s.Bytes[:], raw)
	return s, nil
}

// parsePrefix reads "$2[abxy]$cc$" and returns what follows it.
func parsePrefix(encoded string) (Salt, string, error) {
	var s Salt
	rest, ok := strings.CutPrefix(encoded, "$2")
	if !ok {
		return s, "", malformed("missing $2 prefix")
	}
	if rest == "" {
		return s, "", malformed("truncated after version")
	}
	if rest[0] != '$' {
		v := Version(rest[0])
		if v == Version2 || !v.Valid() {
			return s, "", malformed("unknown version %q", "2"+rest[:1])
		}
		s.Version = v
		rest = rest[1:]
	}
	if len(rest) < 4 || rest[0] != '$' || rest[3] != '$' {
		return s, "", malformed("cost field must be two digits between '$'")
	}
	d1, d2 := rest[1], rest[2]
	if d1 < '0' || d1 > '9' || d2 < '0' || d2 > '9' {
		return s, "", malformed("cost %q: %w", rest[1:3], ErrInvalidCost)
	}
	s.Cost = int(d1-'0')*10 + int(d2-'0')
	if err := checkCost(s.Cost); err != nil {
		return s, "", malformed("%w", err)
	}
	return s, rest[4:], nil
}
