package bcrypt

import (
	"crypto/rand"
	"strings"
)

// Hashed is a decoded hash: its salt prefix and the 23-byte digest.
type Hashed struct {
	Salt
	Digest [digestSize]byte
}

// String encodes h as "$<ver>$<cc>$<22 salt chars><31 digest chars>".
func (h Hashed) String() string {
	var b strings.Builder
	b.Grow(7 + encodedSaltSize + encodedDigestSize)
	b.WriteString(h.Salt.String())
	b.WriteString(Encode(h.Digest[:]))
	return b.String()
}

// ParseHash decodes a complete hash string. Unlike [ParseSalt] it requires
// exactly 31 digest characters after the salt.
func ParseHash(encoded string) (Hashed, error) {
	s, err := ParseSalt(encoded)
	if err != nil {
		return Hashed{}, err
	}
	_, rest, _ := parsePrefix(encoded)
	rest = rest[encodedSaltSize:]
	if len(rest) != encodedDigestSize {
		return Hashed{}, malformed("digest has %d characters, want %d", len(rest), encodedDigestSize)
	}
	raw, err := Decode(rest)
	if err != nil {
		return Hashed{}, malformed("digest: %w", err)
	}
	h := Hashed{Salt: s}
	copy(h.Digest[:], raw)
	return h, nil
}

// Hash returns the raw 23-byte digest of secret under salt. Bytes of secret
// past the first 72 do not contribute.
func Hash(secret []byte, salt Salt) ([]byte, error) {
	if err := salt.validate(); err != nil {
		return nil, err
	}
	c, err := eksSetup(salt.Cost, salt.Version.expandedKey(secret), &salt.Bytes)
	if err != nil {
		return nil, err
	}
	return digest(c), nil
}

// HashToEncoded hashes secret with the salt encoded in saltSpec and returns
// the complete hash string. saltSpec may be a bare salt from
// [GenerateSalt] or an existing hash; its revision tag is kept.
func HashToEncoded(secret []byte, saltSpec string) (string, error) {
	s, err := ParseSalt(saltSpec)
	if err != nil {
		return "", err
	}
	return hashEncoded(secret, s)
}

func hashEncoded(secret []byte, s Salt) (string, error) {
	d, err := Hash(secret, s)
	if err != nil {
		return "", err
	}
	h := Hashed{Salt: s}
	copy(h.Digest[:], d)
	return h.String(), nil
}

// GenerateFromPassword hashes secret at cost with a fresh salt from
// crypto/rand.
func GenerateFromPassword(secret []byte, cost int) (string, error) {
	s, err := NewSalt(cost, rand.Reader)
	if err != nil {
		return "", err
	}
	return hashEncoded(secret, s)
}

// Verify reports whether secret hashes to encodedHash. It recomputes the
// complete hash string with the stored salt and compares the two strings in
// constant time. A structurally invalid encodedHash is an error; a mismatch
// is (false, nil).
func Verify(secret []byte, encodedHash string) (bool, error) {
	if _, err := ParseHash(encodedHash); err != nil {
		return false, err
	}
	candidate, err := HashToEncoded(secret, encodedHash)
	if err != nil {
		return false, err
	}
	return ConstantTimeCompare(encodedHash, candidate), nil
}

// CompareHashAndPassword returns nil when secret matches hashed and
// [ErrMismatchedHashAndPassword] when it does not.
func CompareHashAndPassword(hashed string, secret []byte) error {
	ok, err := Verify(secret, hashed)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// ExtractCost returns the work factor recorded in encodedHash.
func ExtractCost(encodedHash string) (int, error) {
	s, err := ParseSalt(encodedHash)
	if err != nil {
		return 0, err
	}
	return s.Cost, nil
}
