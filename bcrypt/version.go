package bcrypt

import "encoding/binary"

// Version is the revision tag of a bcrypt hash, the minor letter after "$2".
//
// Every revision runs the same key schedule. They differ only in how the
// secret is turned into key words beforehand, which reproduces the historical
// behaviour of the implementations that introduced each tag.
type Version byte

const (
	// Version2 is the original "$2$" format. The secret is not terminated.
	Version2 Version = 0
	// Version2a appends the terminator but stores the key length in a byte,
	// so secrets of 255 bytes or more wrap around (OpenBSD before 2014).
	Version2a Version = 'a'
	// Version2b caps the secret at 72 bytes and appends the terminator. This
	// is the only revision produced by default.
	Version2b Version = 'b'
	// Version2x reproduces crypt_blowfish's sign-extension bug for bytes
	// with the high bit set.
	Version2x Version = 'x'
	// Version2y is crypt_blowfish's corrected revision, identical to 2b.
	Version2y Version = 'y'
)

// maxKeyLen is the number of key bytes one pass of the key schedule reads.
const maxKeyLen = 72

// ParseVersion returns the Version named by tag ("2", "2a", "2b", "2x" or "2y").
func ParseVersion(tag string) (Version, bool) {
	switch tag {
	case "2":
		return Version2, true
	case "2a":
		return Version2a, true
	case "2b":
		return Version2b, true
	case "2x":
		return Version2x, true
	case "2y":
		return Version2y, true
	}
	return 0, false
}

// Valid reports whether v is a recognised revision.
func (v Version) Valid() bool {
	switch v {
	case Version2, Version2a, Version2b, Version2x, Version2y:
		return true
	}
	return false
}

// String returns the tag as it appears between the first two '$'.
func (v Version) String() string {
	if v == Version2 {
		return "2"
	}
	return "2" + string(rune(v))
}

// key returns the byte stream cycled into the P-array for secret. The
// result never aliases secret.
func (v Version) key(secret []byte) []byte {
	switch v {
	case Version2:
		n := min(len(secret), maxKeyLen)
		if n == 0 {
			return []byte{0}
		}
		return append([]byte(nil), secret[:n]...)
	case Version2a:
		k := make([]byte, len(secret)+1)
		copy(k, secret)
		n := len(k) & 0xff
		if n == 0 {
			n = 1
		}
		return k[:n]
	default:
		n := min(len(secret), maxKeyLen)
		k := make([]byte, n+1)
		copy(k, secret[:n])
		return k
	}
}

// expandedKey returns the 72 bytes XORed into the P-array for secret: the
// normalised key cycled to fill 18 big-endian words.
func (v Version) expandedKey(secret []byte) []byte {
	w := streamWords(v.key(secret), v == Version2x)
	out := make([]byte, maxKeyLen)
	for i, word := range w {
		binary.BigEndian.PutUint32(out[4*i:], word)
	}
	return out
}

// streamWords cycles data big-endian into 18 words. With signExtend each
// byte is widened as a signed char before being ORed in.
func streamWords(data []byte, signExtend bool) *[18]uint32 {
	var w [18]uint32
	j := 0
	for i := range w {
		var word uint32
		for k := 0; k < 4; k++ {
			b := uint32(data[j])
			if signExtend {
				b = uint32(int32(int8(data[j])))
			}
			word = word<<8 | b
			j++
			if j == len(data) {
				j = 0
			}
		}
		w[i] = word
	}
	return &w
}
