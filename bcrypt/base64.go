package bcrypt

// alphabet is bcrypt's base64 alphabet. It orders symbols differently from
// RFC 4648 and never pads.
const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const invalidSymbol = 0xff

var decodeMap = func() (m [256]byte) {
	for i := range m {
		m[i] = invalidSymbol
	}
	for i := 0; i < len(alphabet); i++ {
		m[alphabet[i]] = byte(i)
	}
	return m
}()

// EncodedLen returns the length of the unpadded encoding of n bytes.
func EncodedLen(n int) int { return (n*8 + 5) / 6 }

// DecodedLen returns the number of whole bytes carried by n characters.
func DecodedLen(n int) int { return n * 6 / 8 }

// Encode encodes src with the bcrypt alphabet. Bits are consumed most
// significant first; a partial final group is emitted as a short group with
// zero fill and no padding. 16 bytes encode to 22 characters and 23 bytes to
// 31 characters.
func Encode(src []byte) string {
	dst := make([]byte, 0, EncodedLen(len(src)))
	var acc uint32
	var bits uint
	for _, b := range src {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 6 {
			bits -= 6
			dst = append(dst, alphabet[(acc>>bits)&0x3f])
		}
		acc &= 1<<bits - 1
	}
	if bits > 0 {
		dst = append(dst, alphabet[(acc<<(6-bits))&0x3f])
	}
	return string(dst)
}

// Decode is the inverse of [Encode]. Leftover bits that do not complete a
// byte are dropped, so the 22-character salt decodes to exactly 16 bytes.
// It returns a [*DecodeError] on the first character outside the alphabet.
func Decode(s string) ([]byte, error) {
	dst := make([]byte, 0, DecodedLen(len(s)))
	var acc uint32
	var bits uint
	for i := 0; i < len(s); i++ {
		v := decodeMap[s[i]]
		if v == invalidSymbol {
			return nil, &DecodeError{Offset: i, Char: s[i]}
		}
		acc = acc<<6 | uint32(v)
		bits += 6
		if bits >= 8 {
			bits -= 8
			dst = append(dst, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}
	return dst, nil
}
