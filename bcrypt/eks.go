package bcrypt

import "golang.org/x/crypto/blowfish"

// magicText is encrypted 64 times with the expanded state to form the digest.
const magicText = "OrpheanBeholderScryDoubt"

const (
	digestSize        = 23
	encodedDigestSize = 31
	encryptRounds     = 64
)

// eksSetup is the expensive key schedule. key must be the 72 bytes returned
// by [Version.expandedKey], so each expansion reads it exactly once.
//
// The first expansion mixes key and salt together; then 2^cost rounds
// re-key from the key alone and from the salt alone, in that order. Every
// call starts from a fresh copy of the pi-derived tables.
func eksSetup(cost int, key []byte, salt *[SaltSize]byte) (*blowfish.Cipher, error) {
	c, err := blowfish.NewSaltedCipher(key, salt[:])
	if err != nil {
		return nil, err
	}
	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(salt[:], c)
	}
	return c, nil
}

// digest encrypts the magic text and returns its first 23 bytes.
func digest(c *blowfish.Cipher) []byte {
	block := []byte(magicText)
	for i := 0; i < len(block); i += blowfish.BlockSize {
		b := block[i : i+blowfish.BlockSize]
		for n := 0; n < encryptRounds; n++ {
			c.Encrypt(b, b)
		}
	}
	return block[:digestSize]
}
