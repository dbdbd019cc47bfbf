// Package crypto provides the hashing and signing primitives used for
// donor claims.
package crypto

import (
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// HashSize is the size of a BLAKE3 digest.
const HashSize = 32

// KeyHashSize is the size of a BLAKE2b-224 public key hash.
const KeyHashSize = 28

// Hash computes a BLAKE3-256 hash of the input data.
func Hash(data []byte) [HashSize]byte {
	return blake3.Sum256(data)
}

// MessageDigest returns the 32-byte digest that is signed for a claim message.
func MessageDigest(message string) []byte {
	h := Hash([]byte(message))
	return h[:]
}

// KeyHash computes the BLAKE2b-224 hash of a public key. It is the payment
// credential embedded in donor addresses.
func KeyHash(pubKey []byte) []byte {
	h, err := blake2b.New(KeyHashSize, nil)
	if err != nil {
		// Only fails for an invalid size or key.
		panic(err)
	}
	h.Write(pubKey)
	return h.Sum(nil)
}
