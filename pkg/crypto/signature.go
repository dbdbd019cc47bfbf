package crypto

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// PrivateKey wraps a secp256k1 private key for Schnorr signing.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// GenerateKey creates a new random secp256k1 private key.
func GenerateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromBytes creates a PrivateKey from a 32-byte secret.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Sign produces a 64-byte Schnorr signature over a 32-byte digest.
func (pk *PrivateKey) Sign(digest []byte) ([]byte, error) {
	if len(digest) != HashSize {
		return nil, fmt.Errorf("digest must be %d bytes, got %d", HashSize, len(digest))
	}
	sig, err := schnorr.Sign(pk.key, digest)
	if err != nil {
		return nil, fmt.Errorf("schnorr sign: %w", err)
	}
	return sig.Serialize(), nil
}

// SignMessage signs the BLAKE3 digest of message.
func (pk *PrivateKey) SignMessage(message string) ([]byte, error) {
	return pk.Sign(MessageDigest(message))
}

// PublicKey returns the compressed 33-byte public key.
func (pk *PrivateKey) PublicKey() []byte {
	return pk.key.PubKey().SerializeCompressed()
}

// KeyHash returns the BLAKE2b-224 hash of the compressed public key.
func (pk *PrivateKey) KeyHash() []byte {
	return KeyHash(pk.PublicKey())
}

// Serialize returns the 32-byte private key scalar.
func (pk *PrivateKey) Serialize() []byte {
	return pk.key.Serialize()
}

// Zero clears the private key scalar. The key is unusable afterwards.
func (pk *PrivateKey) Zero() {
	if pk == nil || pk.key == nil {
		return
	}
	pk.key.Zero()
}

// VerifySignature checks a Schnorr signature against a 32-byte digest
// and a compressed public key. Returns false on any error.
func VerifySignature(digest, signature, publicKey []byte) bool {
	pubKey, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return false
	}
	sig, err := schnorr.ParseSignature(signature)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pubKey)
}

// VerifyMessage checks a signature produced by SignMessage.
func VerifyMessage(message string, signature, publicKey []byte) bool {
	return VerifySignature(MessageDigest(message), signature, publicKey)
}
