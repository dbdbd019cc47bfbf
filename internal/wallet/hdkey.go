package wallet

import (
	"fmt"

	"github.com/OpTi9/MENA/pkg/crypto"
	"github.com/OpTi9/MENA/pkg/types"
	"github.com/tyler-smith/go-bip32"
)

// CIP-1852 derivation path constants.
// Full path: m/1852'/1815'/account'/role/index
const (
	PurposeCIP1852 = bip32.FirstHardenedChild + 1852
	CoinTypeADA    = bip32.FirstHardenedChild + 1815

	// RoleExternal is the payment (receiving) chain.
	RoleExternal = 0
	// RoleInternal is the change chain.
	RoleInternal = 1
)

// HDKey represents a hierarchical deterministic key (BIP-32).
type HDKey struct {
	key *bip32.Key
}

// NewMasterKey creates a master HD key from a 64-byte seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	return &HDKey{key: master}, nil
}

// DeriveChild derives a child key at the given index.
// For hardened derivation, add bip32.FirstHardenedChild to the index.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	child, err := k.key.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child}, nil
}

// DerivePath derives a key along a sequence of indices. Intermediate keys
// are zeroed once their child exists.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		if current != k {
			current.Zero()
		}
		current = child
	}
	return current, nil
}

// DerivePayment derives the key at m/1852'/1815'/account'/role/index.
func (k *HDKey) DerivePayment(account, role, index uint32) (*HDKey, error) {
	return k.DerivePath(
		PurposeCIP1852,
		CoinTypeADA,
		bip32.FirstHardenedChild+account,
		role,
		index,
	)
}

// PrivateKeyBytes returns the raw 32-byte private key.
// Returns nil if this is a public-only key.
func (k *HDKey) PrivateKeyBytes() []byte {
	if !k.key.IsPrivate {
		return nil
	}
	// bip32 stores private keys with a leading zero byte.
	raw := k.key.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}

// PublicKeyBytes returns the compressed 33-byte public key.
func (k *HDKey) PublicKeyBytes() []byte {
	return k.key.PublicKey().Key
}

// PrivateKey returns a Schnorr signing key for this HD key.
func (k *HDKey) PrivateKey() (*crypto.PrivateKey, error) {
	priv := k.PrivateKeyBytes()
	if priv == nil {
		return nil, fmt.Errorf("cannot create signer from public key")
	}
	return crypto.PrivateKeyFromBytes(priv)
}

// Address returns the enterprise address of this key on network.
func (k *HDKey) Address(network types.NetworkID) (types.Address, error) {
	return types.EnterpriseAddress(network, crypto.KeyHash(k.PublicKeyBytes()))
}

// IsPrivate returns true if this key contains a private key.
func (k *HDKey) IsPrivate() bool {
	return k.key.IsPrivate
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.key.Depth
}

// Zero clears the key and chain code.
func (k *HDKey) Zero() {
	if k == nil || k.key == nil {
		return
	}
	zeroBytes(k.key.Key)
	zeroBytes(k.key.ChainCode)
}
