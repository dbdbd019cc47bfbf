package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NetworkID identifies the network an address belongs to. It is stored in
// the low nibble of the address header byte.
type NetworkID byte

const (
	NetworkTestnet NetworkID = 0
	NetworkMainnet NetworkID = 1
)

// Address HRP constants for bech32 encoding (CIP-5).
const (
	MainnetHRP = "addr"
	TestnetHRP = "addr_test"
)

// KeyHashSize is the length of a payment key hash in bytes.
const KeyHashSize = 28

// Header types (high nibble of the header byte).
const (
	HeaderBase       = 0x0
	HeaderPointer    = 0x4
	HeaderEnterprise = 0x6
	HeaderReward     = 0xe
)

// HRP returns the bech32 human-readable part used for this network.
func (n NetworkID) HRP() string {
	if n == NetworkMainnet {
		return MainnetHRP
	}
	return TestnetHRP
}

// String returns "mainnet" or "testnet".
func (n NetworkID) String() string {
	if n == NetworkMainnet {
		return "mainnet"
	}
	return "testnet"
}

// Address is a raw Shelley-style address: one header byte followed by
// the payment (and optional delegation) credential.
type Address []byte

// EnterpriseAddress builds a key-hash enterprise address (no stake part).
func EnterpriseAddress(network NetworkID, keyHash []byte) (Address, error) {
	if len(keyHash) != KeyHashSize {
		return nil, fmt.Errorf("key hash must be %d bytes, got %d", KeyHashSize, len(keyHash))
	}
	a := make(Address, 1+KeyHashSize)
	a[0] = HeaderEnterprise<<4 | byte(network&0x0f)
	copy(a[1:], keyHash)
	return a, nil
}

// Type returns the header type (high nibble).
func (a Address) Type() byte {
	if len(a) == 0 {
		return 0
	}
	return a[0] >> 4
}

// Network returns the network id encoded in the header.
func (a Address) Network() NetworkID {
	if len(a) == 0 {
		return NetworkTestnet
	}
	return NetworkID(a[0] & 0x0f)
}

// PaymentCredential returns the 28-byte credential following the header.
func (a Address) PaymentCredential() []byte {
	if len(a) < 1+KeyHashSize {
		return nil
	}
	out := make([]byte, KeyHashSize)
	copy(out, a[1:1+KeyHashSize])
	return out
}

// String returns the bech32-encoded address (e.g. "addr1...").
func (a Address) String() string {
	s, err := Bech32Encode(a.Network().HRP(), a)
	if err != nil {
		return a.Network().HRP() + ":" + hex.EncodeToString(a)
	}
	return s
}

// Hex returns the raw hex-encoded address bytes.
func (a Address) Hex() string {
	return hex.EncodeToString(a)
}

// Equal reports whether both addresses hold the same bytes.
func (a Address) Equal(b Address) bool {
	return a.Hex() == b.Hex()
}

// MarshalJSON encodes the address as a bech32 string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a bech32 address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = nil
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a bech32 Shelley address and checks that the HRP
// agrees with the network id in the header.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return nil, fmt.Errorf("empty address")
	}
	hrp, data, err := Bech32Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid bech32 address: %w", err)
	}
	if hrp != MainnetHRP && hrp != TestnetHRP {
		return nil, fmt.Errorf("unexpected address prefix %q", hrp)
	}
	if len(data) < 1+KeyHashSize {
		return nil, fmt.Errorf("address too short: %d bytes", len(data))
	}
	a := Address(data)
	if a.Network().HRP() != hrp {
		return nil, fmt.Errorf("address prefix %q does not match network id %d", hrp, a.Network())
	}
	return a, nil
}
