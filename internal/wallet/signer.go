package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/OpTi9/MENA/pkg/crypto"
	"github.com/OpTi9/MENA/pkg/types"
)

// SigningError reports a failure to derive a key or produce a usable
// signature for a donor wallet.
type SigningError struct {
	Op  string
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// SignatureResult is what a key returns from SignData: either a bare
// signature string or a structured value carrying the signature.
type SignatureResult interface {
	signatureResult()
}

// RawSignature is a signature returned as a plain string.
type RawSignature string

// StructuredSignature is a signature returned together with the public key.
type StructuredSignature struct {
	Signature string `json:"signature"`
	Key       string `json:"key,omitempty"`
}

func (RawSignature) signatureResult()        {}
func (StructuredSignature) signatureResult() {}

// NormalizeSignature extracts the signature string from a SignatureResult.
// Anything without a non-empty signature is a SigningError.
func NormalizeSignature(res SignatureResult) (string, error) {
	switch v := res.(type) {
	case RawSignature:
		if v != "" {
			return string(v), nil
		}
	case StructuredSignature:
		if v.Signature != "" {
			return v.Signature, nil
		}
	case *StructuredSignature:
		if v != nil && v.Signature != "" {
			return v.Signature, nil
		}
	}
	return "", &SigningError{Op: "normalize signature", Err: fmt.Errorf("unexpected signature shape %T", res)}
}

// Key is a wallet-capable key bound to one recovery phrase.
type Key interface {
	// ChangeAddress returns the address that signs claims.
	ChangeAddress() (string, error)
	// SignData signs message with the key behind address.
	SignData(message, address string) (SignatureResult, error)
	// Zero clears all key material.
	Zero()
}

// KeyProvider builds Keys from recovery phrases.
type KeyProvider interface {
	NewKey(words []string) (Key, error)
}

// HDKeyProvider derives keys on the BIP-39/BIP-32 secp256k1 stack.
type HDKeyProvider struct {
	Network types.NetworkID
}

// NewKey validates the phrase and derives the first payment key.
func (p HDKeyProvider) NewKey(words []string) (Key, error) {
	phrase := JoinMnemonic(words)
	seed, err := SeedFromMnemonic(phrase, "")
	if err != nil {
		return nil, err
	}
	defer zeroBytes(seed)

	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	defer master.Zero()

	child, err := master.DerivePayment(0, RoleExternal, 0)
	if err != nil {
		return nil, err
	}
	addr, err := child.Address(p.Network)
	if err != nil {
		child.Zero()
		return nil, fmt.Errorf("derive address: %w", err)
	}
	priv, err := child.PrivateKey()
	child.Zero()
	if err != nil {
		return nil, err
	}
	return &hdKey{priv: priv, addr: addr}, nil
}

type hdKey struct {
	priv *crypto.PrivateKey
	addr types.Address
}

func (k *hdKey) ChangeAddress() (string, error) {
	return k.addr.String(), nil
}

func (k *hdKey) SignData(message, address string) (SignatureResult, error) {
	if address != k.addr.String() {
		return nil, fmt.Errorf("address %s does not belong to this key", address)
	}
	sig, err := k.priv.SignMessage(message)
	if err != nil {
		return nil, err
	}
	return StructuredSignature{
		Signature: hex.EncodeToString(sig),
		Key:       hex.EncodeToString(k.priv.PublicKey()),
	}, nil
}

func (k *hdKey) Zero() {
	k.priv.Zero()
}

// Adapter turns recovery phrases into signing identities.
type Adapter struct {
	provider KeyProvider
}

// NewAdapter creates an Adapter backed by provider.
func NewAdapter(provider KeyProvider) *Adapter {
	return &Adapter{provider: provider}
}

// Open derives the signing identity for words. The caller must Close it.
func (a *Adapter) Open(words []string) (*SigningIdentity, error) {
	if JoinMnemonic(words) == "" {
		return nil, &SigningError{Op: "open wallet", Err: ErrEmptyMnemonic}
	}
	key, err := a.provider.NewKey(words)
	if err != nil {
		var se *SigningError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, &SigningError{Op: "open wallet", Err: err}
	}
	addr, err := key.ChangeAddress()
	if err != nil {
		key.Zero()
		return nil, &SigningError{Op: "derive address", Err: err}
	}
	if addr == "" {
		key.Zero()
		return nil, &SigningError{Op: "derive address", Err: errors.New("empty address")}
	}
	return &SigningIdentity{key: key, address: addr}, nil
}

// SigningIdentity holds the key material of one donor wallet for the
// duration of a single claim.
type SigningIdentity struct {
	key     Key
	address string
	closed  bool
}

// Address returns the donor address.
func (s *SigningIdentity) Address() string {
	return s.address
}

// Sign signs message and returns the normalized signature string.
func (s *SigningIdentity) Sign(message string) (string, error) {
	if s.closed {
		return "", &SigningError{Op: "sign", Err: errors.New("identity is closed")}
	}
	res, err := s.key.SignData(message, s.address)
	if err != nil {
		return "", &SigningError{Op: "sign", Err: err}
	}
	return NormalizeSignature(res)
}

// Close zeroes the key material. It is safe to call more than once.
func (s *SigningIdentity) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.key.Zero()
}
