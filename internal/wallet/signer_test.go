package wallet

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/OpTi9/MENA/pkg/crypto"
	"github.com/OpTi9/MENA/pkg/types"
)

func words(s string) []string { return strings.Fields(s) }

func TestAdapter_OpenAndSign(t *testing.T) {
	adapter := NewAdapter(HDKeyProvider{Network: types.NetworkMainnet})

	id, err := adapter.Open(words(testMnemonic24))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer id.Close()

	if _, err := types.ParseAddress(id.Address()); err != nil {
		t.Fatalf("Address() %q is not parseable: %v", id.Address(), err)
	}

	msg := types.ClaimMessage("addr1recipient")
	sigHex, err := id.Sign(msg)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		t.Fatalf("signature is not hex: %v", err)
	}

	// Recover the public key through a fresh key to verify.
	key, err := HDKeyProvider{Network: types.NetworkMainnet}.NewKey(words(testMnemonic24))
	if err != nil {
		t.Fatalf("NewKey() error: %v", err)
	}
	res, err := key.SignData(msg, id.Address())
	if err != nil {
		t.Fatalf("SignData() error: %v", err)
	}
	pub, _ := hex.DecodeString(res.(StructuredSignature).Key)
	if !crypto.VerifyMessage(msg, sig, pub) {
		t.Error("signature does not verify")
	}
}

func TestAdapter_Deterministic(t *testing.T) {
	adapter := NewAdapter(HDKeyProvider{Network: types.NetworkMainnet})
	a, err := adapter.Open(words(testMnemonic12))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer a.Close()
	b, err := adapter.Open(words(strings.ToUpper(testMnemonic12)))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer b.Close()

	if a.Address() != b.Address() {
		t.Errorf("addresses differ: %s vs %s", a.Address(), b.Address())
	}

	c, err := adapter.Open(words(testMnemonic24))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer c.Close()
	if a.Address() == c.Address() {
		t.Error("different mnemonics gave the same address")
	}
}

func TestAdapter_Network(t *testing.T) {
	main, err := NewAdapter(HDKeyProvider{Network: types.NetworkMainnet}).Open(words(testMnemonic12))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer main.Close()
	test, err := NewAdapter(HDKeyProvider{Network: types.NetworkTestnet}).Open(words(testMnemonic12))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer test.Close()

	if !strings.HasPrefix(main.Address(), "addr1") || !strings.HasPrefix(test.Address(), "addr_test1") {
		t.Errorf("unexpected prefixes: %s, %s", main.Address(), test.Address())
	}
}

func TestAdapter_OpenErrors(t *testing.T) {
	adapter := NewAdapter(HDKeyProvider{Network: types.NetworkMainnet})
	tests := []struct {
		name  string
		words []string
	}{
		{"nil", nil},
		{"blank words", []string{"", " "}},
		{"bad checksum", words(strings.Repeat("abandon ", 12))},
		{"bad count", words("abandon abandon abandon")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := adapter.Open(tt.words)
			var se *SigningError
			if !errors.As(err, &se) {
				t.Fatalf("Open() error = %v, want *SigningError", err)
			}
		})
	}

	_, err := adapter.Open(nil)
	if !errors.Is(err, ErrEmptyMnemonic) {
		t.Errorf("Open(nil) error = %v, want ErrEmptyMnemonic", err)
	}
}

func TestSigningIdentity_Close(t *testing.T) {
	id, err := NewAdapter(HDKeyProvider{}).Open(words(testMnemonic12))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	id.Close()
	id.Close()
	if _, err := id.Sign("m"); err == nil {
		t.Error("Sign() after Close() should fail")
	}
}

func TestSignData_ForeignAddress(t *testing.T) {
	key, err := HDKeyProvider{}.NewKey(words(testMnemonic12))
	if err != nil {
		t.Fatalf("NewKey() error: %v", err)
	}
	defer key.Zero()
	if _, err := key.SignData("m", "addr_test1other"); err == nil {
		t.Error("SignData() with a foreign address should fail")
	}
}

func TestNormalizeSignature(t *testing.T) {
	tests := []struct {
		name string
		in   SignatureResult
		want string
		ok   bool
	}{
		{"raw", RawSignature("abcd"), "abcd", true},
		{"structured", StructuredSignature{Signature: "ef01", Key: "k"}, "ef01", true},
		{"structured pointer", &StructuredSignature{Signature: "ef02"}, "ef02", true},
		{"empty raw", RawSignature(""), "", false},
		{"empty structured", StructuredSignature{Key: "k"}, "", false},
		{"nil pointer", (*StructuredSignature)(nil), "", false},
		{"nil", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSignature(tt.in)
			if tt.ok {
				if err != nil || got != tt.want {
					t.Errorf("NormalizeSignature() = %q, %v; want %q", got, err, tt.want)
				}
				return
			}
			var se *SigningError
			if !errors.As(err, &se) {
				t.Errorf("NormalizeSignature() error = %v, want *SigningError", err)
			}
		})
	}
}

// rawKey is a Key that returns bare signature strings.
type rawKey struct {
	zeroed bool
	sig    SignatureResult
}

func (k *rawKey) ChangeAddress() (string, error) { return "addr_test1raw", nil }
func (k *rawKey) SignData(string, string) (SignatureResult, error) {
	return k.sig, nil
}
func (k *rawKey) Zero() { k.zeroed = true }

type rawProvider struct{ key *rawKey }

func (p rawProvider) NewKey([]string) (Key, error) { return p.key, nil }

func TestSigningIdentity_CustomProvider(t *testing.T) {
	key := &rawKey{sig: RawSignature("84a201")}
	id, err := NewAdapter(rawProvider{key}).Open([]string{"anything"})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	sig, err := id.Sign("m")
	if err != nil || sig != "84a201" {
		t.Errorf("Sign() = %q, %v", sig, err)
	}
	id.Close()
	if !key.zeroed {
		t.Error("Close() did not zero the key")
	}

	key = &rawKey{sig: nil}
	id, err = NewAdapter(rawProvider{key}).Open([]string{"anything"})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer id.Close()
	if _, err := id.Sign("m"); err == nil {
		t.Error("Sign() with a nil result should fail")
	}
}
