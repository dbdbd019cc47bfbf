package wallet

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP-39 test vector: "abandon" x11 + "about", passphrase "TREZOR".
	seed, err := SeedFromMnemonic(testMnemonic12, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}

	want, _ := hex.DecodeString("c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04")
	if !bytes.Equal(seed, want) {
		t.Errorf("seed = %x, want %x", seed, want)
	}
}

func TestSeedFromMnemonic_PassphraseChanges(t *testing.T) {
	seed1, err := SeedFromMnemonic(testMnemonic12, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	seed2, err := SeedFromMnemonic(testMnemonic12, "my passphrase")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if len(seed1) != SeedSize {
		t.Errorf("seed length = %d, want %d", len(seed1), SeedSize)
	}
	if bytes.Equal(seed1, seed2) {
		t.Error("different passphrases should produce different seeds")
	}
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	for _, m := range []string{"", "not valid words here"} {
		if _, err := SeedFromMnemonic(m, ""); err == nil {
			t.Errorf("SeedFromMnemonic(%q) should fail", m)
		}
	}
}
