package wallet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

var testAD = []byte("MENASEAL1")

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", []byte("1,\"abandon about\",Wallet 1")},
		{"empty", []byte{}},
		{"large", bytes.Repeat([]byte{0xa5}, 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encrypt(tt.data, []byte("pass"), testAD, fastParams())
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			dec, err := Decrypt(enc, []byte("pass"), testAD)
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(dec, tt.data) {
				t.Errorf("decrypted = %x, want %x", dec, tt.data)
			}
		})
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	enc, err := Encrypt([]byte("secret"), []byte("correct"), testAD, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(enc, []byte("wrong"), testAD); !errors.Is(err, ErrDecrypt) {
		t.Errorf("Decrypt() error = %v, want ErrDecrypt", err)
	}
}

func TestDecrypt_WrongAssociatedData(t *testing.T) {
	enc, err := Encrypt([]byte("secret"), []byte("pass"), testAD, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if _, err := Decrypt(enc, []byte("pass"), []byte("OTHER")); err == nil {
		t.Error("Decrypt with different associated data should fail")
	}
}

func TestDecrypt_Corrupted(t *testing.T) {
	if _, err := Decrypt([]byte("too short"), []byte("pass"), nil); err == nil {
		t.Error("Decrypt with truncated data should fail")
	}

	enc, err := Encrypt([]byte("data"), []byte("pass"), nil, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	enc[len(enc)-1] ^= 0xFF
	if _, err := Decrypt(enc, []byte("pass"), nil); err == nil {
		t.Error("Decrypt with corrupted tag should fail")
	}
}

func TestDecrypt_HostileParams(t *testing.T) {
	enc, err := Encrypt([]byte("data"), []byte("pass"), nil, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	binary.LittleEndian.PutUint32(enc[SaltSize:], 0xffffffff)
	if _, err := Decrypt(enc, []byte("pass"), nil); err == nil {
		t.Error("Decrypt should reject out-of-range memory cost")
	}
}

func TestEncrypt_InvalidParams(t *testing.T) {
	if _, err := Encrypt([]byte("d"), []byte("p"), nil, EncryptionParams{}); err == nil {
		t.Error("Encrypt with zero params should fail")
	}
}

func TestEncrypt_DifferentEachTime(t *testing.T) {
	enc1, err := Encrypt([]byte("same"), []byte("pass"), nil, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	enc2, err := Encrypt([]byte("same"), []byte("pass"), nil, fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}
	if bytes.Equal(enc1, enc2) {
		t.Error("encrypting twice should produce different output")
	}
	if got := len(enc1); got != headerSize+24+len("same")+16 {
		t.Errorf("encrypted length = %d", got)
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.Parallelism != 4 {
		t.Errorf("DefaultParams() = %+v", p)
	}
	if err := p.validate(); err != nil {
		t.Errorf("DefaultParams() invalid: %v", err)
	}
}
