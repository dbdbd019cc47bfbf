package walletfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpTi9/MENA/internal/wallet"
	"github.com/OpTi9/MENA/pkg/types"
)

// SealMagic prefixes password-sealed wallet files.
const SealMagic = "MENASEAL1"

// maxFileSize bounds wallet files read from disk.
const maxFileSize = 16 << 20

// ErrPasswordRequired is returned when a sealed file is loaded without a
// password source.
var ErrPasswordRequired = errors.New("wallet file is sealed: password required")

// PasswordFunc supplies the password for a sealed file. The returned slice
// is zeroed after use.
type PasswordFunc func() ([]byte, error)

// IsSealed reports whether data is a sealed wallet file.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(SealMagic))
}

// Seal encrypts a plain wallet list with password.
func Seal(plain, password []byte, params wallet.EncryptionParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("password is empty")
	}
	enc, err := wallet.Encrypt(plain, password, []byte(SealMagic), params)
	if err != nil {
		return nil, fmt.Errorf("seal wallet file: %w", err)
	}
	return append([]byte(SealMagic), enc...), nil
}

// Unseal decrypts a sealed wallet file.
func Unseal(data, password []byte) ([]byte, error) {
	if !IsSealed(data) {
		return nil, fmt.Errorf("not a sealed wallet file")
	}
	plain, err := wallet.Decrypt(data[len(SealMagic):], password, []byte(SealMagic))
	if err != nil {
		return nil, fmt.Errorf("unseal wallet file: %w", err)
	}
	return plain, nil
}

// Load reads a plain or sealed wallet list from path. password is only
// called for sealed files.
func Load(path string, password PasswordFunc) ([]types.WalletInput, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if !IsSealed(data) {
		return Parse(bytes.NewReader(data))
	}
	if password == nil {
		return nil, ErrPasswordRequired
	}

	pw, err := password()
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	plain, err := Unseal(data, pw)
	clear(pw)
	if err != nil {
		return nil, err
	}
	defer clear(plain)
	return Parse(bytes.NewReader(plain))
}

// SealFile encrypts the plain wallet list at src and writes it to dst.
func SealFile(src, dst string, password []byte, params wallet.EncryptionParams) error {
	plain, err := readFile(src)
	if err != nil {
		return err
	}
	defer clear(plain)
	if IsSealed(plain) {
		return fmt.Errorf("%s is already sealed", src)
	}
	if _, err := Parse(bytes.NewReader(plain)); err != nil {
		return err
	}

	sealed, err := Seal(plain, password, params)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, sealed, 0600); err != nil {
		return fmt.Errorf("write sealed file: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read wallet file: %w", err)
	}
	if len(data) > maxFileSize {
		return nil, fmt.Errorf("wallet file exceeds %d bytes", maxFileSize)
	}
	return data, nil
}
