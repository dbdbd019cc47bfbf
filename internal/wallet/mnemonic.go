// Package wallet derives donor signing identities from recovery phrases.
package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// ErrEmptyMnemonic is returned when a wallet has no recovery phrase.
var ErrEmptyMnemonic = errors.New("mnemonic is empty")

// JoinMnemonic normalizes a word list into a single space-separated,
// lower-case phrase.
func JoinMnemonic(words []string) string {
	var out []string
	for _, w := range words {
		out = append(out, strings.Fields(strings.ToLower(w))...)
	}
	return strings.Join(out, " ")
}

// ValidateMnemonic checks word count, word list membership and checksum.
func ValidateMnemonic(mnemonic string) error {
	words := strings.Fields(mnemonic)
	switch len(words) {
	case 0:
		return ErrEmptyMnemonic
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("mnemonic has %d words, want 12, 15, 18, 21 or 24", len(words))
	}
	if _, err := bip39.EntropyFromMnemonic(strings.Join(words, " ")); err != nil {
		return fmt.Errorf("invalid mnemonic: %w", err)
	}
	return nil
}

// IsMnemonicValid reports whether mnemonic passes ValidateMnemonic.
func IsMnemonicValid(mnemonic string) bool {
	return ValidateMnemonic(mnemonic) == nil
}
