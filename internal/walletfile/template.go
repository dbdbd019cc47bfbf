// Package walletfile reads and writes the CSV wallet lists fed to a
// consolidation batch, in plain or password-sealed form.
package walletfile

import (
	"bytes"
	"fmt"
	"io"
)

// Template constants.
const (
	TemplateHeader     = "WalletNumber,MnemonicPhrase,WalletName"
	TemplateFilename   = "scavenger_consolidation_template.csv"
	MaxTemplateWallets = 1000
)

// WriteTemplate writes a blank wallet list with count rows.
func WriteTemplate(w io.Writer, count int) error {
	if count < 1 || count > MaxTemplateWallets {
		return fmt.Errorf("wallet count must be between 1 and %d, got %d", MaxTemplateWallets, count)
	}
	if _, err := io.WriteString(w, TemplateHeader+"\n"); err != nil {
		return err
	}
	for i := 1; i <= count; i++ {
		if _, err := fmt.Fprintf(w, "%d,\"\",\"Wallet %d\"\n", i, i); err != nil {
			return err
		}
	}
	return nil
}

// Template returns a blank wallet list with count rows.
func Template(count int) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf, count); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
