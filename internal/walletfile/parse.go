package walletfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/OpTi9/MENA/pkg/types"
)

// Parse reads a wallet list. The first non-blank line is the header and
// is skipped, as are blank lines and rows without a mnemonic. A missing
// wallet name defaults to "Wallet <n>", n being the row's position after
// the header. Only whitespace lines are blank; a row of empty fields such
// as ",," still takes a position.
func Parse(r io.Reader) ([]types.WalletInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		wallets []types.WalletInput
		row     = -1
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read wallet list: %w", err)
		}
		if blank(rec) {
			continue
		}
		row++
		if row == 0 || len(rec) < 2 {
			continue
		}

		mnemonic := clean(rec[1])
		if mnemonic == "" {
			continue
		}
		name := ""
		if len(rec) > 2 {
			name = clean(rec[2])
		}
		if name == "" {
			name = fmt.Sprintf("Wallet %d", row)
		}
		wallets = append(wallets, types.WalletInput{
			WalletNumber: strings.TrimSpace(rec[0]),
			Mnemonic:     strings.Fields(mnemonic),
			WalletName:   name,
		})
	}
	return wallets, nil
}

func clean(field string) string {
	return strings.TrimSpace(strings.ReplaceAll(field, `"`, ""))
}

// blank reports whether rec came from a line holding only whitespace.
func blank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}
