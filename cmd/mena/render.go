package main

import (
	"fmt"
	"io"

	"github.com/OpTi9/MENA/internal/batch"
	"github.com/OpTi9/MENA/pkg/types"
)

// badge returns the status label shown next to a wallet.
func badge(s types.Status) string {
	switch s {
	case types.StatusSuccess:
		return "✓ Success"
	case types.StatusError:
		return "✗ Error"
	default:
		return "⏳ Pending"
	}
}

// shortAddress keeps the first 20 and last 10 characters of addr.
func shortAddress(addr string) string {
	if len(addr) <= 30 {
		return addr
	}
	return addr[:20] + "..." + addr[len(addr)-10:]
}

func printResult(w io.Writer, r types.WalletResult) {
	fmt.Fprintf(w, "Wallet %s: %s  [%s]\n", r.WalletNumber, r.WalletName, badge(r.Status))
	if r.DonorAddress != "" {
		fmt.Fprintf(w, "  %s\n", shortAddress(r.DonorAddress))
	}
	if detail := r.Detail(); detail != "" {
		fmt.Fprintf(w, "  %s\n", detail)
	}
	if r.Status == types.StatusSuccess && r.SolutionsConsolidated > 0 {
		fmt.Fprintf(w, "  Solutions consolidated: %d\n", r.SolutionsConsolidated)
	}
}

func printSummary(w io.Writer, results []types.WalletResult) {
	ok := batch.Succeeded(results)
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d solutions consolidated\n",
		ok, len(results)-ok, batch.TotalSolutions(results))
}
