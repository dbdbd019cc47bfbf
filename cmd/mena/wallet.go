package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/OpTi9/MENA/config"
	"github.com/OpTi9/MENA/internal/wallet"
	"github.com/OpTi9/MENA/internal/walletfile"
	"github.com/OpTi9/MENA/pkg/types"
)

// ── template ────────────────────────────────────────────────────────────

func cmdTemplate(args []string) {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	count := fs.Int("count", 0, "Number of wallets (1-1000)")
	out := fs.String("out", "", "Output file (default: stdout)")
	fs.Parse(args)

	if *count == 0 {
		fatal("Usage: mena template --count <n> [--out <file>]")
	}
	data, err := walletfile.Template(*count)
	if err != nil {
		fatal("%v", err)
	}

	if *out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*out, data, 0600); err != nil {
		fatal("write template: %v", err)
	}
	fmt.Printf("Template for %d wallets written to %s\n", *count, *out)
}

// ── derive ──────────────────────────────────────────────────────────────

func cmdDerive(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: mena derive [--mnemonic \"...\"] [--recipient <addr>]")
		fs.PrintDefaults()
		fmt.Fprint(fs.Output(), "\n"+providerNote)
	}
	mnemonic := fs.String("mnemonic", "", "Recovery phrase (prompted when omitted)")
	recipient := fs.String("recipient", "", "Also sign the claim for this recipient")
	fs.Parse(args)

	phrase := []byte(*mnemonic)
	if len(phrase) == 0 {
		var err error
		phrase, err = readPassword("Recovery phrase: ")
		if err != nil {
			fatal("read phrase: %v", err)
		}
	}

	adapter := wallet.NewAdapter(wallet.HDKeyProvider{Network: cfg.Network.NetworkID()})
	id, err := adapter.Open(strings.Fields(string(phrase)))
	for i := range phrase {
		phrase[i] = 0
	}
	if err != nil {
		fatal("%v", err)
	}
	defer id.Close()

	fmt.Printf("Network: %s\n", cfg.Network)
	fmt.Printf("Address: %s\n", id.Address())

	if *recipient == "" {
		return
	}
	if _, err := types.ParseAddress(*recipient); err != nil {
		fatal("invalid recipient: %v", err)
	}
	message := types.ClaimMessage(*recipient)
	sig, err := id.Sign(message)
	if err != nil {
		fatal("%v", err)
	}
	fmt.Printf("Message:   %s\n", message)
	fmt.Printf("Signature: %s\n", sig)
}

// ── seal ────────────────────────────────────────────────────────────────

func cmdSeal(args []string) {
	fs := flag.NewFlagSet("seal", flag.ExitOnError)
	in := fs.String("in", "", "Plain wallet CSV")
	out := fs.String("out", "", "Sealed output file")
	fs.Parse(args)

	if *in == "" || *out == "" {
		fatal("Usage: mena seal --in <file.csv> --out <file>")
	}
	if *in == *out {
		fatal("--in and --out must differ")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if !bytes.Equal(password, confirm) {
		fatal("passwords do not match")
	}
	if len(password) == 0 {
		fatal("password must not be empty")
	}

	if err := walletfile.SealFile(*in, *out, password, wallet.DefaultParams()); err != nil {
		fatal("seal: %v", err)
	}
	fmt.Printf("Sealed wallet file written to %s\n", *out)
	fmt.Println("The plain CSV still holds every recovery phrase; delete it once the sealed copy is verified.")
}
