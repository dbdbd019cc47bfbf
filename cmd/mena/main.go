// mena is the command-line client for batch consolidation of donor wallets.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/OpTi9/MENA/config"
	klog "github.com/OpTi9/MENA/internal/log"
	"golang.org/x/term"
)

// globals holds the flags accepted before the subcommand.
type globals struct {
	relayURL string
	dataDir  string
	network  string
	logLevel string
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var g globals
	args := os.Args[1:]
	for len(args) > 0 {
		name, value, rest, ok := globalFlag(args)
		if !ok {
			break
		}
		switch name {
		case "relay":
			g.relayURL = value
		case "datadir":
			g.dataDir = value
		case "network":
			g.network = value
		case "testnet":
			g.network = string(config.Testnet)
		case "log-level":
			g.logLevel = value
		}
		args = rest
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "help", "--help", "-h":
		usage()
		return
	case "version", "--version":
		fmt.Printf("mena %s\n", config.Version)
		return
	case "template":
		cmdTemplate(cmdArgs)
		return
	case "seal":
		cmdSeal(cmdArgs)
		return
	}

	cfg := loadConfig(g)

	switch cmd {
	case "derive":
		cmdDerive(cfg, cmdArgs)
	case "consolidate":
		cmdConsolidate(cfg, cmdArgs)
	case "results":
		cmdResults(cfg, cmdArgs)
	case "runs":
		cmdRuns(cfg, cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

// globalFlag consumes one leading global flag from args.
func globalFlag(args []string) (name, value string, rest []string, ok bool) {
	arg := args[0]
	if arg == "--testnet" {
		return "testnet", "", args[1:], true
	}
	for _, n := range []string{"relay", "datadir", "network", "log-level"} {
		switch {
		case arg == "--"+n && len(args) > 1:
			return n, args[1], args[2:], true
		case strings.HasPrefix(arg, "--"+n+"="):
			return n, arg[len("--"+n+"="):], args[1:], true
		}
	}
	return "", "", args, false
}

func loadConfig(g globals) *config.Config {
	cfg, err := config.LoadFromFile(g.dataDir, config.NetworkType(g.network))
	if err != nil {
		fatal("load config: %v", err)
	}
	if g.relayURL != "" {
		cfg.Client.RelayURL = g.relayURL
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}
	return cfg
}

// providerNote describes the limits of the built-in key provider.
const providerNote = `Key derivation:
  derive and consolidate use the built-in secp256k1 provider (BIP-32 path
  m/1852'/1815'/0'/0/0, Schnorr over BLAKE3). Its addresses and signatures
  are NOT CIP-1852/CIP-8 compatible: they differ from what a Cardano wallet
  derives for the same phrase and are not accepted by the live registry.
`

func usage() {
	printUsage(os.Stderr)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: mena [global flags] <command> [flags]

Global flags:
  --relay <url>        Relay endpoint (default: http://127.0.0.1:3000)
  --datadir <path>     Data directory (default: ~/.mena)
  --network <net>      mainnet (default) or testnet
  --testnet            Shorthand for --network testnet
  --log-level <lvl>    debug, info, warn or error

Commands:
  template --count <n> [--out <file>]
                                  Write a blank wallet CSV for n wallets
  derive [--mnemonic "..."] [--recipient <addr>]
                                  Show the donor address of a phrase
  seal --in <file.csv> --out <file>
                                  Encrypt a filled wallet CSV with a password
  consolidate --wallets <file> --recipient <addr> [--no-journal]
                                  Consolidate every wallet into recipient
  results [<run-id>] [--json]     Show the results of a run (default: latest)
  runs [--delete <run-id>]        List recorded runs

`)
	fmt.Fprint(w, providerNote)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
