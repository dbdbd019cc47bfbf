package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/OpTi9/MENA/config"
	"github.com/OpTi9/MENA/internal/batch"
	"github.com/OpTi9/MENA/internal/journal"
	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/OpTi9/MENA/internal/registry"
	"github.com/OpTi9/MENA/internal/wallet"
	"github.com/OpTi9/MENA/internal/walletfile"
	"github.com/OpTi9/MENA/pkg/types"
)

// ── consolidate ─────────────────────────────────────────────────────────

func cmdConsolidate(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("consolidate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: mena consolidate --wallets <file> --recipient <addr> [--no-journal]")
		fs.PrintDefaults()
		fmt.Fprint(fs.Output(), "\n"+providerNote)
	}
	walletsPath := fs.String("wallets", "", "Wallet CSV (plain or sealed)")
	recipient := fs.String("recipient", "", "Address that receives the rewards")
	noJournal := fs.Bool("no-journal", false, "Do not record results in the journal")
	fs.Parse(args)

	if *recipient == "" || *walletsPath == "" {
		fatal("Usage: mena consolidate --wallets <file> --recipient <addr>")
	}
	if _, err := types.ParseAddress(*recipient); err != nil {
		fatal("invalid recipient: %v", err)
	}

	wallets, err := walletfile.Load(*walletsPath, func() ([]byte, error) {
		return readPassword("Wallet file password: ")
	})
	if err != nil {
		fatal("load wallets: %v", err)
	}
	if len(wallets) == 0 {
		fatal("no wallets with a recovery phrase in %s", *walletsPath)
	}

	client := registry.NewWithTimeout(cfg.Client.RelayURL, cfg.Client.Timeout)
	adapter := wallet.NewAdapter(wallet.HDKeyProvider{Network: cfg.Network.NetworkID()})
	orch := batch.New(adapter, client)

	printed := 0
	sink := func(results []types.WalletResult) {
		for ; printed < len(results); printed++ {
			printResult(os.Stdout, results[printed])
		}
	}

	if cfg.Journal.Enabled && !*noJournal {
		store, err := journal.Open(cfg.JournalDir())
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		run, err := store.Begin(*recipient, filepath.Base(*walletsPath), len(wallets))
		if err != nil {
			fatal("start run: %v", err)
		}
		orch.SetLogger(klog.WithRun(run.ID))
		record := store.Sink(run.ID)
		show := sink
		sink = func(results []types.WalletResult) {
			record(results)
			show(results)
		}
		fmt.Printf("Run %s\n", run.ID)
	}

	fmt.Printf("Consolidating %d wallets into %s via %s\n\n", len(wallets), *recipient, client.Endpoint())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := orch.Run(ctx, wallets, *recipient, sink)
	if errors.Is(err, context.Canceled) {
		fmt.Printf("\nInterrupted after %d of %d wallets.\n", len(results), len(wallets))
	} else if err != nil {
		fatal("consolidate: %v", err)
	}
	printSummary(os.Stdout, results)
}

// ── results ─────────────────────────────────────────────────────────────

func cmdResults(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "Print results as JSON")
	fs.Parse(args)

	store, err := journal.Open(cfg.JournalDir())
	if err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	var run journal.Run
	if fs.NArg() > 0 {
		run, err = store.Run(fs.Arg(0))
	} else {
		run, err = store.Latest()
	}
	if err != nil {
		fatal("%v", err)
	}
	results, err := store.Results(run.ID)
	if err != nil {
		fatal("read results: %v", err)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(struct {
			Run     journal.Run          `json:"run"`
			Results []types.WalletResult `json:"results"`
		}{run, results})
		return
	}

	fmt.Printf("Run %s  %s  recipient %s\n\n", run.ID, run.Started.Local().Format("2006-01-02 15:04:05"), run.Recipient)
	for _, r := range results {
		printResult(os.Stdout, r)
	}
	if !run.Done() {
		fmt.Printf("\n%d of %d wallets were processed.\n", run.Processed, run.Wallets)
	}
	printSummary(os.Stdout, results)
}

// ── runs ────────────────────────────────────────────────────────────────

func cmdRuns(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	del := fs.String("delete", "", "Delete the run with this id")
	fs.Parse(args)

	store, err := journal.Open(cfg.JournalDir())
	if err != nil {
		fatal("%v", err)
	}
	defer store.Close()

	if *del != "" {
		if err := store.Delete(*del); err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Deleted run %s\n", *del)
		return
	}

	runs, err := store.Runs()
	if err != nil {
		fatal("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  %3d/%-3d ok %-3d solutions %-5d %s\n",
			r.ID, r.Started.Local().Format("2006-01-02 15:04"),
			r.Processed, r.Wallets, r.Succeeded, r.Solutions, r.Source)
	}
}
