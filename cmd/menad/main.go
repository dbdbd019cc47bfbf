// MENA relay daemon. Serves the consolidation relay and wallet template
// endpoints in front of the reward registry.
//
// Usage:
//
//	menad [--relay-port=3000 --registry-url=https://...] Run relay
//	menad --help                                          Show help
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/OpTi9/MENA/config"
	klog "github.com/OpTi9/MENA/internal/log"
	"github.com/OpTi9/MENA/internal/relay"
)

func main() {
	cfg, flags, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flags.Help {
		config.PrintUsage(os.Stdout)
		return
	}
	if flags.Version {
		fmt.Printf("menad %s\n", config.Version)
		return
	}

	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	klog.Info().
		Str("version", config.Version).
		Str("network", string(cfg.Network)).
		Str("datadir", cfg.DataDir).
		Msg("Starting menad")

	srv := relay.New(cfg.RelayListenAddr(), cfg.Relay)
	if err := srv.Start(); err != nil {
		klog.Error().Err(err).Msg("Failed to start relay")
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	klog.Info().Str("signal", sig.String()).Msg("Shutting down")

	if err := srv.Stop(); err != nil {
		klog.Error().Err(err).Msg("Relay shutdown failed")
		os.Exit(1)
	}
}
