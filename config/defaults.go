package config

import (
	"net"
	"strconv"
	"time"
)

// Default endpoints.
const (
	DefaultRegistryURL = "https://scavenger.prod.gd.midnighttge.io"
	DefaultUserAgent   = "ScavengerMine-Consolidation-Tool/1.0"
)

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		Relay: RelayConfig{
			Addr:        "127.0.0.1",
			Port:        3000,
			AllowedIPs:  []string{"127.0.0.1"},
			RegistryURL: DefaultRegistryURL,
			UserAgent:   DefaultUserAgent,
			Timeout:     30 * time.Second,
		},
		Client: ClientConfig{
			RelayURL: "http://127.0.0.1:3000",
			Timeout:  60 * time.Second,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultTestnet returns the default configuration for testnet.
func DefaultTestnet() *Config {
	cfg := DefaultMainnet()
	cfg.Network = Testnet
	cfg.Relay.Port = 3001
	cfg.Client.RelayURL = "http://127.0.0.1:3001"
	return cfg
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	switch network {
	case Testnet:
		return DefaultTestnet()
	default:
		return DefaultMainnet()
	}
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
