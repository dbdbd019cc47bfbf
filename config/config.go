// Package config handles relay and CLI configuration.
//
// Settings are layered: built-in defaults, the <datadir>/mena.conf file,
// a .env file and MENA_* environment variables, then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/OpTi9/MENA/pkg/types"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// NetworkID returns the address network id for n.
func (n NetworkType) NetworkID() types.NetworkID {
	if n == Testnet {
		return types.NetworkTestnet
	}
	return types.NetworkMainnet
}

// Config holds runtime configuration for menad and mena.
type Config struct {
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Relay server (menad)
	Relay RelayConfig

	// Registry client (mena consolidate)
	Client ClientConfig

	// Run journal
	Journal JournalConfig

	Log LogConfig
}

// RelayConfig holds relay server settings.
type RelayConfig struct {
	Addr        string        `conf:"relay.addr"`
	Port        int           `conf:"relay.port"`
	AllowedIPs  []string      `conf:"relay.allowed"`
	CORSOrigins []string      `conf:"relay.cors"` // "*" = all
	RegistryURL string        `conf:"relay.registry"`
	UserAgent   string        `conf:"relay.useragent"`
	Timeout     time.Duration `conf:"relay.timeout"` // upstream request timeout
}

// ClientConfig holds settings for submitting claims through a relay.
type ClientConfig struct {
	RelayURL string        `conf:"client.relay"`
	Timeout  time.Duration `conf:"client.timeout"`
}

// JournalConfig controls persistence of batch results.
type JournalConfig struct {
	Enabled bool `conf:"journal.enabled"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.mena
//	macOS:   ~/Library/Application Support/MENA
//	Windows: %APPDATA%\MENA
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mena"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MENA")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "MENA")
		}
		return filepath.Join(home, "AppData", "Roaming", "MENA")
	default:
		return filepath.Join(home, ".mena")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// JournalDir returns the run journal database directory.
func (c *Config) JournalDir() string {
	return filepath.Join(c.NetworkDataDir(), "journal")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "mena.conf")
}

// RelayListenAddr returns the host:port the relay binds to.
func (c *Config) RelayListenAddr() string {
	return joinHostPort(c.Relay.Addr, c.Relay.Port)
}
