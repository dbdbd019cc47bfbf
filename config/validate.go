package config

import (
	"fmt"
	"net"
	"net/url"

	klog "github.com/OpTi9/MENA/internal/log"
)

// Validate checks the config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is empty")
	}
	if cfg.Relay.Port < 0 || cfg.Relay.Port > 65535 {
		return fmt.Errorf("relay.port must be in range [0, 65535]")
	}
	for i, entry := range cfg.Relay.AllowedIPs {
		if !validIPEntry(entry) {
			return fmt.Errorf("relay.allowed[%d] %q is not an IP or CIDR", i, entry)
		}
	}
	if err := validateURL(cfg.Relay.RegistryURL, "relay.registry"); err != nil {
		return err
	}
	if err := validateURL(cfg.Client.RelayURL, "client.relay"); err != nil {
		return err
	}
	if cfg.Relay.Timeout <= 0 {
		return fmt.Errorf("relay.timeout must be positive")
	}
	if cfg.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}
	return nil
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

func validIPEntry(entry string) bool {
	if _, _, err := net.ParseCIDR(entry); err == nil {
		return true
	}
	return net.ParseIP(entry) != nil
}
