package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration values from a .conf file.
// Format: key = value (one per line, # for comments). A missing file
// yields no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}
		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}

	return values, scanner.Err()
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// ApplyFileConfig applies file values to cfg.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value

	// Relay
	case "relay.addr":
		cfg.Relay.Addr = value
	case "relay.port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Relay.Port = port
	case "relay.allowed":
		cfg.Relay.AllowedIPs = parseStringList(value)
	case "relay.cors":
		cfg.Relay.CORSOrigins = parseStringList(value)
	case "relay.registry":
		cfg.Relay.RegistryURL = value
	case "relay.useragent":
		cfg.Relay.UserAgent = value
	case "relay.timeout":
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		cfg.Relay.Timeout = d

	// Client
	case "client.relay":
		cfg.Client.RelayURL = value
	case "client.timeout":
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		cfg.Client.Timeout = d

	case "journal.enabled", "journal":
		cfg.Journal.Enabled = parseBool(value)

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseDuration accepts Go durations ("90s", "2m") or whole seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// parseStringList parses a comma-separated list.
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string, network NetworkType) error {
	def := Default(network)
	content := `# MENA configuration
#
# Values here are overridden by MENA_* environment variables (or a .env
# file) and by command-line flags.

# Network: mainnet or testnet
network = ` + string(network) + `

# Data directory (default: ~/.mena)
# datadir = ~/.mena

# ============================================================================
# Relay (menad)
# ============================================================================

relay.addr = ` + def.Relay.Addr + `
relay.port = ` + strconv.Itoa(def.Relay.Port) + `
relay.allowed = 127.0.0.1
# CORS allowed origins ("*" for all)
# relay.cors = http://localhost:3000

# Upstream reward registry
relay.registry = ` + def.Relay.RegistryURL + `
relay.useragent = ` + def.Relay.UserAgent + `
relay.timeout = 30s

# ============================================================================
# Client (mena consolidate)
# ============================================================================

client.relay = ` + def.Client.RelayURL + `
client.timeout = 60s

# ============================================================================
# Journal
# ============================================================================

# Record every wallet result of a batch run
journal.enabled = true

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
