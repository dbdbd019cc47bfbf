package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Version is the release version reported by --version.
const Version = "0.1.0"

// Flags holds parsed menad command-line flags.
type Flags struct {
	Help    bool
	Version bool

	// Core
	Network string
	Testnet bool
	DataDir string
	Config  string
	EnvFile string

	// Relay
	RelayAddr    string
	RelayPort    int
	RelayAllowed string
	RelayCORS    string
	RegistryURL  string
	UserAgent    string
	RelayTimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	Args []string

	// Explicitly-set bool flags.
	SetLogJSON bool
}

// ParseFlags parses menad command-line flags from args (without the
// program name).
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("menad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	fs.StringVar(&f.Network, "network", "", "Network type (mainnet or testnet)")
	fs.BoolVar(&f.Testnet, "testnet", false, "Use testnet (shorthand for --network=testnet)")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "Environment file path")

	fs.StringVar(&f.RelayAddr, "relay-addr", "", "Relay listen address")
	fs.IntVar(&f.RelayPort, "relay-port", 0, "Relay listen port")
	fs.StringVar(&f.RelayAllowed, "relay-allowed", "", "Allowed client IPs/CIDRs (comma-separated)")
	fs.StringVar(&f.RelayCORS, "relay-cors", "", "Allowed CORS origins (comma-separated)")
	fs.StringVar(&f.RegistryURL, "registry-url", "", "Upstream registry base URL")
	fs.StringVar(&f.UserAgent, "user-agent", "", "User-Agent sent to the registry")
	fs.DurationVar(&f.RelayTimeout, "relay-timeout", 0, "Upstream request timeout")

	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if f.Testnet {
		f.Network = string(Testnet)
	}
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	for _, arg := range f.Args {
		if strings.HasPrefix(arg, "-") {
			return nil, fmt.Errorf("flag %q was not parsed (positional argument stopped parsing)", arg)
		}
	}
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	if f.RelayAddr != "" {
		cfg.Relay.Addr = f.RelayAddr
	}
	if f.RelayPort != 0 {
		cfg.Relay.Port = f.RelayPort
	}
	if f.RelayAllowed != "" {
		cfg.Relay.AllowedIPs = parseStringList(f.RelayAllowed)
	}
	if f.RelayCORS != "" {
		cfg.Relay.CORSOrigins = parseStringList(f.RelayCORS)
	}
	if f.RegistryURL != "" {
		cfg.Relay.RegistryURL = f.RegistryURL
	}
	if f.UserAgent != "" {
		cfg.Relay.UserAgent = f.UserAgent
	}
	if f.RelayTimeout != 0 {
		cfg.Relay.Timeout = f.RelayTimeout
	}

	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintUsage writes the menad help text to w.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, `menad - Scavenger rights consolidation relay

Usage:
  menad [options]

Commands:
  --help, -h      Show this help message
  --version, -v   Show version information

Core Options:
  --network       Network type: mainnet (default) or testnet
  --testnet       Shorthand for --network=testnet
  --datadir       Data directory (default: ~/.mena)
  --config, -c    Config file path (default: <datadir>/mena.conf)
  --env-file      Environment file with MENA_* variables (default: .env)

Relay Options:
  --relay-addr     Listen address (default: 127.0.0.1)
  --relay-port     Listen port (mainnet: 3000, testnet: 3001)
  --relay-allowed  Allowed client IPs/CIDRs (comma-separated)
  --relay-cors     Allowed CORS origins (comma-separated)
  --registry-url   Upstream registry (default: `+DefaultRegistryURL+`)
  --user-agent     User-Agent sent upstream
  --relay-timeout  Upstream request timeout (default: 30s)

Logging Options:
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stderr only)
  --log-json      Output logs as JSON

Environment:
  MENA_NETWORK, MENA_DATADIR, MENA_RELAY_ADDR, MENA_RELAY_PORT,
  MENA_RELAY_ALLOWED, MENA_RELAY_CORS, MENA_REGISTRY_URL, MENA_USER_AGENT,
  MENA_RELAY_TIMEOUT, MENA_RELAY_URL, MENA_CLIENT_TIMEOUT, MENA_JOURNAL,
  MENA_LOG_LEVEL, MENA_LOG_FILE, MENA_LOG_JSON
`)
}

// Load builds the menad configuration from args with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. .env file and MENA_* environment variables
// 5. Command-line flags
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	if err := LoadDotEnv(flags.EnvFile); err != nil {
		return nil, nil, err
	}
	env, err := ReadEnv()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := loadLayers(flags.Network, flags.DataDir, flags.Config, env)
	if err != nil {
		return nil, nil, err
	}
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, flags, nil
}

// LoadFromFile loads config from defaults, the conf file and the
// environment (no daemon flags). Used by the mena CLI.
func LoadFromFile(dataDir string, network NetworkType) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	env, err := ReadEnv()
	if err != nil {
		return nil, err
	}
	cfg, err := loadLayers(string(network), dataDir, "", env)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadLayers(network, dataDir, configPath string, env *EnvOverrides) (*Config, error) {
	if network == "" && env.Network != nil {
		network = *env.Network
	}
	if dataDir == "" && env.DataDir != nil {
		dataDir = *env.DataDir
	}

	cfg := Default(NetworkType(strings.ToLower(network)))
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	if configPath == "" {
		configPath = cfg.ConfigFile()
	}
	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config file: %w", err)
	}

	ApplyEnv(cfg, env)
	if network != "" {
		cfg.Network = NetworkType(strings.ToLower(network))
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.JournalDir(),
		cfg.LogsDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
