package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides (MENA_RELAY_PORT, ...).
const EnvPrefix = "MENA"

// EnvOverrides holds settings read from the environment. Nil or empty
// fields were not set and leave the config untouched.
type EnvOverrides struct {
	Network     *string        `envconfig:"NETWORK"`
	DataDir     *string        `envconfig:"DATADIR"`
	RelayAddr   *string        `envconfig:"RELAY_ADDR"`
	RelayPort   *int           `envconfig:"RELAY_PORT"`
	AllowedIPs  []string       `envconfig:"RELAY_ALLOWED"`
	CORSOrigins []string       `envconfig:"RELAY_CORS"`
	RegistryURL *string        `envconfig:"REGISTRY_URL"`
	UserAgent   *string        `envconfig:"USER_AGENT"`
	Timeout     *time.Duration `envconfig:"RELAY_TIMEOUT"`
	RelayURL    *string        `envconfig:"RELAY_URL"`
	ClientTO    *time.Duration `envconfig:"CLIENT_TIMEOUT"`
	Journal     *bool          `envconfig:"JOURNAL"`
	LogLevel    *string        `envconfig:"LOG_LEVEL"`
	LogFile     *string        `envconfig:"LOG_FILE"`
	LogJSON     *bool          `envconfig:"LOG_JSON"`
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ReadEnv reads MENA_* overrides from the environment.
func ReadEnv() (*EnvOverrides, error) {
	var env EnvOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv applies environment overrides to cfg.
func ApplyEnv(cfg *Config, env *EnvOverrides) {
	if env == nil {
		return
	}
	if env.Network != nil {
		cfg.Network = NetworkType(*env.Network)
	}
	if env.DataDir != nil {
		cfg.DataDir = *env.DataDir
	}
	if env.RelayAddr != nil {
		cfg.Relay.Addr = *env.RelayAddr
	}
	if env.RelayPort != nil {
		cfg.Relay.Port = *env.RelayPort
	}
	if len(env.AllowedIPs) > 0 {
		cfg.Relay.AllowedIPs = env.AllowedIPs
	}
	if len(env.CORSOrigins) > 0 {
		cfg.Relay.CORSOrigins = env.CORSOrigins
	}
	if env.RegistryURL != nil {
		cfg.Relay.RegistryURL = *env.RegistryURL
	}
	if env.UserAgent != nil {
		cfg.Relay.UserAgent = *env.UserAgent
	}
	if env.Timeout != nil {
		cfg.Relay.Timeout = *env.Timeout
	}
	if env.RelayURL != nil {
		cfg.Client.RelayURL = *env.RelayURL
	}
	if env.ClientTO != nil {
		cfg.Client.Timeout = *env.ClientTO
	}
	if env.Journal != nil {
		cfg.Journal.Enabled = *env.Journal
	}
	if env.LogLevel != nil {
		cfg.Log.Level = *env.LogLevel
	}
	if env.LogFile != nil {
		cfg.Log.File = *env.LogFile
	}
	if env.LogJSON != nil {
		cfg.Log.JSON = *env.LogJSON
	}
}
