package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	main := Default(Mainnet)
	test := Default(Testnet)

	if main.Relay.Port == test.Relay.Port {
		t.Error("mainnet and testnet relay ports should differ")
	}
	if main.Relay.RegistryURL != DefaultRegistryURL {
		t.Errorf("RegistryURL = %q", main.Relay.RegistryURL)
	}
	if main.Relay.UserAgent != "ScavengerMine-Consolidation-Tool/1.0" {
		t.Errorf("UserAgent = %q", main.Relay.UserAgent)
	}
	if Mainnet.NetworkID() != 1 || Testnet.NetworkID() != 0 {
		t.Error("NetworkID mapping mismatch")
	}
	if err := Validate(main); err != nil {
		t.Errorf("Validate(DefaultMainnet) error: %v", err)
	}
	if err := Validate(test); err != nil {
		t.Errorf("Validate(DefaultTestnet) error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mena.conf")
	content := `# comment
network = testnet

relay.port = 4000
relay.allowed = 127.0.0.1, 10.0.0.0/8
relay.registry = "http://registry.local"
relay.timeout = 45
client.timeout = 2m
journal.enabled = no
log.json = yes
unknown.key = ignored
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("Network = %q", cfg.Network)
	}
	if cfg.Relay.Port != 4000 {
		t.Errorf("Relay.Port = %d", cfg.Relay.Port)
	}
	if len(cfg.Relay.AllowedIPs) != 2 || cfg.Relay.AllowedIPs[1] != "10.0.0.0/8" {
		t.Errorf("Relay.AllowedIPs = %v", cfg.Relay.AllowedIPs)
	}
	if cfg.Relay.RegistryURL != "http://registry.local" {
		t.Errorf("Relay.RegistryURL = %q", cfg.Relay.RegistryURL)
	}
	if cfg.Relay.Timeout != 45*time.Second {
		t.Errorf("Relay.Timeout = %v", cfg.Relay.Timeout)
	}
	if cfg.Client.Timeout != 2*time.Minute {
		t.Errorf("Client.Timeout = %v", cfg.Client.Timeout)
	}
	if cfg.Journal.Enabled || !cfg.Log.JSON {
		t.Errorf("Journal.Enabled = %v, Log.JSON = %v", cfg.Journal.Enabled, cfg.Log.JSON)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestLoadFile_BadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mena.conf")
	if err := os.WriteFile(path, []byte("network testnet\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for line without '='")
	}
}

func TestApplyFileConfig_BadValue(t *testing.T) {
	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, map[string]string{"relay.port": "abc"}); err == nil {
		t.Error("expected error for non-numeric port")
	}
	if err := ApplyFileConfig(cfg, map[string]string{"relay.timeout": "soon"}); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestReadEnv(t *testing.T) {
	t.Setenv("MENA_RELAY_PORT", "5050")
	t.Setenv("MENA_REGISTRY_URL", "http://env.registry")
	t.Setenv("MENA_RELAY_CORS", "http://a.test,http://b.test")
	t.Setenv("MENA_CLIENT_TIMEOUT", "15s")
	t.Setenv("MENA_JOURNAL", "false")

	env, err := ReadEnv()
	if err != nil {
		t.Fatalf("ReadEnv() error: %v", err)
	}
	if env.LogLevel != nil {
		t.Errorf("unset LogLevel should stay nil, got %q", *env.LogLevel)
	}

	cfg := DefaultMainnet()
	ApplyEnv(cfg, env)

	if cfg.Relay.Port != 5050 {
		t.Errorf("Relay.Port = %d", cfg.Relay.Port)
	}
	if cfg.Relay.RegistryURL != "http://env.registry" {
		t.Errorf("Relay.RegistryURL = %q", cfg.Relay.RegistryURL)
	}
	if len(cfg.Relay.CORSOrigins) != 2 {
		t.Errorf("Relay.CORSOrigins = %v", cfg.Relay.CORSOrigins)
	}
	if cfg.Client.Timeout != 15*time.Second {
		t.Errorf("Client.Timeout = %v", cfg.Client.Timeout)
	}
	if cfg.Journal.Enabled {
		t.Error("Journal.Enabled should be false")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want untouched default", cfg.Log.Level)
	}
}

func TestReadEnv_BadValue(t *testing.T) {
	t.Setenv("MENA_RELAY_PORT", "not-a-port")
	if _, err := ReadEnv(); err == nil {
		t.Error("expected error for bad MENA_RELAY_PORT")
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MENA_TEST_DOTENV_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() error: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}
}

func TestParseFlags(t *testing.T) {
	f, err := ParseFlags([]string{"--testnet", "--relay-port", "7000", "--relay-cors", "*", "--relay-timeout", "5s", "--log-json"})
	if err != nil {
		t.Fatalf("ParseFlags() error: %v", err)
	}
	if f.Network != "testnet" || f.RelayPort != 7000 || f.RelayTimeout != 5*time.Second {
		t.Errorf("flags = %+v", f)
	}
	if !f.SetLogJSON {
		t.Error("SetLogJSON should be true")
	}

	cfg := DefaultMainnet()
	ApplyFlags(cfg, f)
	if cfg.Network != Testnet || cfg.Relay.Port != 7000 || cfg.Relay.CORSOrigins[0] != "*" || !cfg.Log.JSON {
		t.Errorf("config after flags = %+v", cfg)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	if _, err := ParseFlags([]string{"--no-such-flag"}); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := ParseFlags([]string{"stray", "--log-json"}); err == nil {
		t.Error("expected error for flag after positional argument")
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	if err := EnsureDataDirs(&Config{Network: Mainnet, DataDir: dir}); err != nil {
		t.Fatalf("EnsureDataDirs() error: %v", err)
	}
	conf := "relay.port = 4100\nrelay.useragent = from-file\nlog.level = debug\n"
	if err := os.WriteFile(filepath.Join(dir, "mena.conf"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MENA_RELAY_PORT", "4200")
	t.Setenv("MENA_USER_AGENT", "from-env")

	cfg, _, err := Load([]string{"--datadir", dir, "--env-file", "", "--relay-port", "4300"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Relay.Port != 4300 {
		t.Errorf("Relay.Port = %d, want flag value 4300", cfg.Relay.Port)
	}
	if cfg.Relay.UserAgent != "from-env" {
		t.Errorf("Relay.UserAgent = %q, want env value", cfg.Relay.UserAgent)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want file value", cfg.Log.Level)
	}
	if cfg.RelayListenAddr() != "127.0.0.1:4300" {
		t.Errorf("RelayListenAddr() = %q", cfg.RelayListenAddr())
	}
}

func TestLoad_Help(t *testing.T) {
	cfg, flags, err := Load([]string{"--help"})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != nil || !flags.Help {
		t.Errorf("Load(--help) = %v, %+v", cfg, flags)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFromFile(dir, Testnet)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Network != Testnet || cfg.DataDir != dir {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Client.RelayURL != "http://127.0.0.1:3001" {
		t.Errorf("Client.RelayURL = %q", cfg.Client.RelayURL)
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := DefaultTestnet()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")

	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs() error: %v", err)
	}
	for _, dir := range []string{cfg.JournalDir(), cfg.LogsDir()} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
	data, err := os.ReadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "network = testnet") {
		t.Errorf("default config missing network line")
	}

	// The written file must load back cleanly.
	values, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	fresh := DefaultTestnet()
	fresh.DataDir = cfg.DataDir
	if err := ApplyFileConfig(fresh, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}
	if err := Validate(fresh); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad network", func(c *Config) { c.Network = "devnet" }},
		{"empty datadir", func(c *Config) { c.DataDir = "" }},
		{"port too high", func(c *Config) { c.Relay.Port = 70000 }},
		{"bad allowed ip", func(c *Config) { c.Relay.AllowedIPs = []string{"localhost"} }},
		{"registry not http", func(c *Config) { c.Relay.RegistryURL = "ftp://x" }},
		{"relay url empty", func(c *Config) { c.Client.RelayURL = "" }},
		{"zero relay timeout", func(c *Config) { c.Relay.Timeout = 0 }},
		{"negative client timeout", func(c *Config) { c.Client.Timeout = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}
