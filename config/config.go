package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dropletvault/core/types"
	"dropletvault/native/bucket"
)

// Config is the daemon configuration loaded from TOML. Identity fields are
// 64-character hex strings and are parsed once at load time.
type Config struct {
	RPCAddress     string `toml:"RPCAddress"`
	MetricsAddress string `toml:"MetricsAddress"`
	DataDir        string `toml:"DataDir"`
	LogLevel       string `toml:"LogLevel"`

	Admin            string `toml:"Admin"`
	CustodyAuthority string `toml:"CustodyAuthority"`
	Treasury         string `toml:"Treasury"`
	LockersTreasury  string `toml:"LockersTreasury"`
	Distributor      string `toml:"Distributor"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.RPCAddress) == "" {
		c.RPCAddress = ":8080"
	}
	if strings.TrimSpace(c.MetricsAddress) == "" {
		c.MetricsAddress = ":9090"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./vault-data"
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
}

func parseIdentity(name, value string) (types.Address, error) {
	addr, err := types.ParseAddress(strings.TrimSpace(value))
	if err != nil {
		return types.Address{}, fmt.Errorf("config: %s: %w", name, err)
	}
	return addr, nil
}

// EngineConfig parses the identity fields into the engine's configuration.
// The daemon refuses to start on any missing or malformed identity.
func (c *Config) EngineConfig() (bucket.Config, error) {
	var (
		engine bucket.Config
		err    error
	)
	if engine.Admin, err = parseIdentity("Admin", c.Admin); err != nil {
		return bucket.Config{}, err
	}
	if engine.CustodyAuthority, err = parseIdentity("CustodyAuthority", c.CustodyAuthority); err != nil {
		return bucket.Config{}, err
	}
	if engine.Treasury, err = parseIdentity("Treasury", c.Treasury); err != nil {
		return bucket.Config{}, err
	}
	if engine.LockersTreasury, err = parseIdentity("LockersTreasury", c.LockersTreasury); err != nil {
		return bucket.Config{}, err
	}
	if engine.Distributor, err = parseIdentity("Distributor", c.Distributor); err != nil {
		return bucket.Config{}, err
	}
	if err := engine.Validate(); err != nil {
		return bucket.Config{}, err
	}
	return engine, nil
}

// createDefault creates and saves a default configuration file. The identity
// fields are left empty on purpose; the daemon refuses to start until they
// are filled in.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
