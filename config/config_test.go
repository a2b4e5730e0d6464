package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const hexA = "aa" // repeated below to form 32-byte identities

func identity(prefix string) string {
	return prefix + strings.Repeat(hexA, 32-len(prefix)/2)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != ":8080" || cfg.MetricsAddress != ":9090" {
		t.Fatalf("defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	// Default identities are empty, so the engine config must fail.
	if _, err := cfg.EngineConfig(); err == nil {
		t.Fatal("engine config from empty identities should fail")
	}
}

func TestLoadParsesIdentities(t *testing.T) {
	body := `
RPCAddress = ":9001"
DataDir = "/tmp/vault"
Admin = "` + identity("01") + `"
CustodyAuthority = "` + identity("02") + `"
Treasury = "` + identity("03") + `"
LockersTreasury = "` + identity("04") + `"
Distributor = "` + identity("05") + `"
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCAddress != ":9001" || cfg.DataDir != "/tmp/vault" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Unset fields still receive defaults.
	if cfg.MetricsAddress != ":9090" || cfg.LogLevel != "info" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	engine, err := cfg.EngineConfig()
	if err != nil {
		t.Fatalf("engine config: %v", err)
	}
	if engine.Admin[0] != 0x01 || engine.Distributor[0] != 0x05 {
		t.Fatalf("identities mis-parsed: %+v", engine)
	}
}

func TestEngineConfigRejectsBadIdentity(t *testing.T) {
	body := `
Admin = "zz"
CustodyAuthority = "` + identity("02") + `"
Treasury = "` + identity("03") + `"
LockersTreasury = "` + identity("04") + `"
Distributor = "` + identity("05") + `"
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.EngineConfig(); err == nil {
		t.Fatal("malformed identity should fail")
	}
}
