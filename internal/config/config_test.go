package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected default listen addr %q, got %q", DefaultListenAddr, cfg.ListenAddr)
	}
	if cfg.APIURL != "http://127.0.0.1:7380" {
		t.Fatalf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty db path, got %q", cfg.DBPath)
	}
	if cfg.BlobRoot != "" {
		t.Fatalf("expected empty blob root, got %q", cfg.BlobRoot)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Identity.DirectoryID != DefaultDirectoryID {
		t.Fatalf("expected default directory id %q, got %q", DefaultDirectoryID, cfg.Identity.DirectoryID)
	}
	if cfg.Identity.TokenTTLSecs != DefaultTokenTTLSecs {
		t.Fatalf("expected default token ttl %d, got %d", DefaultTokenTTLSecs, cfg.Identity.TokenTTLSecs)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte(`listen_addr = ":9999"
log_level = "warn"

[identity]
directory_id = "test-dir"
signing_key = "test-key"
token_ttl_seconds = 120
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Fatalf("expected listen_addr ':9999', got %q", cfg.ListenAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected log_level 'warn', got %q", cfg.LogLevel)
	}
	if cfg.Identity.DirectoryID != "test-dir" {
		t.Fatalf("expected directory_id 'test-dir', got %q", cfg.Identity.DirectoryID)
	}
	if cfg.Identity.SigningKey != "test-key" {
		t.Fatalf("expected signing_key 'test-key', got %q", cfg.Identity.SigningKey)
	}
	if cfg.Identity.TokenTTLSecs != 120 {
		t.Fatalf("expected token ttl 120, got %d", cfg.Identity.TokenTTLSecs)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFile("/nonexistent/path/.taskdesk.toml", &cfg); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("defaults should be preserved")
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range []string{
		"listen_addr",
		"api_url",
		"db_path",
		"blob_root",
		"log_level",
		"identity.directory_id",
		"identity.client_id",
		"identity.signing_key",
		"identity.token_ttl_seconds",
	} {
		if !IsAllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
	if IsAllowedKey("invalid") {
		t.Fatal("expected 'invalid' to not be allowed")
	}
}

func TestGetKey(t *testing.T) {
	cfg := Config{
		ListenAddr: ":1234",
		APIURL:     "http://test:1234",
		DBPath:     "/tmp/test.db",
		BlobRoot:   "/tmp/blobs",
		LogLevel:   "warn",
		Identity: IdentityConfig{
			DirectoryID:  "dir",
			ClientID:     "client",
			SigningKey:   "key",
			TokenTTLSecs: 60,
		},
	}

	cases := map[string]string{
		"listen_addr":                ":1234",
		"api_url":                    "http://test:1234",
		"db_path":                    "/tmp/test.db",
		"blob_root":                  "/tmp/blobs",
		"log_level":                  "warn",
		"identity.directory_id":      "dir",
		"identity.client_id":         "client",
		"identity.signing_key":       "key",
		"identity.token_ttl_seconds": "60",
	}
	for key, want := range cases {
		val, err := cfg.Get(key)
		if err != nil || val != want {
			t.Fatalf("key %q: expected %q, got %q (err: %v)", key, want, val, err)
		}
	}

	if _, err := cfg.Get("bogus"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestSetKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)

	if err := SetKey(path, "listen_addr", ":8181"); err != nil {
		t.Fatalf("set listen_addr: %v", err)
	}
	if err := SetKey(path, "identity.token_ttl_seconds", "900"); err != nil {
		t.Fatalf("set token ttl: %v", err)
	}
	if err := SetKey(path, "bogus", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
	if err := SetKey(path, "identity.token_ttl_seconds", "-1"); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}

	var data map[string]any
	if _, err := toml.DecodeFile(path, &data); err != nil {
		t.Fatalf("decode written config: %v", err)
	}
	if data["listen_addr"] != ":8181" {
		t.Fatalf("expected listen_addr ':8181', got %v", data["listen_addr"])
	}
	identity, ok := data["identity"].(map[string]any)
	if !ok {
		t.Fatalf("expected identity table, got %T", data["identity"])
	}
	if identity["token_ttl_seconds"] != int64(900) {
		t.Fatalf("expected ttl 900, got %v", identity["token_ttl_seconds"])
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configDirEnvKey, t.TempDir())
	t.Setenv("TASKDESK_LISTEN_ADDR", ":7777")
	t.Setenv("TASKDESK_DB", "/tmp/env.db")
	t.Setenv("TASKDESK_SIGNING_KEY", "env-key")
	t.Setenv("TASKDESK_TOKEN_TTL_SECONDS", "300")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Fatalf("expected listen addr from env, got %q", cfg.ListenAddr)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Fatalf("expected db path from env, got %q", cfg.DBPath)
	}
	if cfg.Identity.SigningKey != "env-key" {
		t.Fatalf("expected signing key from env, got %q", cfg.Identity.SigningKey)
	}
	if cfg.Identity.TokenTTLSecs != 300 {
		t.Fatalf("expected ttl from env, got %d", cfg.Identity.TokenTTLSecs)
	}
}
