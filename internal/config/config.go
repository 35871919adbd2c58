package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultListenAddr   = ":7380"
	DefaultAPIURL       = "http://127.0.0.1:7380"
	DefaultDBFileName   = ".taskdesk.db"
	DefaultBlobDirName  = ".taskdesk-blobs"
	DefaultLogLevel     = "info"
	DefaultDirectoryID  = "taskdesk-local"
	DefaultClientID     = "taskdesk-api"
	DefaultTokenTTLSecs = 3600

	// DefaultSigningKey is a development-only key. Production deployments
	// must set identity.signing_key or TASKDESK_SIGNING_KEY.
	DefaultSigningKey = "taskdesk-insecure-dev-signing-key"

	configFileName = ".taskdesk.toml"

	configDirEnvKey          = "TASKDESK_CONFIG_DIR"
	trustProjectConfigEnvKey = "TASKDESK_TRUST_PROJECT_CONFIG"
)

// IdentityConfig configures the local identity provider.
type IdentityConfig struct {
	DirectoryID  string `toml:"directory_id"`
	ClientID     string `toml:"client_id"`
	SigningKey   string `toml:"signing_key"`
	TokenTTLSecs int    `toml:"token_ttl_seconds"`
}

// Config defines runtime configuration for taskdesk.
type Config struct {
	ListenAddr string         `toml:"listen_addr"`
	APIURL     string         `toml:"api_url"`
	DBPath     string         `toml:"db_path"`
	BlobRoot   string         `toml:"blob_root"`
	LogLevel   string         `toml:"log_level"`
	Identity   IdentityConfig `toml:"identity"`

	TrustedProjectConfigPath string `toml:"-"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		ListenAddr: DefaultListenAddr,
		APIURL:     DefaultAPIURL,
		DBPath:     "",
		BlobRoot:   "",
		LogLevel:   DefaultLogLevel,
		Identity: IdentityConfig{
			DirectoryID:  DefaultDirectoryID,
			ClientID:     DefaultClientID,
			SigningKey:   DefaultSigningKey,
			TokenTTLSecs: DefaultTokenTTLSecs,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	_, err := loadFileIfExists(path, cfg)
	return err
}

func loadFileIfExists(path string, cfg *Config) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return true, nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

func trustProjectConfig() bool {
	raw := strings.TrimSpace(os.Getenv(trustProjectConfigEnvKey))
	if raw == "" {
		return false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return value
}

var allowedKeys = []string{
	"listen_addr",
	"api_url",
	"db_path",
	"blob_root",
	"log_level",
	"identity.directory_id",
	"identity.client_id",
	"identity.signing_key",
	"identity.token_ttl_seconds",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "listen_addr":
		return c.ListenAddr, nil
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "blob_root":
		return c.BlobRoot, nil
	case "log_level":
		return c.LogLevel, nil
	case "identity.directory_id":
		return c.Identity.DirectoryID, nil
	case "identity.client_id":
		return c.Identity.ClientID, nil
	case "identity.signing_key":
		return c.Identity.SigningKey, nil
	case "identity.token_ttl_seconds":
		return strconv.Itoa(c.Identity.TokenTTLSecs), nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ProjectPath returns the path to the project config file.
func ProjectPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, configFileName), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads config from trusted files and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	if overridePath, ok := overrideConfigPath(); ok {
		if err := loadFile(overridePath, &cfg); err != nil {
			return nil, err
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			if err := loadFile(filepath.Join(home, configFileName), &cfg); err != nil {
				return nil, err
			}
		}

		if trustProjectConfig() {
			if cwd, err := os.Getwd(); err == nil {
				projectPath := filepath.Join(cwd, configFileName)
				info, statErr := os.Stat(projectPath)
				switch {
				case statErr == nil && !info.IsDir():
					if err := loadFile(projectPath, &cfg); err != nil {
						return nil, err
					}
					cfg.TrustedProjectConfigPath = projectPath
				case statErr != nil && !os.IsNotExist(statErr):
					return nil, statErr
				}
			}
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
		if cfg.BlobRoot == "" {
			cfg.BlobRoot = filepath.Join(cwd, DefaultBlobDirName)
		}
	}

	applyEnvOverrides(&cfg)
	cfg.normalizeDefaults()

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv("TASKDESK_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if apiURL := os.Getenv("TASKDESK_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv("TASKDESK_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if blobRoot := os.Getenv("TASKDESK_BLOB_ROOT"); blobRoot != "" {
		cfg.BlobRoot = blobRoot
	}
	if level := os.Getenv("TASKDESK_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if key := os.Getenv("TASKDESK_SIGNING_KEY"); key != "" {
		cfg.Identity.SigningKey = key
	}
	if raw := strings.TrimSpace(os.Getenv("TASKDESK_TOKEN_TTL_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			cfg.Identity.TokenTTLSecs = parsed
		}
	}
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "identity.token_ttl_seconds":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeDefaults() {
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if strings.TrimSpace(c.Identity.DirectoryID) == "" {
		c.Identity.DirectoryID = DefaultDirectoryID
	}
	if strings.TrimSpace(c.Identity.ClientID) == "" {
		c.Identity.ClientID = DefaultClientID
	}
	if strings.TrimSpace(c.Identity.SigningKey) == "" {
		c.Identity.SigningKey = DefaultSigningKey
	}
	if c.Identity.TokenTTLSecs <= 0 {
		c.Identity.TokenTTLSecs = DefaultTokenTTLSecs
	}
}
