package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/readctl/internal/util"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "readctl", "config.yml")
}

// SessionPath returns where the signed-in session is persisted.
func SessionPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "readctl", "session.yml")
}

// Load reads the config from disk (or env). Returns an empty config if no
// file exists yet — init command will populate it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("auth.key_env", "READCTL_ANON_KEY")
	v.SetDefault("defaults.cache_dir", defaultCacheDir())
	v.SetDefault("defaults.page_limit", 20)

	v.SetEnvPrefix("READCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("READCTL_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		// Not finding the config file is fine — the init command creates it.
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Resolve the provider key from env (never stored in file).
	keyEnv := cfg.Auth.KeyEnv
	if keyEnv == "" {
		keyEnv = "READCTL_ANON_KEY"
	}
	cfg.Auth.Key = os.Getenv(keyEnv)

	// Expand ~ in cache dir.
	cfg.Defaults.CacheDir = util.ExpandHome(cfg.Defaults.CacheDir)

	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

func defaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "readctl", "cache")
}
