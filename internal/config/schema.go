package config

// Config is the top-level readctl configuration.
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth"`
	Billing  BillingConfig  `mapstructure:"billing" yaml:"billing"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
}

// APIConfig holds reading-tracker API connection settings.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// AuthConfig holds identity-provider settings. The anon key is public by
// design but still resolved from the environment, never written to disk.
type AuthConfig struct {
	URL    string `mapstructure:"url" yaml:"url"`
	KeyEnv string `mapstructure:"key_env" yaml:"key_env"`
	Key    string `mapstructure:"-" yaml:"-"` // resolved at runtime
}

// BillingConfig holds checkout settings.
type BillingConfig struct {
	PriceID string `mapstructure:"price_id" yaml:"price_id"`
}

// DefaultsConfig holds default values for operations.
type DefaultsConfig struct {
	CacheDir  string `mapstructure:"cache_dir" yaml:"cache_dir"`
	PageLimit int    `mapstructure:"page_limit" yaml:"page_limit"`
}

// Configured reports whether the config names a service to talk to.
func (c *Config) Configured() bool {
	return c.API.BaseURL != "" && c.Auth.URL != ""
}
