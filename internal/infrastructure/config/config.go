package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Wiki     WikiConfig     `mapstructure:"wiki"`
	Guide    GuideConfig    `mapstructure:"guide"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Suggest  SuggestConfig  `mapstructure:"suggest"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.geflip")
		v.AddConfigPath("/etc/geflip")
	}

	v.SetEnvPrefix("GEFLIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unprefixed variables kept for compatibility with existing setups
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}
	if ua := os.Getenv("WIKI_USER_AGENT"); ua != "" && !v.IsSet("wiki.user_agent") {
		v.Set("wiki.user_agent", ua)
	}
	if dir := os.Getenv("FLIPPER2_PATH"); dir != "" && !v.IsSet("limits.flipper2_path") {
		v.Set("limits.flipper2_path", dir)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// bindEnvKeys registers the keys AutomaticEnv should resolve during Unmarshal.
// Viper only consults the environment for keys it already knows about.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"database.type", "database.url", "database.path",
		"wiki.base_url", "wiki.user_agent", "wiki.timeout",
		"guide.base_url",
		"cache.backend", "cache.redis.addr", "cache.redis.password", "cache.redis.db",
		"limits.source", "limits.local_path", "limits.flipper2_path",
		"daemon.socket_path", "daemon.pid_file", "daemon.http.address", "daemon.budget",
		"metrics.enabled", "metrics.port",
		"logging.level", "logging.format", "logging.output", "logging.file_path",
	} {
		_ = v.BindEnv(key)
	}
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}

// MustLoadConfig loads configuration and panics on error (for use in main.go)
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
