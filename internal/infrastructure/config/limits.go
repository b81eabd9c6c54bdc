package config

import "time"

// LimitsConfig controls where purchase history is read from and written to
type LimitsConfig struct {
	// Source: auto (flipper2, then local), flipper2, local, database or none
	Source string `mapstructure:"source" validate:"required,oneof=auto flipper2 local database none"`

	// Local JSON state file
	LocalPath string `mapstructure:"local_path"`

	// Store recorded purchases in the database instead of the JSON file
	UseDatabase bool `mapstructure:"use_database"`

	// Flipper2 export directory (auto-discovered when empty)
	Flipper2Path string `mapstructure:"flipper2_path"`

	// Trailing window purchase caps apply to
	Window time.Duration `mapstructure:"window"`
}
