package config

import "time"

// SuggestConfig holds the default filter values for the suggest command
type SuggestConfig struct {
	Top                 int     `mapstructure:"top" validate:"min=1"`
	MinROI              float64 `mapstructure:"min_roi"`
	MinProfit           int64   `mapstructure:"min_profit"`
	MinHourlyVolume     int64   `mapstructure:"min_hourly_volume" validate:"min=0"`
	MaxFillHours        float64 `mapstructure:"max_fill_hours" validate:"gte=0"`
	FreshMinutes        float64 `mapstructure:"fresh_minutes" validate:"gte=0"`
	FreshPolicy         string  `mapstructure:"fresh_policy" validate:"required,oneof=any both"`
	PriceSource         string  `mapstructure:"price_source" validate:"required,oneof=latest 1h hybrid"`
	LatestMaxAgeMinutes float64 `mapstructure:"latest_max_age_minutes" validate:"gte=0"`
	Aggressiveness      float64 `mapstructure:"aggressiveness" validate:"gte=0,lte=1"`
	LiquidityFraction   float64 `mapstructure:"liquidity_fraction" validate:"gte=0,lte=1"`
}

// WatchConfig holds live watch defaults
type WatchConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	Top             int           `mapstructure:"top" validate:"min=1"`
	AutoAddTop      int           `mapstructure:"auto_add_top" validate:"min=1"`
	MaxWatch        int           `mapstructure:"max_watch" validate:"min=1"`
	DisableAutoAdd  bool          `mapstructure:"disable_auto_add"`
	GPFile          string        `mapstructure:"gp_file"`
	MinHourlyVolume int64         `mapstructure:"min_hourly_volume" validate:"min=0"`
	FreshPolicy     string        `mapstructure:"fresh_policy" validate:"required,oneof=any both"`
}
