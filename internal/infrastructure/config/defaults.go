package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "~/.geflip/geflip.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "geflip"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "geflip"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Wiki feed defaults
	if cfg.Wiki.BaseURL == "" {
		cfg.Wiki.BaseURL = "https://prices.runescape.wiki/api/v1/osrs"
	}
	if cfg.Wiki.UserAgent == "" {
		cfg.Wiki.UserAgent = "geflip/0.1 (+https://github.com/andrescamacho/geflip-go)"
	}
	if cfg.Wiki.Timeout == 0 {
		cfg.Wiki.Timeout = 20 * time.Second
	}
	if cfg.Wiki.RateLimit.Requests == 0 {
		cfg.Wiki.RateLimit.Requests = 2
	}
	if cfg.Wiki.RateLimit.Burst == 0 {
		cfg.Wiki.RateLimit.Burst = 5
	}
	if cfg.Wiki.Retry.MaxAttempts == 0 {
		cfg.Wiki.Retry.MaxAttempts = 3
	}
	if cfg.Wiki.Retry.BackoffBase == 0 {
		cfg.Wiki.Retry.BackoffBase = 1 * time.Second
	}
	if cfg.Wiki.CircuitBreaker.MaxFailures == 0 {
		cfg.Wiki.CircuitBreaker.MaxFailures = 5
	}
	if cfg.Wiki.CircuitBreaker.Timeout == 0 {
		cfg.Wiki.CircuitBreaker.Timeout = 60 * time.Second
	}

	// Guide price defaults
	if cfg.Guide.BaseURL == "" {
		cfg.Guide.BaseURL = "https://services.runescape.com/m=itemdb_oldschool/api/catalogue/detail.json"
	}
	if cfg.Guide.Timeout == 0 {
		cfg.Guide.Timeout = 20 * time.Second
	}
	if cfg.Guide.Concurrency == 0 {
		cfg.Guide.Concurrency = 4
	}

	// Cache defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.CatalogTTL == 0 {
		cfg.Cache.CatalogTTL = time.Hour
	}
	if cfg.Cache.PricesTTL == 0 {
		cfg.Cache.PricesTTL = 30 * time.Second
	}
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = "localhost:6379"
	}
	if cfg.Cache.Redis.Namespace == "" {
		cfg.Cache.Redis.Namespace = "geflip"
	}

	// Purchase limit tracking defaults
	if cfg.Limits.Source == "" {
		cfg.Limits.Source = "auto"
	}
	if cfg.Limits.LocalPath == "" {
		cfg.Limits.LocalPath = "~/.ge_track_limits.json"
	}
	if cfg.Limits.Window == 0 {
		cfg.Limits.Window = 4 * time.Hour
	}

	// Suggest defaults
	if cfg.Suggest.Top == 0 {
		cfg.Suggest.Top = 10
	}
	if cfg.Suggest.MinROI == 0 {
		cfg.Suggest.MinROI = 0.005
	}
	if cfg.Suggest.MinProfit == 0 {
		cfg.Suggest.MinProfit = 100
	}
	if cfg.Suggest.MinHourlyVolume == 0 {
		cfg.Suggest.MinHourlyVolume = 500
	}
	if cfg.Suggest.MaxFillHours == 0 {
		cfg.Suggest.MaxFillHours = 1.5
	}
	if cfg.Suggest.FreshMinutes == 0 {
		cfg.Suggest.FreshMinutes = 10
	}
	if cfg.Suggest.FreshPolicy == "" {
		cfg.Suggest.FreshPolicy = "both"
	}
	if cfg.Suggest.PriceSource == "" {
		cfg.Suggest.PriceSource = "latest"
	}
	if cfg.Suggest.LatestMaxAgeMinutes == 0 {
		cfg.Suggest.LatestMaxAgeMinutes = 20
	}
	if cfg.Suggest.Aggressiveness == 0 {
		cfg.Suggest.Aggressiveness = 0.3
	}
	if cfg.Suggest.LiquidityFraction == 0 {
		cfg.Suggest.LiquidityFraction = 0.25
	}

	// Watch defaults
	if cfg.Watch.Interval == 0 {
		cfg.Watch.Interval = 10 * time.Second
	}
	if cfg.Watch.Top == 0 {
		cfg.Watch.Top = 30
	}
	if cfg.Watch.AutoAddTop == 0 {
		cfg.Watch.AutoAddTop = 50
	}
	if cfg.Watch.MaxWatch == 0 {
		cfg.Watch.MaxWatch = 100
	}
	if cfg.Watch.MinHourlyVolume == 0 {
		cfg.Watch.MinHourlyVolume = 300
	}
	if cfg.Watch.FreshPolicy == "" {
		cfg.Watch.FreshPolicy = "any"
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/geflip-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/geflip-daemon.pid"
	}
	if cfg.Daemon.RefreshInterval == 0 {
		cfg.Daemon.RefreshInterval = 60 * time.Second
	}
	if cfg.Daemon.AlertInterval == 0 {
		cfg.Daemon.AlertInterval = 2 * time.Minute
	}
	if cfg.Daemon.Budget == "" {
		cfg.Daemon.Budget = "50m"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Daemon.HTTP.Address == "" {
		cfg.Daemon.HTTP.Address = "127.0.0.1:8080"
	}
	if cfg.Daemon.HTTP.Mode == "" {
		cfg.Daemon.HTTP.Mode = "release"
	}

	// Metrics defaults
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	if cfg.Logging.Rotation.MaxSize == 0 {
		cfg.Logging.Rotation.MaxSize = 100 // MB
	}
	if cfg.Logging.Rotation.MaxBackups == 0 {
		cfg.Logging.Rotation.MaxBackups = 3
	}
}
