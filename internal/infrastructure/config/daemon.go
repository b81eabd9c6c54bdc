package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Unix socket path for the gRPC service
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// How often the watchlist is re-evaluated
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"required"`

	// How often active price alerts are checked
	AlertInterval time.Duration `mapstructure:"alert_interval" validate:"required"`

	// Budget used by background refreshes, e.g. "50m"
	Budget string `mapstructure:"budget" validate:"required,gp_amount"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	HTTP HTTPConfig `mapstructure:"http"`
}

// HTTPConfig holds the JSON API and websocket listener configuration
type HTTPConfig struct {
	// Disable the HTTP listener entirely
	Disabled bool `mapstructure:"disabled"`

	// Listen address (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// Gin mode: debug, release or test
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
}
