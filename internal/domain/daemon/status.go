package daemon

import (
	"errors"
	"time"
)

// ErrDaemonUnavailable is returned by clients when no daemon answers on the socket
var ErrDaemonUnavailable = errors.New("daemon is not running")

// Status describes a running daemon
type Status struct {
	PID         int          `json:"pid"`
	Version     string       `json:"version"`
	StartedAt   time.Time    `json:"started_at"`
	Uptime      string       `json:"uptime"`
	SocketPath  string       `json:"socket_path"`
	HTTPAddress string       `json:"http_address,omitempty"`
	Healthy     bool         `json:"healthy"`
	Tasks       []TaskHealth `json:"tasks"`
}

// NewStatus assembles a status snapshot from the monitor
func NewStatus(pid int, version, socketPath, httpAddress string, monitor *HealthMonitor, now time.Time) Status {
	tasks := monitor.Report()
	healthy := true
	for _, t := range tasks {
		if !t.Healthy {
			healthy = false
		}
	}
	return Status{
		PID:         pid,
		Version:     version,
		StartedAt:   monitor.StartedAt(),
		Uptime:      now.Sub(monitor.StartedAt()).Truncate(time.Second).String(),
		SocketPath:  socketPath,
		HTTPAddress: httpAddress,
		Healthy:     healthy,
		Tasks:       tasks,
	}
}
