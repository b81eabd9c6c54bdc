package daemon

import (
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// staleAfterIntervals is how many missed intervals make a task unhealthy
const staleAfterIntervals = 3

// TaskHealth is the state of one background loop
type TaskHealth struct {
	Name                string        `json:"name"`
	Interval            time.Duration `json:"interval"`
	Runs                int           `json:"runs"`
	Failures            int           `json:"failures"`
	ConsecutiveFailures int           `json:"consecutive_failures"`
	LastSuccess         *time.Time    `json:"last_success,omitempty"`
	LastError           string        `json:"last_error,omitempty"`
	Healthy             bool          `json:"healthy"`
}

// HealthMonitor tracks the outcome of the daemon's periodic tasks (watchlist
// refresh, alert checks). A task is healthy until it has gone
// staleAfterIntervals intervals without a success.
type HealthMonitor struct {
	mu      sync.Mutex
	clock   shared.Clock
	started time.Time
	tasks   map[string]*TaskHealth
}

// NewHealthMonitor creates a monitor; a nil clock uses wall time
func NewHealthMonitor(clock shared.Clock) *HealthMonitor {
	clock = shared.OrRealClock(clock)
	return &HealthMonitor{
		clock:   clock,
		started: clock.Now(),
		tasks:   make(map[string]*TaskHealth),
	}
}

// Track registers a task with its expected interval. Tracking twice resets nothing.
func (hm *HealthMonitor) Track(name string, interval time.Duration) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	if _, ok := hm.tasks[name]; !ok {
		hm.tasks[name] = &TaskHealth{Name: name, Interval: interval}
	}
}

// Record stores the outcome of one run of name
func (hm *HealthMonitor) Record(name string, err error) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	t, ok := hm.tasks[name]
	if !ok {
		t = &TaskHealth{Name: name}
		hm.tasks[name] = t
	}
	t.Runs++
	if err != nil {
		t.Failures++
		t.ConsecutiveFailures++
		t.LastError = err.Error()
		return
	}
	now := hm.clock.Now()
	t.LastSuccess = &now
	t.ConsecutiveFailures = 0
	t.LastError = ""
}

// Report returns a snapshot of every task sorted by name
func (hm *HealthMonitor) Report() []TaskHealth {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	now := hm.clock.Now()
	out := make([]TaskHealth, 0, len(hm.tasks))
	for _, t := range hm.tasks {
		snapshot := *t
		snapshot.Healthy = hm.healthy(t, now)
		out = append(out, snapshot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Healthy reports whether every tracked task is healthy
func (hm *HealthMonitor) Healthy() bool {
	for _, t := range hm.Report() {
		if !t.Healthy {
			return false
		}
	}
	return true
}

// StartedAt is when the monitor was created
func (hm *HealthMonitor) StartedAt() time.Time {
	return hm.started
}

func (hm *HealthMonitor) healthy(t *TaskHealth, now time.Time) bool {
	if t.Interval <= 0 {
		return t.ConsecutiveFailures == 0
	}
	grace := time.Duration(staleAfterIntervals) * t.Interval
	last := hm.started
	if t.LastSuccess != nil {
		last = *t.LastSuccess
	}
	return now.Sub(last) <= grace
}
