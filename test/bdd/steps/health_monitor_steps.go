package steps

import (
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
)

// HealthMonitorContext holds state for health monitor BDD tests
type HealthMonitorContext struct {
	healthMonitor *daemon.HealthMonitor
	clock         *shared.MockClock
}

// InitializeHealthMonitorScenario registers the daemon health monitor steps
func InitializeHealthMonitorScenario(sc *godog.ScenarioContext) {
	hmc := &HealthMonitorContext{}

	sc.Before(func(c ctxT, _ *godog.Scenario) (ctxT, error) {
		hmc.healthMonitor = nil
		hmc.clock = nil
		return c, nil
	})

	sc.Step(`^a health monitor tracking "([^"]*)" every (\d+) seconds$`, hmc.aHealthMonitorTracking)
	sc.Step(`^(\d+) seconds pass$`, hmc.secondsPass)
	sc.Step(`^task "([^"]*)" succeeds$`, hmc.taskSucceeds)
	sc.Step(`^task "([^"]*)" fails with "([^"]*)"$`, hmc.taskFailsWith)
	sc.Step(`^the daemon is (healthy|unhealthy)$`, hmc.theDaemonIs)
	sc.Step(`^task "([^"]*)" is (healthy|unhealthy)$`, hmc.taskIs)
	sc.Step(`^task "([^"]*)" has (\d+) runs? and (\d+) failures?$`, hmc.taskHasRunsAndFailures)
	sc.Step(`^task "([^"]*)" last failed with "([^"]*)"$`, hmc.taskLastFailedWith)
}

func (hmc *HealthMonitorContext) aHealthMonitorTracking(name string, seconds int) error {
	hmc.clock = shared.NewMockClockAtUnix(1_700_000_000)
	hmc.healthMonitor = daemon.NewHealthMonitor(hmc.clock)
	hmc.healthMonitor.Track(name, time.Duration(seconds)*time.Second)
	return nil
}

func (hmc *HealthMonitorContext) secondsPass(seconds int) error {
	hmc.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (hmc *HealthMonitorContext) taskSucceeds(name string) error {
	hmc.healthMonitor.Record(name, nil)
	return nil
}

func (hmc *HealthMonitorContext) taskFailsWith(name, message string) error {
	hmc.healthMonitor.Record(name, errors.New(message))
	return nil
}

func (hmc *HealthMonitorContext) theDaemonIs(state string) error {
	if got := hmc.healthMonitor.Healthy(); got != (state == "healthy") {
		return fmt.Errorf("expected daemon to be %s", state)
	}
	return nil
}

func (hmc *HealthMonitorContext) task(name string) (daemon.TaskHealth, error) {
	for _, t := range hmc.healthMonitor.Report() {
		if t.Name == name {
			return t, nil
		}
	}
	return daemon.TaskHealth{}, fmt.Errorf("task %q is not tracked", name)
}

func (hmc *HealthMonitorContext) taskIs(name, state string) error {
	t, err := hmc.task(name)
	if err != nil {
		return err
	}
	if t.Healthy != (state == "healthy") {
		return fmt.Errorf("expected task %q to be %s", name, state)
	}
	return nil
}

func (hmc *HealthMonitorContext) taskHasRunsAndFailures(name string, runs, failures int) error {
	t, err := hmc.task(name)
	if err != nil {
		return err
	}
	if t.Runs != runs || t.Failures != failures {
		return fmt.Errorf("expected %d runs and %d failures, got %d and %d", runs, failures, t.Runs, t.Failures)
	}
	return nil
}

func (hmc *HealthMonitorContext) taskLastFailedWith(name, message string) error {
	t, err := hmc.task(name)
	if err != nil {
		return err
	}
	if t.LastError != message {
		return fmt.Errorf("expected last error %q, got %q", message, t.LastError)
	}
	return nil
}
