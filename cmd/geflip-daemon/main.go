package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/geflip-go/internal/adapters/grpc"
	"github.com/andrescamacho/geflip-go/internal/adapters/httpapi"
	"github.com/andrescamacho/geflip-go/internal/adapters/metrics"
	"github.com/andrescamacho/geflip-go/internal/app"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/config"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/logging"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/pidfile"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

const version = "0.1.0"

// Background task names reported by the status RPC
const (
	taskRefresh = "watchlist-refresh"
	taskAlerts  = "alert-check"
)

func main() {
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config.yaml")
	flag.Parse()

	fmt.Printf("geflip daemon v%s\n", version)
	fmt.Println("====================")

	cfg := config.MustLoadConfig(*configFlag)

	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
		fmt.Println("Force mode enabled - attempting to kill existing daemon...")
		if killErr := pf.KillExisting(); killErr != nil {
			log.Fatalf("Failed to kill existing daemon: %v", killErr)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
		}
	}
	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()

	if err := run(cfg); err != nil {
		log.Printf("Fatal error: %v", err)
		_ = pf.Release()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	closer, err := logging.Setup(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	if cfg.Metrics.Enabled {
		if err := metrics.Enable(); err != nil {
			return fmt.Errorf("failed to enable metrics: %w", err)
		}
	}

	budget, err := utils.ParseGP(cfg.Daemon.Budget)
	if err != nil {
		return fmt.Errorf("invalid daemon budget: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.Close()

	monitor := daemon.NewHealthMonitor(a.Clock)
	monitor.Track(taskRefresh, cfg.Daemon.RefreshInterval)
	monitor.Track(taskAlerts, cfg.Daemon.AlertInterval)

	refresher := watchServices.NewWatchlistRefresher(a.Suggestions, a.Watchlist, budget, a.Filters)

	httpAddress := ""
	if !cfg.Daemon.HTTP.Disabled {
		httpAddress = cfg.Daemon.HTTP.Address
	}

	socketPath := cfg.Daemon.SocketPath
	if err := os.MkdirAll(filepath.Dir(socketPath), 0o755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	server := grpc.NewDaemonServer(a.Mediator, a.Filters, refresher, monitor, a.Clock, grpc.ServerInfo{
		Version:     version,
		HTTPAddress: httpAddress,
	})
	if err := server.Listen(socketPath); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		every(gctx, cfg.Daemon.RefreshInterval, func() {
			res, err := refresher.RefreshOnce(gctx)
			if gctx.Err() != nil {
				return
			}
			monitor.Record(taskRefresh, err)
			if err != nil {
				slog.Warn("watchlist refresh failed", "error", err)
				return
			}
			slog.Debug("watchlist refreshed", "run_id", res.RunID, "watched", len(res.Watched))
		})
		return nil
	})

	g.Go(func() error {
		every(gctx, cfg.Daemon.AlertInterval, func() {
			res, err := a.AlertChecker.Check(gctx)
			if gctx.Err() != nil {
				return
			}
			monitor.Record(taskAlerts, err)
			if err != nil {
				slog.Warn("alert check failed", "error", err)
				return
			}
			for _, al := range res.Triggered {
				slog.Info("price alert triggered", "alert_id", al.ID(), "item_id", al.ItemID(), "direction", al.Direction(), "price", *al.TriggeredPrice())
			}
		})
		return nil
	})

	g.Go(func() error {
		return server.Serve(gctx)
	})

	if httpAddress != "" {
		api := httpapi.NewServer(cfg.Daemon.HTTP, a.Mediator, a.Filters, refresher)
		g.Go(func() error {
			return api.Run(gctx, cfg.Daemon.ShutdownTimeout)
		})
	} else if cfg.Metrics.Enabled {
		addr := net.JoinHostPort(cfg.Metrics.Host, strconv.Itoa(cfg.Metrics.Port))
		g.Go(func() error {
			return metrics.Serve(gctx, addr, cfg.Metrics.Path)
		})
	}

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Printf("  Socket: %s\n", socketPath)
	if httpAddress != "" {
		fmt.Printf("  HTTP:   http://%s\n", httpAddress)
	}
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("\nDaemon stopped")
	return nil
}

// every runs fn immediately and then on each tick until ctx is cancelled
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		fn()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
