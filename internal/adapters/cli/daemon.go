package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/geflip-go/internal/adapters/grpc"
	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/internal/infrastructure/pidfile"
)

// NewDaemonCommand creates the daemon command with subcommands
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect the background daemon",
		Long: `Talk to geflip-daemon over its Unix socket.

The daemon keeps prices cached, refreshes the watchlist, checks alerts and
serves the JSON API. Start it with the geflip-daemon binary.

Examples:
  geflip daemon status
  geflip daemon status --socket /tmp/geflip-daemon.sock`,
	}

	cmd.AddCommand(newDaemonStatusCommand())

	return cmd
}

func newDaemonStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon health status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			client, err := daemongrpc.NewDaemonClient(socketPath)
			if errors.Is(err, daemon.ErrDaemonUnavailable) {
				if pid, running := pidfile.New(cfg.Daemon.PIDFile).Running(); running {
					return fmt.Errorf("daemon process %d is running but its socket %s is missing", pid, socketPath)
				}
				fmt.Fprintln(out, "✗ Daemon is not running")
				return err
			}
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			st, err := client.Status(ctx)
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}

			if st.Healthy {
				fmt.Fprintln(out, "✓ Daemon is healthy")
			} else {
				fmt.Fprintln(out, "! Daemon is degraded")
			}
			fmt.Fprintf(out, "  PID:       %d\n", st.PID)
			fmt.Fprintf(out, "  Version:   %s\n", st.Version)
			fmt.Fprintf(out, "  Uptime:    %s\n", st.Uptime)
			fmt.Fprintf(out, "  Socket:    %s\n", st.SocketPath)
			if st.HTTPAddress != "" {
				fmt.Fprintf(out, "  HTTP:      %s\n", st.HTTPAddress)
			}
			if len(st.Tasks) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tEVERY\tRUNS\tFAILURES\tLAST SUCCESS\tSTATUS")
			fmt.Fprintln(w, "────\t─────\t────\t────────\t────────────\t──────")
			for _, t := range st.Tasks {
				last := "never"
				if t.LastSuccess != nil {
					last = t.LastSuccess.Local().Format(time.DateTime)
				}
				status := "ok"
				if !t.Healthy {
					status = "unhealthy"
					if t.LastError != "" {
						status += ": " + t.LastError
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n", t.Name, t.Interval, t.Runs, t.Failures, last, status)
			}
			return w.Flush()
		},
	}
}
