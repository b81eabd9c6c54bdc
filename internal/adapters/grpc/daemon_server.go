// Package grpc exposes the daemon over gRPC on a unix domain socket so that
// CLI invocations can reuse its warm feed cache and watchlist state.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/geflip-go/internal/application/mediator"
	tradingQueries "github.com/andrescamacho/geflip-go/internal/application/trading/queries"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/alert"
	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/internal/domain/market"
	"github.com/andrescamacho/geflip-go/internal/domain/shared"
	"github.com/andrescamacho/geflip-go/internal/domain/trading"
	"github.com/andrescamacho/geflip-go/pkg/utils"
)

// WatchlistFeed is the part of the watchlist refresher the daemon exposes
type WatchlistFeed interface {
	Latest() *watchServices.RefreshResult
	RefreshOnce(ctx context.Context) (*watchServices.RefreshResult, error)
}

// ServerInfo is reported by the Status RPC
type ServerInfo struct {
	Version     string
	SocketPath  string
	HTTPAddress string
}

// DaemonServer implements DaemonService on top of the application mediator
type DaemonServer struct {
	mediator mediator.Mediator
	filters  trading.Filters
	watch    WatchlistFeed
	monitor  *daemon.HealthMonitor
	clock    shared.Clock
	info     ServerInfo

	listener   net.Listener
	grpcServer *grpc.Server
}

// NewDaemonServer creates a server. watch may be nil when no refresher runs.
func NewDaemonServer(
	m mediator.Mediator,
	filters trading.Filters,
	watch WatchlistFeed,
	monitor *daemon.HealthMonitor,
	clock shared.Clock,
	info ServerInfo,
) *DaemonServer {
	clock = shared.OrRealClock(clock)
	if monitor == nil {
		monitor = daemon.NewHealthMonitor(clock)
	}
	return &DaemonServer{
		mediator: m,
		filters:  filters,
		watch:    watch,
		monitor:  monitor,
		clock:    clock,
		info:     info,
	}
}

// Listen binds the unix socket, replacing a stale socket file
func (s *DaemonServer) Listen(socketPath string) error {
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("failed to remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to create unix socket listener: %w", err)
	}
	// owner only
	if err := os.Chmod(socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}
	s.listener = listener
	s.info.SocketPath = socketPath
	return nil
}

// NewGRPCServer returns a grpc.Server with the daemon service registered
func (s *DaemonServer) NewGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.UnaryInterceptor(loggingInterceptor))
	RegisterDaemonService(srv, s)
	return srv
}

// Serve handles requests on the listener until ctx is cancelled, then stops gracefully
func (s *DaemonServer) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("daemon server is not listening")
	}
	s.grpcServer = s.NewGRPCServer()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Daemon server listening", "socket", s.listener.Addr().String())
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("Initiating graceful shutdown of gRPC server")
		s.grpcServer.GracefulStop()
		_ = os.Remove(s.info.SocketPath)
		return <-errCh
	}
}

// Suggest runs the engine through the mediator
func (s *DaemonServer) Suggest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SuggestRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	filters, err := s.requestFilters(req)
	if err != nil {
		return nil, toStatus(err)
	}

	resp, err := s.mediator.Send(ctx, &tradingQueries.GenerateSuggestionsQuery{
		Budget:    req.Budget,
		Filters:   filters,
		TopN:      req.Top,
		ItemIDs:   req.ItemIDs,
		WithGuide: req.WithGuide,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	r := resp.(*tradingQueries.GenerateSuggestionsResponse)
	return encode(SuggestReply{
		GeneratedAt: r.GeneratedAt,
		PriceSource: r.PriceSource,
		LimitSource: r.LimitSource,
		Scanned:     r.Scanned,
		Suggestions: r.Suggestions,
	})
}

// Watchlist returns the most recent background refresh
func (s *DaemonServer) Watchlist(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if s.watch == nil {
		return nil, status.Error(codes.Unavailable, "watchlist refresher is not running")
	}
	latest := s.watch.Latest()
	if latest == nil {
		return nil, status.Error(codes.NotFound, "no refresh has completed yet")
	}
	return encode(latest)
}

// RefreshWatchlist refreshes the watchlist now and returns the result
func (s *DaemonServer) RefreshWatchlist(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	if s.watch == nil {
		return nil, status.Error(codes.Unavailable, "watchlist refresher is not running")
	}
	res, err := s.watch.RefreshOnce(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(res)
}

// Status reports process and background task health
func (s *DaemonServer) Status(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st := daemon.NewStatus(os.Getpid(), s.info.Version, s.info.SocketPath, s.info.HTTPAddress, s.monitor, s.clock.Now())
	return encode(st)
}

func (s *DaemonServer) requestFilters(req SuggestRequest) (*trading.Filters, error) {
	if req.PriceSource == "" && req.MinROI == nil && req.MinProfit == nil && req.MinVolume == nil {
		return nil, nil
	}
	f := s.filters
	if req.PriceSource != "" {
		source, err := trading.ParsePriceSource(req.PriceSource)
		if err != nil {
			return nil, err
		}
		f.PriceSource = source
	}
	if req.MinROI != nil {
		f.MinUnitROI = *req.MinROI
	}
	if req.MinProfit != nil {
		f.MinUnitProfit = *req.MinProfit
	}
	if req.MinVolume != nil {
		f.MinHourlyVolume = *req.MinVolume
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func encode(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// toStatus maps application errors onto gRPC status codes
func toStatus(err error) error {
	var notFound *shared.ItemNotFoundError
	var validation *shared.ValidationError

	code := codes.Internal
	switch {
	case errors.As(err, &notFound), errors.Is(err, alert.ErrAlertNotFound):
		code = codes.NotFound
	case errors.As(err, &validation),
		errors.Is(err, trading.ErrInvalidBudget),
		errors.Is(err, trading.ErrInvalidFilters),
		errors.Is(err, trading.ErrUnknownPriceSource),
		errors.Is(err, utils.ErrInvalidGP):
		code = codes.InvalidArgument
	case errors.Is(err, market.ErrFeedUnavailable):
		code = codes.Unavailable
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	}
	return status.Error(code, err.Error())
}

func loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.Warn("rpc failed", "method", info.FullMethod, "duration", time.Since(start), "error", err)
	} else {
		slog.Debug("rpc", "method", info.FullMethod, "duration", time.Since(start))
	}
	return resp, err
}
