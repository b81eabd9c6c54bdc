package grpc_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	daemongrpc "github.com/andrescamacho/geflip-go/internal/adapters/grpc"
	"github.com/andrescamacho/geflip-go/internal/app"
	watchCommands "github.com/andrescamacho/geflip-go/internal/application/watch/commands"
	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
	"github.com/andrescamacho/geflip-go/test/helpers"
)

func newDaemon(t *testing.T) (*daemongrpc.DaemonServer, *app.App) {
	t.Helper()
	a, _ := helpers.NewTestApp(t)
	refresher := watchServices.NewWatchlistRefresher(a.Suggestions, a.Watchlist, 1_000_000, a.Filters)
	monitor := daemon.NewHealthMonitor(a.Clock)
	monitor.Track("refresh", time.Minute)
	srv := daemongrpc.NewDaemonServer(a.Mediator, a.Filters, refresher, monitor, a.Clock, daemongrpc.ServerInfo{Version: "test"})
	return srv, a
}

func dialBufconn(t *testing.T, srv *daemongrpc.DaemonServer) *daemongrpc.DaemonClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := srv.NewGRPCServer()
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := daemongrpc.NewDaemonClientFromConn(conn)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDaemon_Suggest(t *testing.T) {
	// Arrange
	srv, _ := newDaemon(t)
	client := dialBufconn(t, srv)

	// Act
	reply, err := client.Suggest(context.Background(), daemongrpc.SuggestRequest{Budget: 1_000_000})

	// Assert
	require.NoError(t, err)
	require.Len(t, reply.Suggestions, 2)
	assert.Equal(t, 2363, reply.Suggestions[0].ItemID)
	assert.Equal(t, "Cannonball", reply.Suggestions[1].ItemName)
	assert.Equal(t, int64(14_700), reply.Suggestions[1].TotalProfit)
	assert.Equal(t, "latest", reply.PriceSource)
	assert.Equal(t, "local", reply.LimitSource)
	assert.Equal(t, time.Unix(helpers.TestNowUnix, 0).UTC(), reply.GeneratedAt.UTC())
}

func TestDaemon_SuggestOverrides(t *testing.T) {
	srv, _ := newDaemon(t)
	client := dialBufconn(t, srv)
	minProfit := int64(250)

	reply, err := client.Suggest(context.Background(), daemongrpc.SuggestRequest{
		Budget:    1_000_000,
		ItemIDs:   []int{2, 2363},
		MinProfit: &minProfit,
	})

	require.NoError(t, err)
	require.Len(t, reply.Suggestions, 1, "cannonball's 147 gp unit profit is below the floor")
	assert.Equal(t, 2363, reply.Suggestions[0].ItemID)
}

func TestDaemon_SuggestRejectsInvalidRequest(t *testing.T) {
	srv, _ := newDaemon(t)
	client := dialBufconn(t, srv)

	_, err := client.Suggest(context.Background(), daemongrpc.SuggestRequest{Budget: 1_000_000, PriceSource: "5m"})

	var rpcErr *daemongrpc.RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, codes.InvalidArgument, rpcErr.Code)
}

func TestDaemon_WatchlistRefresh(t *testing.T) {
	// Arrange
	srv, a := newDaemon(t)
	client := dialBufconn(t, srv)
	ctx := context.Background()
	_, err := a.Mediator.Send(ctx, &watchCommands.AddWatchCommand{ItemIDs: []int{2}})
	require.NoError(t, err)

	// Act
	_, errBefore := client.Watchlist(ctx)
	refreshed, errRefresh := client.RefreshWatchlist(ctx)
	latest, errLatest := client.Watchlist(ctx)

	// Assert
	assert.True(t, daemongrpc.IsNotFound(errBefore))
	require.NoError(t, errRefresh)
	require.NoError(t, errLatest)
	assert.Equal(t, []int{2}, refreshed.Watched)
	require.Len(t, refreshed.Suggestions, 1)
	assert.Equal(t, int64(1015), refreshed.Suggestions[0].BuyPrice)
	assert.Equal(t, refreshed.RunID, latest.RunID)
}

func TestDaemon_Status(t *testing.T) {
	srv, _ := newDaemon(t)
	client := dialBufconn(t, srv)

	st, err := client.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), st.PID)
	assert.Equal(t, "test", st.Version)
	assert.True(t, st.Healthy)
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "refresh", st.Tasks[0].Name)
}

func TestDaemon_ServesOnUnixSocket(t *testing.T) {
	// Arrange
	dir, err := os.MkdirTemp("", "gfd")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	socket := filepath.Join(dir, "d.sock")

	srv, _ := newDaemon(t)
	require.NoError(t, srv.Listen(socket))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	client, err := daemongrpc.NewDaemonClient(socket)
	require.NoError(t, err)
	defer client.Close()

	// Act
	callCtx, callCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer callCancel()
	st, err := client.Status(callCtx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, socket, st.SocketPath)

	info, statErr := os.Stat(socket)
	require.NoError(t, statErr)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cancel()
	require.NoError(t, <-done)
	_, statErr = os.Stat(socket)
	assert.True(t, os.IsNotExist(statErr), "socket is removed on shutdown")
}

func TestNewDaemonClient_MissingSocket(t *testing.T) {
	_, err := daemongrpc.NewDaemonClient(filepath.Join(t.TempDir(), "absent.sock"))

	assert.ErrorIs(t, err, daemon.ErrDaemonUnavailable)
}
