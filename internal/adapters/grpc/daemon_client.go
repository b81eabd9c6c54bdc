package grpc

import (
	"context"
	"errors"
	"fmt"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	watchServices "github.com/andrescamacho/geflip-go/internal/application/watch/services"
	"github.com/andrescamacho/geflip-go/internal/domain/daemon"
)

// DaemonClient talks to a running daemon over its unix socket
type DaemonClient struct {
	conn *grpc.ClientConn
}

// NewDaemonClient connects to socketPath. It returns daemon.ErrDaemonUnavailable
// when the socket does not exist.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("%w: %s", daemon.ErrDaemonUnavailable, socketPath)
	}
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{conn: conn}, nil
}

// NewDaemonClientFromConn wraps an existing connection, e.g. a bufconn in tests
func NewDaemonClientFromConn(conn *grpc.ClientConn) *DaemonClient {
	return &DaemonClient{conn: conn}
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Suggest asks the daemon for suggestions
func (c *DaemonClient) Suggest(ctx context.Context, req SuggestRequest) (*SuggestReply, error) {
	var reply SuggestReply
	if err := c.call(ctx, methodSuggest, req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Watchlist returns the daemon's most recent watchlist refresh
func (c *DaemonClient) Watchlist(ctx context.Context) (*watchServices.RefreshResult, error) {
	var reply watchServices.RefreshResult
	if err := c.call(ctx, methodWatchlist, emptyRequest{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// RefreshWatchlist makes the daemon refresh its watchlist immediately
func (c *DaemonClient) RefreshWatchlist(ctx context.Context) (*watchServices.RefreshResult, error) {
	var reply watchServices.RefreshResult
	if err := c.call(ctx, methodRefreshWatchlist, emptyRequest{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// Status returns process and task health of the daemon
func (c *DaemonClient) Status(ctx context.Context) (*daemon.Status, error) {
	var reply daemon.Status
	if err := c.call(ctx, methodStatus, emptyRequest{}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (c *DaemonClient) call(ctx context.Context, method string, req, reply any) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return fromStatus(err)
	}
	return fromStruct(out, reply)
}

// RPCError is a failure reported through the daemon connection
type RPCError struct {
	Code    codes.Code
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("daemon: %s", e.Message)
}

// IsNotFound reports whether err is a NotFound answer from the daemon
func IsNotFound(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == codes.NotFound
}

func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &RPCError{Code: st.Code(), Message: st.Message()}
}
