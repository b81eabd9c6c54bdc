package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "geflip.daemon.v1.Daemon"

const (
	methodSuggest          = "Suggest"
	methodWatchlist        = "Watchlist"
	methodRefreshWatchlist = "RefreshWatchlist"
	methodStatus           = "Status"
)

// DaemonService is the server side of the daemon RPC surface. Every message is
// a google.protobuf.Struct holding the JSON form of the request and reply types
// in this package.
type DaemonService interface {
	Suggest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Watchlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RefreshWatchlist(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Status(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(DaemonService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call structMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(DaemonService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(DaemonService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the daemon service for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DaemonService)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler(methodSuggest, DaemonService.Suggest),
		unaryHandler(methodWatchlist, DaemonService.Watchlist),
		unaryHandler(methodRefreshWatchlist, DaemonService.RefreshWatchlist),
		unaryHandler(methodStatus, DaemonService.Status),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "geflip/daemon/v1/daemon.proto",
}

// RegisterDaemonService registers impl on s
func RegisterDaemonService(s grpc.ServiceRegistrar, impl DaemonService) {
	s.RegisterService(&ServiceDesc, impl)
}

// toStruct converts v to a Struct through its JSON encoding
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("failed to convert message: %w", err)
	}
	return out, nil
}

// fromStruct decodes s into v through its JSON encoding
func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to convert message: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode message: %w", err)
	}
	return nil
}
