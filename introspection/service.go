package introspection

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// serviceName is the gRPC-reflection-visible name of the introspection
// service. It is not versioned under a .proto package because the service
// carries no generated stubs: its single method exchanges well-known
// protobuf types (Empty, Struct) rather than hand-maintained message types.
const serviceName = "its.introspection.PipelineStats"

// pipelineStatsServer implements the single GetPipelineStats RPC.
type pipelineStatsServer struct {
	collector *Collector
}

func (s *pipelineStatsServer) getPipelineStats(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snap := s.collector.Snapshot()
	return structpb.NewStruct(map[string]any{
		"received_total":           float64(snap.ReceivedTotal),
		"sent_total":               float64(snap.SentTotal),
		"filtered_total":           float64(snap.FilteredTotal),
		"reconnect_backoff_millis": float64(snap.ReconnectBackoffMillis),
		"sequence_number":          float64(snap.SequenceNumber),
	})
}

func getPipelineStatsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &emptypb.Empty{}
	if err := dec(req); err != nil {
		return nil, err
	}
	server := srv.(*pipelineStatsServer)
	if interceptor == nil {
		return server.getPipelineStats(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: server, FullMethod: serviceName + "/GetPipelineStats"}
	handler := func(ctx context.Context, req any) (any, error) {
		return server.getPipelineStats(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, req, info, handler)
}

// serviceDesc is registered with grpc.NewServer the same way generated
// code registers a *_grpc.pb.go service descriptor; it is written by hand
// here because GetPipelineStats exchanges well-known protobuf types
// directly and needs no generated message types of its own.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*pipelineStatsServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetPipelineStats",
			Handler:    getPipelineStatsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "introspection/pipelinestats.proto",
}

// Register attaches the introspection service to server, backed by
// collector.
func Register(server *grpc.Server, collector *Collector) {
	server.RegisterService(&serviceDesc, &pipelineStatsServer{collector: collector})
}
