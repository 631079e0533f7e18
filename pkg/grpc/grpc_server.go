package grpc

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"waterwatch.io/commissioning-service/pkg/fleet"
)

// The hardware bridge service exchanges google.protobuf.Struct messages so
// device firmware can evolve its report fields without a schema release.
const (
	HardwareBridgeServiceName = "commissioning.v1.HardwareBridge"

	ReportTestResultMethod = "/" + HardwareBridgeServiceName + "/ReportTestResult"
	GetReadinessMethod     = "/" + HardwareBridgeServiceName + "/GetReadiness"
)

type HardwareBridgeServer interface {
	ReportTestResult(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReadiness(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type BridgeServer struct {
	Fleet            *fleet.Fleet
	RateLimiterStore *fleet.RateLimiterStore
}

func (s *BridgeServer) GetLimiter(commissionID string) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	}
	return s.RateLimiterStore.GetLimiter(commissionID)
}

func (s *BridgeServer) CheckCommissionLimiter(commissionID string) bool {
	limiter := s.GetLimiter(commissionID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

var HardwareBridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: HardwareBridgeServiceName,
	HandlerType: (*HardwareBridgeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ReportTestResult",
			Handler:    reportTestResultHandler,
		},
		{
			MethodName: "GetReadiness",
			Handler:    getReadinessHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "commissioning/v1/hardware_bridge.proto",
}

func RegisterHardwareBridgeServer(s grpc.ServiceRegistrar, srv HardwareBridgeServer) {
	s.RegisterService(&HardwareBridgeServiceDesc, srv)
}

func reportTestResultHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HardwareBridgeServer).ReportTestResult(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReportTestResultMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HardwareBridgeServer).ReportTestResult(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getReadinessHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HardwareBridgeServer).GetReadiness(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetReadinessMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(HardwareBridgeServer).GetReadiness(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type HardwareBridgeClient struct {
	cc grpc.ClientConnInterface
}

func NewHardwareBridgeClient(cc grpc.ClientConnInterface) *HardwareBridgeClient {
	return &HardwareBridgeClient{cc: cc}
}

func (c *HardwareBridgeClient) ReportTestResult(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReportTestResultMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HardwareBridgeClient) GetReadiness(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetReadinessMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var _ HardwareBridgeServer = (*BridgeServer)(nil)
