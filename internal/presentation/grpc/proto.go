package grpc

// proto.go defines the gRPC server interface for risk.v1.ScoringService.
// Messages travel with the JSON codec, so the service descriptor is written
// by hand instead of generated.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Fully qualified names of the scoring service.
const (
	ScoringServiceName       = "risk.v1.ScoringService"
	ScoringServiceScoreFraud = "/" + ScoringServiceName + "/ScoreFraud"
)

// ScoringServiceServer is the server API for ScoringService.
type ScoringServiceServer interface {
	ScoreFraud(context.Context, *ScoreFraudRequest) (*ScoreFraudResponse, error)
	mustEmbedUnimplementedScoringServiceServer()
}

// UnimplementedScoringServiceServer provides forward-compatible default implementations.
type UnimplementedScoringServiceServer struct{}

func (UnimplementedScoringServiceServer) ScoreFraud(context.Context, *ScoreFraudRequest) (*ScoreFraudResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreFraud not implemented")
}
func (UnimplementedScoringServiceServer) mustEmbedUnimplementedScoringServiceServer() {}

// RegisterScoringServiceServer registers the ScoringServiceServer with the gRPC server.
func RegisterScoringServiceServer(s grpclib.ServiceRegistrar, srv ScoringServiceServer) {
	s.RegisterService(&_ScoringService_serviceDesc, srv)
}

var _ScoringService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ScoringServiceName,
	HandlerType: (*ScoringServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreFraud", Handler: _ScoringService_ScoreFraud_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _ScoringService_ScoreFraud_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ScoreFraudRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScoringServiceServer).ScoreFraud(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ScoringServiceScoreFraud}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScoringServiceServer).ScoreFraud(ctx, req.(*ScoreFraudRequest))
	}
	return interceptor(ctx, req, info, handler)
}
