package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ScanServiceName      = "scanner.v1.ScanService"
	ScanServiceEvaluate  = "/scanner.v1.ScanService/Evaluate"
	ScanServiceScanImage = "/scanner.v1.ScanService/ScanImage"
	ScanServiceRules     = "/scanner.v1.ScanService/Rules"
)

// ScanServiceServer is the server API for scanner.v1.ScanService. Messages are
// protobuf well-known types so no generated code is needed on either side.
type ScanServiceServer interface {
	Evaluate(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ScanImage(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	Rules(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterScanServiceServer registers srv on s.
func RegisterScanServiceServer(s grpc.ServiceRegistrar, srv ScanServiceServer) {
	s.RegisterService(&ScanService_ServiceDesc, srv)
}

func _ScanService_Evaluate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScanServiceServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScanServiceEvaluate}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScanServiceServer).Evaluate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScanService_ScanImage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScanServiceServer).ScanImage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScanServiceScanImage}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScanServiceServer).ScanImage(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScanService_Rules_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScanServiceServer).Rules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScanServiceRules}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScanServiceServer).Rules(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ScanService_ServiceDesc is the grpc.ServiceDesc for scanner.v1.ScanService.
var ScanService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ScanServiceName,
	HandlerType: (*ScanServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: _ScanService_Evaluate_Handler},
		{MethodName: "ScanImage", Handler: _ScanService_ScanImage_Handler},
		{MethodName: "Rules", Handler: _ScanService_Rules_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "scanner/v1/scan.proto",
}

// ScanServiceClient is the client API for scanner.v1.ScanService.
type ScanServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewScanServiceClient(cc grpc.ClientConnInterface) *ScanServiceClient {
	return &ScanServiceClient{cc: cc}
}

func (c *ScanServiceClient) Evaluate(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScanServiceEvaluate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ScanServiceClient) ScanImage(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScanServiceScanImage, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ScanServiceClient) Rules(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScanServiceRules, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
