package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ScanServiceName = "certscan.v1.ScanService"

	ScanService_Extract_FullMethodName     = "/certscan.v1.ScanService/Extract"
	ScanService_GetScan_FullMethodName     = "/certscan.v1.ScanService/GetScan"
	ScanService_Compare_FullMethodName     = "/certscan.v1.ScanService/Compare"
	ScanService_ExportScans_FullMethodName = "/certscan.v1.ScanService/ExportScans"
)

// ScanServiceServer is the server API for ScanService. Requests and responses
// are google.protobuf.Struct documents.
type ScanServiceServer interface {
	Extract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetScan(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportScans(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(ScanServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ScanServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ScanServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ScanService_ServiceDesc is the grpc.ServiceDesc for ScanService.
var ScanService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ScanServiceName,
	HandlerType: (*ScanServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unaryHandler(ScanService_Extract_FullMethodName, ScanServiceServer.Extract)},
		{MethodName: "GetScan", Handler: unaryHandler(ScanService_GetScan_FullMethodName, ScanServiceServer.GetScan)},
		{MethodName: "Compare", Handler: unaryHandler(ScanService_Compare_FullMethodName, ScanServiceServer.Compare)},
		{MethodName: "ExportScans", Handler: unaryHandler(ScanService_ExportScans_FullMethodName, ScanServiceServer.ExportScans)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "certscan/v1/scan.proto",
}

func RegisterScanServiceServer(s grpc.ServiceRegistrar, srv ScanServiceServer) {
	s.RegisterService(&ScanService_ServiceDesc, srv)
}

// ScanServiceClient is the client API for ScanService.
type ScanServiceClient interface {
	Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetScan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Compare(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ExportScans(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type scanServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewScanServiceClient(cc grpc.ClientConnInterface) ScanServiceClient {
	return &scanServiceClient{cc}
}

func (c *scanServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *scanServiceClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ScanService_Extract_FullMethodName, in, opts)
}

func (c *scanServiceClient) GetScan(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ScanService_GetScan_FullMethodName, in, opts)
}

func (c *scanServiceClient) Compare(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ScanService_Compare_FullMethodName, in, opts)
}

func (c *scanServiceClient) ExportScans(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ScanService_ExportScans_FullMethodName, in, opts)
}
