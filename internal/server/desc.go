package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ManifestServiceName = "dcreceiving.v1.ManifestService"

const (
	methodExtract    = "/" + ManifestServiceName + "/Extract"
	methodExportCSV  = "/" + ManifestServiceName + "/ExportCSV"
	methodExportXLSX = "/" + ManifestServiceName + "/ExportXLSX"
)

// ManifestServiceServer is the server side of dcreceiving.v1.ManifestService.
// Messages are protobuf well-known types so no generated code is needed.
type ManifestServiceServer interface {
	Extract(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ExportCSV(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	ExportXLSX(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
}

var ManifestServiceDesc = grpc.ServiceDesc{
	ServiceName: ManifestServiceName,
	HandlerType: (*ManifestServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: unary(methodExtract, ManifestServiceServer.Extract)},
		{MethodName: "ExportCSV", Handler: unary(methodExportCSV, ManifestServiceServer.ExportCSV)},
		{MethodName: "ExportXLSX", Handler: unary(methodExportXLSX, ManifestServiceServer.ExportXLSX)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dcreceiving/v1/manifest.proto",
}

func RegisterManifestServiceServer(s grpc.ServiceRegistrar, srv ManifestServiceServer) {
	s.RegisterService(&ManifestServiceDesc, srv)
}

func unary[Req any, Resp any](fullMethod string, call func(ManifestServiceServer, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ManifestServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ManifestServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
