package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ManifestClient calls dcreceiving.v1.ManifestService.
type ManifestClient struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *ManifestClient {
	return &ManifestClient{cc: cc}
}

func (c *ManifestClient) Extract(ctx context.Context, text string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodExtract, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ManifestClient) ExportCSV(ctx context.Context, text string, opts ...grpc.CallOption) ([]byte, error) {
	return c.bytes(ctx, methodExportCSV, text, opts...)
}

func (c *ManifestClient) ExportXLSX(ctx context.Context, text string, opts ...grpc.CallOption) ([]byte, error) {
	return c.bytes(ctx, methodExportXLSX, text, opts...)
}

func (c *ManifestClient) bytes(ctx context.Context, method, text string, opts ...grpc.CallOption) ([]byte, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, method, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}
