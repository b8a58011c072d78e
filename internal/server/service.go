package server

import (
	"bytes"
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/dc-receiving/internal/common"
	"github.com/joseph-ayodele/dc-receiving/internal/core/pipeline"
	"github.com/joseph-ayodele/dc-receiving/internal/entity"
	"github.com/joseph-ayodele/dc-receiving/internal/export"
	"github.com/joseph-ayodele/dc-receiving/internal/report"
)

// ManifestServer extracts manifests sent as text over gRPC.
type ManifestServer struct {
	pipeline *pipeline.Pipeline
	exports  *export.Service
	logger   *zap.Logger
}

func NewManifestServer(p *pipeline.Pipeline, exports *export.Service, logger *zap.Logger) *ManifestServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if p == nil {
		p = pipeline.New(pipeline.Options{})
	}
	if exports == nil {
		exports = export.NewService(logger)
	}
	return &ManifestServer{pipeline: p, exports: exports, logger: logger}
}

// Extract returns the JSON report as a Struct. Failed extractions are
// returned too; callers read "status" and "diagnostics".
func (s *ManifestServer) Extract(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	res, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}
	b, err := report.Marshal(res, report.EncodeOptions{})
	if err != nil {
		s.logger.Error("server.extract.encode_failed", zap.Error(err))
		return nil, common.InternalError("encode result failed")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		s.logger.Error("server.extract.encode_failed", zap.Error(err))
		return nil, common.InternalError("encode result failed")
	}
	return out, nil
}

func (s *ManifestServer) ExportCSV(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	res, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, res); err != nil {
		return nil, common.ToStatus(err)
	}
	return wrapperspb.Bytes(buf.Bytes()), nil
}

func (s *ManifestServer) ExportXLSX(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	res, err := s.extract(ctx, req)
	if err != nil {
		return nil, err
	}
	b, err := s.exports.XLSX(res)
	if err != nil {
		return nil, common.ToStatus(err)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *ManifestServer) extract(ctx context.Context, req *wrapperspb.StringValue) (entity.ExtractionResult, error) {
	text := req.GetValue()
	v := common.NewValidator().Field("text", text, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return entity.ExtractionResult{}, err
	}
	res, err := s.pipeline.ExtractContext(ctx, entity.SplitLines(text))
	if err != nil {
		return entity.ExtractionResult{}, status.FromContextError(err).Err()
	}
	s.logger.Debug("server.extract.done",
		zap.String("request_id", common.RequestIDFromContext(ctx)),
		zap.String("status", string(res.Status)),
		zap.Int("packages", len(res.Packages)),
		zap.Int("warnings", res.Warnings()),
	)
	return res, nil
}
