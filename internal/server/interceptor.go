package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/dc-receiving/internal/common"
)

// RequestIDHeader is the incoming metadata key honoured as request ID.
const RequestIDHeader = "x-request-id"

// UnaryLogging attaches a request ID, maps application errors to status
// errors and logs one line per call.
func UnaryLogging(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		reqID := requestID(ctx)
		ctx = common.WithRequestID(ctx, reqID)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc.panic", zap.String("method", info.FullMethod), zap.String("request_id", reqID), zap.Any("panic", r))
				resp, err = nil, common.InternalError("internal error")
			}
			code := status.Code(err)
			fields := []zap.Field{
				zap.String("method", info.FullMethod),
				zap.String("request_id", reqID),
				zap.String("code", code.String()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("grpc.call.failed", append(fields, zap.Error(err))...)
				return
			}
			logger.Info("grpc.call", fields...)
		}()

		resp, err = handler(ctx, req)
		return resp, common.ToStatus(err)
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := md.Get(RequestIDHeader); len(v) > 0 && v[0] != "" {
			return v[0]
		}
	}
	return uuid.NewString()
}
