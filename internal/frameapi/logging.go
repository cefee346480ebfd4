package frameapi

import (
	"context"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// requestIDMiddleware tags each request with an id, reusing an inbound X-Request-ID when present.
func requestIDMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Request = ctx.Request.WithContext(context.WithValue(ctx.Request.Context(), requestIDKey{}, id))
		ctx.Header(requestIDHeader, id)
		ctx.Next()
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type zapOperationLogger struct {
	logger *zap.Logger
}

func newZapOperationLogger(logger *zap.Logger) *zapOperationLogger {
	return &zapOperationLogger{logger: logger}
}

// LogOperation implements frame.OperationLogger.
func (operationLogger *zapOperationLogger) LogOperation(ctx context.Context, entry frame.OperationLog) {
	fields := []zap.Field{
		zap.String("request_id", requestID(ctx)),
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
		zap.String("identity", entry.Identity.String()),
		zap.String("active", entry.State.Active),
		zap.Int("total_button_presses", entry.State.TotalButtonPresses),
		zap.Int("records", entry.Records),
		zap.Int("rendered", entry.Rendered),
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		operationLogger.logger.Warn("frame operation failed", fields...)
		return
	}
	operationLogger.logger.Info("frame operation", fields...)
}
