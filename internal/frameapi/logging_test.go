package frameapi

import (
	"context"
	"errors"
	"testing"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapOperationLoggerFields(test *testing.T) {
	test.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	operationLogger := newZapOperationLogger(zap.New(core))
	ctx := context.WithValue(context.Background(), requestIDKey{}, "req-1")

	operationLogger.LogOperation(ctx, frame.OperationLog{
		Operation: "handle",
		Identity:  frame.NewIdentity("3621"),
		State:     frame.ViewState{Active: "1", TotalButtonPresses: 2},
		Records:   5,
		Rendered:  4,
		Status:    "ok",
	})
	operationLogger.LogOperation(ctx, frame.OperationLog{
		Operation: "handle",
		Status:    "error",
		Error:     errors.New("boom"),
	})

	entries := logs.All()
	if len(entries) != 2 {
		test.Fatalf("expected two entries, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if entries[0].Level != zapcore.InfoLevel || first["request_id"] != "req-1" || first["identity"] != "3621" {
		test.Fatalf("unexpected success entry: %+v", first)
	}
	if first["records"] != int64(5) || first["rendered"] != int64(4) {
		test.Fatalf("unexpected counts: %+v", first)
	}
	second := entries[1].ContextMap()
	if entries[1].Level != zapcore.WarnLevel || second["error"] != "boom" || second["status"] != "error" {
		test.Fatalf("unexpected error entry: %+v", second)
	}
}

func TestRequestIDDefaultsToEmpty(test *testing.T) {
	test.Parallel()
	if got := requestID(context.Background()); got != "" {
		test.Fatalf("expected empty request id, got %q", got)
	}
}
