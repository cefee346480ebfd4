package frame

import "context"

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes one pass through the frame pipeline.
type OperationLog struct {
	Operation string
	Identity  Identity
	State     ViewState
	Records   int
	Rendered  int
	Status    string
	Error     error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithDefaultState overrides the state used when no previous state is supplied.
func WithDefaultState(state ViewState) ServiceOption {
	return func(service *Service) {
		service.defaultState = state
	}
}
