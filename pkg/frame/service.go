package frame

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Service runs the frame pipeline: decode, resolve, fetch, join, render.
type Service struct {
	allowance    AllowanceSource
	points       PointsSource
	validator    ActionValidator
	codec        StateCodec
	defaultState ViewState
	logger       OperationLogger
}

// Result is everything the response layer needs to emit the next frame.
type Result struct {
	State        ViewState
	EncodedState string
	Action       *Action
	Identity     Identity
	View         View
}

// NewService wires a Service.
func NewService(allowance AllowanceSource, points PointsSource, validator ActionValidator, codec StateCodec, options ...ServiceOption) (*Service, error) {
	if allowance == nil {
		return nil, fmt.Errorf("%w: allowance source is nil", ErrInvalidServiceConfig)
	}
	if points == nil {
		return nil, fmt.Errorf("%w: points source is nil", ErrInvalidServiceConfig)
	}
	if validator == nil {
		return nil, fmt.Errorf("%w: action validator is nil", ErrInvalidServiceConfig)
	}
	if codec == nil {
		return nil, fmt.Errorf("%w: state codec is nil", ErrInvalidServiceConfig)
	}
	service := &Service{
		allowance:    allowance,
		points:       points,
		validator:    validator,
		codec:        codec,
		defaultState: DefaultState(),
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Decode validates the inbound payload and restores the previous state.
// State vouched for by the validator takes precedence over rawState.
// An empty payload yields a nil action and the unchanged state.
func (service *Service) Decode(ctx context.Context, rawState string, payload []byte) (ViewState, *Action, error) {
	var action *Action
	if len(payload) > 0 {
		validated, err := service.validator.ValidateAction(ctx, payload)
		if err != nil {
			code := codeUpstream
			if errors.Is(err, ErrInvalidPayload) {
				code = codeInvalid
			}
			return ViewState{}, nil, WrapError(operationDecode, subjectPayload, code, err)
		}
		action = &validated
		if validated.State != "" {
			rawState = validated.State
		}
	}
	state := service.defaultState
	if rawState != "" {
		decoded, err := service.codec.Decode(rawState)
		if err != nil {
			if !errors.Is(err, ErrInvalidState) {
				err = fmt.Errorf("%w: %w", ErrInvalidState, err)
			}
			return ViewState{}, nil, WrapError(operationDecode, subjectState, codeInvalid, err)
		}
		state = decoded
	}
	if action == nil {
		return state, nil, nil
	}
	return Reduce(state, *action), action, nil
}

// FetchAllowance performs exactly one allowance lookup.
func (service *Service) FetchAllowance(ctx context.Context, identity Identity) ([]AllowanceRecord, error) {
	records, err := service.allowance.FetchAllowance(ctx, identity)
	if err != nil {
		return nil, WrapError(operationFetch, subjectAllowance, codeUpstream, err)
	}
	return records, nil
}

// Join attaches points to every record, issuing one lookup per record with a wallet address.
// Lookups run concurrently; the first failure cancels the rest and fails the join.
func (service *Service) Join(ctx context.Context, records []AllowanceRecord) ([]JoinedRecord, error) {
	joined := make([]JoinedRecord, len(records))
	for index, record := range records {
		joined[index] = JoinedRecord{AllowanceRecord: record, Points: UnknownPoints}
	}
	group, groupContext := errgroup.WithContext(ctx)
	for index, record := range records {
		index, record := index, record
		walletAddress := record.WalletAddress.String()
		if walletAddress == "" {
			continue
		}
		group.Go(func() error {
			points, err := service.points.FetchPoints(groupContext, walletAddress)
			if err != nil {
				return err
			}
			joined[index].Points = MatchPoints(record, points)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, WrapError(operationJoin, subjectPoints, codeUpstream, err)
	}
	return joined, nil
}

// MatchPoints returns the points of the first row whose display name matches the record.
func MatchPoints(record AllowanceRecord, points []PointsRecord) string {
	for _, candidate := range points {
		if candidate.DisplayName != record.DisplayName {
			continue
		}
		if candidate.Points == "" {
			return UnknownPoints
		}
		return candidate.Points.String()
	}
	return UnknownPoints
}

// Handle runs the whole pipeline for one request.
func (service *Service) Handle(ctx context.Context, rawState string, payload []byte) (Result, error) {
	result, records, err := service.handle(ctx, rawState, payload)
	entry := OperationLog{
		Operation: operationHandle,
		Identity:  result.Identity,
		State:     result.State,
		Records:   records,
		Rendered:  len(result.View.Cards),
		Error:     err,
	}
	if err == nil && result.Action == nil {
		entry.Status = operationStatusIntro
	}
	service.logOperation(ctx, entry)
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (service *Service) handle(ctx context.Context, rawState string, payload []byte) (Result, int, error) {
	state, action, err := service.Decode(ctx, rawState, payload)
	if err != nil {
		return Result{}, 0, err
	}
	result := Result{State: state, Action: action, View: IntroView()}
	records := 0
	if action != nil {
		result.Identity = ResolveIdentity(*action)
		allowances, fetchErr := service.FetchAllowance(ctx, result.Identity)
		if fetchErr != nil {
			return result, 0, fetchErr
		}
		records = len(allowances)
		joined, joinErr := service.Join(ctx, allowances)
		if joinErr != nil {
			return result, records, joinErr
		}
		result.View = BuildView(result.Identity, joined)
	}
	encoded, err := service.codec.Encode(state)
	if err != nil {
		return result, records, WrapError(operationRender, subjectState, codeEncode, err)
	}
	result.EncodedState = encoded
	return result, records, nil
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
