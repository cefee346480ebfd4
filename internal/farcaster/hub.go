package farcaster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/degenframe/internal/metrics"
	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// DefaultHubURL is a public hub HTTP API.
	DefaultHubURL = "https://nemes.farcaster.xyz:2281"

	validateMessagePath = "/v1/validateMessage"
	frameActionType     = "MESSAGE_TYPE_FRAME_ACTION"
	hubEndpoint         = "hub"
	hubBodyLimit        = 1 << 20

	pathValid       = "valid"
	pathType        = "message.data.type"
	pathFID         = "message.data.fid"
	pathButtonIndex = "message.data.frameActionBody.buttonIndex"
	pathInputText   = "message.data.frameActionBody.inputText"
	pathURL         = "message.data.frameActionBody.url"
	pathState       = "message.data.frameActionBody.state"
	pathCastFID     = "message.data.frameActionBody.castId.fid"
	pathCastHash    = "message.data.frameActionBody.castId.hash"
	pathHash        = "message.hash"
)

// HubValidator validates frame actions by submitting the signed message to a hub.
type HubValidator struct {
	hubURL     string
	httpClient *http.Client
	logger     *zap.Logger
}

// HubConfig configures a HubValidator.
type HubConfig struct {
	HubURL     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewHubValidator builds a HubValidator.
func NewHubValidator(cfg HubConfig, logger *zap.Logger) *HubValidator {
	hubURL := strings.TrimRight(strings.TrimSpace(cfg.HubURL), "/")
	if hubURL == "" {
		hubURL = DefaultHubURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HubValidator{hubURL: hubURL, httpClient: httpClient, logger: logger}
}

// ValidateAction implements frame.ActionValidator.
func (validator *HubValidator) ValidateAction(ctx context.Context, raw []byte) (frame.Action, error) {
	payload, err := ParsePayload(raw)
	if err != nil {
		return frame.Action{}, err
	}
	messageBytes, err := payload.MessageBytes()
	if err != nil {
		return frame.Action{}, err
	}
	body, err := validator.validateMessage(ctx, messageBytes)
	if err != nil {
		return frame.Action{}, err
	}
	return parseValidation(body)
}

func (validator *HubValidator) validateMessage(ctx context.Context, messageBytes []byte) (body []byte, err error) {
	started := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeUpstreamError
			validator.logger.Warn("hub validation request failed", zap.String("hub_url", validator.hubURL), zap.Error(err))
		}
		metrics.ObserveUpstream(hubEndpoint, outcome, time.Since(started))
	}()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, validator.hubURL+validateMessagePath, bytes.NewReader(messageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: create hub request: %w", frame.ErrUpstreamRequest, err)
	}
	request.Header.Set("Content-Type", "application/octet-stream")

	response, err := validator.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: hub: %w", frame.ErrUpstreamRequest, err)
	}
	defer response.Body.Close()

	body, err = io.ReadAll(io.LimitReader(response.Body, hubBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: read hub response: %w", frame.ErrUpstreamRequest, err)
	}
	// Hubs answer 400 for messages they cannot parse, which is a rejection of the payload.
	if response.StatusCode == http.StatusBadRequest {
		return nil, fmt.Errorf("%w: hub rejected message: %s", frame.ErrInvalidPayload, strings.TrimSpace(string(body)))
	}
	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: hub status %d", frame.ErrUpstreamStatus, response.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: hub response is not json", frame.ErrUpstreamDecode)
	}
	return body, nil
}

func parseValidation(body []byte) (frame.Action, error) {
	result := gjson.ParseBytes(body)
	if !result.Get(pathValid).Bool() {
		return frame.Action{}, fmt.Errorf("%w: hub reported message invalid", frame.ErrInvalidPayload)
	}
	if messageType := result.Get(pathType).String(); messageType != "" && messageType != frameActionType {
		return frame.Action{}, fmt.Errorf("%w: unexpected message type %s", frame.ErrInvalidPayload, messageType)
	}
	fid := result.Get(pathFID).Uint()
	if fid == 0 {
		return frame.Action{}, fmt.Errorf("%w: message has no fid", frame.ErrInvalidPayload)
	}
	inputText, err := decodeBase64Field(result.Get(pathInputText).String())
	if err != nil {
		return frame.Action{}, fmt.Errorf("%w: input text: %w", frame.ErrInvalidPayload, err)
	}
	frameURL, err := decodeBase64Field(result.Get(pathURL).String())
	if err != nil {
		return frame.Action{}, fmt.Errorf("%w: url: %w", frame.ErrInvalidPayload, err)
	}
	state, err := decodeBase64Field(result.Get(pathState).String())
	if err != nil {
		return frame.Action{}, fmt.Errorf("%w: state: %w", frame.ErrInvalidPayload, err)
	}
	action := frame.Action{
		ButtonIndex:  int(result.Get(pathButtonIndex).Int()),
		InputText:    inputText,
		RequesterFID: fid,
		MessageHash:  result.Get(pathHash).String(),
		URL:          frameURL,
		State:        state,
	}
	castID := &CastIDRef{FID: result.Get(pathCastFID).Uint(), Hash: result.Get(pathCastHash).String()}
	action.CastID = castID.toFrame()
	return action, nil
}

func decodeBase64Field(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
