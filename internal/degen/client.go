// Package degen is the HTTP client for the degen.tips airdrop API.
package degen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/degenframe/internal/metrics"
	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public degen.tips origin.
	DefaultBaseURL = "https://www.degen.tips"

	allowancePath = "/api/airdrop2/tip-allowance"
	pointsPath    = "/api/airdrop2/points"

	endpointAllowance = "allowance"
	endpointPoints    = "points"

	queryWalletAddress = "wallet_address"
	queryFID           = "fid"
	queryAddress       = "address"

	errorBodyLimit = 512
	bodyLimit      = 8 << 20
	tracerName     = "github.com/MarkoPoloResearchLab/degenframe/internal/degen"
)

// Config configures the degen.tips client.
type Config struct {
	BaseURL string
	// Timeout bounds each call; zero leaves calls unbounded.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches allowance and points rows. It implements frame.AllowanceSource and frame.PointsSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("degen base url: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}, nil
}

// AllowanceURL returns the allowance endpoint for an identity: address-keyed for 0x identities, fid-keyed otherwise.
func (client *Client) AllowanceURL(identity frame.Identity) string {
	key := queryFID
	if identity.IsAddress() {
		key = queryWalletAddress
	}
	return client.baseURL + allowancePath + "?" + url.Values{key: []string{identity.String()}}.Encode()
}

// PointsURL returns the points endpoint for a wallet address.
func (client *Client) PointsURL(walletAddress string) string {
	return client.baseURL + pointsPath + "?" + url.Values{queryAddress: []string{walletAddress}}.Encode()
}

// FetchAllowance performs one allowance lookup.
func (client *Client) FetchAllowance(ctx context.Context, identity frame.Identity) ([]frame.AllowanceRecord, error) {
	var records []frame.AllowanceRecord
	if err := client.getJSON(ctx, endpointAllowance, client.AllowanceURL(identity), &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []frame.AllowanceRecord{}
	}
	return records, nil
}

// FetchPoints performs one points lookup.
func (client *Client) FetchPoints(ctx context.Context, walletAddress string) ([]frame.PointsRecord, error) {
	var records []frame.PointsRecord
	if err := client.getJSON(ctx, endpointPoints, client.PointsURL(walletAddress), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (client *Client) getJSON(ctx context.Context, endpoint string, rawURL string, target any) (err error) {
	ctx, span := client.tracer.Start(ctx, "degen."+endpoint, trace.WithAttributes(
		attribute.String("degen.endpoint", endpoint),
		attribute.String("http.url", rawURL),
	))
	started := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeUpstreamError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			client.logger.Warn("degen request failed", zap.String("endpoint", endpoint), zap.String("url", rawURL), zap.Error(err))
		}
		metrics.ObserveUpstream(endpoint, outcome, time.Since(started))
		span.End()
	}()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", frame.ErrUpstreamRequest, err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", frame.ErrUpstreamRequest, endpoint, err)
	}
	defer response.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", response.StatusCode))

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, errorBodyLimit))
		return fmt.Errorf("%w: %s: status %d: %s", frame.ErrUpstreamStatus, endpoint, response.StatusCode, strings.TrimSpace(string(snippet)))
	}

	decoder := json.NewDecoder(io.LimitReader(response.Body, bodyLimit))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: empty body", frame.ErrUpstreamDecode, endpoint)
		}
		return fmt.Errorf("%w: %s: %w", frame.ErrUpstreamDecode, endpoint, err)
	}
	return nil
}
