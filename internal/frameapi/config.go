package frameapi

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MarkoPoloResearchLab/degenframe/internal/telemetry"
)

// Validation modes for inbound frame actions.
const (
	ValidationModeHub      = "hub"
	ValidationModeInsecure = "insecure"
)

const (
	defaultListenAddr    = ":3000"
	defaultPublicURL     = "http://localhost:3000"
	defaultDegenBaseURL  = "https://www.degen.tips"
	defaultHubURL        = "https://nemes.farcaster.xyz:2281"
	defaultAllowedOrigin = "*"
	serviceName          = "degenframe"
)

// Config aggregates runtime settings for the frame server.
type Config struct {
	ListenAddr      string
	PublicURL       string
	DegenBaseURL    string
	HubURL          string
	ValidationMode  string
	StateSigningKey string
	// UpstreamTimeout bounds each degen.tips and hub call; zero means no timeout.
	UpstreamTimeout time.Duration
	AllowedOrigins  []string
	OTelEndpoint    string
}

// Validate ensures the configuration contains sane values.
func (cfg *Config) Validate() error {
	cfg.ListenAddr = defaultIfEmpty(cfg.ListenAddr, defaultListenAddr)
	cfg.PublicURL = strings.TrimRight(defaultIfEmpty(cfg.PublicURL, defaultPublicURL), "/")
	cfg.DegenBaseURL = defaultIfEmpty(cfg.DegenBaseURL, defaultDegenBaseURL)
	cfg.HubURL = defaultIfEmpty(cfg.HubURL, defaultHubURL)
	cfg.ValidationMode = strings.ToLower(defaultIfEmpty(cfg.ValidationMode, ValidationModeHub))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{defaultAllowedOrigin}
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("listen addr is required")
	}
	if err := requireAbsoluteURL("public url", cfg.PublicURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("degen base url", cfg.DegenBaseURL); err != nil {
		return err
	}
	if err := requireAbsoluteURL("hub url", cfg.HubURL); err != nil {
		return err
	}
	if cfg.ValidationMode != ValidationModeHub && cfg.ValidationMode != ValidationModeInsecure {
		return fmt.Errorf("validation mode must be %q or %q, got %q", ValidationModeHub, ValidationModeInsecure, cfg.ValidationMode)
	}
	if cfg.UpstreamTimeout < 0 {
		return fmt.Errorf("upstream timeout must not be negative")
	}
	return nil
}

// PostURL is where frame clients POST the next action, carrying the encoded state.
func (cfg Config) PostURL(encodedState string) string {
	postURL := cfg.PublicURL + framesPath
	if encodedState == "" {
		return postURL
	}
	return postURL + "?" + url.Values{stateQueryParam: []string{encodedState}}.Encode()
}

// Telemetry returns the span export settings for this server.
func (cfg Config) Telemetry() telemetry.Config {
	return telemetry.Config{ServiceName: serviceName, Endpoint: cfg.OTelEndpoint}
}

// DebugURL links the external frame debugger at this server.
func (cfg Config) DebugURL() string {
	return cfg.PublicURL + debugPath + "?" + url.Values{"url": []string{cfg.PublicURL}}.Encode()
}

func defaultIfEmpty(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func requireAbsoluteURL(name string, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s must be an absolute url, got %q", name, raw)
	}
	return nil
}

// ParseAllowedOrigins splits comma-delimited origins into a slice.
func ParseAllowedOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}
