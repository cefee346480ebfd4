package farcaster

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
	"github.com/golang-jwt/jwt/v5"
)

const stateIssuer = "degenframe"

// JSONStateCodec carries state as base64url-encoded JSON.
// Decode also accepts bare JSON objects so hand-written debugger URLs keep working.
type JSONStateCodec struct{}

// Encode implements frame.StateCodec.
func (JSONStateCodec) Encode(state frame.ViewState) (string, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode implements frame.StateCodec.
func (JSONStateCodec) Decode(raw string) (frame.ViewState, error) {
	trimmed := strings.TrimSpace(raw)
	var payload []byte
	if strings.HasPrefix(trimmed, "{") {
		payload = []byte(trimmed)
	} else {
		decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(trimmed, "="))
		if err != nil {
			return frame.ViewState{}, fmt.Errorf("%w: state is not base64url: %w", frame.ErrInvalidState, err)
		}
		payload = decoded
	}
	var state frame.ViewState
	if err := json.Unmarshal(payload, &state); err != nil {
		return frame.ViewState{}, fmt.Errorf("%w: state is not json: %w", frame.ErrInvalidState, err)
	}
	return validateState(state)
}

// SignedStateCodec carries state as an HS256 JWT so clients cannot forge press counts.
type SignedStateCodec struct {
	signingKey []byte
}

type stateClaims struct {
	Active             string `json:"active"`
	TotalButtonPresses int    `json:"total_button_presses"`
	jwt.RegisteredClaims
}

// NewSignedStateCodec builds a SignedStateCodec.
func NewSignedStateCodec(signingKey []byte) (*SignedStateCodec, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("state signing key is required")
	}
	return &SignedStateCodec{signingKey: signingKey}, nil
}

// Encode implements frame.StateCodec.
func (codec *SignedStateCodec) Encode(state frame.ViewState) (string, error) {
	claims := stateClaims{
		Active:             state.Active,
		TotalButtonPresses: state.TotalButtonPresses,
		RegisteredClaims:   jwt.RegisteredClaims{Issuer: stateIssuer},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(codec.signingKey)
}

// Decode implements frame.StateCodec.
func (codec *SignedStateCodec) Decode(raw string) (frame.ViewState, error) {
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(token *jwt.Token) (any, error) {
		return codec.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(stateIssuer))
	if err != nil {
		return frame.ViewState{}, fmt.Errorf("%w: %w", frame.ErrInvalidState, err)
	}
	return validateState(frame.ViewState{Active: claims.Active, TotalButtonPresses: claims.TotalButtonPresses})
}

func validateState(state frame.ViewState) (frame.ViewState, error) {
	if state.TotalButtonPresses < 0 {
		return frame.ViewState{}, fmt.Errorf("%w: negative press count", frame.ErrInvalidState)
	}
	if strings.TrimSpace(state.Active) == "" {
		return frame.ViewState{}, fmt.Errorf("%w: missing active control", frame.ErrInvalidState)
	}
	return state, nil
}
