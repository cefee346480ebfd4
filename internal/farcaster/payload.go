// Package farcaster adapts the Farcaster frame protocol to the frame pipeline.
package farcaster

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
)

// Payload is the body a Farcaster client POSTs when a frame button is pressed.
type Payload struct {
	UntrustedData UntrustedData `json:"untrustedData"`
	TrustedData   TrustedData   `json:"trustedData"`
}

// UntrustedData mirrors the signed message for convenience; it must not be trusted on its own.
type UntrustedData struct {
	FID         uint64     `json:"fid"`
	URL         string     `json:"url"`
	MessageHash string     `json:"messageHash"`
	Timestamp   int64      `json:"timestamp"`
	Network     int        `json:"network"`
	ButtonIndex int        `json:"buttonIndex"`
	InputText   string     `json:"inputText"`
	State       string     `json:"state"`
	CastID      *CastIDRef `json:"castId"`
}

// CastIDRef identifies a cast by author fid and hash.
type CastIDRef struct {
	FID  uint64 `json:"fid"`
	Hash string `json:"hash"`
}

// TrustedData carries the hex-encoded signed protobuf message.
type TrustedData struct {
	MessageBytes string `json:"messageBytes"`
}

// ParsePayload decodes a frame action body.
func ParsePayload(raw []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Payload{}, fmt.Errorf("%w: %w", frame.ErrInvalidPayload, err)
	}
	return payload, nil
}

// MessageBytes returns the decoded signed message.
func (payload Payload) MessageBytes() ([]byte, error) {
	encoded := strings.TrimPrefix(strings.TrimSpace(payload.TrustedData.MessageBytes), "0x")
	if encoded == "" {
		return nil, fmt.Errorf("%w: missing trusted message bytes", frame.ErrInvalidPayload)
	}
	decoded, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: message bytes are not hex: %w", frame.ErrInvalidPayload, err)
	}
	return decoded, nil
}

// StateFromBody returns untrustedData.state when the body parses, or an empty string.
func StateFromBody(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	payload, err := ParsePayload(raw)
	if err != nil {
		return ""
	}
	return payload.UntrustedData.State
}

func (ref *CastIDRef) toFrame() *frame.CastID {
	if ref == nil || (ref.FID == 0 && ref.Hash == "") {
		return nil
	}
	return &frame.CastID{FID: ref.FID, Hash: ref.Hash}
}
