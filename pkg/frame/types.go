package frame

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ViewState is the opaque state threaded through frame round trips.
type ViewState struct {
	Active             string `json:"active"`
	TotalButtonPresses int    `json:"total_button_presses"`
}

// DefaultState returns the state used on first render.
func DefaultState() ViewState {
	return ViewState{Active: defaultActiveControl, TotalButtonPresses: 0}
}

// CastID identifies the cast a frame was embedded in.
type CastID struct {
	FID  uint64
	Hash string
}

// Action is a validated frame interaction.
type Action struct {
	// ButtonIndex is 1-based; zero means no button was reported.
	ButtonIndex  int
	InputText    string
	RequesterFID uint64
	CastID       *CastID
	MessageHash  string
	URL          string
	// State is the frame state carried inside the signed message; empty when the validator cannot vouch for it.
	State        string
}

// Identity is the subject whose allowance is looked up: a 0x wallet address or a numeric fid.
type Identity struct {
	value string
}

// NewIdentity wraps a raw identity without validating it.
func NewIdentity(raw string) Identity {
	return Identity{value: raw}
}

// String returns the identity verbatim.
func (identity Identity) String() string {
	return identity.value
}

// IsAddress reports whether the identity should be queried as a wallet address.
func (identity Identity) IsAddress() bool {
	return strings.HasPrefix(identity.value, addressPrefix)
}

// FallbackLabel is shown on cards that have no display name.
func (identity Identity) FallbackLabel() string {
	if !identity.IsAddress() {
		return fidLabelPrefix + identity.value
	}
	if len(identity.value) <= 2*addressEdgeLength {
		return identity.value
	}
	return identity.value[:addressEdgeLength] + addressEllipsis + identity.value[len(identity.value)-addressEdgeLength:]
}

// ResolveIdentity picks free-text input when present, otherwise the requester's fid.
func ResolveIdentity(action Action) Identity {
	if action.InputText != "" {
		return NewIdentity(action.InputText)
	}
	return NewIdentity(strconv.FormatUint(action.RequesterFID, 10))
}

// FlexString accepts JSON strings, numbers and null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (value *FlexString) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*value = ""
		return nil
	}
	if trimmed[0] == '"' {
		var decoded string
		if err := json.Unmarshal(trimmed, &decoded); err != nil {
			return err
		}
		*value = FlexString(decoded)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		return fmt.Errorf("flex string: unsupported json value %s", string(trimmed))
	}
	*value = FlexString(number.String())
	return nil
}

// String returns the decoded value.
func (value FlexString) String() string {
	return string(value)
}

// AllowanceRecord is one row of the tip-allowance endpoint.
type AllowanceRecord struct {
	SnapshotDate       FlexString `json:"snapshot_date"`
	UserRank           FlexString `json:"user_rank"`
	WalletAddress      FlexString `json:"wallet_address"`
	AvatarURL          FlexString `json:"avatar_url"`
	DisplayName        FlexString `json:"display_name"`
	TipAllowance       FlexString `json:"tip_allowance"`
	RemainingAllowance FlexString `json:"remaining_allowance"`
}

// PointsRecord is one row of the points endpoint.
type PointsRecord struct {
	AvatarURL   FlexString `json:"avatar_url"`
	DisplayName FlexString `json:"display_name"`
	Points      FlexString `json:"points"`
}

// JoinedRecord is an allowance row with its resolved points.
type JoinedRecord struct {
	AllowanceRecord
	Points string
}

// AllowanceSource fetches allowance rows for an identity.
type AllowanceSource interface {
	FetchAllowance(ctx context.Context, identity Identity) ([]AllowanceRecord, error)
}

// PointsSource fetches points rows for a wallet address.
type PointsSource interface {
	FetchPoints(ctx context.Context, walletAddress string) ([]PointsRecord, error)
}

// ActionValidator checks an inbound action payload against the embedding protocol.
// Implementations return an error wrapping ErrInvalidPayload for rejected payloads.
type ActionValidator interface {
	ValidateAction(ctx context.Context, payload []byte) (Action, error)
}

// StateCodec encodes ViewState into the opaque blob carried between frames.
type StateCodec interface {
	Encode(state ViewState) (string, error)
	Decode(raw string) (ViewState, error)
}
