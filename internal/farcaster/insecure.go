package farcaster

import (
	"context"
	"fmt"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
)

// InsecureValidator trusts untrustedData as-is. It exists for local frame debuggers that cannot
// produce hub-verifiable signatures and must never face real clients.
type InsecureValidator struct{}

// ValidateAction implements frame.ActionValidator.
func (InsecureValidator) ValidateAction(_ context.Context, raw []byte) (frame.Action, error) {
	payload, err := ParsePayload(raw)
	if err != nil {
		return frame.Action{}, err
	}
	untrusted := payload.UntrustedData
	if untrusted.FID == 0 {
		return frame.Action{}, fmt.Errorf("%w: untrustedData.fid is required", frame.ErrInvalidPayload)
	}
	if untrusted.ButtonIndex < 0 {
		return frame.Action{}, fmt.Errorf("%w: negative button index", frame.ErrInvalidPayload)
	}
	return frame.Action{
		ButtonIndex:  untrusted.ButtonIndex,
		InputText:    untrusted.InputText,
		RequesterFID: untrusted.FID,
		CastID:       untrusted.CastID.toFrame(),
		MessageHash:  untrusted.MessageHash,
		URL:          untrusted.URL,
	}, nil
}
