package farcaster

import (
	"context"
	"errors"
	"testing"

	"github.com/MarkoPoloResearchLab/degenframe/pkg/frame"
)

func TestInsecureValidatorTrustsUntrustedData(t *testing.T) {
	t.Parallel()
	raw := `{"untrustedData":{"fid":3621,"buttonIndex":2,"inputText":"0xabc","messageHash":"0xm","url":"http://localhost:3000/","castId":{"fid":1,"hash":"0xc"}},"trustedData":{"messageBytes":""}}`
	action, err := InsecureValidator{}.ValidateAction(context.Background(), []byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action.RequesterFID != 3621 || action.ButtonIndex != 2 || action.InputText != "0xabc" || action.CastID == nil {
		t.Fatalf("unexpected action: %+v", action)
	}
}

func TestInsecureValidatorRejections(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{`},
		{name: "missing fid", raw: `{"untrustedData":{"buttonIndex":1}}`},
		{name: "negative button", raw: `{"untrustedData":{"fid":1,"buttonIndex":-1}}`},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := InsecureValidator{}.ValidateAction(context.Background(), []byte(tc.raw))
			if !errors.Is(err, frame.ErrInvalidPayload) {
				t.Fatalf("expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestStateFromBody(t *testing.T) {
	t.Parallel()
	if got := StateFromBody([]byte(`{"untrustedData":{"fid":1,"state":"abc"}}`)); got != "abc" {
		t.Fatalf("expected state from body, got %q", got)
	}
	if got := StateFromBody([]byte(`garbage`)); got != "" {
		t.Fatalf("expected empty state for garbage body, got %q", got)
	}
	if got := StateFromBody(nil); got != "" {
		t.Fatalf("expected empty state for empty body, got %q", got)
	}
}
