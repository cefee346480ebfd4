package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveUpstreamCountsByEndpoint(t *testing.T) {
	before := testutil.ToFloat64(upstreamRequests.WithLabelValues("points", OutcomeOK))
	ObserveUpstream("points", OutcomeOK, 15*time.Millisecond)
	after := testutil.ToFloat64(upstreamRequests.WithLabelValues("points", OutcomeOK))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerExposesFrameCounters(t *testing.T) {
	ObserveFrame("/frames", OutcomeOK, 3)

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	body, err := io.ReadAll(recorder.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), `degenframe_frame_requests_total{outcome="ok",route="/frames"}`) {
		t.Fatalf("expected frame counter in exposition, got:\n%s", body)
	}
}
