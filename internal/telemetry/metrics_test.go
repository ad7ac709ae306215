package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestsTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("mean", "native", "ok"))
	RequestsTotal.WithLabelValues("mean", "native", "ok").Inc()
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("mean", "native", "ok"))
	if after-before != 1 {
		t.Fatalf("RequestsTotal delta = %v, want 1", after-before)
	}
}

func TestAdmissionRejectedTotalIncrements(t *testing.T) {
	before := testutil.ToFloat64(AdmissionRejectedTotal)
	AdmissionRejectedTotal.Inc()
	after := testutil.ToFloat64(AdmissionRejectedTotal)
	if after-before != 1 {
		t.Fatalf("AdmissionRejectedTotal delta = %v, want 1", after-before)
	}
}

func TestInFlightRequestsGauge(t *testing.T) {
	InFlightRequests.Set(0)
	InFlightRequests.Inc()
	InFlightRequests.Inc()
	InFlightRequests.Dec()
	if got := testutil.ToFloat64(InFlightRequests); got != 1 {
		t.Fatalf("InFlightRequests = %v, want 1", got)
	}
}
