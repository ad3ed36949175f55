package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"veritas-hq/veritas/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "veritas",
	}
}

func TestRecordCalculation(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewVeritasMetrics(testConfig(), registry)

	vm.RecordCalculation(OutcomeProved, 12, 350*time.Microsecond)
	vm.RecordCalculation(OutcomeProved, 3, 80*time.Microsecond)
	vm.RecordCalculation(OutcomeRejected, 0, 5*time.Microsecond)
	vm.RecordCalculation(OutcomeFailed, 0, 40*time.Microsecond)

	if got := testutil.ToFloat64(vm.calculationsTotal.WithLabelValues(OutcomeProved)); got != 2 {
		t.Errorf("calculations_total{outcome=proved} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(vm.calculationsTotal.WithLabelValues(OutcomeRejected)); got != 1 {
		t.Errorf("calculations_total{outcome=rejected} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(vm.calculationsTotal.WithLabelValues(OutcomeFailed)); got != 1 {
		t.Errorf("calculations_total{outcome=failed} = %v, want 1", got)
	}

	// Only proved calculations contribute to the step histogram.
	if got := testutil.CollectAndCount(vm.calculationSteps); got != 1 {
		t.Errorf("calculation_steps collector count = %d, want 1", got)
	}
}

func TestRecordVerification(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewVeritasMetrics(testConfig(), registry)

	vm.RecordVerification(true)
	vm.RecordVerification(true)
	vm.RecordVerification(false)

	if got := testutil.ToFloat64(vm.verificationsTotal.WithLabelValues("valid")); got != 2 {
		t.Errorf("verifications_total{validity=valid} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(vm.verificationsTotal.WithLabelValues("invalid")); got != 1 {
		t.Errorf("verifications_total{validity=invalid} = %v, want 1", got)
	}
}

func TestRecordClassification(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewVeritasMetrics(testConfig(), registry)

	vm.RecordClassification("latex")
	vm.RecordClassification("latex")
	vm.RecordClassification("typst")

	if got := testutil.ToFloat64(vm.classificationsTotal.WithLabelValues("latex")); got != 2 {
		t.Errorf("classifications_total{format=latex} = %v, want 2", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	vm := NewVeritasMetrics(testConfig(), registry)

	vm.RecordCalculation(OutcomeProved, 5, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	vm.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "test_veritas_calculations_total") {
		t.Errorf("exposition missing calculations_total:\n%s", body)
	}
}
