package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestResult(t *testing.T) {
	if Result(nil) != ResultOK {
		t.Errorf("Expected %q for nil error", ResultOK)
	}
	if Result(errors.New("boom")) != ResultError {
		t.Errorf("Expected %q for error", ResultError)
	}
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ManualSaves.WithLabelValues(ResultOK))
	ManualSaves.WithLabelValues(Result(nil)).Inc()
	if got := testutil.ToFloat64(ManualSaves.WithLabelValues(ResultOK)); got != before+1 {
		t.Errorf("Expected %v, got %v", before+1, got)
	}

	restores := testutil.ToFloat64(DraftRestores)
	DraftRestores.Inc()
	if got := testutil.ToFloat64(DraftRestores); got != restores+1 {
		t.Errorf("Expected %v restores, got %v", restores+1, got)
	}
}
