package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordLogin("faculty", OutcomeSuccess, 20*time.Millisecond)
	m.RecordLogin("faculty", OutcomeSuccess, 30*time.Millisecond)
	m.RecordLogin("student", OutcomeInvalidCredentials, time.Millisecond)
	m.RecordMigration("faculty", MigrationFailed)
	m.RecordResolution(ResolveNotFound)
	m.RecordPromotion("promote", "ok")

	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues("faculty", OutcomeSuccess)); got != 2 {
		t.Fatalf("faculty successes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.LoginsTotal.WithLabelValues("student", OutcomeInvalidCredentials)); got != 1 {
		t.Fatalf("student failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CredentialMigrationsTotal.WithLabelValues("faculty", MigrationFailed)); got != 1 {
		t.Fatalf("failed migrations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TokenResolutionsTotal.WithLabelValues(ResolveNotFound)); got != 1 {
		t.Fatalf("not_found resolutions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PromotionsTotal.WithLabelValues("promote", "ok")); got != 1 {
		t.Fatalf("promotions = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.LoginDurationSeconds); n != 2 {
		t.Fatalf("duration series = %d, want 2", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordLogin("student", OutcomeSuccess, time.Second)
	m.RecordMigration("student", MigrationMigrated)
	m.RecordResolution(ResolveOK)
	m.RecordPromotion("demote", "ok")
}

func TestNew_PanicsOnDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
