// Package metrics defines the Prometheus collectors of the auth core.
//
// Naming follows Prometheus conventions: clubevent_auth_ prefix, _total
// for counters, _seconds for durations. A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Login outcomes.
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeDisabled           = "disabled"
	OutcomeError              = "error"
)

// Token resolution outcomes.
const (
	ResolveOK       = "ok"
	ResolveInvalid  = "invalid"
	ResolveNotFound = "not_found"
	ResolveError    = "error"
)

// Credential migration results.
const (
	MigrationMigrated = "migrated"
	MigrationFailed   = "failed"
)

type Metrics struct {
	LoginsTotal               *prometheus.CounterVec
	LoginDurationSeconds      *prometheus.HistogramVec
	CredentialMigrationsTotal *prometheus.CounterVec
	TokenResolutionsTotal     *prometheus.CounterVec
	PromotionsTotal           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubevent_auth_logins_total",
				Help: "Login attempts by variant and outcome.",
			},
			[]string{"variant", "outcome"},
		),
		LoginDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clubevent_auth_login_duration_seconds",
				Help:    "Time spent verifying a login, hashing included.",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"variant"},
		),
		CredentialMigrationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubevent_auth_credential_migrations_total",
				Help: "Plaintext credentials rehashed on login, by variant and result.",
			},
			[]string{"variant", "result"},
		),
		TokenResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubevent_auth_token_resolutions_total",
				Help: "Bearer token resolutions by outcome.",
			},
			[]string{"outcome"},
		),
		PromotionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clubevent_auth_promotions_total",
				Help: "Promotions and demotions by operation and result.",
			},
			[]string{"operation", "result"},
		),
	}

	reg.MustRegister(
		m.LoginsTotal,
		m.LoginDurationSeconds,
		m.CredentialMigrationsTotal,
		m.TokenResolutionsTotal,
		m.PromotionsTotal,
	)
	return m
}

func (m *Metrics) RecordLogin(variant, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(variant, outcome).Inc()
	m.LoginDurationSeconds.WithLabelValues(variant).Observe(d.Seconds())
}

func (m *Metrics) RecordMigration(variant, result string) {
	if m == nil {
		return
	}
	m.CredentialMigrationsTotal.WithLabelValues(variant, result).Inc()
}

func (m *Metrics) RecordResolution(outcome string) {
	if m == nil {
		return
	}
	m.TokenResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordPromotion counts a promote or demote call; result is "ok" or the
// error class.
func (m *Metrics) RecordPromotion(operation, result string) {
	if m == nil {
		return
	}
	m.PromotionsTotal.WithLabelValues(operation, result).Inc()
}
