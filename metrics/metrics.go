// Package metrics exposes prometheus collectors for the rollup core. A nil
// *Metrics is valid and records nothing, so components can run without a
// registry.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindLabel   = "kind"
	resultLabel = "result"

	// Registration kinds.
	KindSingle = "single"
	KindBatch  = "batch"

	// Verification results.
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Metrics groups every collector the core updates.
type Metrics struct {
	registrations *prometheus.CounterVec
	accounts      prometheus.Gauge
	signatures    prometheus.Counter
	verifications *prometheus.CounterVec
	records       *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
}

// New creates the collectors under namespace and registers them with reg.
func New(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Number of public keys registered, by kind",
		}, []string{kindLabel}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_accounts",
			Help:      "Number of accounts currently held by the registry",
		}),
		signatures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signatures_total",
			Help:      "Number of BLS signatures produced",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Number of signature verifications, by result",
		}, []string{resultLabel}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_records_total",
			Help:      "Number of transfer records serialized or decoded",
		}, []string{kindLabel}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_point_cache_hits_total",
			Help:      "Message point lookups answered from the cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_point_cache_misses_total",
			Help:      "Message point lookups that had to hash to the curve",
		}),
	}

	var errs []error
	for _, c := range []prometheus.Collector{
		m.registrations, m.accounts, m.signatures, m.verifications,
		m.records, m.cacheHits, m.cacheMisses,
	} {
		errs = append(errs, reg.Register(c))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) MarkRegistered(kind string, n int) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(kind).Add(float64(n))
	m.accounts.Add(float64(n))
}

// SetAccounts overwrites the account gauge, used after a journal replay.
func (m *Metrics) SetAccounts(n int) {
	if m == nil {
		return
	}
	m.accounts.Set(float64(n))
}

func (m *Metrics) IncSignatures() {
	if m == nil {
		return
	}
	m.signatures.Inc()
}

// MarkVerification records the outcome of one verification call.
func (m *Metrics) MarkVerification(ok bool, err error) {
	if m == nil {
		return
	}
	result := ResultInvalid
	switch {
	case err != nil:
		result = ResultError
	case ok:
		result = ResultValid
	}
	m.verifications.WithLabelValues(result).Inc()
}

// AddRecords counts transfer records passing through the codec. kind is
// "encode" or "decode".
func (m *Metrics) AddRecords(kind string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
