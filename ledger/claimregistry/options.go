package claimregistry

import (
	"time"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// Option defines a functional option for configuring a ClaimRegistry.
type Option func(*ClaimRegistry) error

// WithClock sets the clock used to stamp emitted events.
func WithClock(clock func() time.Time) Option {
	return func(r *ClaimRegistry) error {
		if clock == nil {
			return ledger.ErrNilClock
		}

		r.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the ClaimRegistry.
func WithLogger(logger ledger.Logger) Option {
	return func(r *ClaimRegistry) error {
		if logger == nil {
			return ledger.ErrNilLogger
		}

		r.observer.Logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the ClaimRegistry.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(r *ClaimRegistry) error {
		if collector == nil {
			return ledger.ErrNilMetricsCollector
		}

		r.observer.Metrics = collector

		return nil
	}
}
