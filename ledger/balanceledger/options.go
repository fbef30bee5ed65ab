package balanceledger

import (
	"time"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
)

// Option defines a functional option for configuring a BalanceLedger.
type Option func(*BalanceLedger) error

// WithCurrency settles every deposit and withdrawal against the given Currency.
func WithCurrency(currency ledger.Currency) Option {
	return func(l *BalanceLedger) error {
		if currency == nil {
			return ledger.ErrNilCurrency
		}

		l.currency = currency

		return nil
	}
}

// WithClock sets the clock used to stamp emitted events.
func WithClock(clock func() time.Time) Option {
	return func(l *BalanceLedger) error {
		if clock == nil {
			return ledger.ErrNilClock
		}

		l.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the BalanceLedger.
//
// Info level: successful transitions and rejected transitions
// Error level: violations of the AccountStore contract.
func WithLogger(logger ledger.Logger) Option {
	return func(l *BalanceLedger) error {
		if logger == nil {
			return ledger.ErrNilLogger
		}

		l.observer.Logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the BalanceLedger.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(l *BalanceLedger) error {
		if collector == nil {
			return ledger.ErrNilMetricsCollector
		}

		l.observer.Metrics = collector

		return nil
	}
}
