package postgresengine

import (
	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return journal.ErrEmptyTableNameSupplied
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the EventStore.
//
// Debug level: SQL statements with execution timing
// Info level: event counts, durations, concurrency conflicts
// Warn level: non-critical issues like failing to close rows
// Error level: failures which fail the operation.
func WithLogger(logger ledger.Logger) Option {
	return func(es *EventStore) error {
		if logger == nil {
			return ledger.ErrNilLogger
		}

		es.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
// If it also implements ledger.ContextualMetricsCollector, the context-aware methods are used.
func WithMetrics(collector ledger.MetricsCollector) Option {
	return func(es *EventStore) error {
		if collector == nil {
			return ledger.ErrNilMetricsCollector
		}

		es.metricsCollector = collector

		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore, spans are created for queries and appends.
func WithTracing(collector ledger.TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets a context-aware logger which receives the same messages as the logger,
// correlated with the active trace.
func WithContextualLogger(logger ledger.ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}
