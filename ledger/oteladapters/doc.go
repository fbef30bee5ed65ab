// Package oteladapters provides OpenTelemetry implementations of the ledger observability interfaces.
//
// The adapters plug into every component which accepts a ledger.Logger, ledger.ContextualLogger,
// ledger.MetricsCollector or ledger.TracingCollector:
//
//	collector := oteladapters.NewMetricsCollector(otel.Meter("ledger"))
//	bl, _ := balanceledger.New(store, balanceledger.WithMetrics(collector))
//
//	es, _ := postgresengine.NewEventStoreFromPGXPool(
//		pool,
//		postgresengine.WithMetrics(collector),
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(otel.Tracer("ledger"))),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("ledger")),
//	)
package oteladapters
