// Package helper provides fixtures and observability test doubles shared by the package tests.
//
// The spies capture what the code under test reports so assertions can inspect it:
//   - LogHandlerSpy: a slog.Handler collecting records
//   - MetricsCollectorSpy: a ledger.MetricsCollector collecting calls
//   - TracingCollectorSpy: a ledger.TracingCollector collecting spans
package helper
