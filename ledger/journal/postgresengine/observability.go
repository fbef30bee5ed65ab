package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
)

const (
	metricQueryDuration        = "journal_query_duration_seconds"
	metricAppendDuration       = "journal_append_duration_seconds"
	metricEventsQueried        = "journal_events_queried_total"
	metricEventsAppended       = "journal_events_appended_total"
	metricConcurrencyConflicts = "journal_concurrency_conflicts_total"
	metricDatabaseErrors       = "journal_database_errors_total"

	spanNameQuery  = "journal.query"
	spanNameAppend = "journal.append"

	spanAttrOperation    = "operation"
	spanAttrEventCount   = "event_count"
	spanAttrEventType    = "event_type"
	spanAttrMaxSequence  = "max_sequence"
	spanAttrExpectedSeq  = "expected_sequence"
	spanAttrRowsAffected = "rows_affected"
	spanAttrDurationMS   = "duration_ms"
	spanAttrErrorType    = "error_type"

	labelStatus       = "status"
	labelConflictType = "conflict_type"

	statusSuccess = "success"
	statusError   = "error"

	conflictTypeConcurrency = "concurrency"

	operationQuery  = "query"
	operationAppend = "append"

	errorTypeBuildQuery    = "build_query"
	errorTypeDatabaseQuery = "database_query"
	errorTypeDatabaseExec  = "database_exec"
	errorTypeRowScan       = "row_scan"
	errorTypeRowsAffected  = "rows_affected"
	errorTypeConcurrency   = "concurrency_conflict"
)

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2f", toMilliseconds(d))
}

// === Logging ===

func (es *EventStore) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperationBoth writes operational information to the plain and the contextual logger, whichever are set.
func (es *EventStore) logOperationBoth(ctx context.Context, action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (es *EventStore) logWarn(ctx context.Context, message string, args ...any) {
	if es.logger != nil {
		es.logger.Warn(message, args...)
	}

	if es.contextualLogger != nil {
		es.contextualLogger.WarnContext(ctx, message, args...)
	}
}

func (es *EventStore) logError(message string, err error, args ...any) {
	if es.logger != nil {
		es.logger.Error(message, errorArgs(err, args)...)
	}
}

func (es *EventStore) logErrorBoth(ctx context.Context, message string, err error, args ...any) {
	es.logError(message, err, args...)

	if es.contextualLogger != nil {
		es.contextualLogger.ErrorContext(ctx, message, errorArgs(err, args)...)
	}
}

func errorArgs(err error, args []any) []any {
	allArgs := []any{logAttrError, err.Error()}
	return append(allArgs, args...)
}

// === Metrics ===

func (es *EventStore) contextualMetrics() (ledger.ContextualMetricsCollector, bool) {
	collector, ok := es.metricsCollector.(ledger.ContextualMetricsCollector)
	return collector, ok
}

func (es *EventStore) recordDurationMetrics(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if collector, ok := es.contextualMetrics(); ok {
		collector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	es.metricsCollector.RecordDuration(metric, duration, labels)
}

func (es *EventStore) recordValueMetrics(ctx context.Context, metric string, value float64, operation, status string) {
	if es.metricsCollector == nil {
		return
	}

	labels := map[string]string{spanAttrOperation: operation, labelStatus: status}

	if collector, ok := es.contextualMetrics(); ok {
		collector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	es.metricsCollector.RecordValue(metric, value, labels)
}

func (es *EventStore) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if es.metricsCollector == nil {
		return
	}

	if collector, ok := es.contextualMetrics(); ok {
		collector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	es.metricsCollector.IncrementCounter(metric, labels)
}

// queryMetricsObserver records the metrics of one query.
type queryMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

// appendMetricsObserver records the metrics of one append.
type appendMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

func (es *EventStore) startQueryMetrics(ctx context.Context) *queryMetricsObserver {
	return &queryMetricsObserver{es: es, ctx: ctx}
}

func (es *EventStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{es: es, ctx: ctx}
}

func (qmo *queryMetricsObserver) recordSuccess(eventStream journal.StorableEvents, duration time.Duration) {
	qmo.es.recordDurationMetrics(qmo.ctx, metricQueryDuration, duration, operationQuery, statusSuccess)
	qmo.es.recordValueMetrics(qmo.ctx, metricEventsQueried, float64(len(eventStream)), operationQuery, statusSuccess)
}

func (qmo *queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	qmo.es.recordDurationMetrics(qmo.ctx, metricQueryDuration, duration, operationQuery, statusError)
	qmo.es.incrementCounter(qmo.ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationQuery,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

func (amo *appendMetricsObserver) recordSuccess(eventCount int, duration time.Duration) {
	amo.es.recordDurationMetrics(amo.ctx, metricAppendDuration, duration, operationAppend, statusSuccess)
	amo.es.recordValueMetrics(amo.ctx, metricEventsAppended, float64(eventCount), operationAppend, statusSuccess)
}

func (amo *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	amo.es.recordDurationMetrics(amo.ctx, metricAppendDuration, duration, operationAppend, statusError)
	amo.es.incrementCounter(amo.ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operationAppend,
		labelStatus:       statusError,
		spanAttrErrorType: errorType,
	})
}

// recordConcurrencyConflict counts a conflict, it is not a database error.
func (amo *appendMetricsObserver) recordConcurrencyConflict(duration time.Duration) {
	amo.es.recordDurationMetrics(amo.ctx, metricAppendDuration, duration, operationAppend, statusError)
	amo.es.incrementCounter(amo.ctx, metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: operationAppend,
		labelConflictType: conflictTypeConcurrency,
	})
}

// === Tracing ===

type queryTracingObserver struct {
	es   *EventStore
	span ledger.SpanContext
}

type appendTracingObserver struct {
	es   *EventStore
	span ledger.SpanContext
}

func (es *EventStore) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, ledger.SpanContext) {
	if es.tracingCollector == nil {
		return ctx, nil
	}

	return es.tracingCollector.StartSpan(ctx, name, attrs)
}

func (es *EventStore) finishSpan(span ledger.SpanContext, status string, attrs map[string]string) {
	if es.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(status)
	for key, value := range attrs {
		span.AddAttribute(key, value)
	}

	es.tracingCollector.FinishSpan(span, status, attrs)
}

func (es *EventStore) startQueryTracing(ctx context.Context) (*queryTracingObserver, context.Context) {
	newCtx, span := es.startSpan(ctx, spanNameQuery, map[string]string{spanAttrOperation: operationQuery})

	return &queryTracingObserver{es: es, span: span}, newCtx
}

func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events journal.StorableEvents,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (*appendTracingObserver, context.Context) {

	attrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  fmt.Sprintf("%d", len(events)),
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	}

	if len(events) > 0 {
		attrs[spanAttrEventType] = events[0].EventType
	}

	newCtx, span := es.startSpan(ctx, spanNameAppend, attrs)

	return &appendTracingObserver{es: es, span: span}, newCtx
}

func (qto *queryTracingObserver) finishSuccess(
	eventStream journal.StorableEvents,
	maxSequenceNumber journal.MaxSequenceNumberUint,
	duration time.Duration,
) {

	qto.es.finishSpan(qto.span, statusSuccess, map[string]string{
		spanAttrEventCount:  fmt.Sprintf("%d", len(eventStream)),
		spanAttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
		spanAttrDurationMS:  formatDuration(duration),
	})
}

func (qto *queryTracingObserver) finishError(errorType string, duration time.Duration) {
	qto.es.finishSpan(qto.span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatDuration(duration),
	})
}

func (ato *appendTracingObserver) finishSuccess(rowsAffected int64, duration time.Duration) {
	ato.es.finishSpan(ato.span, statusSuccess, map[string]string{
		spanAttrRowsAffected: fmt.Sprintf("%d", rowsAffected),
		spanAttrDurationMS:   formatDuration(duration),
	})
}

func (ato *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	ato.es.finishSpan(ato.span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatDuration(duration),
	})
}

func (ato *appendTracingObserver) finishConflict(expectedMaxSequenceNumber journal.MaxSequenceNumberUint, duration time.Duration) {
	ato.es.finishSpan(ato.span, statusError, map[string]string{
		spanAttrErrorType:   errorTypeConcurrency,
		spanAttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
		spanAttrDurationMS:  formatDuration(duration),
	})
}
