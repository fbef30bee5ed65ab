package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal"
	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal/postgresengine/internal/adapters"
)

// ErrCreatingSchemaFailed is returned when the events table could not be created.
var ErrCreatingSchemaFailed = errors.New("creating schema failed")

const (
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logMsgCreateSchemaFailed       = "failed to create schema"
	logMsgQueryCompleted           = "query completed"
	logMsgEventsAppended           = "events appended"
	logMsgConcurrencyConflict      = "concurrency conflict detected"
	logMsgSQLExecuted              = "executed sql for: "
	logMsgOperation                = "journal operation: "
	logAttrError                   = "error"
	logAttrQuery                   = "query"
	logAttrEventType               = "event_type"
	logAttrEventCount              = "event_count"
	logAttrDurationMS              = "duration_ms"
	logAttrExpectedEvents          = "expected_events"
	logAttrRowsAffected            = "rows_affected"
	logAttrExpectedSequence        = "expected_sequence"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	payloadContainsJsonb           = colPayload + " @> ?::jsonb"
	advisoryLockAccount            = "pg_advisory_xact_lock(hashtextextended(?, 0))"
	statementSeparator             = "; "
)

type sqlQueryString = string

// EventStore is the PostgreSQL implementation of journal.EventStore.
type EventStore struct {
	db               adapters.DBAdapter
	eventTableName   string
	logger           ledger.Logger
	metricsCollector ledger.MetricsCollector
	tracingCollector ledger.TracingCollector
	contextualLogger ledger.ContextualLogger
}

type queryResultRow struct {
	eventType         string
	payload           []byte
	metadata          []byte
	occurredAt        time.Time
	maxSequenceNumber journal.MaxSequenceNumberUint
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options...)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore using a primary and a replica pgx Pool.
// Queries run on the replica only for contexts built with journal.WithEventualConsistency.
func NewEventStoreFromPGXPoolAndReplica(db *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (*EventStore, error) {
	if db == nil || replica == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(db, replica), options...)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options...)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (*EventStore, error) {
	if db == nil {
		return nil, journal.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options...)
}

func newEventStore(db adapters.DBAdapter, options ...Option) (*EventStore, error) {
	es := &EventStore{
		db:             db,
		eventTableName: DefaultTableName,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves the events matching the filter ordered by sequence number,
// together with the max sequence number of this selection at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter journal.Filter) (
	journal.StorableEvents,
	journal.MaxSequenceNumberUint,
	error,
) {

	tracing, ctx := es.startQueryTracing(ctx)
	metrics := es.startQueryMetrics(ctx)
	start := time.Now()

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		es.logErrorBoth(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)
		tracing.finishError(errorTypeBuildQuery, time.Since(start))
		metrics.recordError(errorTypeBuildQuery, time.Since(start))

		return nil, 0, buildQueryErr
	}

	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.logQueryWithDuration(ctx, sqlQuery, operationQuery, time.Since(start))

	if queryErr != nil {
		es.logErrorBoth(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		tracing.finishError(errorTypeDatabaseQuery, time.Since(start))
		metrics.recordError(errorTypeDatabaseQuery, time.Since(start))

		return nil, 0, errors.Join(journal.ErrQueryingEventsFailed, queryErr)
	}
	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, scanErr := es.processQueryResults(ctx, rows)
	duration := time.Since(start)

	if scanErr != nil {
		tracing.finishError(errorTypeRowScan, duration)
		metrics.recordError(errorTypeRowScan, duration)

		return nil, 0, scanErr
	}

	es.logOperationBoth(
		ctx,
		logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration),
	)
	tracing.finishSuccess(eventStream, maxSequenceNumber, duration)
	metrics.recordSuccess(eventStream, duration)

	return eventStream, maxSequenceNumber, nil
}

func (es *EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (es *EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	journal.StorableEvents,
	journal.MaxSequenceNumberUint,
	error,
) {

	result := queryResultRow{}
	eventStream := make(journal.StorableEvents, 0)
	maxSequenceNumber := journal.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.maxSequenceNumber)
		if rowScanErr != nil {
			es.logErrorBoth(ctx, logMsgScanRowFailed, rowScanErr)
			return nil, 0, errors.Join(journal.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := journal.BuildStorableEvent(result.eventType, result.occurredAt, result.payload, result.metadata)
		if buildStorableErr != nil {
			es.logErrorBoth(ctx, logMsgBuildStorableEventFailed, buildStorableErr, logAttrEventType, result.eventType)
			return nil, 0, errors.Join(journal.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		eventStream = append(eventStream, event)
		maxSequenceNumber = result.maxSequenceNumber
		result = queryResultRow{}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		es.logErrorBoth(ctx, logMsgScanRowFailed, rowsErr)
		return nil, 0, errors.Join(journal.ErrScanningDBRowFailed, rowsErr)
	}

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or multiple events atomically if no event matching the filter was appended after
// expectedMaxSequenceNumber, otherwise it fails with journal.ErrConcurrencyConflict.
//
// The filter must be the one used for the Query the decision was based on.
func (es *EventStore) Append(
	ctx context.Context,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
	event journal.StorableEvent,
	additionalEvents ...journal.StorableEvent,
) error {

	allEvents := journal.StorableEvents{event}
	allEvents = append(allEvents, additionalEvents...)

	tracing, ctx := es.startAppendTracing(ctx, allEvents, expectedMaxSequenceNumber)
	metrics := es.startAppendMetrics(ctx)
	start := time.Now()

	sqlQuery, buildQueryErr := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		es.logErrorBoth(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, logAttrEventCount, len(allEvents))
		tracing.finishError(errorTypeBuildQuery, time.Since(start))
		metrics.recordError(errorTypeBuildQuery, time.Since(start))

		return buildQueryErr
	}

	result, execErr := es.db.Exec(ctx, sqlQuery)
	es.logQueryWithDuration(ctx, sqlQuery, operationAppend, time.Since(start))

	if execErr != nil {
		es.logErrorBoth(ctx, logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		tracing.finishError(errorTypeDatabaseExec, time.Since(start))
		metrics.recordError(errorTypeDatabaseExec, time.Since(start))

		return errors.Join(journal.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	duration := time.Since(start)

	if rowsAffectedErr != nil {
		es.logErrorBoth(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)
		tracing.finishError(errorTypeRowsAffected, duration)
		metrics.recordError(errorTypeRowsAffected, duration)

		return errors.Join(journal.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if rowsAffected < int64(len(allEvents)) {
		es.logOperationBoth(
			ctx,
			logMsgConcurrencyConflict,
			logAttrExpectedEvents, len(allEvents),
			logAttrRowsAffected, rowsAffected,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
		)
		tracing.finishConflict(expectedMaxSequenceNumber, duration)
		metrics.recordConcurrencyConflict(duration)

		return journal.ErrConcurrencyConflict
	}

	es.logOperationBoth(
		ctx,
		logMsgEventsAppended,
		logAttrEventCount, len(allEvents),
		logAttrDurationMS, toMilliseconds(duration),
	)
	tracing.finishSuccess(rowsAffected, duration)
	metrics.recordSuccess(len(allEvents), duration)

	return nil
}

// buildAppendQuery builds the guarded insert, preceded by transaction scoped advisory locks on the filter's
// accounts. Both statements run in one implicit transaction and the insert takes its snapshot after the locks
// are held, so two appends for the same account can not both pass the max sequence number check.
func (es *EventStore) buildAppendQuery(
	allEvents journal.StorableEvents,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	var insertQuery sqlQueryString
	var err error

	if len(allEvents) == 1 {
		insertQuery, err = es.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)
	} else {
		insertQuery, err = es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
	}

	if err != nil {
		return "", err
	}

	lockQuery, err := es.buildLockQuery(filter)
	if err != nil {
		return "", err
	}

	if lockQuery == "" {
		return insertQuery, nil
	}

	return lockQuery + statementSeparator + insertQuery, nil
}

// buildLockQuery locks the filter's accounts in their sorted order, which rules out deadlocks between appends.
func (es *EventStore) buildLockQuery(filter journal.Filter) (sqlQueryString, error) {
	if len(filter.AccountIDs()) == 0 {
		return "", nil
	}

	locks := make([]any, 0, len(filter.AccountIDs()))
	for _, accountID := range filter.AccountIDs() {
		locks = append(locks, goqu.L(advisoryLockAccount, es.eventTableName+"/"+accountID.String()))
	}

	sqlQuery, _, toSQLErr := goqu.Dialect(dialectPostgres).Select(locks...).ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildSelectQuery(filter journal.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := es.addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// buildContextCTE selects the current max sequence number of the events matching the filter.
func (es *EventStore) buildContextCTE(builder goqu.DialectWrapper, filter journal.Filter) (*goqu.SelectDataset, error) {
	cteStmt := builder.
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return es.addWhereClause(filter, cteStmt)
}

func (es *EventStore) buildInsertQueryForSingleEvent(
	event journal.StorableEvent,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es *EventStore) buildInsertQueryForMultipleEvents(
	events journal.StorableEvents,
	filter journal.Filter,
	expectedMaxSequenceNumber journal.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildContextCTE(builder, filter)
	if whereErr != nil {
		return "", whereErr
	}

	var valuesStmt *goqu.SelectDataset
	for _, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(journal.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// addWhereClause restricts the statement to (any event type) AND (any account as source or destination).
// Account predicates are JSON containment checks, the containment documents are marshaled, never concatenated.
func (es *EventStore) addWhereClause(filter journal.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	expressions := make([]goqu.Expression, 0, 2)

	if len(filter.EventTypes()) > 0 {
		expressions = append(expressions, goqu.C(colEventType).In(filter.EventTypes()))
	}

	accountExpressions := make([]goqu.Expression, 0, 2*len(filter.AccountIDs()))

	for _, accountID := range filter.AccountIDs() {
		for _, key := range []string{journal.PayloadKeyAccountID, journal.PayloadKeyToAccountID} {
			containment, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(map[string]string{key: accountID.String()})
			if err != nil {
				return nil, errors.Join(journal.ErrBuildingQueryFailed, err)
			}

			accountExpressions = append(accountExpressions, goqu.L(payloadContainsJsonb, containment))
		}
	}

	if len(accountExpressions) > 0 {
		expressions = append(expressions, goqu.Or(accountExpressions...))
	}

	if len(expressions) == 0 {
		return selectStmt, nil
	}

	return selectStmt.Where(expressions...), nil
}

// Ensure EventStore implements journal.EventStore.
var _ journal.EventStore = (*EventStore)(nil)
