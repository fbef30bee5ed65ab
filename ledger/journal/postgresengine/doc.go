// Package postgresengine provides a PostgreSQL implementation of journal.EventStore.
//
// All ledger events live in one table. A query selects the events matching a journal.Filter, ordered by
// sequence number, and reports the highest sequence number among them. An append inserts through a CTE
// which re-reads that max sequence number and inserts nothing if it moved, which is reported as
// journal.ErrConcurrencyConflict. Transaction scoped advisory locks on the involved accounts, taken in the
// same implicit transaction right before the insert, serialize concurrent appends for the same account.
//
// Key features:
//   - Multiple database adapter support (pgx.Pool with optional replica, sql.DB, sqlx.DB)
//   - Atomic appends of one or multiple events
//   - Optional logging, contextual logging, metrics and tracing
//
// Usage:
//
//	pool, _ := pgxpool.New(ctx, dsn)
//	es, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(logger))
//	_ = es.CreateSchema(ctx)
//
//	handler, _ := journal.NewCommandHandler(es)
package postgresengine
