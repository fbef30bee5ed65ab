package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/account-state-ledger-go/ledger/journal/postgresengine"
	"github.com/AntonStoeckl/account-state-ledger-go/testutil/postgresengine/config"
)

// Adapter type constants, selected with the ADAPTER_TYPE environment variable.
const (
	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"
)

const envAdapterType = "ADAPTER_TYPE"

// Wrapper abstracts over the database adapters the journal engine supports.
type Wrapper interface {
	GetEventStore() *postgresengine.EventStore
	Exec(ctx context.Context, query string) error
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing.
type PGXPoolWrapper struct {
	pool *pgxpool.Pool
	es   *postgresengine.EventStore
}

func (w *PGXPoolWrapper) GetEventStore() *postgresengine.EventStore {
	return w.es
}

func (w *PGXPoolWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing.
type SQLDBWrapper struct {
	db *sql.DB
	es *postgresengine.EventStore
}

func (w *SQLDBWrapper) GetEventStore() *postgresengine.EventStore {
	return w.es
}

func (w *SQLDBWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing.
type SQLXWrapper struct {
	db *sqlx.DB
	es *postgresengine.EventStore
}

func (w *SQLXWrapper) GetEventStore() *postgresengine.EventStore {
	return w.es
}

func (w *SQLXWrapper) Exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig connects to the test database with the adapter chosen by ADAPTER_TYPE,
// creates the events table and truncates it. The test is skipped if no database is reachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	ctx := context.Background()
	adapterType := strings.ToLower(os.Getenv(envAdapterType))
	dsn := config.PostgresTestDSN()

	var wrapper Wrapper

	switch adapterType {
	case typePGXPool, "":
		pool, err := config.PostgresPGXPool(ctx, dsn)
		skipIfUnreachable(t, err)
		es, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error in arranging test data")
		wrapper = &PGXPoolWrapper{pool: pool, es: es}

	case typeSQLDB:
		db, err := config.PostgresSQLDB(ctx, dsn)
		skipIfUnreachable(t, err)
		es, err := postgresengine.NewEventStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error in arranging test data")
		wrapper = &SQLDBWrapper{db: db, es: es}

	case typeSQLX:
		db, err := config.PostgresSQLX(ctx, dsn)
		skipIfUnreachable(t, err)
		es, err := postgresengine.NewEventStoreFromSQLX(db, options...)
		require.NoError(t, err, "error in arranging test data")
		wrapper = &SQLXWrapper{db: db, es: es}

	default:
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", adapterType))
	}

	t.Cleanup(wrapper.Close)

	require.NoError(t, wrapper.GetEventStore().CreateSchema(ctx), "error creating the events table")
	CleanUp(t, wrapper)

	return wrapper
}

// CleanUp truncates the events table of the wrapped EventStore.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	tableName := pgx.Identifier{wrapper.GetEventStore().TableName()}.Sanitize()
	err := wrapper.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", tableName))
	require.NoError(t, err, "error cleaning up the events table")
}

func skipIfUnreachable(t testing.TB, err error) {
	t.Helper()

	if err != nil {
		t.Skipf("postgres test database not reachable: %v", err)
	}
}
