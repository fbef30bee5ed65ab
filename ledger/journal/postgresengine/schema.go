package postgresengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultTableName is the table used unless WithTableName is given.
const DefaultTableName = "ledger_events"

// SchemaFor returns the DDL creating the events table with the given name and its indexes.
// The GIN index serves the payload containment predicates of account filters.
func SchemaFor(tableName string) string {
	table := quoteIdentifier(tableName)

	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %[1]s (
    sequence_number bigserial PRIMARY KEY,
    event_type text NOT NULL,
    occurred_at timestamp with time zone NOT NULL,
    payload jsonb NOT NULL,
    metadata jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s (event_type);
CREATE INDEX IF NOT EXISTS %[3]s ON %[1]s USING gin (payload jsonb_path_ops);`,
		table,
		quoteIdentifier(tableName+"_event_type_idx"),
		quoteIdentifier(tableName+"_payload_idx"),
	)
}

// CreateSchema creates the events table of this EventStore if it does not exist yet.
func (es *EventStore) CreateSchema(ctx context.Context) error {
	if _, err := es.db.Exec(ctx, SchemaFor(es.eventTableName)); err != nil {
		es.logError(logMsgCreateSchemaFailed, err)
		return errors.Join(ErrCreatingSchemaFailed, err)
	}

	return nil
}

// TableName returns the name of the events table of this EventStore.
func (es *EventStore) TableName() string {
	return es.eventTableName
}

func quoteIdentifier(identifier string) string {
	return pgx.Identifier{identifier}.Sanitize()
}
