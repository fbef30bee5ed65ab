// Package postgreswrapper connects the journal engine's integration tests to a PostgreSQL database
// through pgx.Pool, sql.DB or sqlx.DB, depending on the ADAPTER_TYPE environment variable.
package postgreswrapper
