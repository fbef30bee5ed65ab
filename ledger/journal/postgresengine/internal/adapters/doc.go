// Package adapters provides the database adapters of the PostgreSQL journal engine.
//
// Each supported connection type (pgxpool.Pool, sql.DB, sqlx.DB) is wrapped behind the DBAdapter interface,
// so the engine builds and runs the same SQL against any of them.
package adapters
