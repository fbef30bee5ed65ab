// Package config provides PostgreSQL connection factories for the journal engine's integration tests.
//
// The DSN comes from the LEDGER_TEST_DSN environment variable and falls back to a local test database.
// Every factory verifies the connection and returns an error instead of aborting, so callers can skip
// integration tests when no database is reachable.
package config
