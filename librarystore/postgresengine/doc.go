// Package postgresengine provides the PostgreSQL implementation of the library
// circulation engine: catalog maintenance, card registry, the borrow ledger, and
// the dynamic catalog search.
//
// Every operation opens exactly one database transaction, commits on full success
// and rolls back on any failure, so no partial effects survive a failed operation.
// The borrow path additionally serializes through a process-wide critical section
// shared by all borrow attempts.
//
// The engine supports multiple PostgreSQL database libraries through the adapter
// pattern: pgxpool.Pool, sql.DB, and sqlx.DB, selected by the constructor used.
// All SQL is built with goqu in prepared mode, so every filter value reaches the
// database as a bound parameter.
package postgresengine
