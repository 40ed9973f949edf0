// Package adapters provides database adapter implementations for the PostgreSQL
// circulation engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL
// database libraries: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters provide
// equivalent functionality through a common DBAdapter interface, allowing the
// engine to work seamlessly with any supported connection type.
//
// Every engine operation runs inside exactly one transaction, so the adapter
// surface is transactional: DBAdapter begins a unit of work and DBTx carries
// the parameterized reads and writes plus the commit/rollback boundary.
package adapters
