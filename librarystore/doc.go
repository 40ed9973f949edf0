// Package librarystore provides the core types for the library circulation engine:
// the catalog, card and ledger entities, the dynamic catalog query criteria with its
// builder, the error taxonomy shared by all engine operations, and the uniform
// Outcome type used to carry results across process boundaries.
//
// The package is storage-agnostic. The PostgreSQL implementation of all operations
// lives in librarystore/postgresengine.
package librarystore
