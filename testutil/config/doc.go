// Package config provides PostgreSQL database configuration for engine testing.
//
// This package contains factory functions for creating database connections
// using the engine's supported PostgreSQL adapters (pgxpool.Pool, sql.DB,
// sqlx.DB) with a test DSN that can be overridden through the environment,
// optionally loaded from a .env file.
package config
