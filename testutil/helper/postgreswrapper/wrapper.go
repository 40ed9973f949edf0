// Package postgreswrapper spins up a disposable PostgreSQL instance for
// integration tests and builds the circulation engine on top of it with the
// adapter type selected through the ADAPTER_TYPE environment variable.
package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine"
	"github.com/bookstacks/circulation-engine-go/testutil/config"
)

// Adapter type constants.
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"

	adapterTypeEnvVar = "ADAPTER_TYPE"
	externalDSNEnvVar = "LIBRARYSTORE_TEST_DSN"
)

// Wrapper owns the database the engine under test runs against.
type Wrapper struct {
	engine  *postgresengine.Engine
	cleanup []func()
}

// GetEngine returns the engine under test.
func (w *Wrapper) GetEngine() *postgresengine.Engine {
	return w.engine
}

// Close releases connections and terminates the container, if one was started.
func (w *Wrapper) Close() {
	for i := len(w.cleanup) - 1; i >= 0; i-- {
		w.cleanup[i]()
	}
}

// CreateWrapperWithTestConfig starts a PostgreSQL container (or connects to the
// database named by LIBRARYSTORE_TEST_DSN when set), builds the engine with the
// adapter selected through ADAPTER_TYPE, and resets the schema.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) *Wrapper {
	t.Helper()

	wrapper := &Wrapper{}
	dsn := wrapper.provideDSN(t)
	wrapper.engine = wrapper.createEngine(t, dsn, options...)

	resetErr := wrapper.engine.ResetDatabase(context.Background())
	require.NoError(t, resetErr, "error resetting the database in test setup")

	return wrapper
}

func (w *Wrapper) provideDSN(t testing.TB) string {
	if dsn := os.Getenv(externalDSNEnvVar); dsn != "" {
		return dsn
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("librarystore"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "error starting the postgres container in test setup")

	w.cleanup = append(w.cleanup, func() {
		if terminateErr := pgContainer.Terminate(ctx); terminateErr != nil {
			t.Logf("failed to terminate postgres container: %v", terminateErr)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "error getting the container connection string in test setup")

	return dsn
}

func (w *Wrapper) createEngine(t testing.TB, dsn string, options ...postgresengine.Option) *postgresengine.Engine {
	adapterTypeFromEnv := strings.ToLower(os.Getenv(adapterTypeEnvVar))

	switch adapterTypeFromEnv {
	case typePGXPool, "":
		pool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolConfigForDSN(dsn))
		require.NoError(t, err, "error connecting to DB pool in test setup")
		w.cleanup = append(w.cleanup, pool.Close)

		engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating the engine in test setup")

		return engine

	case typeSQLDB:
		db := config.PostgresSQLDBConfigForDSN(dsn)
		w.cleanup = append(w.cleanup, func(db *sql.DB) func() {
			return func() { _ = db.Close() }
		}(db))

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		require.NoError(t, err, "error creating the engine in test setup")

		return engine

	case typeSQLXDB:
		db := config.PostgresSQLXConfigForDSN(dsn)
		w.cleanup = append(w.cleanup, func(db *sqlx.DB) func() {
			return func() { _ = db.Close() }
		}(db))

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		require.NoError(t, err, "error creating the engine in test setup")

		return engine

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterTypeFromEnv))
	}
}
