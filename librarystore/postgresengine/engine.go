package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/bookstacks/circulation-engine-go/librarystore"
	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
)

const (
	dialectPostgres = "postgres"

	tableBook   = "book"
	tableCard   = "card"
	tableBorrow = "borrow"

	colBookID      = "book_id"
	colCategory    = "category"
	colTitle       = "title"
	colPress       = "press"
	colPublishYear = "publish_year"
	colAuthor      = "author"
	colPrice       = "price"
	colStock       = "stock"

	colCardID     = "card_id"
	colName       = "name"
	colDepartment = "department"
	colCardType   = "type"

	colBorrowTime = "borrow_time"
	colReturnTime = "return_time"

	opStoreBook         = "store_book"
	opStoreBooks        = "store_books"
	opIncBookStock      = "inc_book_stock"
	opRemoveBook        = "remove_book"
	opModifyBookInfo    = "modify_book_info"
	opQueryBooks        = "query_books"
	opRegisterCard      = "register_card"
	opRemoveCard        = "remove_card"
	opListCards         = "list_cards"
	opBorrowBook        = "borrow_book"
	opReturnBook        = "return_book"
	opShowBorrowHistory = "show_borrow_history"
	opResetDatabase     = "reset_database"
)

// Engine implements the transactional consistency engine for the library's
// inventory and circulation records on top of PostgreSQL.
type Engine struct {
	db               adapters.DBAdapter
	logger           librarystore.Logger
	contextualLogger librarystore.ContextualLogger
	metricsCollector librarystore.MetricsCollector
	tracingCollector librarystore.TracingCollector
}

// NewEngineFromPGXPool creates a new Engine using a pgx pool with optional configuration.
func NewEngineFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Engine, error) {
	if pool == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(pool), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (*Engine, error) {
	if db == nil {
		return nil, librarystore.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (*Engine, error) {
	engine := &Engine{db: db}

	for _, option := range options {
		if err := option(engine); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// inTransaction runs fn inside one unit of work: begin, fn, commit on success,
// rollback on any failure. A rollback failure is logged and swallowed, the
// original failure is what the caller gets back. The operation is timed,
// traced, and counted through the configured collectors.
func (e *Engine) inTransaction(ctx context.Context, operation string, fn func(tx adapters.DBTx) error) error {
	ctx, span := e.startSpan(ctx, operation)
	start := time.Now()

	err := e.runInTransaction(ctx, operation, fn)

	duration := time.Since(start)
	e.recordOperation(ctx, operation, duration, err)
	e.finishSpan(span, err)

	return err
}

func (e *Engine) runInTransaction(ctx context.Context, operation string, fn func(tx adapters.DBTx) error) error {
	tx, beginErr := e.db.BeginTx(ctx)
	if beginErr != nil {
		e.logError(ctx, logMsgBeginTxFailed, beginErr, logAttrOperation, operation)
		return errors.Join(librarystore.ErrBeginTxFailed, beginErr)
	}

	if err := fn(tx); err != nil {
		e.rollback(ctx, tx, operation)
		return err
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		e.logError(ctx, logMsgCommitFailed, commitErr, logAttrOperation, operation)
		e.rollback(ctx, tx, operation)

		return errors.Join(librarystore.ErrCommitFailed, commitErr)
	}

	return nil
}

// rollback is best-effort: a failed rollback never changes the reported
// outcome of the operation that triggered it.
func (e *Engine) rollback(ctx context.Context, tx adapters.DBTx, operation string) {
	if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
		e.logWarn(ctx, logMsgRollbackFailed, logAttrError, rollbackErr.Error(), logAttrOperation, operation)
	}
}

// closeRows safely closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

// queryRows executes a parameterized read within the transaction with timing information.
func (e *Engine) queryRows(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	sqlQuery string,
	args []any,
) (adapters.DBRows, error) {

	start := time.Now()
	rows, queryErr := tx.Query(ctx, sqlQuery, args...)
	e.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	if queryErr != nil {
		e.logError(ctx, logMsgQueryFailed, queryErr, logAttrQuery, sqlQuery)
		return nil, errors.Join(librarystore.ErrQueryFailed, queryErr)
	}

	return rows, nil
}

// execStatement executes a parameterized write within the transaction and
// returns the number of affected rows.
func (e *Engine) execStatement(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	sqlQuery string,
	args []any,
) (int64, error) {

	start := time.Now()
	result, execErr := tx.Exec(ctx, sqlQuery, args...)
	e.logQueryWithDuration(ctx, operation, sqlQuery, time.Since(start))

	if execErr != nil {
		e.logError(ctx, logMsgExecFailed, execErr, logAttrQuery, sqlQuery)
		return 0, errors.Join(librarystore.ErrExecFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, errors.Join(librarystore.ErrExecFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// rowExists runs a read that is only inspected for whether it returned any row.
func (e *Engine) rowExists(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	sqlQuery string,
	args []any,
) (bool, error) {

	rows, queryErr := e.queryRows(ctx, tx, operation, sqlQuery, args)
	if queryErr != nil {
		return false, queryErr
	}
	defer e.closeRows(ctx, rows)

	found := rows.Next()

	if err := rows.Err(); err != nil {
		return false, errors.Join(librarystore.ErrQueryFailed, err)
	}

	return found, nil
}
