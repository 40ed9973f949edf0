package postgresengine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstacks/circulation-engine-go/librarystore"
	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
	"github.com/bookstacks/circulation-engine-go/testutil/helper"
)

/***** stubs *****/

type stubResult struct {
	rowsAffected int64
}

func (r stubResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

type stubTx struct {
	queryErr     error
	execErr      error
	commitErr    error
	rollbackErr  error
	rowsAffected int64
	committed    bool
	rolledBack   bool
}

func (tx *stubTx) Query(_ context.Context, _ string, _ ...any) (adapters.DBRows, error) {
	return nil, tx.queryErr
}

func (tx *stubTx) Exec(_ context.Context, _ string, _ ...any) (adapters.DBResult, error) {
	if tx.execErr != nil {
		return nil, tx.execErr
	}

	return stubResult{rowsAffected: tx.rowsAffected}, nil
}

func (tx *stubTx) Commit(_ context.Context) error {
	tx.committed = true
	return tx.commitErr
}

func (tx *stubTx) Rollback(_ context.Context) error {
	tx.rolledBack = true
	return tx.rollbackErr
}

type stubAdapter struct {
	beginErr error
	tx       *stubTx
}

func (a stubAdapter) BeginTx(_ context.Context) (adapters.DBTx, error) {
	if a.beginErr != nil {
		return nil, a.beginErr
	}

	return a.tx, nil
}

/***** tests *****/

func Test_Engine_Constructors_RejectNilConnections(t *testing.T) {
	_, err := NewEngineFromPGXPool(nil)
	assert.ErrorIs(t, err, librarystore.ErrNilDatabaseConnection)

	_, err = NewEngineFromSQLDB(nil)
	assert.ErrorIs(t, err, librarystore.ErrNilDatabaseConnection)

	_, err = NewEngineFromSQLX(nil)
	assert.ErrorIs(t, err, librarystore.ErrNilDatabaseConnection)
}

func Test_Engine_BeginTxFailure_IsReportedLoggedAndCounted(t *testing.T) {
	loggerSpy := helper.NewLoggerSpy()
	metricsSpy := helper.NewMetricsCollectorSpy()

	engine, err := newEngine(
		stubAdapter{beginErr: errors.New("no connection")},
		WithLogger(loggerSpy),
		WithMetrics(metricsSpy),
	)
	require.NoError(t, err)

	err = engine.ReturnBook(context.Background(), 1, 2, 1000, 2000)

	assert.ErrorIs(t, err, librarystore.ErrBeginTxFailed)
	assert.Equal(t, librarystore.ClassPersistenceFailure, librarystore.Classify(err))
	assert.True(t, loggerSpy.HasEntryWithLevel("error"))
	assert.Equal(t, 1, metricsSpy.CounterCount(metricOperationOutcomes))
	assert.Len(t, metricsSpy.Durations[metricOperationDuration], 1)
}

func Test_Engine_ExecFailure_RollsBackAndNeverCommits(t *testing.T) {
	tx := &stubTx{execErr: errors.New("connection reset")}
	engine, err := newEngine(stubAdapter{tx: tx})
	require.NoError(t, err)

	err = engine.ReturnBook(context.Background(), 1, 2, 1000, 2000)

	assert.ErrorIs(t, err, librarystore.ErrExecFailed)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func Test_Engine_QueryFailure_RollsBackAndNeverCommits(t *testing.T) {
	tx := &stubTx{queryErr: errors.New("connection reset")}
	engine, err := newEngine(stubAdapter{tx: tx})
	require.NoError(t, err)

	_, err = engine.ShowBorrowHistory(context.Background(), 5)

	assert.ErrorIs(t, err, librarystore.ErrQueryFailed)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func Test_Engine_CommitFailure_IsReportedAndRolledBack(t *testing.T) {
	loggerSpy := helper.NewLoggerSpy()
	tx := &stubTx{commitErr: errors.New("deadlock detected"), rowsAffected: 1}

	engine, err := newEngine(stubAdapter{tx: tx}, WithLogger(loggerSpy))
	require.NoError(t, err)

	err = engine.ReturnBook(context.Background(), 1, 2, 1000, 2000)

	assert.ErrorIs(t, err, librarystore.ErrCommitFailed)
	assert.True(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.True(t, loggerSpy.HasEntryWithLevel("error"))
}

func Test_Engine_RollbackFailure_DoesNotMaskTheOriginalError(t *testing.T) {
	loggerSpy := helper.NewLoggerSpy()
	tx := &stubTx{
		execErr:     errors.New("connection reset"),
		rollbackErr: errors.New("rollback failed too"),
	}

	engine, err := newEngine(stubAdapter{tx: tx}, WithLogger(loggerSpy))
	require.NoError(t, err)

	err = engine.ReturnBook(context.Background(), 1, 2, 1000, 2000)

	assert.ErrorIs(t, err, librarystore.ErrExecFailed)
	assert.NotContains(t, err.Error(), "rollback failed too")
	assert.True(t, loggerSpy.HasEntryWithLevel("warn"))
}

func Test_Engine_ReturnBook_NoMatchingRecord(t *testing.T) {
	tx := &stubTx{rowsAffected: 0}
	engine, err := newEngine(stubAdapter{tx: tx})
	require.NoError(t, err)

	err = engine.ReturnBook(context.Background(), 1, 2, 1000, 2000)

	assert.ErrorIs(t, err, librarystore.ErrBorrowRecordNotFound)
	assert.Equal(t, librarystore.ClassNotFound, librarystore.Classify(err))
	assert.True(t, tx.rolledBack)
}

func Test_Engine_RegisterCard_RejectsUnknownCardType(t *testing.T) {
	engine, err := newEngine(stubAdapter{tx: &stubTx{}})
	require.NoError(t, err)

	err = engine.RegisterCard(context.Background(), &librarystore.Card{
		Name: "Ada", Department: "CS", Type: librarystore.CardType("X"),
	})

	assert.ErrorIs(t, err, librarystore.ErrUnknownCardType)
}

func Test_Engine_StoreBook_RejectsNegativePriceAndStock(t *testing.T) {
	engine, err := newEngine(stubAdapter{tx: &stubTx{}})
	require.NoError(t, err)

	err = engine.StoreBook(context.Background(), &librarystore.Book{
		Category: "CS", Title: "A", Press: "P", PublishYear: 2000, Author: "X", Price: -1, Stock: 1,
	})
	assert.ErrorIs(t, err, librarystore.ErrNegativePrice)

	err = engine.StoreBook(context.Background(), &librarystore.Book{
		Category: "CS", Title: "A", Press: "P", PublishYear: 2000, Author: "X", Price: 1, Stock: -1,
	})
	assert.ErrorIs(t, err, librarystore.ErrNegativeStock)
}
