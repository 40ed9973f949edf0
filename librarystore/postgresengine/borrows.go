package postgresengine

import (
	"context"
	"errors"
	"sync"

	"github.com/doug-martin/goqu/v9"

	"github.com/bookstacks/circulation-engine-go/librarystore"
	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
)

// borrowMutex serializes every borrow attempt in this process, regardless of
// which book or card is involved. Without it, two callers could both observe
// stock >= 1 inside their own transactions and both decrement past zero.
// The return path deliberately does not take it: a return can only increment
// stock and cannot create an oversell.
var borrowMutex sync.Mutex

// BorrowBook issues a loan: it records a new outstanding ledger entry with the
// given borrow time and decrements the book's stock by one, all within one unit
// of work. It fails with an InvariantViolation when the same card already holds
// an outstanding loan for this book or when no copy is left, and with NotFound
// for an unknown book.
func (e *Engine) BorrowBook(ctx context.Context, bookID int64, cardID int64, borrowTime int64) error {
	borrowMutex.Lock()
	defer borrowMutex.Unlock()

	return e.inTransaction(ctx, opBorrowBook, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildSelectOutstanding(goqu.Ex{colBookID: bookID, colCardID: cardID})
		if buildErr != nil {
			return buildErr
		}

		alreadyBorrowed, err := e.rowExists(ctx, tx, opBorrowBook, sqlQuery, args)
		if err != nil {
			return err
		}
		if alreadyBorrowed {
			return librarystore.ErrAlreadyBorrowed
		}

		book, err := e.readBookByID(ctx, tx, opBorrowBook, bookID)
		if err != nil {
			return err
		}
		if book.Stock < 1 {
			return librarystore.ErrNoStockLeft
		}

		sqlQuery, args, buildErr = buildInsertBorrow(bookID, cardID, borrowTime)
		if buildErr != nil {
			return buildErr
		}

		if _, execErr := e.execStatement(ctx, tx, opBorrowBook, sqlQuery, args); execErr != nil {
			return execErr
		}

		return e.adjustStock(ctx, tx, opBorrowBook, bookID, -1)
	})
}

// ReturnBook closes the outstanding loan matching the exact
// (bookID, cardID, borrowTime) triple: it stamps the record with the supplied
// return time and increments the book's stock by one. Both mutations commit
// together; neither survives if the other fails.
func (e *Engine) ReturnBook(ctx context.Context, bookID int64, cardID int64, borrowTime int64, returnTime int64) error {
	return e.inTransaction(ctx, opReturnBook, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildUpdateReturnTime(bookID, cardID, borrowTime, returnTime)
		if buildErr != nil {
			return buildErr
		}

		rowsAffected, execErr := e.execStatement(ctx, tx, opReturnBook, sqlQuery, args)
		if execErr != nil {
			return execErr
		}
		if rowsAffected == 0 {
			return librarystore.ErrBorrowRecordNotFound
		}

		return e.adjustStock(ctx, tx, opReturnBook, bookID, +1)
	})
}

// ShowBorrowHistory returns every ledger record for the given card joined with
// the borrowed book's descriptive fields, most recent borrow first. It is purely
// a read and enforces no invariant.
func (e *Engine) ShowBorrowHistory(ctx context.Context, cardID int64) ([]librarystore.BorrowHistoryItem, error) {
	var items []librarystore.BorrowHistoryItem

	err := e.inTransaction(ctx, opShowBorrowHistory, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildBorrowHistory(cardID)
		if buildErr != nil {
			return buildErr
		}

		rows, queryErr := e.queryRows(ctx, tx, opShowBorrowHistory, sqlQuery, args)
		if queryErr != nil {
			return queryErr
		}
		defer e.closeRows(ctx, rows)

		items = make([]librarystore.BorrowHistoryItem, 0)
		for rows.Next() {
			item := librarystore.BorrowHistoryItem{CardID: cardID}

			scanErr := rows.Scan(
				&item.Book.BookID, &item.Book.Category, &item.Book.Title, &item.Book.Press,
				&item.Book.PublishYear, &item.Book.Author, &item.Book.Price,
				&item.Borrow.BorrowTime, &item.Borrow.ReturnTime,
			)
			if scanErr != nil {
				e.logError(ctx, logMsgScanRowFailed, scanErr)
				return errors.Join(librarystore.ErrScanningRowFailed, scanErr)
			}

			item.Borrow.BookID = item.Book.BookID
			item.Borrow.CardID = cardID

			items = append(items, item)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// adjustStock shifts the stock counter of one book relative to its current
// value. Callers have already validated the move inside the same transaction.
func (e *Engine) adjustStock(ctx context.Context, tx adapters.DBTx, operation string, bookID int64, delta int) error {
	sqlQuery, args, buildErr := buildAdjustBookStock(bookID, delta)
	if buildErr != nil {
		return buildErr
	}

	rowsAffected, execErr := e.execStatement(ctx, tx, operation, sqlQuery, args)
	if execErr != nil {
		return execErr
	}
	if rowsAffected == 0 {
		return librarystore.ErrBookNotFound
	}

	return nil
}

// hasOutstandingBorrowForBook reports whether any ledger record for the book is
// still outstanding.
func (e *Engine) hasOutstandingBorrowForBook(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	bookID int64,
) (bool, error) {

	sqlQuery, args, buildErr := buildSelectOutstanding(goqu.Ex{colBookID: bookID})
	if buildErr != nil {
		return false, buildErr
	}

	return e.rowExists(ctx, tx, operation, sqlQuery, args)
}

// hasOutstandingBorrowForCard reports whether any ledger record for the card is
// still outstanding.
func (e *Engine) hasOutstandingBorrowForCard(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	cardID int64,
) (bool, error) {

	sqlQuery, args, buildErr := buildSelectOutstanding(goqu.Ex{colCardID: cardID})
	if buildErr != nil {
		return false, buildErr
	}

	return e.rowExists(ctx, tx, operation, sqlQuery, args)
}
