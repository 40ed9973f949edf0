package postgresengine

import (
	"context"
	"errors"

	"github.com/bookstacks/circulation-engine-go/librarystore"
	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
)

// StoreBook inserts one catalog entry and assigns the generated identifier back
// onto the input record. It fails with a Conflict when a book with an identical
// (category, title, press, publish year, author) tuple already exists.
func (e *Engine) StoreBook(ctx context.Context, book *librarystore.Book) error {
	if book.Price < 0 {
		return librarystore.ErrNegativePrice
	}
	if book.Stock < 0 {
		return librarystore.ErrNegativeStock
	}

	return e.inTransaction(ctx, opStoreBook, func(tx adapters.DBTx) error {
		ids, err := e.insertBooks(ctx, tx, opStoreBook, []librarystore.Book{*book})
		if err != nil {
			return err
		}

		book.BookID = ids[0]

		return nil
	})
}

// StoreBooks inserts a batch of catalog entries in one unit of work, assigning
// generated identifiers to the elements in input order. The batch is atomic:
// when any entry fails, nothing is persisted.
func (e *Engine) StoreBooks(ctx context.Context, books []*librarystore.Book) error {
	if len(books) == 0 {
		return nil
	}

	values := make([]librarystore.Book, len(books))
	for i, book := range books {
		if book.Price < 0 {
			return librarystore.ErrNegativePrice
		}
		if book.Stock < 0 {
			return librarystore.ErrNegativeStock
		}
		values[i] = *book
	}

	return e.inTransaction(ctx, opStoreBooks, func(tx adapters.DBTx) error {
		ids, err := e.insertBooks(ctx, tx, opStoreBooks, values)
		if err != nil {
			return err
		}

		for i, id := range ids {
			books[i].BookID = id
		}

		return nil
	})
}

// insertBooks checks each identity tuple for duplicates, then inserts all rows
// with a single statement and collects the generated identifiers in input order.
func (e *Engine) insertBooks(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	books []librarystore.Book,
) ([]int64, error) {

	for _, book := range books {
		sqlQuery, args, buildErr := buildSelectBookIDByTuple(book)
		if buildErr != nil {
			return nil, buildErr
		}

		exists, err := e.rowExists(ctx, tx, operation, sqlQuery, args)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, librarystore.ErrBookAlreadyExists
		}
	}

	sqlQuery, args, buildErr := buildInsertBooks(books)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := e.queryRows(ctx, tx, operation, sqlQuery, args)
	if queryErr != nil {
		return nil, queryErr
	}
	defer e.closeRows(ctx, rows)

	ids := make([]int64, 0, len(books))
	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr)
			return nil, errors.Join(librarystore.ErrScanningRowFailed, scanErr)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Join(librarystore.ErrQueryFailed, err)
	}

	if len(ids) != len(books) {
		return nil, librarystore.ErrNoRowsInserted
	}

	return ids, nil
}

// IncBookStock adjusts a book's stock by delta as a read-modify-write within one
// unit of work. It fails with NotFound for an unknown book and with an
// InvariantViolation when the adjusted stock would be negative, leaving the
// stored value unchanged.
func (e *Engine) IncBookStock(ctx context.Context, bookID int64, delta int) error {
	return e.inTransaction(ctx, opIncBookStock, func(tx adapters.DBTx) error {
		book, err := e.readBookByID(ctx, tx, opIncBookStock, bookID)
		if err != nil {
			return err
		}

		newStock := book.Stock + delta
		if newStock < 0 {
			return librarystore.ErrNegativeStock
		}

		sqlQuery, args, buildErr := buildUpdateBookStock(bookID, newStock)
		if buildErr != nil {
			return buildErr
		}

		_, execErr := e.execStatement(ctx, tx, opIncBookStock, sqlQuery, args)

		return execErr
	})
}

// RemoveBook deletes a catalog entry. It fails with NotFound for an unknown book
// and with an InvariantViolation while any ledger record for the book is still
// outstanding.
func (e *Engine) RemoveBook(ctx context.Context, bookID int64) error {
	return e.inTransaction(ctx, opRemoveBook, func(tx adapters.DBTx) error {
		if _, err := e.readBookByID(ctx, tx, opRemoveBook, bookID); err != nil {
			return err
		}

		outstanding, err := e.hasOutstandingBorrowForBook(ctx, tx, opRemoveBook, bookID)
		if err != nil {
			return err
		}
		if outstanding {
			return librarystore.ErrBookStillBorrowed
		}

		sqlQuery, args, buildErr := buildDeleteBook(bookID)
		if buildErr != nil {
			return buildErr
		}

		_, execErr := e.execStatement(ctx, tx, opRemoveBook, sqlQuery, args)

		return execErr
	})
}

// ModifyBookInfo overwrites a book's descriptive and price fields. The stock
// counter is never touched by this operation.
func (e *Engine) ModifyBookInfo(ctx context.Context, book *librarystore.Book) error {
	if book.Price < 0 {
		return librarystore.ErrNegativePrice
	}

	return e.inTransaction(ctx, opModifyBookInfo, func(tx adapters.DBTx) error {
		if _, err := e.readBookByID(ctx, tx, opModifyBookInfo, book.BookID); err != nil {
			return err
		}

		sqlQuery, args, buildErr := buildUpdateBookInfo(*book)
		if buildErr != nil {
			return buildErr
		}

		_, execErr := e.execStatement(ctx, tx, opModifyBookInfo, sqlQuery, args)

		return execErr
	})
}

// QueryBooks runs the dynamic catalog search assembled from the given criteria
// and returns the matching books in their requested order. An empty result is a
// successful query with an empty, non-nil slice.
func (e *Engine) QueryBooks(ctx context.Context, criteria librarystore.BookQueryCriteria) ([]librarystore.Book, error) {
	var books []librarystore.Book

	err := e.inTransaction(ctx, opQueryBooks, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildCatalogSelect(criteria)
		if buildErr != nil {
			e.logError(ctx, logMsgBuildQueryFailed, buildErr)
			return buildErr
		}

		rows, queryErr := e.queryRows(ctx, tx, opQueryBooks, sqlQuery, args)
		if queryErr != nil {
			return queryErr
		}
		defer e.closeRows(ctx, rows)

		books = make([]librarystore.Book, 0)
		for rows.Next() {
			var book librarystore.Book
			scanErr := rows.Scan(
				&book.BookID, &book.Category, &book.Title, &book.Press,
				&book.PublishYear, &book.Author, &book.Price, &book.Stock,
			)
			if scanErr != nil {
				e.logError(ctx, logMsgScanRowFailed, scanErr)
				return errors.Join(librarystore.ErrScanningRowFailed, scanErr)
			}

			books = append(books, book)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// readBookByID loads a book within the transaction, failing with NotFound when
// no such catalog entry exists.
func (e *Engine) readBookByID(
	ctx context.Context,
	tx adapters.DBTx,
	operation string,
	bookID int64,
) (librarystore.Book, error) {

	var book librarystore.Book

	sqlQuery, args, buildErr := buildSelectBookByID(bookID)
	if buildErr != nil {
		return book, buildErr
	}

	rows, queryErr := e.queryRows(ctx, tx, operation, sqlQuery, args)
	if queryErr != nil {
		return book, queryErr
	}
	defer e.closeRows(ctx, rows)

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return book, errors.Join(librarystore.ErrQueryFailed, err)
		}

		return book, librarystore.ErrBookNotFound
	}

	scanErr := rows.Scan(
		&book.BookID, &book.Category, &book.Title, &book.Press,
		&book.PublishYear, &book.Author, &book.Price, &book.Stock,
	)
	if scanErr != nil {
		e.logError(ctx, logMsgScanRowFailed, scanErr)
		return book, errors.Join(librarystore.ErrScanningRowFailed, scanErr)
	}

	return book, nil
}
