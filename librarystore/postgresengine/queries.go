package postgresengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

// All queries are built in prepared mode: ToSQL returns placeholder SQL plus the
// bound argument list, values never end up in the query text.

func builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

var bookColumns = []any{
	colBookID, colCategory, colTitle, colPress, colPublishYear, colAuthor, colPrice, colStock,
}

func bookIdentityTuple(book librarystore.Book) goqu.Ex {
	return goqu.Ex{
		colCategory:    book.Category,
		colTitle:       book.Title,
		colPress:       book.Press,
		colPublishYear: book.PublishYear,
		colAuthor:      book.Author,
	}
}

func bookRecord(book librarystore.Book) goqu.Record {
	return goqu.Record{
		colCategory:    book.Category,
		colTitle:       book.Title,
		colPress:       book.Press,
		colPublishYear: book.PublishYear,
		colAuthor:      book.Author,
		colPrice:       book.Price,
		colStock:       book.Stock,
	}
}

func buildSelectBookIDByTuple(book librarystore.Book) (string, []any, error) {
	return toSQL(builder().
		From(tableBook).
		Prepared(true).
		Select(colBookID).
		Where(bookIdentityTuple(book)))
}

func buildSelectBookByID(bookID int64) (string, []any, error) {
	return toSQL(builder().
		From(tableBook).
		Prepared(true).
		Select(bookColumns...).
		Where(goqu.Ex{colBookID: bookID}))
}

func buildInsertBooks(books []librarystore.Book) (string, []any, error) {
	rows := make([]any, len(books))
	for i, book := range books {
		rows[i] = bookRecord(book)
	}

	stmt := builder().
		Insert(tableBook).
		Prepared(true).
		Rows(rows...).
		Returning(colBookID)

	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func buildUpdateBookStock(bookID int64, stock int) (string, []any, error) {
	return toSQLUpdate(builder().
		Update(tableBook).
		Prepared(true).
		Set(goqu.Record{colStock: stock}).
		Where(goqu.Ex{colBookID: bookID}))
}

// buildAdjustBookStock shifts the stock counter relative to its current value,
// used by the borrow and return paths which have already validated the move.
func buildAdjustBookStock(bookID int64, delta int) (string, []any, error) {
	return toSQLUpdate(builder().
		Update(tableBook).
		Prepared(true).
		Set(goqu.Record{colStock: goqu.L("stock + ?", delta)}).
		Where(goqu.Ex{colBookID: bookID}))
}

func buildDeleteBook(bookID int64) (string, []any, error) {
	stmt := builder().
		Delete(tableBook).
		Prepared(true).
		Where(goqu.Ex{colBookID: bookID})

	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// buildUpdateBookInfo overwrites the descriptive and price fields, never stock.
func buildUpdateBookInfo(book librarystore.Book) (string, []any, error) {
	return toSQLUpdate(builder().
		Update(tableBook).
		Prepared(true).
		Set(goqu.Record{
			colCategory:    book.Category,
			colTitle:       book.Title,
			colPress:       book.Press,
			colPublishYear: book.PublishYear,
			colAuthor:      book.Author,
			colPrice:       book.Price,
		}).
		Where(goqu.Ex{colBookID: book.BookID}))
}

// buildCatalogSelect assembles the dynamic catalog search from the optional
// criteria. Provided filters are AND-combined; the sort column comes from the
// BookColumn whitelist and book_id ascending is always the deterministic
// tie-break. Without a sort column the ordering is book_id ascending no matter
// what direction was supplied.
func buildCatalogSelect(criteria librarystore.BookQueryCriteria) (string, []any, error) {
	stmt := builder().
		From(tableBook).
		Prepared(true).
		Select(bookColumns...)

	conditions := make([]goqu.Expression, 0)

	if category, ok := criteria.Category(); ok {
		conditions = append(conditions, goqu.C(colCategory).Eq(category))
	}

	if title, ok := criteria.Title(); ok {
		conditions = append(conditions, goqu.C(colTitle).Like("%"+title+"%"))
	}

	if press, ok := criteria.Press(); ok {
		conditions = append(conditions, goqu.C(colPress).Like("%"+press+"%"))
	}

	if author, ok := criteria.Author(); ok {
		conditions = append(conditions, goqu.C(colAuthor).Like("%"+author+"%"))
	}

	if minYear, ok := criteria.MinPublishYear(); ok {
		conditions = append(conditions, goqu.C(colPublishYear).Gte(minYear))
	}

	if maxYear, ok := criteria.MaxPublishYear(); ok {
		conditions = append(conditions, goqu.C(colPublishYear).Lte(maxYear))
	}

	if minPrice, ok := criteria.MinPrice(); ok {
		conditions = append(conditions, goqu.C(colPrice).Gte(minPrice))
	}

	if maxPrice, ok := criteria.MaxPrice(); ok {
		conditions = append(conditions, goqu.C(colPrice).Lte(maxPrice))
	}

	if len(conditions) > 0 {
		stmt = stmt.Where(goqu.And(conditions...))
	}

	stmt = stmt.Order(catalogOrdering(criteria)...)

	return toSQL(stmt)
}

func catalogOrdering(criteria librarystore.BookQueryCriteria) []exp.OrderedExpression {
	sortBy, ok := criteria.SortBy()
	if !ok || !sortBy.IsValid() {
		return []exp.OrderedExpression{goqu.C(colBookID).Asc()}
	}

	primary := goqu.C(string(sortBy)).Asc()
	if order, ok := criteria.SortOrder(); ok && order == librarystore.SortDesc {
		primary = goqu.C(string(sortBy)).Desc()
	}

	return []exp.OrderedExpression{primary, goqu.C(colBookID).Asc()}
}

/***** cards *****/

var cardColumns = []any{colCardID, colName, colDepartment, colCardType}

func buildSelectCardIDByTuple(card librarystore.Card) (string, []any, error) {
	return toSQL(builder().
		From(tableCard).
		Prepared(true).
		Select(colCardID).
		Where(goqu.Ex{
			colName:       card.Name,
			colDepartment: card.Department,
			colCardType:   string(card.Type),
		}))
}

func buildSelectCardByID(cardID int64) (string, []any, error) {
	return toSQL(builder().
		From(tableCard).
		Prepared(true).
		Select(cardColumns...).
		Where(goqu.Ex{colCardID: cardID}))
}

func buildInsertCard(card librarystore.Card) (string, []any, error) {
	stmt := builder().
		Insert(tableCard).
		Prepared(true).
		Rows(goqu.Record{
			colName:       card.Name,
			colDepartment: card.Department,
			colCardType:   string(card.Type),
		}).
		Returning(colCardID)

	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func buildDeleteCard(cardID int64) (string, []any, error) {
	stmt := builder().
		Delete(tableCard).
		Prepared(true).
		Where(goqu.Ex{colCardID: cardID})

	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func buildSelectAllCards() (string, []any, error) {
	return toSQL(builder().
		From(tableCard).
		Prepared(true).
		Select(cardColumns...).
		Order(goqu.C(colCardID).Asc()))
}

/***** borrows *****/

func buildSelectOutstanding(conditions goqu.Ex) (string, []any, error) {
	conditions[colReturnTime] = librarystore.NotReturned

	return toSQL(builder().
		From(tableBorrow).
		Prepared(true).
		Select(colBookID).
		Where(conditions).
		Limit(1))
}

func buildInsertBorrow(bookID int64, cardID int64, borrowTime int64) (string, []any, error) {
	stmt := builder().
		Insert(tableBorrow).
		Prepared(true).
		Rows(goqu.Record{
			colBookID:     bookID,
			colCardID:     cardID,
			colBorrowTime: borrowTime,
			colReturnTime: librarystore.NotReturned,
		})

	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

// buildUpdateReturnTime stamps the outstanding record matching the exact triple.
// The sentinel guard keeps an already-returned record from being stamped twice.
func buildUpdateReturnTime(bookID int64, cardID int64, borrowTime int64, returnTime int64) (string, []any, error) {
	return toSQLUpdate(builder().
		Update(tableBorrow).
		Prepared(true).
		Set(goqu.Record{colReturnTime: returnTime}).
		Where(goqu.Ex{
			colBookID:     bookID,
			colCardID:     cardID,
			colBorrowTime: borrowTime,
			colReturnTime: librarystore.NotReturned,
		}))
}

// buildBorrowHistory joins the ledger with the book's descriptive fields,
// most recent borrow first. The inner join keeps records only for books that
// still exist in the catalog.
func buildBorrowHistory(cardID int64) (string, []any, error) {
	borrowBookID := tableBorrow + "." + colBookID

	return toSQL(builder().
		From(tableBorrow).
		Prepared(true).
		Join(
			goqu.T(tableBook),
			goqu.On(goqu.I(borrowBookID).Eq(goqu.I(tableBook+"."+colBookID))),
		).
		Select(
			goqu.I(borrowBookID),
			goqu.I(tableBook+"."+colCategory),
			goqu.I(tableBook+"."+colTitle),
			goqu.I(tableBook+"."+colPress),
			goqu.I(tableBook+"."+colPublishYear),
			goqu.I(tableBook+"."+colAuthor),
			goqu.I(tableBook+"."+colPrice),
			goqu.I(tableBorrow+"."+colBorrowTime),
			goqu.I(tableBorrow+"."+colReturnTime),
		).
		Where(goqu.Ex{tableBorrow + "." + colCardID: cardID}).
		Order(
			goqu.I(tableBorrow+"."+colBorrowTime).Desc(),
			goqu.I(borrowBookID).Asc(),
		))
}

func toSQL(stmt *goqu.SelectDataset) (string, []any, error) {
	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func toSQLUpdate(stmt *goqu.UpdateDataset) (string, []any, error) {
	sqlQuery, args, toSQLErr := stmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(librarystore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}
