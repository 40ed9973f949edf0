package postgresengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

func Test_BuildCatalogSelect_NoCriteria(t *testing.T) {
	sqlQuery, args, err := buildCatalogSelect(librarystore.BuildBookQuery().Finalize())
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `FROM "book"`)
	assert.NotContains(t, sqlQuery, "WHERE")
	assert.Contains(t, sqlQuery, `ORDER BY "book_id" ASC`)
	assert.Empty(t, args)
}

func Test_BuildCatalogSelect_AllFiltersAreBoundParameters(t *testing.T) {
	criteria := librarystore.BuildBookQuery().
		WithCategory("CS").
		WithTitleContains("Database").
		WithPressContains("Press").
		WithAuthorContains("Gray").
		WithMinPublishYear(1990).
		WithMaxPublishYear(2010).
		WithMinPrice(10).
		WithMaxPrice(50).
		Finalize()

	sqlQuery, args, err := buildCatalogSelect(criteria)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `"category" = $`)
	assert.Contains(t, sqlQuery, `"title" LIKE $`)
	assert.Contains(t, sqlQuery, `"press" LIKE $`)
	assert.Contains(t, sqlQuery, `"author" LIKE $`)
	assert.Contains(t, sqlQuery, `"publish_year" >= $`)
	assert.Contains(t, sqlQuery, `"publish_year" <= $`)
	assert.Contains(t, sqlQuery, `"price" >= $`)
	assert.Contains(t, sqlQuery, `"price" <= $`)

	assert.Len(t, args, 8)
	assert.Contains(t, args, "CS")
	assert.Contains(t, args, "%Database%")
	assert.Contains(t, args, "%Press%")
	assert.Contains(t, args, "%Gray%")
}

func Test_BuildCatalogSelect_ValuesNeverEndUpInTheQueryText(t *testing.T) {
	hostile := "x'); DROP TABLE book; --"

	sqlQuery, args, err := buildCatalogSelect(librarystore.BuildBookQuery().
		WithTitleContains(hostile).
		Finalize())
	require.NoError(t, err)

	assert.NotContains(t, sqlQuery, "DROP TABLE")
	assert.Contains(t, args, "%"+hostile+"%")
}

func Test_BuildCatalogSelect_Ordering(t *testing.T) {
	tests := []struct {
		name     string
		criteria librarystore.BookQueryCriteria
		expected string
	}{
		{
			name:     "default_is_book_id_ascending",
			criteria: librarystore.BuildBookQuery().Finalize(),
			expected: `ORDER BY "book_id" ASC`,
		},
		{
			name: "sort_column_gets_book_id_tie_break",
			criteria: librarystore.BuildBookQuery().
				SortedBy(librarystore.ColumnPrice, librarystore.SortDesc).
				Finalize(),
			expected: `ORDER BY "price" DESC, "book_id" ASC`,
		},
		{
			name: "ascending_sort_keeps_tie_break",
			criteria: librarystore.BuildBookQuery().
				SortedBy(librarystore.ColumnTitle, librarystore.SortAsc).
				Finalize(),
			expected: `ORDER BY "title" ASC, "book_id" ASC`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sqlQuery, _, err := buildCatalogSelect(tc.criteria)
			require.NoError(t, err)
			assert.Contains(t, sqlQuery, tc.expected)
		})
	}
}

func Test_BuildInsertBooks_ReturnsGeneratedIDs(t *testing.T) {
	books := []librarystore.Book{
		{Category: "CS", Title: "A", Press: "P", PublishYear: 2000, Author: "X", Price: 10, Stock: 3},
		{Category: "CS", Title: "B", Press: "P", PublishYear: 2001, Author: "Y", Price: 20, Stock: 1},
	}

	sqlQuery, args, err := buildInsertBooks(books)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `INSERT INTO "book"`)
	assert.Contains(t, sqlQuery, `RETURNING "book_id"`)
	assert.Len(t, args, 14)
}

func Test_BuildAdjustBookStock_ShiftsRelativeToCurrentValue(t *testing.T) {
	sqlQuery, args, err := buildAdjustBookStock(7, -1)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `UPDATE "book"`)
	assert.Contains(t, sqlQuery, "stock + $")
	assert.Contains(t, args, -1)
	assert.Contains(t, args, int64(7))
}

func Test_BuildUpdateBookInfo_NeverTouchesStock(t *testing.T) {
	sqlQuery, _, err := buildUpdateBookInfo(librarystore.Book{
		BookID: 3, Category: "CS", Title: "A", Press: "P", PublishYear: 2000, Author: "X", Price: 10, Stock: 99,
	})
	require.NoError(t, err)

	assert.NotContains(t, sqlQuery, `"stock"`)
	assert.Contains(t, sqlQuery, `"price"`)
}

func Test_BuildSelectOutstanding_AppliesSentinelGuard(t *testing.T) {
	sqlQuery, args, err := buildSelectOutstanding(map[string]any{"card_id": int64(5)})
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `"return_time" = $`)
	assert.Contains(t, sqlQuery, "LIMIT $")
	assert.Contains(t, args, librarystore.NotReturned)
	assert.Contains(t, args, int64(5))
}

func Test_BuildUpdateReturnTime_OnlyStampsOutstandingRecords(t *testing.T) {
	sqlQuery, args, err := buildUpdateReturnTime(1, 2, 1000, 2000)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `UPDATE "borrow"`)
	assert.Contains(t, sqlQuery, `"return_time" = $`)
	assert.Contains(t, args, librarystore.NotReturned)
	assert.Contains(t, args, int64(2000))
}

func Test_BuildBorrowHistory_JoinsAndOrders(t *testing.T) {
	sqlQuery, args, err := buildBorrowHistory(9)
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `INNER JOIN "book"`)
	assert.Contains(t, sqlQuery, `"borrow"."borrow_time" DESC`)
	assert.Contains(t, sqlQuery, `"borrow"."book_id" ASC`)
	assert.Contains(t, args, int64(9))
}

func Test_BuildInsertCard_ReturnsGeneratedID(t *testing.T) {
	sqlQuery, args, err := buildInsertCard(librarystore.Card{
		Name: "Ada", Department: "CS", Type: librarystore.CardTypeStudent,
	})
	require.NoError(t, err)

	assert.Contains(t, sqlQuery, `INSERT INTO "card"`)
	assert.Contains(t, sqlQuery, `RETURNING "card_id"`)
	assert.ElementsMatch(t, []any{"Ada", "CS", "S"}, args)
}
