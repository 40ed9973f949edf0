package librarystore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

func Test_ParseCardType(t *testing.T) {
	t.Run("recognized_letters_parse", func(t *testing.T) {
		student, err := librarystore.ParseCardType("S")
		require.NoError(t, err)
		assert.Equal(t, librarystore.CardTypeStudent, student)

		teacher, err := librarystore.ParseCardType("T")
		require.NoError(t, err)
		assert.Equal(t, librarystore.CardTypeTeacher, teacher)
	})

	t.Run("anything_else_is_rejected", func(t *testing.T) {
		for _, input := range []string{"", "s", "t", "X", "ST"} {
			_, err := librarystore.ParseCardType(input)
			assert.ErrorIs(t, err, librarystore.ErrUnknownCardType, "input %q", input)
		}
	})
}

func Test_CardType_IsValid(t *testing.T) {
	assert.True(t, librarystore.CardTypeStudent.IsValid())
	assert.True(t, librarystore.CardTypeTeacher.IsValid())
	assert.False(t, librarystore.CardType("X").IsValid())
	assert.False(t, librarystore.CardType("").IsValid())
}

func Test_Borrow_Outstanding(t *testing.T) {
	open := librarystore.Borrow{BookID: 1, CardID: 1, BorrowTime: 1000, ReturnTime: librarystore.NotReturned}
	assert.True(t, open.Outstanding())

	closed := librarystore.Borrow{BookID: 1, CardID: 1, BorrowTime: 1000, ReturnTime: 2000}
	assert.False(t, closed.Outstanding())
}

func Test_BookColumn_IsValid(t *testing.T) {
	for _, column := range []librarystore.BookColumn{
		librarystore.ColumnBookID, librarystore.ColumnCategory, librarystore.ColumnTitle,
		librarystore.ColumnPress, librarystore.ColumnPublishYear, librarystore.ColumnAuthor,
		librarystore.ColumnPrice, librarystore.ColumnStock,
	} {
		assert.True(t, column.IsValid(), "column %q", column)
	}

	assert.False(t, librarystore.BookColumn("isbn").IsValid())
	assert.False(t, librarystore.BookColumn("book_id ASC; --").IsValid())
}
