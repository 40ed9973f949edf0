package librarystore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

func Test_Classify_MapsDomainErrorsToTheirClass(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected librarystore.Class
	}{
		{"nil_error", nil, librarystore.ClassUnknown},
		{"book_already_exists", librarystore.ErrBookAlreadyExists, librarystore.ClassConflict},
		{"card_already_exists", librarystore.ErrCardAlreadyExists, librarystore.ClassConflict},
		{"book_not_found", librarystore.ErrBookNotFound, librarystore.ClassNotFound},
		{"card_not_found", librarystore.ErrCardNotFound, librarystore.ClassNotFound},
		{"borrow_record_not_found", librarystore.ErrBorrowRecordNotFound, librarystore.ClassNotFound},
		{"negative_stock", librarystore.ErrNegativeStock, librarystore.ClassInvariantViolation},
		{"book_still_borrowed", librarystore.ErrBookStillBorrowed, librarystore.ClassInvariantViolation},
		{"card_has_open_borrows", librarystore.ErrCardHasOpenBorrows, librarystore.ClassInvariantViolation},
		{"already_borrowed", librarystore.ErrAlreadyBorrowed, librarystore.ClassInvariantViolation},
		{"no_stock_left", librarystore.ErrNoStockLeft, librarystore.ClassInvariantViolation},
		{"unknown_card_type", librarystore.ErrUnknownCardType, librarystore.ClassInvariantViolation},
		{"no_rows_inserted", librarystore.ErrNoRowsInserted, librarystore.ClassPersistenceFailure},
		{"foreign_error_falls_back_to_persistence", errors.New("connection reset by peer"), librarystore.ClassPersistenceFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, librarystore.Classify(tc.err))
		})
	}
}

func Test_Classify_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("borrowing failed: %w", librarystore.ErrNoStockLeft)

	assert.Equal(t, librarystore.ClassInvariantViolation, librarystore.Classify(wrapped))
	assert.True(t, errors.Is(wrapped, librarystore.ErrInvariantViolation))
	assert.True(t, errors.Is(wrapped, librarystore.ErrNoStockLeft))
}

func Test_Class_String(t *testing.T) {
	assert.Equal(t, "conflict", librarystore.ClassConflict.String())
	assert.Equal(t, "not_found", librarystore.ClassNotFound.String())
	assert.Equal(t, "invariant_violation", librarystore.ClassInvariantViolation.String())
	assert.Equal(t, "persistence_failure", librarystore.ClassPersistenceFailure.String())
	assert.Equal(t, "unknown", librarystore.ClassUnknown.String())
}
