package librarystore

import (
	"errors"
	"fmt"
)

// Failure classes. Every error returned by an engine operation wraps exactly one
// of these, so callers can branch on the class without matching message text.
var (
	ErrConflict           = errors.New("conflict")
	ErrNotFound           = errors.New("not found")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Domain failures, with the human-readable reasons reported to callers.
// Each one wraps its failure class so Classify can recover it.
var (
	ErrBookAlreadyExists    = fmt.Errorf("%w: the book is already in this library", ErrConflict)
	ErrBookNotFound         = fmt.Errorf("%w: the book does not exist", ErrNotFound)
	ErrNegativeStock        = fmt.Errorf("%w: the stock cannot be negative", ErrInvariantViolation)
	ErrBookStillBorrowed    = fmt.Errorf("%w: the book is borrowed by someone and has not been returned", ErrInvariantViolation)
	ErrCardAlreadyExists    = fmt.Errorf("%w: the card already exists", ErrConflict)
	ErrCardNotFound         = fmt.Errorf("%w: the card does not exist", ErrNotFound)
	ErrCardHasOpenBorrows   = fmt.Errorf("%w: the card has some book that hasn't been returned", ErrInvariantViolation)
	ErrAlreadyBorrowed      = fmt.Errorf("%w: the book is borrowed by this card and has not been returned", ErrInvariantViolation)
	ErrNoStockLeft          = fmt.Errorf("%w: there are no more copies of this book left", ErrInvariantViolation)
	ErrBorrowRecordNotFound = fmt.Errorf("%w: the borrow record does not exist or the book has been returned", ErrNotFound)
	ErrUnknownCardType      = fmt.Errorf("%w: unknown card type", ErrInvariantViolation)
	ErrInvalidSortColumn    = fmt.Errorf("%w: unrecognized sort column", ErrInvariantViolation)
	ErrNegativePrice        = fmt.Errorf("%w: the price cannot be negative", ErrInvariantViolation)
	ErrNoRowsInserted       = fmt.Errorf("%w: insert affected no rows", ErrPersistenceFailure)
)

// Engine plumbing failures.
var (
	ErrNilDatabaseConnection = errors.New("supplied database connection must not be nil")
	ErrBuildingQueryFailed   = errors.New("building the sql query failed")
	ErrBeginTxFailed         = errors.New("beginning the transaction failed")
	ErrCommitFailed          = errors.New("committing the transaction failed")
	ErrQueryFailed           = errors.New("executing the sql query failed")
	ErrExecFailed            = errors.New("executing the sql statement failed")
	ErrScanningRowFailed     = errors.New("scanning the database row failed")
)

// Class is the taxonomy of operation failures.
type Class int

const (
	ClassUnknown Class = iota
	ClassConflict
	ClassNotFound
	ClassInvariantViolation
	ClassPersistenceFailure
)

// String returns the taxonomy name of the class.
func (c Class) String() string {
	switch c {
	case ClassConflict:
		return "conflict"
	case ClassNotFound:
		return "not_found"
	case ClassInvariantViolation:
		return "invariant_violation"
	case ClassPersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by an engine operation onto its failure class.
// A nil error maps to ClassUnknown; errors not produced by this module map to
// ClassPersistenceFailure, mirroring how the engine treats anything the store
// rejects that was not categorized earlier.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrConflict):
		return ClassConflict
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case errors.Is(err, ErrInvariantViolation):
		return ClassInvariantViolation
	default:
		return ClassPersistenceFailure
	}
}
