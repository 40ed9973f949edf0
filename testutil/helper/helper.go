// Package helper provides shared helpers for engine tests: unique fixture
// entities and spies for the observability interfaces.
package helper

import (
	"testing"

	"github.com/google/uuid"

	"github.com/bookstacks/circulation-engine-go/librarystore"
)

// GivenUniqueBook returns a book whose identity tuple is unique for this test
// run, so tests can share one database without colliding.
func GivenUniqueBook(t testing.TB) librarystore.Book {
	t.Helper()

	suffix := uuid.New().String()

	return librarystore.Book{
		Category:    "CS",
		Title:       "Database System Concepts " + suffix,
		Press:       "Test Press",
		PublishYear: 2020,
		Author:      "Author " + suffix,
		Price:       42.50,
		Stock:       5,
	}
}

// GivenUniqueBooks returns n unique books sharing one category.
func GivenUniqueBooks(t testing.TB, n int) []*librarystore.Book {
	t.Helper()

	books := make([]*librarystore.Book, n)
	for i := range books {
		book := GivenUniqueBook(t)
		books[i] = &book
	}

	return books
}

// GivenUniqueCard returns a card whose identity tuple is unique for this test run.
func GivenUniqueCard(t testing.TB) librarystore.Card {
	t.Helper()

	return librarystore.Card{
		Name:       "Reader " + uuid.New().String(),
		Department: "Test Department",
		Type:       librarystore.CardTypeStudent,
	}
}
