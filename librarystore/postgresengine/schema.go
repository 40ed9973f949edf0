package postgresengine

import (
	"context"

	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
)

const (
	ddlDropBorrow = `DROP TABLE IF EXISTS borrow`
	ddlDropBook   = `DROP TABLE IF EXISTS book`
	ddlDropCard   = `DROP TABLE IF EXISTS card`

	ddlCreateCard = `CREATE TABLE card (
	card_id SERIAL PRIMARY KEY,
	name VARCHAR(63) NOT NULL,
	department VARCHAR(63) NOT NULL,
	type VARCHAR(1) NOT NULL CHECK (type IN ('S', 'T')),
	UNIQUE (name, department, type)
)`

	ddlCreateBook = `CREATE TABLE book (
	book_id SERIAL PRIMARY KEY,
	category VARCHAR(63) NOT NULL,
	title VARCHAR(255) NOT NULL,
	press VARCHAR(255) NOT NULL,
	publish_year INTEGER NOT NULL,
	author VARCHAR(255) NOT NULL,
	price DOUBLE PRECISION NOT NULL DEFAULT 0.00,
	stock INTEGER NOT NULL DEFAULT 0,
	UNIQUE (category, title, press, publish_year, author)
)`

	ddlCreateBorrow = `CREATE TABLE borrow (
	card_id INTEGER NOT NULL,
	book_id INTEGER NOT NULL,
	borrow_time BIGINT NOT NULL DEFAULT 0,
	return_time BIGINT NOT NULL DEFAULT 0,
	PRIMARY KEY (card_id, book_id, borrow_time),
	FOREIGN KEY (card_id) REFERENCES card (card_id) ON DELETE CASCADE,
	FOREIGN KEY (book_id) REFERENCES book (book_id) ON DELETE CASCADE
)`
)

// ResetDatabase drops and recreates the three tables (borrow, book, card) as
// one atomic batch. When any statement in the batch fails, the whole reset is
// rolled back and nothing is changed.
func (e *Engine) ResetDatabase(ctx context.Context) error {
	return e.inTransaction(ctx, opResetDatabase, func(tx adapters.DBTx) error {
		batch := []string{
			ddlDropBorrow,
			ddlDropBook,
			ddlDropCard,
			ddlCreateCard,
			ddlCreateBook,
			ddlCreateBorrow,
		}

		for _, statement := range batch {
			if _, err := e.execStatement(ctx, tx, opResetDatabase, statement, nil); err != nil {
				return err
			}
		}

		return nil
	})
}
