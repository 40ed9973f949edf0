package postgresengine

import (
	"context"
	"errors"

	"github.com/bookstacks/circulation-engine-go/librarystore"
	"github.com/bookstacks/circulation-engine-go/librarystore/postgresengine/internal/adapters"
)

// RegisterCard creates a membership card and assigns the generated identifier
// back onto the input record. It fails with a Conflict when a card with an
// identical (name, department, type) tuple already exists.
//
// The identifier is taken from the insert statement itself (RETURNING), not
// from a re-executed lookup, so a concurrent registration of an identical
// looking card can never hand back the wrong id.
func (e *Engine) RegisterCard(ctx context.Context, card *librarystore.Card) error {
	if !card.Type.IsValid() {
		return librarystore.ErrUnknownCardType
	}

	return e.inTransaction(ctx, opRegisterCard, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildSelectCardIDByTuple(*card)
		if buildErr != nil {
			return buildErr
		}

		exists, err := e.rowExists(ctx, tx, opRegisterCard, sqlQuery, args)
		if err != nil {
			return err
		}
		if exists {
			return librarystore.ErrCardAlreadyExists
		}

		sqlQuery, args, buildErr = buildInsertCard(*card)
		if buildErr != nil {
			return buildErr
		}

		rows, queryErr := e.queryRows(ctx, tx, opRegisterCard, sqlQuery, args)
		if queryErr != nil {
			return queryErr
		}
		defer e.closeRows(ctx, rows)

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return errors.Join(librarystore.ErrQueryFailed, err)
			}

			return librarystore.ErrNoRowsInserted
		}

		if scanErr := rows.Scan(&card.CardID); scanErr != nil {
			e.logError(ctx, logMsgScanRowFailed, scanErr)
			return errors.Join(librarystore.ErrScanningRowFailed, scanErr)
		}

		return nil
	})
}

// RemoveCard deletes a membership card. It fails with NotFound for an unknown
// card and with an InvariantViolation while any ledger record for the card is
// still outstanding.
func (e *Engine) RemoveCard(ctx context.Context, cardID int64) error {
	return e.inTransaction(ctx, opRemoveCard, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildSelectCardByID(cardID)
		if buildErr != nil {
			return buildErr
		}

		exists, err := e.rowExists(ctx, tx, opRemoveCard, sqlQuery, args)
		if err != nil {
			return err
		}
		if !exists {
			return librarystore.ErrCardNotFound
		}

		outstanding, err := e.hasOutstandingBorrowForCard(ctx, tx, opRemoveCard, cardID)
		if err != nil {
			return err
		}
		if outstanding {
			return librarystore.ErrCardHasOpenBorrows
		}

		sqlQuery, args, buildErr = buildDeleteCard(cardID)
		if buildErr != nil {
			return buildErr
		}

		_, execErr := e.execStatement(ctx, tx, opRemoveCard, sqlQuery, args)

		return execErr
	})
}

// ListCards returns all membership cards ordered by ascending identifier.
func (e *Engine) ListCards(ctx context.Context) ([]librarystore.Card, error) {
	var cards []librarystore.Card

	err := e.inTransaction(ctx, opListCards, func(tx adapters.DBTx) error {
		sqlQuery, args, buildErr := buildSelectAllCards()
		if buildErr != nil {
			return buildErr
		}

		rows, queryErr := e.queryRows(ctx, tx, opListCards, sqlQuery, args)
		if queryErr != nil {
			return queryErr
		}
		defer e.closeRows(ctx, rows)

		cards = make([]librarystore.Card, 0)
		for rows.Next() {
			var card librarystore.Card
			var cardType string

			if scanErr := rows.Scan(&card.CardID, &card.Name, &card.Department, &cardType); scanErr != nil {
				e.logError(ctx, logMsgScanRowFailed, scanErr)
				return errors.Join(librarystore.ErrScanningRowFailed, scanErr)
			}

			parsedType, parseErr := librarystore.ParseCardType(cardType)
			if parseErr != nil {
				return parseErr
			}
			card.Type = parsedType

			cards = append(cards, card)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return cards, nil
}
