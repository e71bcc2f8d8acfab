package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// OwnedCount returns how many copies of a card the user holds. A missing
// row counts as zero.
func (s *Store) OwnedCount(ctx context.Context, userID, cardID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM user_cards WHERE user_id = ? AND card_id = ?`, userID, cardID,
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("select owned count: %w", err)
	}
	return count, nil
}

// ListCollection returns the user's cards joined with the catalog, most
// held first.
func (s *Store) ListCollection(ctx context.Context, userID int64, limit int) ([]domain.OwnedCard, error) {
	const query = `
		SELECT c.id, c.name, c.rarity, c.weight, c.image_ref, c.description, uc.count
		FROM user_cards uc
		JOIN cards c ON c.id = uc.card_id
		WHERE uc.user_id = ?
		ORDER BY uc.count DESC, c.id ASC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("select collection: %w", err)
	}
	defer rows.Close()

	var owned []domain.OwnedCard
	for rows.Next() {
		var oc domain.OwnedCard
		var rarity string
		if err := rows.Scan(&oc.Card.ID, &oc.Card.Name, &rarity, &oc.Card.Weight, &oc.Card.ImageRef, &oc.Card.Description, &oc.Count); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		oc.Card.Rarity = domain.Rarity(rarity)
		owned = append(owned, oc)
	}

	return owned, rows.Err()
}

// CountLegendaries sums the user's legendary copies for the duel bonus.
func (s *Store) CountLegendaries(ctx context.Context, userID int64) (int, error) {
	const query = `
		SELECT COALESCE(SUM(uc.count), 0)
		FROM user_cards uc
		JOIN cards c ON c.id = uc.card_id
		WHERE uc.user_id = ? AND c.rarity = ?
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, string(domain.RarityLegendary)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count legendaries: %w", err)
	}
	return count, nil
}

// GrantCards credits qty copies of a card, verifying the catalog entry
// still exists in the same transaction.
func (s *Store) GrantCards(ctx context.Context, userID, cardID int64, qty int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return creditCards(ctx, tx, userID, cardID, qty)
	})
}

// DrawCard stamps the draw cooldown and credits one copy of the card as a
// single transaction. A vanished catalog entry rolls the stamp back, so a
// failed draw never burns the player's timer. A running cooldown returns
// ok=false with the remaining wait in seconds.
func (s *Store) DrawCard(ctx context.Context, userID, cardID, now int64) (bool, int64, error) {
	var (
		ok        bool
		remaining int64
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE cooldowns SET last_draw_ts = ? WHERE user_id = ? AND ? - last_draw_ts >= ?`,
			now, userID, now, domain.DrawCooldownSeconds,
		)
		if err != nil {
			return fmt.Errorf("stamp draw cooldown: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var last int64
			err := tx.QueryRowContext(ctx,
				`SELECT last_draw_ts FROM cooldowns WHERE user_id = ?`, userID,
			).Scan(&last)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("select draw cooldown: %w", err)
			}
			remaining = domain.DrawCooldownSeconds - (now - last)
			if remaining < 0 {
				remaining = 0
			}
			return nil
		}

		if err := creditCards(ctx, tx, userID, cardID, 1); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return ok, remaining, nil
}

// TransferCards moves qty copies from one user to another as one atomic
// unit. The debit side is guarded so the pair either fully applies or not
// at all.
func (s *Store) TransferCards(ctx context.Context, fromID, toID, cardID int64, qty int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitCards(ctx, tx, fromID, cardID, qty); err != nil {
			return err
		}
		return creditCards(ctx, tx, toID, cardID, qty)
	})
}

// SellCards debits qty copies and credits the payout in one transaction.
func (s *Store) SellCards(ctx context.Context, userID, cardID int64, qty int, payout int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitCards(ctx, tx, userID, cardID, qty); err != nil {
			return err
		}
		return addCoins(ctx, tx, userID, payout)
	})
}

// ExchangeCards debits debitQty copies of one card and credits a single
// copy of the reward card. All-or-nothing: if the reward card was deleted
// concurrently the whole exchange fails and the debit never happens.
func (s *Store) ExchangeCards(ctx context.Context, userID, debitCardID int64, debitQty int, rewardCardID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitCards(ctx, tx, userID, debitCardID, debitQty); err != nil {
			return err
		}
		return creditCards(ctx, tx, userID, rewardCardID, 1)
	})
}

// debitCards removes qty copies inside tx, deleting the row when it hits
// zero so ownership rows are always positive.
func debitCards(ctx context.Context, tx *sql.Tx, userID, cardID int64, qty int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE user_cards SET count = count - ? WHERE user_id = ? AND card_id = ? AND count >= ?`,
		qty, userID, cardID, qty,
	)
	if err != nil {
		return fmt.Errorf("debit cards: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrInsufficientCards
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM user_cards WHERE user_id = ? AND card_id = ? AND count <= 0`, userID, cardID,
	); err != nil {
		return fmt.Errorf("prune empty ownership: %w", err)
	}

	return nil
}

// creditCards adds qty copies inside tx after confirming the card still
// exists in the catalog.
func creditCards(ctx context.Context, tx *sql.Tx, userID, cardID int64, qty int) error {
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, cardID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("check card exists: %w", err)
	}

	const upsert = `
		INSERT INTO user_cards(user_id, card_id, count) VALUES(?,?,?)
		ON CONFLICT(user_id, card_id) DO UPDATE SET count = count + excluded.count
	`
	if _, err := tx.ExecContext(ctx, upsert, userID, cardID, qty); err != nil {
		return fmt.Errorf("credit cards: %w", err)
	}

	return nil
}
