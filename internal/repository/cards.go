package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

const cardColumns = `id, name, rarity, weight, image_ref, description`

// AddCard inserts a catalog entry and returns its id.
func (s *Store) AddCard(ctx context.Context, card *domain.Card) (int64, error) {
	const query = `INSERT INTO cards(name, rarity, weight, image_ref, description) VALUES(?,?,?,?,?)`
	res, err := s.db.ExecContext(ctx, query, card.Name, string(card.Rarity), card.Weight, card.ImageRef, card.Description)
	if err != nil {
		return 0, fmt.Errorf("insert card: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("card insert id: %w", err)
	}
	return id, nil
}

// GetCard fetches a catalog entry by id.
func (s *Store) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	return scanCard(row)
}

// ListCards returns the whole catalog, newest first.
func (s *Store) ListCards(ctx context.Context) ([]domain.Card, error) {
	return s.queryCards(ctx, `SELECT `+cardColumns+` FROM cards ORDER BY id DESC`)
}

// ListCardsByRarity returns all catalog entries of one tier.
func (s *Store) ListCardsByRarity(ctx context.Context, rarity domain.Rarity) ([]domain.Card, error) {
	return s.queryCards(ctx, `SELECT `+cardColumns+` FROM cards WHERE rarity = ? ORDER BY id`, string(rarity))
}

// DeleteCard removes a catalog entry together with every ownership row for
// it, as one transaction.
func (s *Store) DeleteCard(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM user_cards WHERE card_id = ?`, id); err != nil {
			return fmt.Errorf("delete card ownership: %w", err)
		}

		return nil
	})
}

func (s *Store) queryCards(ctx context.Context, query string, args ...any) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		var rarity string
		if err := rows.Scan(&c.ID, &c.Name, &rarity, &c.Weight, &c.ImageRef, &c.Description); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Rarity = domain.Rarity(rarity)
		cards = append(cards, c)
	}

	return cards, rows.Err()
}

func scanCard(row *sql.Row) (*domain.Card, error) {
	var c domain.Card
	var rarity string
	if err := row.Scan(&c.ID, &c.Name, &rarity, &c.Weight, &c.ImageRef, &c.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select card: %w", err)
	}
	c.Rarity = domain.Rarity(rarity)
	return &c, nil
}
