package repository

import (
	"context"
	"database/sql"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// PurchasePack debits the price and credits the pre-drawn cards as one
// transaction. An empty cardIDs slice still charges for the pack, matching
// an empty-catalog purchase.
func (s *Store) PurchasePack(ctx context.Context, userID int64, price int64, cardIDs []int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := addCoins(ctx, tx, userID, -price); err != nil {
			return err
		}

		for _, cardID := range cardIDs {
			if err := creditCards(ctx, tx, userID, cardID, 1); err != nil {
				return err
			}
		}

		return nil
	})
}

// PurchaseBoost debits the price and overwrites the raid boost expiry.
func (s *Store) PurchaseBoost(ctx context.Context, userID int64, price int64, until int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := addCoins(ctx, tx, userID, -price); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET raid_boost_until_ts = ? WHERE user_id = ?`, until, userID,
		); err != nil {
			return err
		}

		return nil
	})
}

// PurchaseWeapon debits the price and adds (or stacks) the weapon.
func (s *Store) PurchaseWeapon(ctx context.Context, userID int64, price int64, item *domain.InventoryItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := addCoins(ctx, tx, userID, -price); err != nil {
			return err
		}
		return upsertItem(ctx, tx, item)
	})
}
