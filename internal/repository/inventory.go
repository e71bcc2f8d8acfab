package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// AddItem upserts an inventory item, incrementing quantity on repeat
// acquisition.
func (s *Store) AddItem(ctx context.Context, item *domain.InventoryItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertItem(ctx, tx, item)
	})
}

func upsertItem(ctx context.Context, tx *sql.Tx, item *domain.InventoryItem) error {
	const upsert = `
		INSERT INTO inventory_items(user_id, item_id, item_type, name, power, qty)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(user_id, item_id) DO UPDATE SET qty = qty + excluded.qty
	`
	qty := item.Qty
	if qty <= 0 {
		qty = 1
	}
	if _, err := tx.ExecContext(ctx, upsert,
		item.UserID, item.ItemID, string(item.Type), item.Name, item.Power, qty,
	); err != nil {
		return fmt.Errorf("upsert inventory item: %w", err)
	}
	return nil
}

// GetWeapon fetches an owned weapon with positive quantity.
func (s *Store) GetWeapon(ctx context.Context, userID int64, itemID string) (*domain.InventoryItem, error) {
	const query = `
		SELECT user_id, item_id, item_type, name, power, qty
		FROM inventory_items
		WHERE user_id = ? AND item_id = ? AND item_type = ? AND qty > 0
	`
	var it domain.InventoryItem
	var itemType string
	err := s.db.QueryRowContext(ctx, query, userID, itemID, string(domain.ItemWeapon)).
		Scan(&it.UserID, &it.ItemID, &itemType, &it.Name, &it.Power, &it.Qty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select weapon: %w", err)
	}
	it.Type = domain.ItemType(itemType)
	return &it, nil
}

// ListWeapons returns the user's weapons with positive quantity, strongest
// first.
func (s *Store) ListWeapons(ctx context.Context, userID int64, limit int) ([]domain.InventoryItem, error) {
	const query = `
		SELECT user_id, item_id, item_type, name, power, qty
		FROM inventory_items
		WHERE user_id = ? AND item_type = ? AND qty > 0
		ORDER BY power DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, userID, string(domain.ItemWeapon), limit)
	if err != nil {
		return nil, fmt.Errorf("select weapons: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		var itemType string
		if err := rows.Scan(&it.UserID, &it.ItemID, &itemType, &it.Name, &it.Power, &it.Qty); err != nil {
			return nil, fmt.Errorf("scan weapon: %w", err)
		}
		it.Type = domain.ItemType(itemType)
		items = append(items, it)
	}

	return items, rows.Err()
}

// EquipWeapon points the user at an owned weapon, validating the reference
// inside the transaction so a dangling equip can never be written.
func (s *Store) EquipWeapon(ctx context.Context, userID int64, itemID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var qty int
		err := tx.QueryRowContext(ctx,
			`SELECT qty FROM inventory_items WHERE user_id = ? AND item_id = ? AND item_type = ? AND qty > 0`,
			userID, itemID, string(domain.ItemWeapon),
		).Scan(&qty)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("check weapon owned: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET equipped_weapon_id = ? WHERE user_id = ?`, itemID, userID,
		); err != nil {
			return fmt.Errorf("equip weapon: %w", err)
		}

		return nil
	})
}

// EquippedWeaponPower resolves the equipped weapon's power: zero when
// nothing is equipped or the equipped item has no copies left.
func (s *Store) EquippedWeaponPower(ctx context.Context, userID int64) (int, error) {
	const query = `
		SELECT COALESCE((
			SELECT i.power FROM inventory_items i
			WHERE i.user_id = u.user_id AND i.item_id = u.equipped_weapon_id
			  AND i.item_type = ? AND i.qty > 0
		), 0)
		FROM users u WHERE u.user_id = ?
	`
	var power int
	err := s.db.QueryRowContext(ctx, query, string(domain.ItemWeapon), userID).Scan(&power)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("select equipped weapon power: %w", err)
	}
	return power, nil
}
