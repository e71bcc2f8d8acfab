package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// GetTravel fetches the user's travel window.
func (s *Store) GetTravel(ctx context.Context, userID int64) (*domain.Travel, error) {
	var t domain.Travel
	var claimed int
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, start_ts, end_ts, claimed FROM travel WHERE user_id = ?`, userID,
	).Scan(&t.UserID, &t.StartTS, &t.EndTS, &claimed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select travel: %w", err)
	}
	t.Claimed = claimed == 1
	return &t, nil
}

// StartTravel creates or overwrites the travel window. The conflict guard
// only lets a claimed or expired window be replaced, so a running
// unclaimed travel survives concurrent starts. ErrConflict reports the
// refused overwrite.
func (s *Store) StartTravel(ctx context.Context, userID, start, end int64) error {
	const upsert = `
		INSERT INTO travel(user_id, start_ts, end_ts, claimed) VALUES(?,?,?,0)
		ON CONFLICT(user_id) DO UPDATE SET
		  start_ts = excluded.start_ts,
		  end_ts = excluded.end_ts,
		  claimed = 0
		WHERE travel.claimed = 1 OR excluded.start_ts >= travel.end_ts
	`
	res, err := s.db.ExecContext(ctx, upsert, userID, start, end)
	if err != nil {
		return fmt.Errorf("start travel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}

// ClaimTravel settles a finished travel as one transaction: the guarded
// claimed flip admits exactly one concurrent claimer, then the coin reward
// and the optional extra (boost expiry or trophy weapon) are applied.
// ErrConflict means the window was not claimable when the update ran.
func (s *Store) ClaimTravel(ctx context.Context, userID, now, coins int64, boostUntil int64, weapon *domain.InventoryItem) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE travel SET claimed = 1 WHERE user_id = ? AND claimed = 0 AND end_ts <= ?`,
			userID, now,
		)
		if err != nil {
			return fmt.Errorf("claim travel: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrConflict
		}

		if err := addCoins(ctx, tx, userID, coins); err != nil {
			return err
		}

		if boostUntil > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE users SET raid_boost_until_ts = ? WHERE user_id = ?`, boostUntil, userID,
			); err != nil {
				return fmt.Errorf("apply travel boost: %w", err)
			}
		}

		if weapon != nil {
			return upsertItem(ctx, tx, weapon)
		}

		return nil
	})
}
