package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// Touch upserts the user profile on every interaction and makes sure a
// zeroed cooldown row exists, mirroring registration-on-first-contact.
func (s *Store) Touch(ctx context.Context, id int64, username, firstName string, now int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		const upsert = `
			INSERT INTO users(user_id, username, first_name, last_seen_ts)
			VALUES(?,?,?,?)
			ON CONFLICT(user_id) DO UPDATE SET
			  username=excluded.username,
			  first_name=excluded.first_name,
			  last_seen_ts=excluded.last_seen_ts
		`
		if _, err := tx.ExecContext(ctx, upsert, id, username, firstName, now); err != nil {
			return fmt.Errorf("upsert user: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO cooldowns(user_id) VALUES(?)`, id); err != nil {
			return fmt.Errorf("ensure cooldown row: %w", err)
		}

		return nil
	})
}

// GetUser fetches a user by id, returning ErrNotFound when absent.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	const query = `
		SELECT user_id, username, first_name, path, coins, equipped_weapon_id, raid_boost_until_ts, last_seen_ts
		FROM users WHERE user_id = ?
	`
	return scanUser(s.db.QueryRowContext(ctx, query, id))
}

// FindByUsername resolves a handle (without the leading @) to a user.
// The lookup is case-insensitive, matching how handles are typed in chat.
func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
		SELECT user_id, username, first_name, path, coins, equipped_weapon_id, raid_boost_until_ts, last_seen_ts
		FROM users WHERE lower(username) = ?
	`
	return scanUser(s.db.QueryRowContext(ctx, query, strings.ToLower(username)))
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var path string
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &path, &u.Coins, &u.EquippedWeaponID, &u.RaidBoostUntil, &u.LastSeen); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	u.Path = domain.Path(path)
	return &u, nil
}

// SetPath stores the chosen life path.
func (s *Store) SetPath(ctx context.Context, id int64, path domain.Path) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET path = ? WHERE user_id = ?`, string(path), id)
	if err != nil {
		return fmt.Errorf("set path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddCoins adjusts the wallet, refusing any change that would go negative.
func (s *Store) AddCoins(ctx context.Context, id int64, delta int64) error {
	return addCoins(ctx, s.db, id, delta)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func addCoins(ctx context.Context, db execer, id int64, delta int64) error {
	const query = `UPDATE users SET coins = coins + ? WHERE user_id = ? AND coins + ? >= 0`
	res, err := db.ExecContext(ctx, query, delta, id, delta)
	if err != nil {
		return fmt.Errorf("adjust coins: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if delta < 0 {
			return ErrInsufficientFunds
		}
		return ErrNotFound
	}
	return nil
}

// SetRaidBoost overwrites the raid boost expiry; boosts do not stack.
func (s *Store) SetRaidBoost(ctx context.Context, id int64, until int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET raid_boost_until_ts = ? WHERE user_id = ?`, until, id)
	if err != nil {
		return fmt.Errorf("set raid boost: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
