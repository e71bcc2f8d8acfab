package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// GetCooldown fetches the user's cooldown row.
func (s *Store) GetCooldown(ctx context.Context, userID int64) (*domain.Cooldown, error) {
	var cd domain.Cooldown
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, last_draw_ts, last_attack_ts FROM cooldowns WHERE user_id = ?`, userID,
	).Scan(&cd.UserID, &cd.LastDrawTS, &cd.LastAttackTS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select cooldown: %w", err)
	}
	return &cd, nil
}

// ConsumeCooldown atomically stamps the action's last-use timestamp if the
// interval has elapsed. The guarded update admits exactly one of any set of
// concurrent callers; losers get the remaining wait in seconds.
func (s *Store) ConsumeCooldown(ctx context.Context, userID int64, kind domain.CooldownKind, now int64) (bool, int64, error) {
	column, err := cooldownColumn(kind)
	if err != nil {
		return false, 0, err
	}
	interval := kind.Interval()

	query := fmt.Sprintf(
		`UPDATE cooldowns SET %s = ? WHERE user_id = ? AND ? - %s >= ?`,
		column, column,
	)
	res, err := s.db.ExecContext(ctx, query, now, userID, now, interval)
	if err != nil {
		return false, 0, fmt.Errorf("consume cooldown: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true, 0, nil
	}

	cd, err := s.GetCooldown(ctx, userID)
	if err != nil {
		return false, 0, err
	}

	last := cd.LastDrawTS
	if kind == domain.CooldownAttack {
		last = cd.LastAttackTS
	}
	remaining := interval - (now - last)
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

func cooldownColumn(kind domain.CooldownKind) (string, error) {
	switch kind {
	case domain.CooldownDraw:
		return "last_draw_ts", nil
	case domain.CooldownAttack:
		return "last_attack_ts", nil
	}
	return "", fmt.Errorf("unknown cooldown kind %q", kind)
}
