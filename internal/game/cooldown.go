package game

import (
	"context"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

// consumeCooldown enforces the per-user minimum interval for a rate-limited
// action. On success the action's timestamp is stamped; on failure nothing
// is mutated and the error carries the remaining seconds.
func (s *Service) consumeCooldown(ctx context.Context, userID int64, kind domain.CooldownKind) error {
	now := s.now().Unix()

	var (
		ok        bool
		remaining int64
	)
	err := apperrors.WithRetry(ctx, func() error {
		var consumeErr error
		ok, remaining, consumeErr = s.store.ConsumeCooldown(ctx, userID, kind, now)
		if consumeErr != nil {
			return apperrors.NewStorage(consumeErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !ok {
		return apperrors.NewCooldown(string(kind), remaining)
	}
	return nil
}

// CooldownRemaining reports the seconds left before the action is allowed
// again, without consuming anything.
func (s *Service) CooldownRemaining(ctx context.Context, userID int64, kind domain.CooldownKind) (int64, error) {
	cd, err := s.store.GetCooldown(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorage(fmt.Errorf("cooldown lookup: %w", err))
	}

	last := cd.LastDrawTS
	if kind == domain.CooldownAttack {
		last = cd.LastAttackTS
	}

	remaining := kind.Interval() - (s.now().Unix() - last)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
