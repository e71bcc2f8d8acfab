package game

import (
	"context"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

// Daily world roll bounds.
const (
	raidChance   = 0.5
	raidHPMin    = 500
	raidHPMax    = 1500
	shopSeedSpan = 1_000_000_000
)

// EnsureDay lazily gets or creates today's world row. The random fields
// are rolled up front and only take effect if this call wins the
// insert-if-absent, so a day is initialized exactly once no matter how
// many callers race on first access.
func (s *Service) EnsureDay(ctx context.Context) (*domain.DailyState, error) {
	roll := &domain.DailyState{
		Day:        domain.DayKey(s.now()),
		RaidActive: s.dice.Float64() < raidChance,
		RaidHPMax:  raidHPMin + s.dice.IntN(raidHPMax-raidHPMin+1),
		ShopSeed:   1 + int64(s.dice.IntN(shopSeedSpan)),
	}
	if roll.RaidActive {
		roll.RaidHP = roll.RaidHPMax
	}

	var day *domain.DailyState
	err := apperrors.WithRetry(ctx, func() error {
		stored, err := s.store.EnsureDay(ctx, roll)
		if err != nil {
			return apperrors.NewStorage(err)
		}
		day = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	return day, nil
}
