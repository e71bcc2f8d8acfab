package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
)

// Travel extra-reward odds: [0, 0.15) grants a 6h raid boost,
// [0.15, 0.22) a trophy weapon, anything above only coins.
const (
	travelBoostChance  = 0.15
	travelWeaponChance = 0.22
)

var travelWeaponPowers = []int{3, 5, 8}

// TravelReward is everything one claim granted.
type TravelReward struct {
	Coins      int64
	BoostUntil int64
	Weapon     *domain.InventoryItem
}

// StartTravel sends the user on a 1..12 hour trip. A running unclaimed
// travel cannot be replaced.
func (s *Service) StartTravel(ctx context.Context, userID int64, hours int) (*domain.Travel, error) {
	if hours < domain.TravelMinHours || hours > domain.TravelMaxHours {
		return nil, apperrors.NewValidation(
			fmt.Sprintf("travel hours %d out of [%d,%d]", hours, domain.TravelMinHours, domain.TravelMaxHours),
			fmt.Sprintf("Вкажи тривалість від %d до %d годин.", domain.TravelMinHours, domain.TravelMaxHours),
		)
	}

	now := s.now().Unix()
	end := now + int64(hours)*int64(time.Hour/time.Second)

	err := apperrors.WithRetry(ctx, func() error {
		startErr := s.store.StartTravel(ctx, userID, now, end)
		if errors.Is(startErr, repository.ErrConflict) {
			return travelRunningErr()
		}
		if startErr != nil {
			return apperrors.NewStorage(startErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("travel started",
		slog.Int64("user_id", userID),
		slog.Int("hours", hours),
	)

	return &domain.Travel{UserID: userID, StartTS: now, EndTS: end}, nil
}

// ClaimTravel collects the reward of a finished travel. The coin payout is
// uniform 20..120; an extra roll may add a 6h raid boost or a trophy
// weapon. The claim flip, coins and extra commit as one transaction, so a
// double claim yields the reward exactly once.
func (s *Service) ClaimTravel(ctx context.Context, userID int64) (*TravelReward, error) {
	now := s.now().Unix()

	travel, err := s.store.GetTravel(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("no travel for user %d", userID),
				"Ти ще не відправляв/ла себе у подорож: /travel_start",
			)
		}
		return nil, apperrors.NewStorage(err)
	}

	if travel.Claimed {
		return nil, apperrors.NewPrecondition(
			"travel already claimed",
			"Нагороду вже забрано. Почни нову подорож: /travel_start",
		)
	}
	if travel.Running(now) {
		remaining := travel.EndTS - now
		return nil, apperrors.NewPrecondition(
			fmt.Sprintf("travel ends in %ds", remaining),
			fmt.Sprintf("Ще рано. Повернешся через %s.", formatDuration(remaining)),
		)
	}

	reward := s.rollTravelReward(userID, now)

	err = apperrors.WithRetry(ctx, func() error {
		claimErr := s.store.ClaimTravel(ctx, userID, now, reward.Coins, reward.BoostUntil, reward.Weapon)
		if errors.Is(claimErr, repository.ErrConflict) {
			return apperrors.NewPrecondition(
				"travel claimed concurrently",
				"Нагороду вже забрано. Почни нову подорож: /travel_start",
			)
		}
		if claimErr != nil {
			return apperrors.NewStorage(claimErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("travel claimed",
		slog.Int64("user_id", userID),
		slog.Int64("coins", reward.Coins),
		slog.Bool("boost", reward.BoostUntil > 0),
		slog.Bool("weapon", reward.Weapon != nil),
	)

	return reward, nil
}

func (s *Service) rollTravelReward(userID, now int64) *TravelReward {
	reward := &TravelReward{
		Coins: int64(domain.TravelMinCoins + s.dice.IntN(domain.TravelMaxCoins-domain.TravelMinCoins+1)),
	}

	switch roll := s.dice.Float64(); {
	case roll < travelBoostChance:
		reward.BoostUntil = now + int64(domain.TravelBoostHours)*int64(time.Hour/time.Second)
	case roll < travelWeaponChance:
		power := rollIn(s.dice, travelWeaponPowers)
		day := domain.DayKey(s.now())
		reward.Weapon = &domain.InventoryItem{
			UserID: userID,
			ItemID: fmt.Sprintf("travel_weapon_%s_%d_%s", day, power, uuid.NewString()),
			Type:   domain.ItemWeapon,
			Name:   fmt.Sprintf("Трофейна зброя +%d", power),
			Power:  power,
			Qty:    1,
		}
	}

	return reward
}

func travelRunningErr() *apperrors.AppError {
	return apperrors.NewPrecondition(
		"travel already running",
		"Ти вже у подорожі. Дочекайся кінця і забери нагороду: /travel_claim",
	)
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%dг %dхв", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dхв", int(d.Minutes()))
	}
	return fmt.Sprintf("%dс", seconds)
}
