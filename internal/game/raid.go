package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
	"github.com/kartka-game/kartka-bot/pkg/metrics"
)

// raidBoostMultiplier is applied (with truncation) while a boost is active.
const raidBoostMultiplier = 1.2

// AttackResult describes one applied raid hit.
type AttackResult struct {
	Damage    int
	HPLeft    int
	KilledNow bool
}

// RaidStatus returns today's world state, creating the day if needed.
func (s *Service) RaidStatus(ctx context.Context) (*domain.DailyState, error) {
	return s.EnsureDay(ctx)
}

// Attack applies one hit to today's boss. Preconditions: the raid is
// alive, the attack cooldown is clear and the user owns the card. Damage
// is rarity base, boosted ×1.2 (truncated) while a raid boost is active,
// plus half the equipped weapon's power.
func (s *Service) Attack(ctx context.Context, userID, cardID int64) (*AttackResult, error) {
	day, err := s.EnsureDay(ctx)
	if err != nil {
		return nil, err
	}
	if err := raidAliveErr(day); err != nil {
		return nil, err
	}

	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("card %d not in catalog", cardID),
				"Невірний card_id.",
			)
		}
		return nil, apperrors.NewStorage(err)
	}

	owned, err := s.store.OwnedCount(ctx, userID, cardID)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	if owned < 1 {
		return nil, apperrors.NewPrecondition(
			fmt.Sprintf("user %d does not own card %d", userID, cardID),
			"У тебе немає цієї карти.",
		)
	}

	if err := s.consumeCooldown(ctx, userID, domain.CooldownAttack); err != nil {
		return nil, err
	}

	damage, err := s.attackDamage(ctx, userID, card)
	if err != nil {
		return nil, err
	}

	var result *AttackResult
	err = apperrors.WithRetry(ctx, func() error {
		hpLeft, killedNow, applyErr := s.store.ApplyRaidDamage(ctx, day.Day, damage)
		if errors.Is(applyErr, repository.ErrConflict) {
			// The boss died (or the day rolled over) between the
			// precondition check and the hit.
			return s.resolveAttackConflict(ctx)
		}
		if applyErr != nil {
			return apperrors.NewStorage(applyErr)
		}
		result = &AttackResult{Damage: damage, HPLeft: hpLeft, KilledNow: killedNow}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordRaidDamage(result.Damage)
	if result.KilledNow {
		metrics.RecordRaidKill()
	}
	s.log.Info("raid attack",
		slog.Int64("user_id", userID),
		slog.Int("damage", result.Damage),
		slog.Int("hp_left", result.HPLeft),
		slog.Bool("killed", result.KilledNow),
	)

	return result, nil
}

// resolveAttackConflict explains a refused raid-damage guard. The hit was
// not applied, so this must never return nil: either today's boss is gone,
// or the day rolled over to a fresh raid mid-attack and the caller should
// retry against it.
func (s *Service) resolveAttackConflict(ctx context.Context) error {
	current, err := s.EnsureDay(ctx)
	if err != nil {
		return err
	}
	if aliveErr := raidAliveErr(current); aliveErr != nil {
		return aliveErr
	}
	return apperrors.NewPrecondition(
		"raid state changed during attack",
		"Рейд щойно оновився, спробуй ще раз.",
	)
}

// attackDamage computes the hit for a card in the attacker's hands.
func (s *Service) attackDamage(ctx context.Context, userID int64, card *domain.Card) (int, error) {
	damage := domain.RaidDamage[card.Rarity]

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.HasRaidBoost(s.now().Unix()) {
		damage = int(float64(damage) * raidBoostMultiplier)
	}

	power, err := s.store.EquippedWeaponPower(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorage(err)
	}
	damage += power / 2

	return damage, nil
}

func raidAliveErr(day *domain.DailyState) error {
	switch {
	case !day.RaidActive:
		return apperrors.NewPrecondition(
			"no raid today",
			"🛡 Сьогодні рейду немає. Завітай завтра 🙂",
		)
	case day.RaidKilled || day.RaidHP <= 0:
		return apperrors.NewPrecondition(
			"raid boss already dead",
			"Боса вже вбили сьогодні.",
		)
	}
	return nil
}
