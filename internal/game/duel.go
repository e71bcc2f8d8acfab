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

// Duel power formula pieces.
const (
	duelWeaponFactor    = 3
	duelLegendaryFactor = 2
	duelLegendaryCap    = 30
	duelVarianceMax     = 50
)

// Challenge creates a pending duel against the referenced user.
func (s *Service) Challenge(ctx context.Context, challengerID int64, targetRef string) (*domain.Duel, *domain.User, error) {
	target, err := s.ResolveUserRef(ctx, targetRef)
	if err != nil {
		return nil, nil, err
	}
	if target.ID == challengerID {
		return nil, nil, apperrors.NewPrecondition(
			"self challenge",
			"Не можна дуелитись із собою 🙂",
		)
	}

	now := s.now().Unix()
	id, err := s.store.CreateDuel(ctx, challengerID, target.ID, now)
	if err != nil {
		return nil, nil, apperrors.NewStorage(err)
	}

	duel := &domain.Duel{
		ID:           id,
		ChallengerID: challengerID,
		OpponentID:   target.ID,
		Status:       domain.DuelPending,
		CreatedAt:    now,
	}
	return duel, target, nil
}

// Accept resolves a pending duel. Both powers are rolled fresh at
// resolution time; the status flip and both payouts commit atomically.
// A tie still marks the duel accepted, with no payout.
func (s *Service) Accept(ctx context.Context, duelID, responderID int64) (*domain.DuelOutcome, error) {
	duel, err := s.pendingDuelFor(ctx, duelID, responderID)
	if err != nil {
		return nil, err
	}

	challengerPower, err := s.duelPower(ctx, duel.ChallengerID)
	if err != nil {
		return nil, err
	}
	opponentPower, err := s.duelPower(ctx, duel.OpponentID)
	if err != nil {
		return nil, err
	}

	outcome := &domain.DuelOutcome{
		Duel:            *duel,
		ChallengerPower: challengerPower,
		OpponentPower:   opponentPower,
	}
	switch {
	case challengerPower > opponentPower:
		outcome.WinnerID, outcome.LoserID = duel.ChallengerID, duel.OpponentID
	case opponentPower > challengerPower:
		outcome.WinnerID, outcome.LoserID = duel.OpponentID, duel.ChallengerID
	default:
		outcome.Tie = true
	}

	err = apperrors.WithRetry(ctx, func() error {
		resolveErr := s.store.ResolveDuel(ctx, duelID, outcome.WinnerID, outcome.LoserID)
		if errors.Is(resolveErr, repository.ErrConflict) {
			return duelSettledErr(duelID)
		}
		if resolveErr != nil {
			return apperrors.NewStorage(resolveErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome.Duel.Status = domain.DuelAccepted

	metrics.RecordDuel(outcome.Tie)
	s.log.Info("duel resolved",
		slog.Int64("duel_id", duelID),
		slog.Int("challenger_power", challengerPower),
		slog.Int("opponent_power", opponentPower),
		slog.Bool("tie", outcome.Tie),
	)

	return outcome, nil
}

// Decline refuses a pending duel with no side effects.
func (s *Service) Decline(ctx context.Context, duelID, responderID int64) error {
	if _, err := s.pendingDuelFor(ctx, duelID, responderID); err != nil {
		return err
	}

	err := s.store.DeclineDuel(ctx, duelID)
	if errors.Is(err, repository.ErrConflict) {
		return duelSettledErr(duelID)
	}
	if err != nil {
		return apperrors.NewStorage(err)
	}
	return nil
}

// pendingDuelFor loads the duel and checks the responder is the addressee
// and the duel is still pending.
func (s *Service) pendingDuelFor(ctx context.Context, duelID, responderID int64) (*domain.Duel, error) {
	duel, err := s.store.GetDuel(ctx, duelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("duel %d not found", duelID),
				"Дуель не знайдена.",
			)
		}
		return nil, apperrors.NewStorage(err)
	}

	if duel.OpponentID != responderID {
		return nil, apperrors.NewPrecondition(
			fmt.Sprintf("user %d is not the addressee of duel %d", responderID, duelID),
			"Це не твоя дуель.",
		)
	}
	if duel.Status != domain.DuelPending {
		return nil, apperrors.NewPrecondition(
			fmt.Sprintf("duel %d already %s", duelID, duel.Status),
			fmt.Sprintf("Дуель уже має статус: %s", duel.Status),
		)
	}

	return duel, nil
}

// duelPower computes 3×weaponPower + min(30, 2×legendaries) + uniform(1,50).
func (s *Service) duelPower(ctx context.Context, userID int64) (int, error) {
	power, err := s.store.EquippedWeaponPower(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorage(err)
	}

	legendaries, err := s.store.CountLegendaries(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorage(err)
	}

	bonus := legendaries * duelLegendaryFactor
	if bonus > duelLegendaryCap {
		bonus = duelLegendaryCap
	}

	return power*duelWeaponFactor + bonus + s.dice.IntN(duelVarianceMax) + 1, nil
}

func duelSettledErr(duelID int64) *apperrors.AppError {
	return apperrors.NewPrecondition(
		fmt.Sprintf("duel %d settled concurrently", duelID),
		"Дуель уже вирішена.",
	)
}
