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

// exchangeCost is how many identical cards trade for one legendary.
const exchangeCost = 10

func noCardsErr() *apperrors.AppError {
	return apperrors.NewNotFound(
		"card catalog is empty",
		"Немає карт у базі. Адмін має додати карти: /addkartka",
	)
}

// DrawCard is the user-facing draw: requires a chosen path and a cleared
// draw cooldown, then grants one card picked by pickRandomCard.
func (s *Service) DrawCard(ctx context.Context, userID int64) (*domain.Card, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Path == "" {
		return nil, apperrors.NewPrecondition(
			"path not chosen",
			"Спочатку обери шлях 🙂",
		)
	}

	// Pick before consuming the cooldown so an empty catalog does not
	// burn the player's timer.
	card, err := s.pickRandomCard(ctx)
	if err != nil {
		return nil, err
	}

	// Stamp and grant commit together: a card deleted mid-draw rolls the
	// cooldown back instead of burning it.
	now := s.now().Unix()
	var (
		ok        bool
		remaining int64
	)
	err = apperrors.WithRetry(ctx, func() error {
		var drawErr error
		ok, remaining, drawErr = s.store.DrawCard(ctx, userID, card.ID, now)
		if errors.Is(drawErr, repository.ErrNotFound) {
			return noCardsErr()
		}
		if drawErr != nil {
			return apperrors.NewStorage(drawErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewCooldown(string(domain.CooldownDraw), remaining)
	}

	metrics.RecordDraw(string(card.Rarity))
	s.log.Info("card drawn",
		slog.Int64("user_id", userID),
		slog.Int64("card_id", card.ID),
		slog.String("rarity", string(card.Rarity)),
	)

	return card, nil
}

// pickRandomCard selects a rarity tier by weight, then a uniform card
// within that tier. An empty tier falls back to a uniform pick over the
// whole catalog; an empty catalog signals "no card".
func (s *Service) pickRandomCard(ctx context.Context) (*domain.Card, error) {
	tier := s.rollRarity()

	cards, err := s.store.ListCardsByRarity(ctx, tier)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}

	if len(cards) == 0 {
		cards, err = s.store.ListCards(ctx)
		if err != nil {
			return nil, apperrors.NewStorage(err)
		}
		if len(cards) == 0 {
			return nil, noCardsErr()
		}
	}

	card := cards[s.dice.IntN(len(cards))]
	return &card, nil
}

// rollRarity performs the weighted tier choice. Weights need not sum to
// any particular total.
func (s *Service) rollRarity() domain.Rarity {
	total := 0
	for _, tier := range domain.Rarities {
		total += domain.DrawWeights[tier]
	}

	roll := s.dice.IntN(total)
	for _, tier := range domain.Rarities {
		roll -= domain.DrawWeights[tier]
		if roll < 0 {
			return tier
		}
	}

	// Unreachable with positive weights.
	return domain.RarityCommon
}

// ExchangeTen trades ten copies of one card for a single legendary (or a
// regular draw when no legendaries exist). The debit and credit commit as
// one transaction: if the reward card disappears mid-flight the player
// keeps all ten copies.
func (s *Service) ExchangeTen(ctx context.Context, userID, cardID int64) (*domain.Card, error) {
	owned, err := s.store.OwnedCount(ctx, userID, cardID)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	if owned < exchangeCost {
		return nil, apperrors.NewPrecondition(
			fmt.Sprintf("exchange needs %d copies of card %d, have %d", exchangeCost, cardID, owned),
			"Потрібно мати 10 однакових карт цієї id.",
		)
	}

	reward, err := s.pickLegendary(ctx)
	if err != nil {
		return nil, err
	}

	err = apperrors.WithRetry(ctx, func() error {
		err := s.store.ExchangeCards(ctx, userID, cardID, exchangeCost, reward.ID)
		switch {
		case errors.Is(err, repository.ErrInsufficientCards):
			return apperrors.NewPrecondition(
				fmt.Sprintf("exchange lost race on card %d", cardID),
				"Потрібно мати 10 однакових карт цієї id.",
			)
		case errors.Is(err, repository.ErrNotFound):
			return noCardsErr()
		case err != nil:
			return apperrors.NewStorage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reward, nil
}

func (s *Service) pickLegendary(ctx context.Context) (*domain.Card, error) {
	legends, err := s.store.ListCardsByRarity(ctx, domain.RarityLegendary)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	if len(legends) == 0 {
		return s.pickRandomCard(ctx)
	}

	card := legends[s.dice.IntN(len(legends))]
	return &card, nil
}
