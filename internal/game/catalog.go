package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
)

// AddCard validates and inserts a new catalog entry. The weight column is
// kept at 1 for every card; tier odds come from the fixed rarity weights.
func (s *Service) AddCard(ctx context.Context, name, rawRarity, imageRef, description string) (*domain.Card, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return nil, apperrors.NewValidation(
			"card name shorter than 2 runes",
			"Назва закоротка. Мінімум 2 символи.",
		)
	}

	rarity, ok := domain.ParseRarity(rawRarity)
	if !ok {
		return nil, apperrors.NewValidation(
			fmt.Sprintf("unknown rarity %q", rawRarity),
			"Невірна рідкість. Варіанти: common, rare, epic, legendary.",
		)
	}

	card := &domain.Card{
		Name:        name,
		Rarity:      rarity,
		Weight:      1,
		ImageRef:    imageRef,
		Description: strings.TrimSpace(description),
	}

	id, err := s.store.AddCard(ctx, card)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	card.ID = id

	s.log.Info("card added",
		slog.Int64("card_id", id),
		slog.String("rarity", string(rarity)),
	)

	return card, nil
}

// ListCatalog returns the whole card catalog, newest first.
func (s *Service) ListCatalog(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.store.ListCards(ctx)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	return cards, nil
}

// DeleteCard removes a card and every copy of it from all collections.
func (s *Service) DeleteCard(ctx context.Context, cardID int64) error {
	err := s.store.DeleteCard(ctx, cardID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(
			fmt.Sprintf("card %d not in catalog", cardID),
			"Невірний card_id.",
		)
	}
	if err != nil {
		return apperrors.NewStorage(err)
	}

	s.log.Info("card deleted", slog.Int64("card_id", cardID))
	return nil
}
