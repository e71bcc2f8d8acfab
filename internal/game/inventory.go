package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
)

// WeaponPower reports the power of the user's equipped weapon, 0 if none.
func (s *Service) WeaponPower(ctx context.Context, userID int64) (int, error) {
	power, err := s.store.EquippedWeaponPower(ctx, userID)
	if err != nil {
		return 0, apperrors.NewStorage(err)
	}
	return power, nil
}

// ListWeapons returns the user's weapons, strongest first.
func (s *Service) ListWeapons(ctx context.Context, userID int64) ([]domain.InventoryItem, error) {
	items, err := s.store.ListWeapons(ctx, userID, 25)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	return items, nil
}

// Equip sets the user's active weapon. The weapon must be owned.
func (s *Service) Equip(ctx context.Context, userID int64, itemID string) (*domain.InventoryItem, error) {
	weapon, err := s.store.GetWeapon(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("user %d has no weapon %q", userID, itemID),
				"У тебе немає такої зброї.",
			)
		}
		return nil, apperrors.NewStorage(err)
	}

	err = apperrors.WithRetry(ctx, func() error {
		equipErr := s.store.EquipWeapon(ctx, userID, itemID)
		if errors.Is(equipErr, repository.ErrNotFound) {
			return apperrors.NewNotFound(
				fmt.Sprintf("user %d has no weapon %q", userID, itemID),
				"У тебе немає такої зброї.",
			)
		}
		if equipErr != nil {
			return apperrors.NewStorage(equipErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return weapon, nil
}
