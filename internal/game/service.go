// Package game implements the card-game engine: daily world state, gacha
// draws, cooldown gating, raids, duels, the trader economy, inventory and
// travel. The chat layer on top of it only parses commands and formats
// replies.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
)

// collectionLimit caps the rows returned by ListCollection.
const collectionLimit = 80

// Service provides every game operation over the store. All methods either
// fully validate-then-commit or fail before any write.
type Service struct {
	store *repository.Store
	log   *slog.Logger
	dice  Roller
	now   func() time.Time
}

// NewService constructs the engine. A nil roller or clock falls back to
// the real ones.
func NewService(store *repository.Store, log *slog.Logger, dice Roller, now func() time.Time) *Service {
	if log == nil {
		log = slog.Default()
	}
	if dice == nil {
		dice = NewRoller()
	}
	if now == nil {
		now = time.Now
	}

	return &Service{
		store: store,
		log:   log,
		dice:  dice,
		now:   now,
	}
}

// RegisterOrTouch upserts the user profile on any interaction and returns
// the current record.
func (s *Service) RegisterOrTouch(ctx context.Context, id int64, username, firstName string) (*domain.User, error) {
	now := s.now().Unix()

	err := apperrors.WithRetry(ctx, func() error {
		if err := s.store.Touch(ctx, id, username, firstName, now); err != nil {
			return apperrors.NewStorage(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getUser(ctx, id)
}

// ChoosePath stores the user's life path.
func (s *Service) ChoosePath(ctx context.Context, userID int64, raw string) (domain.Path, error) {
	path, ok := domain.ParsePath(raw)
	if !ok {
		return "", apperrors.NewValidation(
			fmt.Sprintf("unknown path %q", raw),
			"Невірний шлях.",
		)
	}

	if err := s.store.SetPath(ctx, userID, path); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", unknownUserErr(userID)
		}
		return "", apperrors.NewStorage(err)
	}

	return path, nil
}

// ListCollection returns the user's cards with counts, most held first.
func (s *Service) ListCollection(ctx context.Context, userID int64) ([]domain.OwnedCard, error) {
	owned, err := s.store.ListCollection(ctx, userID, collectionLimit)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}
	return owned, nil
}

// CharacterSummary is the /me view of a player.
type CharacterSummary struct {
	User        *domain.User
	WeaponPower int
	BoostActive bool
	Weapons     []domain.InventoryItem
	Travel      *domain.Travel
}

// Summary assembles the character sheet for a user.
func (s *Service) Summary(ctx context.Context, userID int64) (*CharacterSummary, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	power, err := s.store.EquippedWeaponPower(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}

	weapons, err := s.store.ListWeapons(ctx, userID, 10)
	if err != nil {
		return nil, apperrors.NewStorage(err)
	}

	travel, err := s.store.GetTravel(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewStorage(err)
	}

	return &CharacterSummary{
		User:        user,
		WeaponPower: power,
		BoostActive: user.HasRaidBoost(s.now().Unix()),
		Weapons:     weapons,
		Travel:      travel,
	}, nil
}

// ResolveUserRef resolves a target reference (numeric id or @handle) to a
// known user.
func (s *Service) ResolveUserRef(ctx context.Context, raw string) (*domain.User, error) {
	raw = strings.TrimSpace(raw)

	if handle, ok := strings.CutPrefix(raw, "@"); ok {
		user, err := s.store.FindByUsername(ctx, handle)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, unknownTargetErr(raw)
			}
			return nil, apperrors.NewStorage(err)
		}
		return user, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperrors.NewValidation(
			fmt.Sprintf("bad user reference %q", raw),
			"Вкажи @username або числовий id.",
		)
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unknownTargetErr(raw)
		}
		return nil, apperrors.NewStorage(err)
	}
	return user, nil
}

func (s *Service) getUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, unknownUserErr(id)
		}
		return nil, apperrors.NewStorage(err)
	}
	return user, nil
}

func unknownUserErr(id int64) *apperrors.AppError {
	return apperrors.NewNotFound(
		fmt.Sprintf("user %d not registered", id),
		"Я не знаю цього користувача. Нехай він/вона напише /start.",
	)
}

func unknownTargetErr(ref string) *apperrors.AppError {
	return apperrors.NewNotFound(
		fmt.Sprintf("target %q not registered", ref),
		"Я не знаю цього користувача. Нехай він/вона напише /start.",
	)
}
