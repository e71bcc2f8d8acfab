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

// raidKillDiscount multiplies all shop prices after today's boss died.
const raidKillDiscount = 0.85

// shopWeaponPowers are the possible powers of the trader's daily weapon.
var shopWeaponPowers = []int{3, 5, 8, 12}

// Listing is the trader's daily stock with the active discount.
type Listing struct {
	Day      string
	Items    []domain.ShopItem
	Discount bool
}

// PurchaseResult reports what a buy granted.
type PurchaseResult struct {
	Item       domain.ShopItem
	Cards      []domain.Card // pack purchases
	BoostUntil int64         // boost purchases
}

// DailyShop derives today's listing from the stored shop seed. The
// generator is rebuilt per call, so every caller sees the identical three
// items no matter the call order; only the raid-kill discount varies
// within a day.
func (s *Service) DailyShop(ctx context.Context) (*Listing, error) {
	day, err := s.EnsureDay(ctx)
	if err != nil {
		return nil, err
	}
	return shopListing(day), nil
}

func shopListing(day *domain.DailyState) *Listing {
	rnd := shopRand(day.ShopSeed)
	weaponPower := shopWeaponPowers[rnd.IntN(len(shopWeaponPowers))]

	price := func(base int) int {
		if !day.RaidKilled {
			return base
		}
		discounted := int(float64(base) * raidKillDiscount)
		if discounted < 1 {
			discounted = 1
		}
		return discounted
	}

	return &Listing{
		Day:      day.Day,
		Discount: day.RaidKilled,
		Items: []domain.ShopItem{
			{
				ID:    domain.ShopPackID(day.Day),
				Type:  domain.ShopPack,
				Name:  "Пак карт ×3",
				Price: price(domain.ShopPackBasePrice),
			},
			{
				ID:    domain.ShopBoostID(day.Day),
				Type:  domain.ShopBoost,
				Name:  "Буст: +20% урону в рейді (12 год)",
				Price: price(domain.ShopBoostBasePrice),
			},
			{
				ID:    domain.ShopWeaponID(day.Day, weaponPower),
				Type:  domain.ShopWeapon,
				Name:  fmt.Sprintf("Меч мандрівника +%d", weaponPower),
				Price: price(domain.ShopWeaponBasePrice),
				Power: weaponPower,
			},
		},
	}
}

// Buy purchases one of today's items. The debit and the granted effect
// commit as one transaction per item type.
func (s *Service) Buy(ctx context.Context, userID int64, itemID string) (*PurchaseResult, error) {
	listing, err := s.DailyShop(ctx)
	if err != nil {
		return nil, err
	}

	var item *domain.ShopItem
	for i := range listing.Items {
		if listing.Items[i].ID == itemID {
			item = &listing.Items[i]
			break
		}
	}
	if item == nil {
		return nil, apperrors.NewNotFound(
			fmt.Sprintf("item %q not in today's listing", itemID),
			"Такого item_id сьогодні немає. Перевір: /trader",
		)
	}

	result := &PurchaseResult{Item: *item}
	price := int64(item.Price)

	var buyErr error
	switch item.Type {
	case domain.ShopPack:
		buyErr = s.buyPack(ctx, userID, price, result)
	case domain.ShopBoost:
		result.BoostUntil = s.now().Unix() + domain.BoostDurationSeconds
		buyErr = s.store.PurchaseBoost(ctx, userID, price, result.BoostUntil)
	case domain.ShopWeapon:
		buyErr = s.store.PurchaseWeapon(ctx, userID, price, &domain.InventoryItem{
			UserID: userID,
			ItemID: item.ID,
			Type:   domain.ItemWeapon,
			Name:   item.Name,
			Power:  item.Power,
			Qty:    1,
		})
	default:
		return nil, apperrors.NewValidation(
			fmt.Sprintf("unknown shop item type %q", item.Type),
			"Невідомий товар.",
		)
	}

	if errors.Is(buyErr, repository.ErrInsufficientFunds) {
		return nil, insufficientFundsErr(item.Price)
	}
	if buyErr != nil {
		return nil, apperrors.NewStorage(buyErr)
	}

	metrics.RecordPurchase(string(item.Type))
	s.log.Info("shop purchase",
		slog.Int64("user_id", userID),
		slog.String("item_id", item.ID),
		slog.Int("price", item.Price),
	)

	return result, nil
}

// buyPack pre-draws three cards, then commits the debit and all credits
// atomically. Fewer than three cards means the catalog ran dry mid-draw.
func (s *Service) buyPack(ctx context.Context, userID int64, price int64, result *PurchaseResult) error {
	var cardIDs []int64
	for i := 0; i < 3; i++ {
		card, err := s.pickRandomCard(ctx)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Kind == apperrors.KindNotFound {
				break // empty catalog: the pack still costs its price
			}
			return err
		}
		cardIDs = append(cardIDs, card.ID)
		result.Cards = append(result.Cards, *card)
	}

	return s.store.PurchasePack(ctx, userID, price, cardIDs)
}

// Sell trades qty copies of a card for the fixed per-tier payout.
func (s *Service) Sell(ctx context.Context, userID, cardID int64, qty int) (int64, error) {
	if qty <= 0 {
		return 0, apperrors.NewValidation("qty must be positive", "qty має бути > 0")
	}

	card, err := s.store.GetCard(ctx, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound(
				fmt.Sprintf("card %d not in catalog", cardID),
				"Невірний card_id.",
			)
		}
		return 0, apperrors.NewStorage(err)
	}

	payout := int64(domain.SellPrices[card.Rarity]) * int64(qty)

	err = apperrors.WithRetry(ctx, func() error {
		sellErr := s.store.SellCards(ctx, userID, cardID, qty, payout)
		if errors.Is(sellErr, repository.ErrInsufficientCards) {
			return insufficientCardsErr(cardID, qty)
		}
		if sellErr != nil {
			return apperrors.NewStorage(sellErr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return payout, nil
}

// Gift transfers qty copies to another user; both sides commit atomically.
func (s *Service) Gift(ctx context.Context, fromID int64, targetRef string, cardID int64, qty int) (*domain.User, error) {
	if qty <= 0 {
		return nil, apperrors.NewValidation("qty must be positive", "qty має бути > 0")
	}

	target, err := s.ResolveUserRef(ctx, targetRef)
	if err != nil {
		return nil, err
	}
	if target.ID == fromID {
		return nil, apperrors.NewPrecondition(
			"self gift",
			"Не можна подарувати самому собі 🙂",
		)
	}

	if _, err := s.store.GetCard(ctx, cardID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("card %d not in catalog", cardID),
				"Невірний card_id.",
			)
		}
		return nil, apperrors.NewStorage(err)
	}

	err = apperrors.WithRetry(ctx, func() error {
		transferErr := s.store.TransferCards(ctx, fromID, target.ID, cardID, qty)
		if errors.Is(transferErr, repository.ErrInsufficientCards) {
			return insufficientCardsErr(cardID, qty)
		}
		if transferErr != nil {
			return apperrors.NewStorage(transferErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return target, nil
}

func insufficientFundsErr(price int) *apperrors.AppError {
	return apperrors.NewPrecondition(
		fmt.Sprintf("balance below price %d", price),
		fmt.Sprintf("Не вистачає монет. Треба %d.", price),
	)
}

func insufficientCardsErr(cardID int64, qty int) *apperrors.AppError {
	return apperrors.NewPrecondition(
		fmt.Sprintf("fewer than %d copies of card %d", qty, cardID),
		"У тебе немає стільки копій цієї карти.",
	)
}
