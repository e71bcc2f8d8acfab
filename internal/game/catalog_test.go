package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

func TestAddCard(t *testing.T) {
	svc, _, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	card, err := svc.AddCard(ctx, "  Химера  ", "EPIC", "file123", " страшна ")
	require.NoError(t, err)
	require.NotZero(t, card.ID)
	require.Equal(t, "Химера", card.Name)
	require.Equal(t, domain.RarityEpic, card.Rarity)
	require.Equal(t, "file123", card.ImageRef)
	require.Equal(t, "страшна", card.Description)

	t.Run("short name", func(t *testing.T) {
		_, err := svc.AddCard(ctx, "х", "common", "", "")
		requireKind(t, err, apperrors.KindValidation)
	})

	t.Run("unknown rarity", func(t *testing.T) {
		_, err := svc.AddCard(ctx, "Карта", "mythic", "", "")
		requireKind(t, err, apperrors.KindValidation)
	})
}

func TestListCatalogAndDeleteCard(t *testing.T) {
	svc, store, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedUser(t, svc, 1, "alice")
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)
	require.NoError(t, store.GrantCards(ctx, 1, cardID, 2))

	cards, err := svc.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	require.NoError(t, svc.DeleteCard(ctx, cardID))

	cards, err = svc.ListCatalog(ctx)
	require.NoError(t, err)
	require.Empty(t, cards)

	// Deleting the catalog entry also purges owned copies.
	owned, err := store.OwnedCount(ctx, 1, cardID)
	require.NoError(t, err)
	require.Zero(t, owned)

	err = svc.DeleteCard(ctx, cardID)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestEquip(t *testing.T) {
	svc, store, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedUser(t, svc, 1, "alice")
	require.NoError(t, store.AddItem(ctx, &domain.InventoryItem{
		UserID: 1, ItemID: "w1", Type: domain.ItemWeapon, Name: "Меч", Power: 8, Qty: 1,
	}))

	weapon, err := svc.Equip(ctx, 1, "w1")
	require.NoError(t, err)
	require.Equal(t, 8, weapon.Power)

	power, err := svc.WeaponPower(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 8, power)

	t.Run("unowned weapon", func(t *testing.T) {
		_, err := svc.Equip(ctx, 1, "w2")
		requireKind(t, err, apperrors.KindNotFound)
	})
}
