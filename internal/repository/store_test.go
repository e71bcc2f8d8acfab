package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "game.db"), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func touchUser(t *testing.T, store *Store, id int64, username string) {
	t.Helper()
	require.NoError(t, store.Touch(context.Background(), id, username, "Test", 1_000_000))
}

func insertCard(t *testing.T, store *Store, rarity domain.Rarity) int64 {
	t.Helper()

	id, err := store.AddCard(context.Background(), &domain.Card{Name: "Карта", Rarity: rarity, Weight: 1})
	require.NoError(t, err)
	return id
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ", nil)
	require.Error(t, err)
}

func TestTouch_UpsertAndFindByUsername(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "Alice")

	user, err := store.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	// A repeat touch refreshes the profile without resetting state.
	require.NoError(t, store.AddCoins(ctx, 1, 50))
	require.NoError(t, store.Touch(ctx, 1, "alice_new", "Test", 2_000_000))

	user, err = store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "alice_new", user.Username)
	require.Equal(t, int64(50), user.Coins)
	require.Equal(t, int64(2_000_000), user.LastSeen)

	_, err = store.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddCoins_GuardsNegativeBalance(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	require.NoError(t, store.AddCoins(ctx, 1, 30))

	err := store.AddCoins(ctx, 1, -31)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, store.AddCoins(ctx, 1, -30))

	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, user.Coins)

	err = store.AddCoins(ctx, 99, 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransferCards_AllOrNothing(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	touchUser(t, store, 2, "bob")
	cardID := insertCard(t, store, domain.RarityCommon)
	require.NoError(t, store.GrantCards(ctx, 1, cardID, 3))

	err := store.TransferCards(ctx, 1, 2, cardID, 5)
	require.ErrorIs(t, err, ErrInsufficientCards)

	// Nothing moved on the failed transfer.
	from, err := store.OwnedCount(ctx, 1, cardID)
	require.NoError(t, err)
	require.Equal(t, 3, from)
	to, err := store.OwnedCount(ctx, 2, cardID)
	require.NoError(t, err)
	require.Zero(t, to)

	require.NoError(t, store.TransferCards(ctx, 1, 2, cardID, 3))

	// The emptied ownership row is pruned, not left at zero.
	from, err = store.OwnedCount(ctx, 1, cardID)
	require.NoError(t, err)
	require.Zero(t, from)
	to, err = store.OwnedCount(ctx, 2, cardID)
	require.NoError(t, err)
	require.Equal(t, 3, to)
}

func TestExchangeCards_RewardGoneRollsBackDebit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	commonID := insertCard(t, store, domain.RarityCommon)
	legendID := insertCard(t, store, domain.RarityLegendary)
	require.NoError(t, store.GrantCards(ctx, 1, commonID, 10))
	require.NoError(t, store.DeleteCard(ctx, legendID))

	err := store.ExchangeCards(ctx, 1, commonID, 10, legendID)
	require.ErrorIs(t, err, ErrNotFound)

	owned, err := store.OwnedCount(ctx, 1, commonID)
	require.NoError(t, err)
	require.Equal(t, 10, owned)
}

func TestSellCards(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	cardID := insertCard(t, store, domain.RarityEpic)
	require.NoError(t, store.GrantCards(ctx, 1, cardID, 2))

	require.NoError(t, store.SellCards(ctx, 1, cardID, 2, 80))

	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(80), user.Coins)

	err = store.SellCards(ctx, 1, cardID, 1, 40)
	require.ErrorIs(t, err, ErrInsufficientCards)
}

func TestConsumeCooldown_Boundary(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	interval := domain.CooldownDraw.Interval()
	base := int64(5_000_000)

	ok, _, err := store.ConsumeCooldown(ctx, 1, domain.CooldownDraw, base)
	require.NoError(t, err)
	require.True(t, ok)

	ok, remaining, err := store.ConsumeCooldown(ctx, 1, domain.CooldownDraw, base+interval-1)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int64(1), remaining)

	ok, _, err = store.ConsumeCooldown(ctx, 1, domain.CooldownDraw, base+interval)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestConsumeCooldown_KindsAreIndependent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	base := int64(5_000_000)

	ok, _, err := store.ConsumeCooldown(ctx, 1, domain.CooldownDraw, base)
	require.NoError(t, err)
	require.True(t, ok)

	ok, _, err = store.ConsumeCooldown(ctx, 1, domain.CooldownAttack, base)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDrawCard_StampAndGrantAreOneUnit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	cardID := insertCard(t, store, domain.RarityCommon)
	base := int64(5_000_000)

	// A vanished catalog entry rolls the whole draw back.
	_, _, err := store.DrawCard(ctx, 1, cardID+100, base)
	require.ErrorIs(t, err, ErrNotFound)

	// The failed draw left the cooldown clear, so this one is admitted.
	ok, _, err := store.DrawCard(ctx, 1, cardID, base)
	require.NoError(t, err)
	require.True(t, ok)

	owned, err := store.OwnedCount(ctx, 1, cardID)
	require.NoError(t, err)
	require.Equal(t, 1, owned)

	// A running cooldown grants nothing and reports the wait.
	ok, remaining, err := store.DrawCard(ctx, 1, cardID, base+1)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, int64(domain.DrawCooldownSeconds-1), remaining)

	owned, err = store.OwnedCount(ctx, 1, cardID)
	require.NoError(t, err)
	require.Equal(t, 1, owned)
}

func TestEnsureDay_InsertOnce(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first, err := store.EnsureDay(ctx, &domain.DailyState{
		Day: "2025-06-01", RaidActive: true, RaidHP: 700, RaidHPMax: 700, ShopSeed: 42,
	})
	require.NoError(t, err)

	second, err := store.EnsureDay(ctx, &domain.DailyState{
		Day: "2025-06-01", RaidActive: false, RaidHP: 0, RaidHPMax: 0, ShopSeed: 777,
	})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int64(42), second.ShopSeed)
}

func TestApplyRaidDamage(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const day = "2025-06-01"
	_, err := store.EnsureDay(ctx, &domain.DailyState{
		Day: day, RaidActive: true, RaidHP: 30, RaidHPMax: 30, ShopSeed: 1,
	})
	require.NoError(t, err)

	hpLeft, killedNow, err := store.ApplyRaidDamage(ctx, day, 25)
	require.NoError(t, err)
	require.Equal(t, 5, hpLeft)
	require.False(t, killedNow)

	// Overkill clamps to zero and flips the killed flag exactly here.
	hpLeft, killedNow, err = store.ApplyRaidDamage(ctx, day, 25)
	require.NoError(t, err)
	require.Zero(t, hpLeft)
	require.True(t, killedNow)

	_, _, err = store.ApplyRaidDamage(ctx, day, 5)
	require.ErrorIs(t, err, ErrConflict)
}

func TestApplyRaidDamage_InactiveRaid(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	const day = "2025-06-01"
	_, err := store.EnsureDay(ctx, &domain.DailyState{Day: day, RaidActive: false, ShopSeed: 1})
	require.NoError(t, err)

	_, _, err = store.ApplyRaidDamage(ctx, day, 5)
	require.ErrorIs(t, err, ErrConflict)
}

func TestStartTravel_GuardsRunningWindow(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	require.NoError(t, store.StartTravel(ctx, 1, 100, 200))

	err := store.StartTravel(ctx, 1, 150, 250)
	require.ErrorIs(t, err, ErrConflict)

	// An expired window may be replaced.
	require.NoError(t, store.StartTravel(ctx, 1, 200, 300))

	travel, err := store.GetTravel(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(300), travel.EndTS)
	require.False(t, travel.Claimed)
}

func TestClaimTravel(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	require.NoError(t, store.StartTravel(ctx, 1, 100, 200))

	// Claiming before the window ends is refused.
	err := store.ClaimTravel(ctx, 1, 150, 70, 0, nil)
	require.ErrorIs(t, err, ErrConflict)

	weapon := &domain.InventoryItem{
		UserID: 1, ItemID: "tw1", Type: domain.ItemWeapon, Name: "Трофей", Power: 5, Qty: 1,
	}
	require.NoError(t, store.ClaimTravel(ctx, 1, 200, 70, 999, weapon))

	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(70), user.Coins)
	require.Equal(t, int64(999), user.RaidBoostUntil)

	got, err := store.GetWeapon(ctx, 1, "tw1")
	require.NoError(t, err)
	require.Equal(t, 5, got.Power)

	err = store.ClaimTravel(ctx, 1, 250, 70, 0, nil)
	require.ErrorIs(t, err, ErrConflict)

	// A claimed window can be replaced by a fresh travel.
	require.NoError(t, store.StartTravel(ctx, 1, 250, 350))
}

func TestClaimTravel_ConcurrentClaimsAdmitOne(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	require.NoError(t, store.StartTravel(ctx, 1, 100, 200))

	const claimers = 20
	var wg sync.WaitGroup
	errs := make(chan error, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.ClaimTravel(ctx, 1, 200, 70, 0, nil)
		}()
	}
	wg.Wait()
	close(errs)

	var wins int
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, ErrConflict)
	}
	require.Equal(t, 1, wins)

	// Exactly one reward was paid out.
	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(70), user.Coins)
}

func TestEquipWeapon(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")

	err := store.EquipWeapon(ctx, 1, "nope")
	require.ErrorIs(t, err, ErrNotFound)

	power, err := store.EquippedWeaponPower(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, power)

	require.NoError(t, store.AddItem(ctx, &domain.InventoryItem{
		UserID: 1, ItemID: "w1", Type: domain.ItemWeapon, Name: "Меч", Power: 12, Qty: 1,
	}))
	require.NoError(t, store.EquipWeapon(ctx, 1, "w1"))

	power, err = store.EquippedWeaponPower(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 12, power)
}

func TestAddItem_StacksQuantity(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	item := &domain.InventoryItem{UserID: 1, ItemID: "w1", Type: domain.ItemWeapon, Name: "Меч", Power: 3, Qty: 1}
	require.NoError(t, store.AddItem(ctx, item))
	require.NoError(t, store.AddItem(ctx, item))

	got, err := store.GetWeapon(ctx, 1, "w1")
	require.NoError(t, err)
	require.Equal(t, 2, got.Qty)
}

func TestResolveDuel(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	touchUser(t, store, 2, "bob")

	duelID, err := store.CreateDuel(ctx, 1, 2, 100)
	require.NoError(t, err)

	require.NoError(t, store.ResolveDuel(ctx, duelID, 2, 1))

	winner, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(domain.DuelWinnerPrize), winner.Coins)

	// A settled duel refuses both a second resolve and a decline.
	err = store.ResolveDuel(ctx, duelID, 1, 2)
	require.ErrorIs(t, err, ErrConflict)
	err = store.DeclineDuel(ctx, duelID)
	require.ErrorIs(t, err, ErrConflict)
}

func TestResolveDuel_TiePaysNothing(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	touchUser(t, store, 2, "bob")

	duelID, err := store.CreateDuel(ctx, 1, 2, 100)
	require.NoError(t, err)
	require.NoError(t, store.ResolveDuel(ctx, duelID, 0, 0))

	for _, id := range []int64{1, 2} {
		user, err := store.GetUser(ctx, id)
		require.NoError(t, err)
		require.Zero(t, user.Coins)
	}
}

func TestPurchasePack_ChargesEvenWhenEmpty(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	touchUser(t, store, 1, "alice")
	require.NoError(t, store.AddCoins(ctx, 1, 60))

	require.NoError(t, store.PurchasePack(ctx, 1, 60, nil))

	user, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, user.Coins)

	err = store.PurchasePack(ctx, 1, 60, nil)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}
