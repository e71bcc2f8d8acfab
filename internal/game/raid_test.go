package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
	"github.com/kartka-game/kartka-bot/internal/repository"
)

func seedRaidDay(t *testing.T, store *repository.Store, clock *fakeClock, hp int) *domain.DailyState {
	t.Helper()

	return seedDay(t, store, clock, &domain.DailyState{
		RaidActive: true,
		RaidHP:     hp,
		RaidHPMax:  hp,
		ShopSeed:   42,
	})
}

func TestAttack_DamageByRarity(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedRaidDay(t, store, clock, 1000)
	seedUser(t, svc, 1, "alice")
	epicID := seedCard(t, store, "Епічна", domain.RarityEpic)
	require.NoError(t, store.GrantCards(ctx, 1, epicID, 1))

	result, err := svc.Attack(ctx, 1, epicID)
	require.NoError(t, err)
	require.Equal(t, 25, result.Damage)
	require.Equal(t, 975, result.HPLeft)
	require.False(t, result.KilledNow)
}

func TestAttack_BoostAndWeaponBonus(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedRaidDay(t, store, clock, 1000)
	seedUser(t, svc, 1, "alice")
	rareID := seedCard(t, store, "Рідкісна", domain.RarityRare)
	require.NoError(t, store.GrantCards(ctx, 1, rareID, 1))

	require.NoError(t, store.SetRaidBoost(ctx, 1, clock.Now().Unix()+3600))
	require.NoError(t, store.AddItem(ctx, &domain.InventoryItem{
		UserID: 1, ItemID: "w1", Type: domain.ItemWeapon, Name: "Меч", Power: 5, Qty: 1,
	}))
	require.NoError(t, store.EquipWeapon(ctx, 1, "w1"))

	result, err := svc.Attack(ctx, 1, rareID)
	require.NoError(t, err)

	// 12 base, ×1.2 truncated to 14, +5/2 weapon.
	require.Equal(t, 16, result.Damage)
}

func TestAttack_RequiresOwnedCard(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedRaidDay(t, store, clock, 1000)
	seedUser(t, svc, 1, "alice")
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)

	_, err := svc.Attack(ctx, 1, cardID)
	requireKind(t, err, apperrors.KindPrecondition)

	_, err = svc.Attack(ctx, 1, cardID+100)
	requireKind(t, err, apperrors.KindNotFound)
}

func TestAttack_NoRaidToday(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedDay(t, store, clock, &domain.DailyState{RaidActive: false, ShopSeed: 42})
	seedUser(t, svc, 1, "alice")
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)
	require.NoError(t, store.GrantCards(ctx, 1, cardID, 1))

	_, err := svc.Attack(ctx, 1, cardID)
	requireKind(t, err, apperrors.KindPrecondition)
}

func TestAttack_AttackCooldown(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedRaidDay(t, store, clock, 1000)
	seedUser(t, svc, 1, "alice")
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)
	require.NoError(t, store.GrantCards(ctx, 1, cardID, 1))

	_, err := svc.Attack(ctx, 1, cardID)
	require.NoError(t, err)

	_, err = svc.Attack(ctx, 1, cardID)
	requireKind(t, err, apperrors.KindPrecondition)

	clock.Advance(20 * time.Second)

	_, err = svc.Attack(ctx, 1, cardID)
	require.NoError(t, err)
}

func TestResolveAttackConflict_AlwaysErrors(t *testing.T) {
	ctx := context.Background()

	// A refused hit was never applied, so every outcome must be an error,
	// including a fresh alive raid after a midnight rollover.
	t.Run("fresh raid", func(t *testing.T) {
		svc, store, clock := newTestService(t, &scriptRoller{})
		seedRaidDay(t, store, clock, 500)

		err := svc.resolveAttackConflict(ctx)
		requireKind(t, err, apperrors.KindPrecondition)
	})

	t.Run("boss dead", func(t *testing.T) {
		svc, store, clock := newTestService(t, &scriptRoller{})
		seedDay(t, store, clock, &domain.DailyState{
			RaidActive: true, RaidHPMax: 500, RaidKilled: true, ShopSeed: 42,
		})

		err := svc.resolveAttackConflict(ctx)
		requireKind(t, err, apperrors.KindPrecondition)
	})

	t.Run("no raid", func(t *testing.T) {
		svc, store, clock := newTestService(t, &scriptRoller{})
		seedDay(t, store, clock, &domain.DailyState{RaidActive: false, ShopSeed: 42})

		err := svc.resolveAttackConflict(ctx)
		requireKind(t, err, apperrors.KindPrecondition)
	})
}

func TestAttack_ConcurrentDamageIsExact(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	day := seedRaidDay(t, store, clock, 1000)
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)

	const attackers = 100
	for i := int64(1); i <= attackers; i++ {
		seedUser(t, svc, i, "")
		require.NoError(t, store.GrantCards(ctx, i, cardID, 1))
	}

	var wg sync.WaitGroup
	errs := make(chan error, attackers)
	for i := int64(1); i <= attackers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := svc.Attack(ctx, userID, cardID)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := store.GetDay(ctx, day.Day)
	require.NoError(t, err)
	require.Equal(t, 1000-attackers*domain.RaidDamage[domain.RarityCommon], stored.RaidHP)
	require.False(t, stored.RaidKilled)
}

func TestAttack_BossDiesExactlyOnce(t *testing.T) {
	svc, store, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	day := seedRaidDay(t, store, clock, 12)
	cardID := seedCard(t, store, "Карта", domain.RarityCommon)

	const attackers = 50
	for i := int64(1); i <= attackers; i++ {
		seedUser(t, svc, i, "")
		require.NoError(t, store.GrantCards(ctx, i, cardID, 1))
	}

	type attackOutcome struct {
		result *AttackResult
		err    error
	}

	var wg sync.WaitGroup
	outcomes := make(chan attackOutcome, attackers)
	for i := int64(1); i <= attackers; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			result, err := svc.Attack(ctx, userID, cardID)
			outcomes <- attackOutcome{result: result, err: err}
		}(i)
	}
	wg.Wait()
	close(outcomes)

	var kills, hits int
	for outcome := range outcomes {
		if outcome.err != nil {
			// Late attackers find the boss already dead.
			requireKind(t, outcome.err, apperrors.KindPrecondition)
			continue
		}
		hits++
		if outcome.result.KilledNow {
			kills++
		}
	}

	require.Equal(t, 1, kills)
	require.GreaterOrEqual(t, hits, 1)

	stored, err := store.GetDay(ctx, day.Day)
	require.NoError(t, err)
	require.True(t, stored.RaidKilled)
	require.Equal(t, 0, stored.RaidHP)
}
