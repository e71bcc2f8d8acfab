package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

func seedDuelists(t *testing.T, svc *Service) {
	t.Helper()

	seedUser(t, svc, 1, "alice")
	seedUser(t, svc, 2, "bob")
}

func TestChallenge(t *testing.T) {
	svc, _, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedDuelists(t, svc)

	duel, target, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)
	require.Equal(t, int64(2), target.ID)
	require.Equal(t, domain.DuelPending, duel.Status)

	t.Run("self challenge rejected", func(t *testing.T) {
		_, _, err := svc.Challenge(ctx, 1, "@alice")
		requireKind(t, err, apperrors.KindPrecondition)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, _, err := svc.Challenge(ctx, 1, "@nobody")
		requireKind(t, err, apperrors.KindNotFound)
	})
}

func TestAccept_WinnerAndLoserPaid(t *testing.T) {
	// Variance rolls: challenger 10+1, opponent 5+1.
	svc, store, _ := newTestService(t, &scriptRoller{ints: []int{10, 5}})
	ctx := context.Background()

	seedDuelists(t, svc)

	duel, _, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)

	outcome, err := svc.Accept(ctx, duel.ID, 2)
	require.NoError(t, err)
	require.False(t, outcome.Tie)
	require.Equal(t, 11, outcome.ChallengerPower)
	require.Equal(t, 6, outcome.OpponentPower)
	require.Equal(t, int64(1), outcome.WinnerID)
	require.Equal(t, int64(2), outcome.LoserID)

	winner, err := store.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(domain.DuelWinnerPrize), winner.Coins)

	loser, err := store.GetUser(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(domain.DuelLoserPrize), loser.Coins)
}

func TestAccept_WeaponAndLegendaryBonus(t *testing.T) {
	// Equal variance rolls isolate the static bonuses.
	svc, store, _ := newTestService(t, &scriptRoller{ints: []int{7, 7}})
	ctx := context.Background()

	seedDuelists(t, svc)

	require.NoError(t, store.AddItem(ctx, &domain.InventoryItem{
		UserID: 1, ItemID: "w1", Type: domain.ItemWeapon, Name: "Меч", Power: 4, Qty: 1,
	}))
	require.NoError(t, store.EquipWeapon(ctx, 1, "w1"))

	legendID := seedCard(t, store, "Легендарна", domain.RarityLegendary)
	require.NoError(t, store.GrantCards(ctx, 2, legendID, 20))

	duel, _, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)

	outcome, err := svc.Accept(ctx, duel.ID, 2)
	require.NoError(t, err)

	// Challenger: 4×3 weapon + 7+1 roll. Opponent: capped 30 legendary bonus + 7+1.
	require.Equal(t, 20, outcome.ChallengerPower)
	require.Equal(t, 38, outcome.OpponentPower)
	require.Equal(t, int64(2), outcome.WinnerID)
}

func TestAccept_TiePaysNobody(t *testing.T) {
	svc, store, _ := newTestService(t, &scriptRoller{ints: []int{7}})
	ctx := context.Background()

	seedDuelists(t, svc)

	duel, _, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)

	outcome, err := svc.Accept(ctx, duel.ID, 2)
	require.NoError(t, err)
	require.True(t, outcome.Tie)
	require.Equal(t, domain.DuelAccepted, outcome.Duel.Status)

	for _, id := range []int64{1, 2} {
		user, err := store.GetUser(ctx, id)
		require.NoError(t, err)
		require.Zero(t, user.Coins)
	}
}

func TestAccept_OnlyAddresseeAndOnlyOnce(t *testing.T) {
	svc, _, _ := newTestService(t, &scriptRoller{ints: []int{10, 5}})
	ctx := context.Background()

	seedDuelists(t, svc)
	seedUser(t, svc, 3, "eve")

	duel, _, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)

	t.Run("wrong addressee", func(t *testing.T) {
		_, err := svc.Accept(ctx, duel.ID, 3)
		requireKind(t, err, apperrors.KindPrecondition)
	})

	t.Run("challenger cannot accept own duel", func(t *testing.T) {
		_, err := svc.Accept(ctx, duel.ID, 1)
		requireKind(t, err, apperrors.KindPrecondition)
	})

	_, err = svc.Accept(ctx, duel.ID, 2)
	require.NoError(t, err)

	t.Run("second accept refused", func(t *testing.T) {
		_, err := svc.Accept(ctx, duel.ID, 2)
		requireKind(t, err, apperrors.KindPrecondition)
	})

	t.Run("unknown duel", func(t *testing.T) {
		_, err := svc.Accept(ctx, duel.ID+100, 2)
		requireKind(t, err, apperrors.KindNotFound)
	})
}

func TestDecline(t *testing.T) {
	svc, store, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedDuelists(t, svc)

	duel, _, err := svc.Challenge(ctx, 1, "@bob")
	require.NoError(t, err)

	require.NoError(t, svc.Decline(ctx, duel.ID, 2))

	stored, err := store.GetDuel(ctx, duel.ID)
	require.NoError(t, err)
	require.Equal(t, domain.DuelDeclined, stored.Status)

	// A declined duel cannot be accepted afterwards.
	_, err = svc.Accept(ctx, duel.ID, 2)
	requireKind(t, err, apperrors.KindPrecondition)
}
