package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kartka-game/kartka-bot/internal/domain"
	apperrors "github.com/kartka-game/kartka-bot/internal/errors"
)

func TestCooldownRemaining(t *testing.T) {
	svc, _, clock := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedUser(t, svc, 1, "alice")

	remaining, err := svc.CooldownRemaining(ctx, 1, domain.CooldownDraw)
	require.NoError(t, err)
	require.Zero(t, remaining)

	require.NoError(t, svc.consumeCooldown(ctx, 1, domain.CooldownDraw))

	remaining, err = svc.CooldownRemaining(ctx, 1, domain.CooldownDraw)
	require.NoError(t, err)
	require.Equal(t, int64(domain.DrawCooldownSeconds), remaining)

	clock.Advance(300 * time.Second)

	remaining, err = svc.CooldownRemaining(ctx, 1, domain.CooldownDraw)
	require.NoError(t, err)
	require.Equal(t, int64(600), remaining)

	err = svc.consumeCooldown(ctx, 1, domain.CooldownDraw)
	requireKind(t, err, apperrors.KindPrecondition)

	clock.Advance(600 * time.Second)

	require.NoError(t, svc.consumeCooldown(ctx, 1, domain.CooldownDraw))
}

func TestCooldownRemaining_KindsAreIndependent(t *testing.T) {
	svc, _, _ := newTestService(t, &scriptRoller{})
	ctx := context.Background()

	seedUser(t, svc, 1, "alice")
	require.NoError(t, svc.consumeCooldown(ctx, 1, domain.CooldownDraw))

	remaining, err := svc.CooldownRemaining(ctx, 1, domain.CooldownAttack)
	require.NoError(t, err)
	require.Zero(t, remaining)
}
