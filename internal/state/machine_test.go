package state

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMachine_FullDialog(t *testing.T) {
	m := NewMachine(NewMemoryStorage(), testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, m.Begin(ctx, 42))

	session, err := m.Advance(ctx, 42, StateAwaitName, func(d *CardDraft) {
		d.ImageRef = "file-abc"
	})
	require.NoError(t, err)
	assert.Equal(t, StateAwaitName, session.CurrentState)

	session, err = m.Advance(ctx, 42, StateAwaitRarity, func(d *CardDraft) {
		d.Name = "Химерна карта"
	})
	require.NoError(t, err)

	session, err = m.Advance(ctx, 42, StateAwaitDescription, func(d *CardDraft) {
		d.Rarity = "epic"
	})
	require.NoError(t, err)

	session, err = m.Advance(ctx, 42, StateConfirm, func(d *CardDraft) {
		d.Description = "Дуже рідкісна."
	})
	require.NoError(t, err)

	assert.Equal(t, StateConfirm, session.CurrentState)
	assert.Equal(t, "file-abc", session.Draft.ImageRef)
	assert.Equal(t, "Химерна карта", session.Draft.Name)
	assert.Equal(t, "epic", session.Draft.Rarity)
	assert.Equal(t, "Дуже рідкісна.", session.Draft.Description)
}

func TestMachine_RejectsSkippedStep(t *testing.T) {
	m := NewMachine(NewMemoryStorage(), testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, m.Begin(ctx, 7))

	_, err := m.Advance(ctx, 7, StateConfirm, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMachine_AdvanceWithoutSessionStartsFromIdle(t *testing.T) {
	m := NewMachine(NewMemoryStorage(), testLogger(), nil)
	ctx := context.Background()

	_, err := m.Advance(ctx, 7, StateAwaitName, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	session, err := m.Advance(ctx, 7, StateAwaitPhoto, nil)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitPhoto, session.CurrentState)
}

func TestMachine_ClearRemovesSession(t *testing.T) {
	storage := NewMemoryStorage()
	m := NewMachine(storage, testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, m.Begin(ctx, 9))
	require.NoError(t, m.Clear(ctx, 9))

	_, err := storage.GetSession(ctx, 9)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMachine_BeginResetsDraft(t *testing.T) {
	m := NewMachine(NewMemoryStorage(), testLogger(), nil)
	ctx := context.Background()

	require.NoError(t, m.Begin(ctx, 5))
	_, err := m.Advance(ctx, 5, StateAwaitName, func(d *CardDraft) {
		d.ImageRef = "old"
	})
	require.NoError(t, err)

	require.NoError(t, m.Begin(ctx, 5))

	session, err := m.GetSession(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, StateAwaitPhoto, session.CurrentState)
	assert.Empty(t, session.Draft.ImageRef)
}
