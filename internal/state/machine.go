package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kartka-game/kartka-bot/pkg/metrics"
)

const (
	sessionLockKeyPattern = "addcard:lock:%d"
	lockTTL               = 5 * time.Second
)

var (
	// ErrInvalidTransition indicates that a requested dialog step is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrSessionNotFound indicates that a dialog session does not exist.
	ErrSessionNotFound = errors.New("dialog session not found")
	// ErrSessionLocked indicates that a concurrent update already holds the lock.
	ErrSessionLocked = errors.New("session is locked, try again later")
)

// Machine drives the add-card dialog: it validates step order and keeps
// the draft consistent under concurrent updates.
type Machine interface {
	GetSession(ctx context.Context, userID int64) (*Session, error)
	Begin(ctx context.Context, userID int64) error
	Advance(ctx context.Context, userID int64, next State, update func(*CardDraft)) (*Session, error)
	Clear(ctx context.Context, userID int64) error
}

// machine is a concrete Machine backed by Storage and optional Redis locking.
type machine struct {
	storage     Storage
	log         *slog.Logger
	redisClient *redis.Client
}

// NewMachine creates a dialog controller. A nil redis client disables the
// distributed lock, which is fine for a single-instance deployment.
func NewMachine(storage Storage, log *slog.Logger, redisClient *redis.Client) Machine {
	if log == nil {
		log = slog.Default()
	}

	return &machine{
		storage:     storage,
		log:         log,
		redisClient: redisClient,
	}
}

// GetSession proxies to the underlying storage implementation.
func (m *machine) GetSession(ctx context.Context, userID int64) (*Session, error) {
	return m.storage.GetSession(ctx, userID)
}

// Begin starts a fresh dialog, replacing any previous session.
func (m *machine) Begin(ctx context.Context, userID int64) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	metrics.RecordStateTransition(string(StateIdle), string(StateAwaitPhoto))

	return m.storage.SetSession(ctx, userID, &Session{
		UserID:       userID,
		CurrentState: StateAwaitPhoto,
	})
}

// Advance moves the dialog one step, optionally mutating the draft. The
// step order is validated against the transitions table.
func (m *machine) Advance(ctx context.Context, userID int64, next State, update func(*CardDraft)) (*Session, error) {
	if err := m.lock(ctx, userID); err != nil {
		return nil, err
	}
	defer m.unlock(ctx, userID)

	session, err := m.storage.GetSession(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			session = &Session{UserID: userID, CurrentState: StateIdle}
		} else {
			return nil, err
		}
	}

	if !IsTransitionAllowed(session.CurrentState, next) {
		m.log.Warn("invalid dialog transition",
			"user_id", userID, "from", session.CurrentState, "to", next)
		return nil, ErrInvalidTransition
	}

	metrics.RecordStateTransition(string(session.CurrentState), string(next))

	session.CurrentState = next
	if update != nil {
		update(&session.Draft)
	}

	if err := m.storage.SetSession(ctx, userID, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Clear removes the session while holding the lock.
func (m *machine) Clear(ctx context.Context, userID int64) error {
	if err := m.lock(ctx, userID); err != nil {
		return err
	}
	defer m.unlock(ctx, userID)

	return m.storage.ClearSession(ctx, userID)
}

func (m *machine) lock(ctx context.Context, userID int64) error {
	if m.redisClient == nil {
		return nil
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID)
	acquired, err := m.redisClient.SetNX(ctx, key, 1, lockTTL).Result()
	if err != nil {
		m.log.Error("failed to acquire session lock", "user_id", userID, "error", err)
		return err
	}

	if !acquired {
		m.log.Warn("session lock already held", "user_id", userID)
		return ErrSessionLocked
	}

	return nil
}

func (m *machine) unlock(ctx context.Context, userID int64) {
	if m.redisClient == nil {
		return
	}

	key := fmt.Sprintf(sessionLockKeyPattern, userID)
	if err := m.redisClient.Del(ctx, key).Err(); err != nil {
		m.log.Error("failed to release session lock", "user_id", userID, "error", err)
	}
}
