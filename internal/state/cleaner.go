package state

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner abandons add-card dialogs that went quiet, so a distracted
// admin does not stay stuck mid-dialog forever.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sessions, err := c.storage.Sessions(ctx)
	if err != nil {
		c.log.Error("session cleaner scan failed", slog.Any("error", err))
		return
	}

	cutoff := time.Now().Add(-c.ttl)
	for _, session := range sessions {
		if session == nil || !session.UpdatedAt.Before(cutoff) {
			continue
		}

		if err := c.storage.ClearSession(ctx, session.UserID); err != nil {
			c.log.Error("session cleaner failed to clear session",
				slog.Int64("user_id", session.UserID), slog.Any("error", err))
			continue
		}

		c.log.Info("stale dialog session cleared", slog.Int64("user_id", session.UserID))
	}
}
