// Package repository persists all game entities in SQLite and owns every
// multi-row atomic mutation.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound indicates a missing row.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientFunds indicates a wallet balance below the requested debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientCards indicates ownership below the requested quantity.
	ErrInsufficientCards = errors.New("insufficient cards")
	// ErrConflict indicates a guarded update lost to an earlier writer
	// (duel already resolved, travel already claimed, raid already over).
	ErrConflict = errors.New("state changed concurrently")
)

const schema = `
CREATE TABLE IF NOT EXISTS users(
    user_id INTEGER PRIMARY KEY,
    username TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    path TEXT NOT NULL DEFAULT '',
    coins INTEGER NOT NULL DEFAULT 0,
    equipped_weapon_id TEXT NOT NULL DEFAULT '',
    raid_boost_until_ts INTEGER NOT NULL DEFAULT 0,
    last_seen_ts INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cards(
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    rarity TEXT NOT NULL,
    weight INTEGER NOT NULL DEFAULT 1,
    image_ref TEXT NOT NULL,
    description TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS user_cards(
    user_id INTEGER NOT NULL,
    card_id INTEGER NOT NULL,
    count INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY(user_id, card_id)
);
CREATE TABLE IF NOT EXISTS cooldowns(
    user_id INTEGER PRIMARY KEY,
    last_draw_ts INTEGER NOT NULL DEFAULT 0,
    last_attack_ts INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS daily_state(
    day TEXT PRIMARY KEY,
    raid_active INTEGER NOT NULL,
    raid_hp INTEGER NOT NULL,
    raid_hp_max INTEGER NOT NULL,
    raid_killed INTEGER NOT NULL DEFAULT 0,
    shop_seed INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS duels(
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    challenger_id INTEGER NOT NULL,
    opponent_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    created_ts INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS inventory_items(
    user_id INTEGER NOT NULL,
    item_id TEXT NOT NULL,
    item_type TEXT NOT NULL,
    name TEXT NOT NULL,
    power INTEGER NOT NULL DEFAULT 0,
    qty INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY(user_id, item_id)
);
CREATE TABLE IF NOT EXISTS travel(
    user_id INTEGER PRIMARY KEY,
    start_ts INTEGER NOT NULL,
    end_ts INTEGER NOT NULL,
    claimed INTEGER NOT NULL DEFAULT 0
);
`

// Store is a SQLite-backed game store. A single writer connection keeps
// every guarded single-statement update linearizable.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (and if needed creates) the game database at path.
func Open(path string, log *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if log == nil {
		log = slog.Default()
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// SQLite has a single writer anyway; one pooled connection avoids
	// SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Error("rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	return tx.Commit()
}
