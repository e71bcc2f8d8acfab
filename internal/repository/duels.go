package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// CreateDuel records a pending challenge and returns its id.
func (s *Store) CreateDuel(ctx context.Context, challengerID, opponentID, now int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO duels(challenger_id, opponent_id, status, created_ts) VALUES(?,?,?,?)`,
		challengerID, opponentID, string(domain.DuelPending), now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert duel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("duel insert id: %w", err)
	}
	return id, nil
}

// GetDuel fetches a duel by id.
func (s *Store) GetDuel(ctx context.Context, id int64) (*domain.Duel, error) {
	var d domain.Duel
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, challenger_id, opponent_id, status, created_ts FROM duels WHERE id = ?`, id,
	).Scan(&d.ID, &d.ChallengerID, &d.OpponentID, &status, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select duel: %w", err)
	}
	d.Status = domain.DuelStatus(status)
	return &d, nil
}

// ResolveDuel marks a pending duel accepted and pays out both parties as
// one transaction. winnerID/loserID of zero means a tie with no payout.
// ErrConflict means the duel was already resolved by someone else.
func (s *Store) ResolveDuel(ctx context.Context, id, winnerID, loserID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := markDuel(ctx, tx, id, domain.DuelAccepted); err != nil {
			return err
		}

		if winnerID == 0 {
			return nil
		}

		if err := addCoins(ctx, tx, winnerID, domain.DuelWinnerPrize); err != nil {
			return err
		}
		return addCoins(ctx, tx, loserID, domain.DuelLoserPrize)
	})
}

// DeclineDuel marks a pending duel declined with no side effects.
func (s *Store) DeclineDuel(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return markDuel(ctx, tx, id, domain.DuelDeclined)
	})
}

func markDuel(ctx context.Context, tx *sql.Tx, id int64, status domain.DuelStatus) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE duels SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(domain.DuelPending),
	)
	if err != nil {
		return fmt.Errorf("update duel status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflict
	}
	return nil
}
