package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kartka-game/kartka-bot/internal/domain"
)

// EnsureDay atomically gets or creates the daily world row. roll carries
// the freshly rolled random fields; they are only used when this call wins
// the insert, so concurrent first access cannot double-initialize a day.
func (s *Store) EnsureDay(ctx context.Context, roll *domain.DailyState) (*domain.DailyState, error) {
	const insert = `
		INSERT OR IGNORE INTO daily_state(day, raid_active, raid_hp, raid_hp_max, raid_killed, shop_seed)
		VALUES(?,?,?,?,0,?)
	`
	if _, err := s.db.ExecContext(ctx, insert,
		roll.Day, boolToInt(roll.RaidActive), roll.RaidHP, roll.RaidHPMax, roll.ShopSeed,
	); err != nil {
		return nil, fmt.Errorf("insert daily state: %w", err)
	}

	return s.GetDay(ctx, roll.Day)
}

// GetDay reads the daily row without creating it.
func (s *Store) GetDay(ctx context.Context, day string) (*domain.DailyState, error) {
	const query = `
		SELECT day, raid_active, raid_hp, raid_hp_max, raid_killed, shop_seed
		FROM daily_state WHERE day = ?
	`
	var (
		ds             domain.DailyState
		active, killed int
	)
	err := s.db.QueryRowContext(ctx, query, day).Scan(&ds.Day, &active, &ds.RaidHP, &ds.RaidHPMax, &killed, &ds.ShopSeed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select daily state: %w", err)
	}
	ds.RaidActive = active == 1
	ds.RaidKilled = killed == 1
	return &ds, nil
}

// ApplyRaidDamage drains boss HP with a single guarded statement so
// concurrent attacks never lose updates. The killed flag flips in the same
// statement, so exactly one attack observes killedNow. ErrConflict means
// the raid was not alive when the update ran.
func (s *Store) ApplyRaidDamage(ctx context.Context, day string, damage int) (hpLeft int, killedNow bool, err error) {
	const query = `
		UPDATE daily_state
		SET raid_hp = MAX(0, raid_hp - ?),
		    raid_killed = CASE WHEN raid_hp - ? <= 0 THEN 1 ELSE raid_killed END
		WHERE day = ? AND raid_active = 1 AND raid_killed = 0 AND raid_hp > 0
		RETURNING raid_hp, raid_killed
	`
	var killed int
	scanErr := s.db.QueryRowContext(ctx, query, damage, damage, day).Scan(&hpLeft, &killed)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return 0, false, ErrConflict
	}
	if scanErr != nil {
		return 0, false, fmt.Errorf("apply raid damage: %w", scanErr)
	}

	// The guard admits only living raids, so killed=1 here is the unique
	// kill transition.
	return hpLeft, killed == 1, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
