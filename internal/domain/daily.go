package domain

import "time"

// DayKey formats t as the UTC calendar-date key used for all per-day state.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailyState is the shared per-day world row. The random fields are rolled
// exactly once when the day is first touched; only RaidHP and RaidKilled
// mutate afterwards.
type DailyState struct {
	Day        string
	RaidActive bool
	RaidHP     int
	RaidHPMax  int
	RaidKilled bool
	ShopSeed   int64
}

// RaidAlive reports whether the boss can still be attacked today.
func (d *DailyState) RaidAlive() bool {
	return d != nil && d.RaidActive && !d.RaidKilled && d.RaidHP > 0
}
