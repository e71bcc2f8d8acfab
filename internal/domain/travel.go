package domain

// Travel is a per-user timed deferred-reward window. A user has at most one
// row; starting a new travel overwrites a finished or claimed one.
type Travel struct {
	UserID  int64
	StartTS int64
	EndTS   int64
	Claimed bool
}

// Running reports whether the window is still in progress at now.
func (t *Travel) Running(now int64) bool {
	return t != nil && !t.Claimed && now < t.EndTS
}

// Claimable reports whether the reward can be collected at now.
func (t *Travel) Claimable(now int64) bool {
	return t != nil && !t.Claimed && now >= t.EndTS
}

// Travel tuning constants.
const (
	TravelMinHours   = 1
	TravelMaxHours   = 12
	TravelMinCoins   = 20
	TravelMaxCoins   = 120
	TravelBoostHours = 6
)
