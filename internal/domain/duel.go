package domain

// DuelStatus is the lifecycle state of a duel challenge.
type DuelStatus string

const (
	// DuelPending is the initial state of a freshly created challenge.
	DuelPending DuelStatus = "pending"
	// DuelAccepted is terminal; the duel was resolved (including ties).
	DuelAccepted DuelStatus = "accepted"
	// DuelDeclined is terminal; the addressee refused.
	DuelDeclined DuelStatus = "declined"
)

// Duel is a two-party challenge resolved by a computed power score.
type Duel struct {
	ID           int64
	ChallengerID int64
	OpponentID   int64
	Status       DuelStatus
	CreatedAt    int64
}

// Payouts for a resolved duel.
const (
	DuelWinnerPrize = 20
	DuelLoserPrize  = 5
)

// DuelOutcome describes a resolved duel for the chat layer.
type DuelOutcome struct {
	Duel            Duel
	ChallengerPower int
	OpponentPower   int
	WinnerID        int64 // zero on a tie
	LoserID         int64 // zero on a tie
	Tie             bool
}
