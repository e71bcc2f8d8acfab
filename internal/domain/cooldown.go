package domain

// CooldownKind identifies a rate-limited action.
type CooldownKind string

const (
	// CooldownDraw gates card draws.
	CooldownDraw CooldownKind = "draw"
	// CooldownAttack gates raid attacks.
	CooldownAttack CooldownKind = "attack"
)

// Cooldown intervals in seconds.
const (
	DrawCooldownSeconds   = 900
	AttackCooldownSeconds = 20
)

// Interval returns the minimum seconds between uses of the action.
func (k CooldownKind) Interval() int64 {
	switch k {
	case CooldownDraw:
		return DrawCooldownSeconds
	case CooldownAttack:
		return AttackCooldownSeconds
	}
	return 0
}

// Cooldown tracks the last use of each rate-limited action per user.
// Zero timestamps always permit a first action.
type Cooldown struct {
	UserID       int64
	LastDrawTS   int64
	LastAttackTS int64
}
