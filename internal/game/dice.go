package game

import "math/rand/v2"

// Roller is the unseeded randomness source behind draws, duel variance and
// travel rewards. Kept as an interface so tests can script outcomes; the
// deterministic per-day shop generator is separate and always rebuilt from
// the stored seed (see shopRand).
type Roller interface {
	// IntN returns a uniform int in [0, n).
	IntN(n int) int
	// Float64 returns a uniform float64 in [0, 1).
	Float64() float64
}

type systemRoller struct{}

func (systemRoller) IntN(n int) int   { return rand.IntN(n) }
func (systemRoller) Float64() float64 { return rand.Float64() }

// NewRoller returns the process-wide fair randomness source.
func NewRoller() Roller { return systemRoller{} }

// shopRand builds the per-day deterministic generator from the stored shop
// seed, so every caller sees the same listing regardless of call order.
func shopRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// rollIn picks a uniform value from choices using r.
func rollIn(r Roller, choices []int) int {
	return choices[r.IntN(len(choices))]
}
