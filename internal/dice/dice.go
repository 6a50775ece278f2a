// Package dice rolls a six-sided die and tosses a coin.
package dice

import "math/rand/v2"

// Side is a coin face
type Side int

const (
	Heads Side = iota
	Tails
)

func (s Side) String() string {
	if s == Heads {
		return "heads"
	}
	return "tails"
}

// Roll returns a uniform value in 1..6
func Roll(rng *rand.Rand) int {
	return rng.IntN(6) + 1
}

// Coin returns heads or tails with equal probability
func Coin(rng *rand.Rand) Side {
	return Side(rng.IntN(2))
}
