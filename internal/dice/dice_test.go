package dice

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRollRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := map[int]bool{}
	for range 600 {
		v := Roll(rng)
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 6)
		seen[v] = true
	}
	assert.Len(t, seen, 6)
}

func TestCoin(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	counts := map[Side]int{}
	for range 200 {
		counts[Coin(rng)]++
	}
	assert.Positive(t, counts[Heads])
	assert.Positive(t, counts[Tails])
	assert.Equal(t, "heads", Heads.String())
	assert.Equal(t, "tails", Tails.String())
}
