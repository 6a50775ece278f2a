package board

import (
	"fmt"

	"go.uber.org/zap"
)

// Overlap resolution tuning
const (
	placeStepX       = 10
	placeStepY       = 2
	maxPlaceAttempts = 100
	jitterEvery      = 10
	jitterRange      = 5
)

// PlaceWithoutOverlap nudges c until no other board card sits at exactly
// the same position. The step reflects off the board edges and every few
// attempts is reset with a small random jitter. After maxPlaceAttempts the
// current position is kept and a warning is recorded; it reports whether
// a free position was found.
func (s *State) PlaceWithoutOverlap(c *CardInstance) bool {
	dx, dy := placeStepX, placeStepY
	size := c.Size()

	for attempt := 0; attempt < maxPlaceAttempts; attempt++ {
		if s.collision(c) == nil {
			return true
		}

		c.Pos.X += dx
		c.Pos.Y += dy
		if c.Pos.X+size.W > s.bounds.W || c.Pos.X < 0 {
			c.Pos.X -= 2 * dx
			dx = -dx
		}
		if c.Pos.Y+size.H > s.bounds.H || c.Pos.Y < 0 {
			c.Pos.Y -= 2 * dy
			dy = -dy
		}
		c.Pos = Clamp(c.Pos, size, s.bounds)

		if (attempt+1)%jitterEvery == 0 {
			dx, dy = placeStepX, placeStepY
			c.Pos.X += s.rng.IntN(2*jitterRange+1) - jitterRange
			c.Pos.Y += s.rng.IntN(2*jitterRange+1) - jitterRange
			c.Pos = Clamp(c.Pos, size, s.bounds)
		}
	}

	if s.collision(c) == nil {
		return true
	}
	s.warn(fmt.Sprintf("placement exhausted for %s at (%d,%d), card may overlap", c.ID, c.Pos.X, c.Pos.Y),
		zap.String("card", c.ID),
		zap.Int("x", c.Pos.X),
		zap.Int("y", c.Pos.Y),
		zap.Int("attempts", maxPlaceAttempts))
	return false
}

// collision returns a board card other than c at exactly c's position
func (s *State) collision(c *CardInstance) *CardInstance {
	for _, other := range s.Cards {
		if other != c && other.Pos == c.Pos {
			return other
		}
	}
	return nil
}
