package mirror

import (
	"context"
	"time"

	"github.com/myriadtable/myriad/internal/board"
)

// DefaultInterval is the refresh period used when none is configured
const DefaultInterval = 120 * time.Millisecond

// Update is a mutation applied to the state by the refresher's goroutine
type Update func(*board.State)

// Refresher redraws the mirrored view when the state has changed.
//
// It polls the state's version on a fixed interval rather than redrawing
// with every change, and leaves the dirty flag to the primary view. While Run is active the refresher's
// goroutine is the only one touching the state: other goroutines hand
// it mutations through the updates channel.
type Refresher struct {
	Interval  time.Duration
	Threshold int
	Draw      func(View)

	state *board.State
	drawn uint64
}

// NewRefresher returns a refresher for s
func NewRefresher(s *board.State, interval time.Duration, threshold int, draw func(View)) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Refresher{Interval: interval, Threshold: threshold, Draw: draw, state: s}
}

// Tick redraws once if the state changed since the last draw and reports
// whether it did
func (r *Refresher) Tick() bool {
	version := r.state.Version()
	if version == r.drawn {
		return false
	}
	r.drawn = version
	v := Project(r.state, r.Threshold)
	if r.Draw != nil {
		r.Draw(v)
	}
	return true
}

// Run polls until ctx is done, applying updates as they arrive
func (r *Refresher) Run(ctx context.Context, updates <-chan Update) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	r.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			u(r.state)
		case <-ticker.C:
			r.Tick()
		}
	}
}
