package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/myriadtable/myriad/internal/board"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIsInvolution(t *testing.T) {
	bounds := board.Size{W: 960, H: 720}
	rects := []board.Rect{
		{X: 0, Y: 0, W: 78, H: 111},
		{X: 882, Y: 609, W: 78, H: 111},
		{X: 123, Y: 456, W: 111, H: 78},
		{X: 471, Y: 648, W: 18, H: 18},
	}

	for _, r := range rects {
		m := Rect(r, bounds)
		assert.True(t, board.Inside(m, bounds))
		assert.Equal(t, r, Rect(m, bounds))
	}

	assert.Equal(t, board.Rect{X: 960 - 178, Y: 720 - 311, W: 78, H: 111},
		Rect(board.Rect{X: 100, Y: 200, W: 78, H: 111}, bounds))
}

func TestProject(t *testing.T) {
	s := board.New(board.DefaultOptions())
	s.Main = board.NewDeck("C009", "C010")

	up := s.Instantiate("UP", board.Point{X: 100, Y: 100})
	down := s.Instantiate("DOWN", board.Point{X: 300, Y: 100})
	down.FaceUp = false
	hand := s.Instantiate("HAND", board.Point{X: 300, Y: 500})

	_, err := s.AddChip("red")
	require.NoError(t, err)
	s.AddMarker("note")

	require.NoError(t, s.SetLife(4000))

	v := Project(s, DefaultHandThreshold)
	assert.Equal(t, 2, v.DeckCount)
	assert.Equal(t, 4000, v.Life)
	require.Len(t, v.Items, 5)

	assert.Equal(t, "UP", v.Items[0].ID)
	assert.False(t, v.Items[0].ShowBack)
	assert.Equal(t, Rect(up.Bounds(), s.Bounds()), v.Items[0].Rect)

	assert.True(t, v.Items[1].ShowBack, "face-down card shows its back")
	assert.True(t, v.Items[2].ShowBack, "card in hand area shows its back")
	assert.True(t, hand.FaceUp)

	assert.Equal(t, KindMarker, v.Items[3].Kind, "plain markers before chips")
	assert.Equal(t, "note", v.Items[3].Text)
	assert.Equal(t, KindChip, v.Items[4].Kind)
	assert.Equal(t, "red", v.Items[4].Color)
}

func TestHiddenThreshold(t *testing.T) {
	c := board.NewCard("C001")
	c.Pos.Y = DefaultHandThreshold
	assert.False(t, Hidden(c, DefaultHandThreshold))
	c.Pos.Y++
	assert.True(t, Hidden(c, DefaultHandThreshold))
}

func TestRefresherTick(t *testing.T) {
	s := board.New(board.DefaultOptions())
	draws := 0
	r := NewRefresher(s, 0, DefaultHandThreshold, func(View) { draws++ })
	assert.Equal(t, DefaultInterval, r.Interval)

	assert.True(t, r.Tick(), "new state is drawn once")
	assert.False(t, r.Tick(), "nothing changed")
	assert.Equal(t, 1, draws)

	s.ClearDirty()
	s.Instantiate("C001", board.Point{X: 10, Y: 10})
	assert.True(t, r.Tick())
	assert.Equal(t, 2, draws)
	assert.True(t, s.Dirty(), "the primary view's flag is left alone")

	// the primary view clearing its flag does not hide a change from the mirror
	require.NoError(t, s.SetLife(100))
	s.ClearDirty()
	assert.True(t, r.Tick())
	assert.False(t, r.Tick())
	assert.Equal(t, 3, draws)
}

func TestRefresherRunAppliesUpdates(t *testing.T) {
	s := board.New(board.DefaultOptions())
	views := make(chan View, 16)
	r := NewRefresher(s, 5*time.Millisecond, DefaultHandThreshold, func(v View) { views <- v })

	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan Update)
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, updates) }()

	first := <-views
	assert.Empty(t, first.Items)

	updates <- func(s *board.State) { s.Instantiate("C001", board.Point{X: 10, Y: 10}) }

	select {
	case v := <-views:
		require.Len(t, v.Items, 1)
		assert.Equal(t, "C001", v.Items[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no redraw after update")
	}

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}
