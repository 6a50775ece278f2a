package board

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/myriadtable/myriad/internal/card"
	"github.com/myriadtable/myriad/internal/deck"
	"github.com/myriadtable/myriad/internal/savefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestState(mainIDs ...string) *State {
	opts := DefaultOptions()
	opts.Rand = rand.New(rand.NewPCG(7, 11))
	s := New(opts)
	s.Main = NewDeck(mainIDs...)
	return s
}

func TestDrawThenMoveToTopRestoresDeck(t *testing.T) {
	s := newTestState("C001", "C002", "C003")
	front := s.Main.Front()
	length := s.Main.Len()

	c, err := s.Draw(deck.Main, true)
	require.NoError(t, err)
	assert.Same(t, front, c)
	assert.Equal(t, length-1, s.Main.Len())
	assert.Contains(t, s.Cards, c)

	moved, err := s.MoveToTop(c)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Same(t, front, s.Main.Front())
	assert.Equal(t, length, s.Main.Len())
	assert.Empty(t, s.Cards)
	assert.Nil(t, s.Selected())
}

func TestDrawEmptyDeck(t *testing.T) {
	s := newTestState()
	s.ClearDirty()

	c, err := s.Draw(deck.Main, true)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrEmptyDeck))
	assert.Equal(t, 0, s.Main.Len())
	assert.Empty(t, s.Cards)
	assert.False(t, s.Dirty(), "failed draw must not change state")
}

func TestDrawFaceDown(t *testing.T) {
	s := newTestState("C001")

	c, err := s.Draw(deck.Main, false)
	require.NoError(t, err)
	assert.False(t, c.FaceUp)
	assert.False(t, c.Revealed)
	assert.False(t, c.Rotated)
	assert.Equal(t, DrawPosition, c.Pos)
	assert.Same(t, c, s.Selected())
}

func TestThreeCardsAtSamePositionSpreadOut(t *testing.T) {
	s := newTestState()
	p := Point{X: 600, Y: 500}

	var cards []*CardInstance
	for i := 0; i < 3; i++ {
		cards = append(cards, s.Instantiate("C001", p))
	}

	seen := map[Point]bool{}
	for _, c := range cards {
		assert.False(t, seen[c.Pos], "duplicate position %v", c.Pos)
		seen[c.Pos] = true
		assert.True(t, Inside(c.Bounds(), s.Bounds()))
	}
	assert.Empty(t, s.Warnings())
}

func TestPlaceWithoutOverlapReflectsAtEdge(t *testing.T) {
	s := newTestState()
	corner := Point{X: DefaultWidth - CardWidth, Y: DefaultHeight - CardHeight}

	a := s.Instantiate("A", corner)
	b := s.Instantiate("B", corner)

	assert.Equal(t, corner, a.Pos)
	assert.NotEqual(t, a.Pos, b.Pos)
	assert.True(t, Inside(b.Bounds(), s.Bounds()))
}

func TestPlaceWithoutOverlapExhausted(t *testing.T) {
	// a board exactly one card big leaves nowhere to go
	opts := DefaultOptions()
	opts.Bounds = Size{W: CardWidth, H: CardHeight}
	opts.Rand = rand.New(rand.NewPCG(1, 1))
	core, logs := observer.New(zapcore.WarnLevel)
	opts.Logger = zap.New(core)
	s := New(opts)

	s.Instantiate("A", Point{})
	b := s.Instantiate("B", Point{})

	assert.Equal(t, Point{}, b.Pos)
	assert.Len(t, s.Cards, 2)
	warnings := s.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "placement exhausted")
	assert.Empty(t, s.Warnings(), "warnings are drained")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, warnings[0], entry.Message)
	assert.Equal(t, map[string]any{
		"card":     "B",
		"x":        int64(0),
		"y":        int64(0),
		"attempts": int64(maxPlaceAttempts),
	}, entry.ContextMap())
}

func TestRestoreLogsUnknownCards(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)
	s := New(opts)

	s.Restore(&savefile.Snapshot{Deck: []string{"GHOST", "GHOST"}}, card.NewCatalog())

	assert.Len(t, s.Warnings(), 1)
	require.Equal(t, 1, logs.FilterField(zap.String("card", "GHOST")).Len())
}

func TestSetLife(t *testing.T) {
	s := newTestState()
	assert.Zero(t, s.Life())

	s.ClearDirty()
	require.NoError(t, s.SetLife(8000))
	assert.Equal(t, 8000, s.Life())
	assert.True(t, s.Dirty())

	tests := []int{-1, MaxLife + 1}
	for _, n := range tests {
		s.ClearDirty()
		err := s.SetLife(n)
		assert.True(t, errors.Is(err, ErrLifeRange))
		assert.Equal(t, 8000, s.Life(), "refused values leave the counter alone")
		assert.False(t, s.Dirty())
	}

	require.NoError(t, s.SetLife(0))
	assert.Zero(t, s.Life())
}

func TestRotateTwiceRestores(t *testing.T) {
	s := newTestState()
	c := s.Instantiate("C001", Point{X: 100, Y: 100})
	orig := c.Bounds()

	require.NoError(t, s.Rotate(c))
	assert.True(t, c.Rotated)
	assert.Equal(t, Size{W: CardHeight, H: CardWidth}, c.Size())

	// the centre moves by at most half a pixel
	cx0, cy0 := 2*orig.X+orig.W, 2*orig.Y+orig.H
	r := c.Bounds()
	assert.InDelta(t, cx0, 2*r.X+r.W, 1)
	assert.InDelta(t, cy0, 2*r.Y+r.H, 1)

	require.NoError(t, s.Rotate(c))
	assert.Equal(t, orig, c.Bounds())
}

func TestRotateTwiceRestoresAtEdges(t *testing.T) {
	tests := []struct {
		name string
		at   Point
	}{
		{"top left corner", Point{X: 0, Y: 0}},
		{"left edge", Point{X: 5, Y: 300}},
		{"right edge", Point{X: DefaultWidth - CardWidth, Y: 300}},
		{"bottom right corner", Point{X: DefaultWidth - CardWidth, Y: DefaultHeight - CardHeight}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState()
			c := s.Instantiate("C001", tt.at)
			require.Equal(t, tt.at, c.Pos)

			require.NoError(t, s.Rotate(c))
			assert.True(t, Inside(c.Bounds(), s.Bounds()))
			require.NoError(t, s.Rotate(c))
			assert.Equal(t, tt.at, c.Pos)

			// and again, so repeated pairs do not creep
			require.NoError(t, s.Rotate(c))
			require.NoError(t, s.Rotate(c))
			assert.Equal(t, tt.at, c.Pos)

			require.NoError(t, s.Rotate(c))
			assert.Equal(t, 1, s.UnrotateAll())
			assert.Equal(t, tt.at, c.Pos)
		})
	}
}

func TestRotateAfterMoveUsesCentre(t *testing.T) {
	s := newTestState()
	c := s.Instantiate("C001", Point{X: 0, Y: 0})
	require.NoError(t, s.Rotate(c))
	require.NoError(t, s.MoveTo(c, Point{X: 300, Y: 300}))

	require.NoError(t, s.Rotate(c))
	assert.Equal(t, Point{X: 300 + rotateShift, Y: 300 - rotateShift}, c.Pos)
}

func TestRotateNotOnBoard(t *testing.T) {
	s := newTestState("C001")
	err := s.Rotate(s.Main.Front())
	assert.True(t, errors.Is(err, ErrNotOnBoard))
}

func TestReverseRevealIsMonotonic(t *testing.T) {
	s := newTestState("C001")
	c, err := s.Draw(deck.Main, false)
	require.NoError(t, err)

	require.NoError(t, s.Reverse(c))
	assert.True(t, c.FaceUp)
	assert.True(t, c.Revealed)

	require.NoError(t, s.Reverse(c))
	assert.False(t, c.FaceUp)
	assert.True(t, c.Revealed, "flipping back face down keeps it revealed")
}

func TestMoveToBottomResetsCard(t *testing.T) {
	s := newTestState("C001", "C002")
	c, err := s.Draw(deck.Main, false)
	require.NoError(t, err)
	require.NoError(t, s.Rotate(c))

	moved, err := s.MoveToBottom(c)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"C002", "C001"}, s.Main.IDs())
	assert.True(t, c.FaceUp)
	assert.False(t, c.Rotated)
	assert.True(t, c.Revealed)
}

func TestMoveToDeckHonoursRevealOption(t *testing.T) {
	opts := DefaultOptions()
	opts.RevealOnReturn = false
	s := New(opts)
	s.Main = NewDeck("C001")

	c, err := s.Draw(deck.Main, true)
	require.NoError(t, err)
	_, err = s.MoveToTop(c)
	require.NoError(t, err)
	assert.False(t, c.Revealed)
}

func TestMoveMarkerToDeckIsNoop(t *testing.T) {
	s := newTestState()
	m := s.AddMarker("note")

	moved, err := s.MoveToTop(m)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, 0, s.Main.Len())
	assert.Len(t, s.Markers, 1)
}

func TestZOrder(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 10, Y: 10})
	b := s.Instantiate("B", Point{X: 200, Y: 10})
	c := s.Instantiate("C", Point{X: 400, Y: 10})

	require.NoError(t, s.BringToFront(a))
	assert.Equal(t, []*CardInstance{b, c, a}, s.Cards)

	require.NoError(t, s.SendToBack(c))
	assert.Equal(t, []*CardInstance{c, b, a}, s.Cards)

	m1 := s.AddMarker("one")
	m2 := s.AddMarker("two")
	require.NoError(t, s.SendToBack(m2))
	assert.Equal(t, []Marker{m2, m1}, s.Markers)
}

func TestHitTest(t *testing.T) {
	s := newTestState()
	under := s.Instantiate("UNDER", Point{X: 100, Y: 100})
	over := s.Instantiate("OVER", Point{X: 120, Y: 120})

	assert.Same(t, over, s.HitTest(Point{X: 130, Y: 130}))
	assert.Same(t, under, s.HitTest(Point{X: 105, Y: 105}))
	assert.Nil(t, s.HitTest(Point{X: 500, Y: 50}))
	assert.Nil(t, s.HitTest(Point{X: 100 + CardWidth, Y: 105}), "right edge is exclusive")

	chip, err := s.AddChip("red")
	require.NoError(t, err)
	chip.Pos = Point{X: 125, Y: 125}
	assert.Same(t, chip, s.HitTest(Point{X: 130, Y: 130}), "markers are above cards")

	assert.Same(t, chip, s.Click(Point{X: 130, Y: 130}))
	assert.Same(t, chip, s.Selected())
	assert.Nil(t, s.Click(Point{X: 900, Y: 10}))
	assert.Nil(t, s.Selected())
}

func TestSelectRect(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 100, Y: 100})
	b := s.Instantiate("B", Point{X: 300, Y: 100})
	s.Instantiate("C", Point{X: 700, Y: 500})

	tests := []struct {
		name string
		a, b Point
		want []*CardInstance
	}{
		{"degenerate click", Point{X: 110, Y: 110}, Point{X: 114, Y: 114}, nil},
		{"thin drag", Point{X: 50, Y: 120}, Point{X: 400, Y: 123}, nil},
		{"covers two", Point{X: 50, Y: 50}, Point{X: 320, Y: 150}, []*CardInstance{a, b}},
		{"reversed corners", Point{X: 320, Y: 150}, Point{X: 50, Y: 50}, []*CardInstance{a, b}},
		{"touching edge counts", Point{X: 178, Y: 100}, Point{X: 200, Y: 150}, []*CardInstance{a}},
		{"empty area", Point{X: 500, Y: 10}, Point{X: 600, Y: 60}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.SelectRect(tt.a, tt.b))
		})
	}
}

func TestBulkOperations(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 100, Y: 100})
	b := s.Instantiate("B", Point{X: 300, Y: 200})
	sel := []*CardInstance{a, b}

	assert.Equal(t, 2, s.FaceDownAll(sel))
	assert.False(t, a.FaceUp)
	assert.True(t, a.Revealed, "face down keeps revealed")

	assert.Equal(t, 2, s.FaceUpAll(sel))
	assert.True(t, a.FaceUp && b.FaceUp)

	assert.Equal(t, 2, s.RotateAll(sel))
	assert.True(t, a.Rotated && b.Rotated)

	assert.Equal(t, 2, s.UnrotateAll())
	assert.Equal(t, Point{X: 100, Y: 100}, a.Pos)
	assert.Equal(t, Point{X: 300, Y: 200}, b.Pos)
}

func TestGather(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 100, Y: 100})
	other := s.Instantiate("O", Point{X: 800, Y: 10})
	b := s.Instantiate("B", Point{X: 300, Y: 200})

	assert.Equal(t, 2, s.Gather([]*CardInstance{a, b}, false))

	// bounding box 100..378 x 100..311 has centre (239, 205)
	want := Point{X: 239 - CardWidth/2, Y: 205 - CardHeight/2}
	assert.Equal(t, want, a.Pos)
	assert.Equal(t, want, b.Pos)
	assert.Equal(t, []*CardInstance{a, other, b}, s.Cards, "plain gather keeps z-order")

	s.Gather([]*CardInstance{a, b}, true)
	assert.Same(t, other, s.Cards[0], "shuffled gather moves the set on top")
	assert.ElementsMatch(t, []*CardInstance{a, b}, s.Cards[1:])
}

func TestDeleteClearsSelection(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 100, Y: 100})
	require.NoError(t, s.Delete(a))
	assert.Empty(t, s.Cards)
	assert.Nil(t, s.Selected())
	assert.True(t, errors.Is(s.Delete(a), ErrNotOnBoard))
}

func TestMoveToClamps(t *testing.T) {
	s := newTestState()
	a := s.Instantiate("A", Point{X: 100, Y: 100})

	require.NoError(t, s.MoveTo(a, Point{X: -50, Y: 5000}))
	assert.Equal(t, Point{X: 0, Y: DefaultHeight - CardHeight}, a.Pos)
}

func TestMarkers(t *testing.T) {
	s := newTestState()
	m := s.AddMarker("")
	assert.Equal(t, Size{W: MarkerMinWidth, H: MarkerMinHeight}, m.Size())
	assert.Equal(t, Point{X: DefaultWidth/2 - 60, Y: 648}, m.Pos)

	long := "a much longer marker text that needs room"
	require.NoError(t, s.SetMarkerText(m, long))
	tw, _ := MeasureText(long)
	assert.Equal(t, tw+20, m.W)
	assert.True(t, Inside(m.Bounds(), s.Bounds()))

	_, err := s.AddChip("purple")
	assert.True(t, errors.Is(err, ErrUnknownColor))

	chip, err := s.AddChip("green")
	require.NoError(t, err)
	assert.Equal(t, Size{W: ChipSize, H: ChipSize}, chip.Size())
	assert.Equal(t, Point{X: 471, Y: 648}, chip.Pos)
}

func TestLoadDeckSpreadsExtra(t *testing.T) {
	s := newTestState("OLD")
	list := &deck.List{
		Main:      []string{"C001", "C003"},
		Extra:     []string{"C002", "C004"},
		Resources: deck.Resources{Back: "b.png", Playmat: "p.png"},
	}

	s.LoadDeck(list, false)
	assert.Equal(t, []string{"C001", "C003"}, s.Main.IDs())
	assert.Equal(t, []string{"C002", "C004"}, s.Extra.IDs())
	assert.Equal(t, "b.png", s.Resources.Back)

	s.LoadDeck(list, true)
	assert.Equal(t, 0, s.Extra.Len())
	require.Len(t, s.Cards, 2)
	assert.Equal(t, Point{X: 20, Y: 600}, s.Cards[0].Pos)
	assert.Equal(t, Point{X: 35, Y: 600}, s.Cards[1].Pos)
}

func TestTakeFromDeck(t *testing.T) {
	s := newTestState("C001", "C002", "C003")
	c, err := s.TakeFromDeck(deck.Main, 1)
	require.NoError(t, err)
	assert.Equal(t, "C002", c.ID)
	assert.Equal(t, []string{"C001", "C003"}, s.Main.IDs())

	_, err = s.TakeFromDeck(deck.Main, 9)
	assert.True(t, errors.Is(err, ErrIndexOutRange))
}

func TestShuffleIsPermutation(t *testing.T) {
	s := newTestState("A", "B", "C", "D", "E", "F")
	require.NoError(t, s.Shuffle(deck.Main))
	assert.ElementsMatch(t, []string{"A", "B", "C", "D", "E", "F"}, s.Main.IDs())

	assert.True(t, errors.Is(s.Shuffle(deck.Extra), ErrEmptyDeck))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cat := card.NewCatalog(card.Card{ID: "C001", Name: "Dragon"}, card.Card{ID: "C002", Name: "Phoenix"})
	s := newTestState("C002", "C001")
	s.Extra = NewDeck("C002")

	a := s.Instantiate("C001", Point{X: 100, Y: 120})
	b := s.Instantiate("C002", Point{X: 500, Y: 450})
	require.NoError(t, s.Rotate(b))
	require.NoError(t, s.Reverse(a))
	m := s.AddMarker("LP 8000\nturn 2")
	_, err := s.AddChip("blue")
	require.NoError(t, err)

	require.NoError(t, s.SetLife(7400))

	var buf bytes.Buffer
	require.NoError(t, savefile.Write(&buf, s.Snapshot()))

	snap, warnings, err := savefile.Read(&buf)
	require.NoError(t, err)
	require.Empty(t, warnings)

	loaded := newTestState()
	loaded.Restore(snap, cat)
	assert.Empty(t, loaded.Warnings())

	require.Len(t, loaded.Cards, 2)
	for i, c := range s.Cards {
		lc := loaded.Cards[i]
		assert.Equal(t, c.ID, lc.ID)
		assert.Equal(t, c.Pos, lc.Pos)
		assert.Equal(t, [3]bool{c.Rotated, c.FaceUp, c.Revealed}, [3]bool{lc.Rotated, lc.FaceUp, lc.Revealed})
	}
	require.Len(t, loaded.Markers, 2)
	lm := loaded.Markers[0].(*TextMarker)
	assert.Equal(t, m.Text, lm.Text)
	assert.Equal(t, m.Bounds(), lm.Bounds())
	assert.Equal(t, "blue", loaded.Markers[1].(*ChipMarker).Color)
	assert.Equal(t, s.Main.IDs(), loaded.Main.IDs())
	assert.Equal(t, s.Extra.IDs(), loaded.Extra.IDs())
	assert.Equal(t, 7400, loaded.Life())
}

func TestRestoreClampsAndWarns(t *testing.T) {
	snap := &savefile.Snapshot{
		Cards: []savefile.CardRecord{{ID: "GHOST", X: 2000, Y: -40, FaceUp: true, Revealed: true}},
		Markers: []savefile.MarkerRecord{
			{Type: "sticker", Text: "x", X: 5, Y: 5, Width: 120, Height: 50},
			{Type: "chip", X: 5, Y: 5, Width: 18, Height: 18, Color: "mauve"},
		},
	}
	s := newTestState()
	s.Restore(snap, card.NewCatalog())

	require.Len(t, s.Cards, 1)
	assert.Equal(t, Point{X: DefaultWidth - CardWidth, Y: 0}, s.Cards[0].Pos)
	assert.IsType(t, &TextMarker{}, s.Markers[0])
	assert.Equal(t, "white", s.Markers[1].(*ChipMarker).Color)
	assert.Len(t, s.Warnings(), 3)
}
