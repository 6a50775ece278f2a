package deck

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/myriadtable/myriad/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *card.Catalog {
	return card.NewCatalog(
		card.Card{ID: "C001", Name: "Dragon", Category: card.Ordinary},
		card.Card{ID: "C002", Name: "Phoenix", Category: card.Extra},
		card.Card{ID: "C003", Name: "Golem", Category: card.Ordinary},
	)
}

func TestReadScenario(t *testing.T) {
	body := "C001\n[EX]\nC002\n[Resource]\nreverse.png\nplaymat.png"

	l, warnings, err := Read(strings.NewReader(body), testCatalog())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"C001"}, l.Main)
	assert.Equal(t, []string{"C002"}, l.Extra)
	assert.Equal(t, Resources{Back: "reverse.png", Playmat: "playmat.png"}, l.Resources)
}

func TestRead(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantMain     []string
		wantExtra    []string
		wantRes      Resources
		wantWarnings int
	}{
		{
			name:     "main only, default resources",
			input:    "C001\nC003\n\nC001\n",
			wantMain: []string{"C001", "C003", "C001"},
			wantRes:  DefaultResources(),
		},
		{
			name:         "unknown ids skipped",
			input:        "C001\nX999\n[EX]\nC002\nY000\n",
			wantMain:     []string{"C001"},
			wantExtra:    []string{"C002"},
			wantRes:      DefaultResources(),
			wantWarnings: 2,
		},
		{
			name:      "single resource line keeps default playmat",
			input:     "[EX]\nC002\n[Resource]\nblue.png\n",
			wantExtra: []string{"C002"},
			wantRes:   Resources{Back: "blue.png", Playmat: DefaultPlaymat},
		},
		{
			name:         "extra resource lines warned",
			input:        "C001\n[Resource]\na.png\nb.png\nc.png\n",
			wantMain:     []string{"C001"},
			wantRes:      Resources{Back: "a.png", Playmat: "b.png"},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, warnings, err := Read(strings.NewReader(tt.input), testCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.wantMain, l.Main)
			assert.Equal(t, tt.wantExtra, l.Extra)
			assert.Equal(t, tt.wantRes, l.Resources)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

func TestReadWithoutCatalogKeepsEverything(t *testing.T) {
	l, warnings, err := Read(strings.NewReader("X1\nX2\n"), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"X1", "X2"}, l.Main)
}

func TestReadLongLineIsSkipped(t *testing.T) {
	body := "C001\n" + strings.Repeat("Z", 100*1024) + "\nC003\n"

	l, warnings, err := Read(strings.NewReader(body), testCatalog())
	require.NoError(t, err)
	assert.Len(t, warnings, 1, "the oversized id is not in the catalog")
	assert.Equal(t, []string{"C001", "C003"}, l.Main)
}

func TestWrite(t *testing.T) {
	l := New()
	l.AddMain("C001")
	l.AddMain("C003")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, l))
	assert.Equal(t, "C001\nC003\n[Resource]\nreverse.png\nplaymat.png\n", buf.String())

	l.AddExtra("C002")
	buf.Reset()
	require.NoError(t, Write(&buf, l))
	assert.Equal(t, "C001\nC003\n[EX]\nC002\n[Resource]\nreverse.png\nplaymat.png\n", buf.String())
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck", "nested", "mine.txt")
	l := New()
	l.AddMain("C001")
	l.AddExtra("C002")
	l.Resources.Back = "blue.png"

	require.NoError(t, WriteFile(path, l))

	got, warnings, err := ReadFile(path, testCatalog())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, l, got)
}

func TestEditorOperations(t *testing.T) {
	cat := testCatalog()
	l := New()

	assert.Equal(t, Main, l.AddAuto("C003", cat))
	assert.Equal(t, Extra, l.AddAuto("C002", cat))
	assert.Equal(t, Main, l.AddAuto("C001", cat))
	assert.Equal(t, Main, l.AddAuto("NOPE", cat))

	assert.Equal(t, []string{"C003", "C001", "NOPE"}, l.Main)
	assert.Equal(t, []string{"C002"}, l.Extra)

	l.Sort(Main)
	assert.Equal(t, []string{"C001", "C003", "NOPE"}, l.Main)

	id, err := l.Remove(Main, 2)
	require.NoError(t, err)
	assert.Equal(t, "NOPE", id)

	_, err = l.Remove(Extra, 5)
	assert.Error(t, err)

	m, e := l.Counts()
	assert.Equal(t, 2, m)
	assert.Equal(t, 1, e)
}

func TestGacha(t *testing.T) {
	cat := testCatalog()
	rng := rand.New(rand.NewPCG(1, 2))

	l, err := Gacha(cat, GachaSize, rng)
	require.NoError(t, err)

	m, e := l.Counts()
	assert.Equal(t, GachaSize, m+e)
	assert.True(t, isSorted(l.Main))
	assert.True(t, isSorted(l.Extra))
	for _, id := range l.Extra {
		assert.Equal(t, "C002", id)
	}
	for _, id := range l.Main {
		assert.NotEqual(t, "C002", id)
	}

	_, err = Gacha(card.NewCatalog(), 10, rng)
	assert.Error(t, err)
}

func TestDefaultFileName(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "deck_20250304_050607.txt", DefaultFileName(now))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("ex")
	require.NoError(t, err)
	assert.Equal(t, Extra, k)

	_, err = ParseKind("side")
	assert.Error(t, err)
}

func isSorted(ids []string) bool {
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			return false
		}
	}
	return true
}
