package card

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := `# id,name,ex
C001,Dragon,0
C002,Phoenix,1

broken-line
,NoID
C003, Golem
C001,Red Dragon,0
`
	c, warnings, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"C001", "C002", "C003"}, c.IDs())
	assert.Equal(t, "Red Dragon", c.Lookup("C001").Name, "last duplicate wins")
	assert.Equal(t, Extra, c.Lookup("C002").Category)
	assert.Equal(t, Ordinary, c.Lookup("C003").Category)
	assert.Equal(t, "Golem", c.Lookup("C003").Name)
	assert.Len(t, warnings, 3)
}

func TestParseLongLine(t *testing.T) {
	name := strings.Repeat("n", 100*1024)
	input := "C001," + name + ",0\nC002,Phoenix,1\n"

	c, warnings, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, name, c.Lookup("C001").Name)
	assert.True(t, c.Has("C002"))
}

func TestLookupUnknown(t *testing.T) {
	c := NewCatalog(Card{ID: "C001", Name: "Dragon"})

	got := c.Lookup("Z999")
	assert.False(t, got.Known())
	assert.Equal(t, "Z999", got.ID)
	assert.Equal(t, UnknownName, got.Name)

	assert.True(t, c.Lookup("C001").Known())

	var nilCatalog *Catalog
	assert.False(t, nilCatalog.Lookup("C001").Known())
	assert.False(t, nilCatalog.Has("C001"))
}

func TestLoadMissingFile(t *testing.T) {
	c, warnings, err := Load(filepath.Join(t.TempDir(), "CardList.csv"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not found")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CardList.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeffC001,Dragon,0\nC002,Phoenix,1\n"), 0644))

	c, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.True(t, c.Has("C001"))
	assert.Equal(t, Extra, c.Lookup("C002").Category)
}

func TestSearch(t *testing.T) {
	c := NewCatalog(
		Card{ID: "C001", Name: "Dragon"},
		Card{ID: "C002", Name: "Phoenix", Category: Extra},
		Card{ID: "D010", Name: "Dragon Knight"},
	)

	tests := []struct {
		name   string
		filter string
		want   []string
	}{
		{"empty filter matches all", "", []string{"C001", "C002", "D010"}},
		{"name match ignores case", "dragon", []string{"C001", "D010"}},
		{"id match", "c00", []string{"C001", "C002"}},
		{"no match", "unicorn", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, cd := range c.Search(tt.filter) {
				got = append(got, cd.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
