package filesystem

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleEntries() []Entry {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return []Entry{
		{Name: "beta.TXT", Kind: KindFile, Size: 10, Modified: base.Add(2 * time.Hour), Extension: "txt"},
		{Name: "Alpha.md", Kind: KindFile, Size: 10, Modified: base, Extension: "md"},
		{Name: "gamma", Kind: KindDirectory, Modified: base.Add(time.Hour)},
		{Name: "alpha.md", Kind: KindFile, Size: 3, Modified: base, Extension: "md"},
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name string
		key  SortKey
		dir  Direction
		want []string
	}{
		{"name asc is case-insensitive and stable", SortByName, Ascending, []string{"Alpha.md", "alpha.md", "beta.TXT", "gamma"}},
		{"name desc reverses ties", SortByName, Descending, []string{"gamma", "beta.TXT", "alpha.md", "Alpha.md"}},
		{"empty key sorts by name", "", Ascending, []string{"Alpha.md", "alpha.md", "beta.TXT", "gamma"}},
		{"type asc", SortByType, Ascending, []string{"gamma", "Alpha.md", "alpha.md", "beta.TXT"}},
		{"size asc keeps scan order on ties", SortBySize, Ascending, []string{"gamma", "alpha.md", "beta.TXT", "Alpha.md"}},
		{"size desc is exact reverse", SortBySize, Descending, []string{"Alpha.md", "beta.TXT", "alpha.md", "gamma"}},
		{"modified asc", SortByModified, Ascending, []string{"Alpha.md", "alpha.md", "gamma", "beta.TXT"}},
		{"unknown key keeps scan order", SortKey("owner"), Ascending, []string{"beta.TXT", "Alpha.md", "gamma", "alpha.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Order(sampleEntries(), tt.key, tt.dir)))
		})
	}
}

func TestOrderDescendingIsReverseOfAscending(t *testing.T) {
	for _, key := range []SortKey{SortByName, SortByType, SortBySize, SortByModified} {
		asc := names(Order(sampleEntries(), key, Ascending))
		desc := names(Order(sampleEntries(), key, Descending))
		slices.Reverse(desc)
		assert.Equal(t, asc, desc, "key %s", key)
	}
}

func TestParseSortOptions(t *testing.T) {
	assert.Equal(t, SortByName, ParseSortKey(""))
	assert.Equal(t, SortBySize, ParseSortKey("SIZE"))
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection("DESC"))
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Ascending, ParseDirection("sideways"))
}
