package filesystem

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the attribute entries are ordered by.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByType     SortKey = "type"
	SortBySize     SortKey = "size"
	SortByModified SortKey = "modified"
)

// Direction is ascending or descending.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseSortKey normalises s. Unknown keys are kept and sort as a no-op.
func ParseSortKey(s string) SortKey {
	if s == "" {
		return SortByName
	}
	return SortKey(strings.ToLower(s))
}

// ParseDirection returns Descending for "desc" and Ascending for anything else.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Descending)) {
		return Descending
	}
	return Ascending
}

func comparator(key SortKey) func(a, b Entry) int {
	switch key {
	case SortByName:
		return func(a, b Entry) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortByType:
		return func(a, b Entry) int {
			return strings.Compare(strings.ToLower(a.Extension), strings.ToLower(b.Extension))
		}
	case SortBySize:
		return func(a, b Entry) int { return cmp.Compare(a.Size, b.Size) }
	case SortByModified:
		return func(a, b Entry) int { return a.Modified.Compare(b.Modified) }
	default:
		return nil
	}
}

// Order sorts entries in place and returns them. An empty key sorts by name.
// The ascending sort is stable; descending is the exact reverse of the
// ascending result, so equal entries come out in reverse scan order.
func Order(entries []Entry, key SortKey, dir Direction) []Entry {
	if key == "" {
		key = SortByName
	}
	if compare := comparator(key); compare != nil {
		slices.SortStableFunc(entries, compare)
	}
	if dir == Descending {
		slices.Reverse(entries)
	}
	return entries
}
