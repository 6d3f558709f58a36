// internal/grid/sort.go
package grid

import (
	"slices"

	"github.com/nhath/frogtable/internal/rpc"
)

// SortSpec sorts by one column. Position in the list is priority.
type SortSpec struct {
	ColumnID  string
	Direction rpc.Direction
}

// SortDirection returns the direction a column is sorted in and its
// priority, or ok=false when it is unsorted
func SortDirection(specs []SortSpec, id string) (dir rpc.Direction, priority int, ok bool) {
	i := slices.IndexFunc(specs, func(s SortSpec) bool { return s.ColumnID == id })
	if i < 0 {
		return "", 0, false
	}
	return specs[i].Direction, i, true
}

// ToggleSort returns the sort list after toggling column id.
//
// Single mode cycles none, asc, desc, none and replaces the whole list.
// Multi mode appends the column ascending, flips it to descending in place,
// or removes it, leaving other entries in their order.
func ToggleSort(specs []SortSpec, id string, multi bool) []SortSpec {
	dir, i, sorted := SortDirection(specs, id)

	if !multi {
		switch {
		case !sorted:
			return []SortSpec{{ColumnID: id, Direction: rpc.Asc}}
		case dir == rpc.Asc:
			return []SortSpec{{ColumnID: id, Direction: rpc.Desc}}
		default:
			return []SortSpec{}
		}
	}

	next := slices.Clone(specs)
	switch {
	case !sorted:
		return append(next, SortSpec{ColumnID: id, Direction: rpc.Asc})
	case dir == rpc.Asc:
		next[i].Direction = rpc.Desc
		return next
	default:
		return slices.Delete(next, i, i+1)
	}
}

// NextSortLabel describes what toggling a column would do, for header hints
func NextSortLabel(specs []SortSpec, id string) string {
	dir, _, sorted := SortDirection(specs, id)
	switch {
	case !sorted:
		return "asc"
	case dir == rpc.Asc:
		return "desc"
	default:
		return "clear"
	}
}
