package layout

import (
	"sort"

	"github.com/klokku/calgrid/pkg/event"
)

// EventLayout places one timed event horizontally inside its day column.
// Event points into the slice passed to Compute and must be treated as read
// only.
type EventLayout struct {
	Event        *event.Event
	Column       int
	TotalColumns int
	Width        float64
	Left         float64
}

// Overlaps reports whether a and b occupy intersecting time on the same day.
// Intervals are half-open, so an event ending at 10:00 does not overlap one
// starting at 10:00. All-day events overlap nothing, including each other.
func Overlaps(a, b event.Event) bool {
	if a.Date != b.Date {
		return false
	}
	if a.IsAllDay || b.IsAllDay {
		return false
	}
	return a.StartMinutes() < b.EndMinutes() && b.StartMinutes() < a.EndMinutes()
}

// Compute lays out the events of a single day. The caller is expected to have
// filtered out other days and all-day events; all-day events that slip through
// come back as full width singletons. The input is never modified.
func Compute(events []event.Event) []EventLayout {
	layouts := make([]EventLayout, 0, len(events))
	for _, group := range GroupByOverlap(events) {
		if len(group) == 1 {
			layouts = append(layouts, EventLayout{
				Event:        group[0],
				Column:       0,
				TotalColumns: 1,
				Width:        1,
				Left:         0,
			})
			continue
		}
		layouts = append(layouts, Emit(AssignColumns(group))...)
	}
	return layouts
}

// GroupByOverlap partitions events into connected components of the overlap
// relation. A chain A-B-C lands in one group even when A and C are disjoint.
// Each group is sorted by start time; events starting together keep their
// input order.
func GroupByOverlap(events []event.Event) [][]*event.Event {
	visited := make([]bool, len(events))
	var groups [][]*event.Event

	for i := range events {
		if visited[i] {
			continue
		}
		visited[i] = true
		members := []int{i}
		group := []*event.Event{&events[i]}

		for added := true; added; {
			added = false
			for j := range events {
				if visited[j] || !overlapsAny(events[j], group) {
					continue
				}
				visited[j] = true
				members = append(members, j)
				group = append(group, &events[j])
				added = true
			}
		}

		groups = append(groups, sortByStart(events, members))
	}
	return groups
}

// AssignColumns places every event of a start-sorted group into the first
// column holding nothing it overlaps, opening a new column when none fits.
// This is first-fit, not an optimal coloring, and callers depend on the
// exact placement it produces.
func AssignColumns(group []*event.Event) [][]*event.Event {
	var columns [][]*event.Event
	for _, e := range group {
		placed := false
		for c := range columns {
			if !overlapsAny(*e, columns[c]) {
				columns[c] = append(columns[c], e)
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []*event.Event{e})
		}
	}
	return columns
}

// Emit turns column assignments into fractional widths and offsets. Layouts
// come out column by column.
func Emit(columns [][]*event.Event) []EventLayout {
	total := len(columns)
	var layouts []EventLayout
	for c, column := range columns {
		for _, e := range column {
			layouts = append(layouts, EventLayout{
				Event:        e,
				Column:       c,
				TotalColumns: total,
				Width:        1 / float64(total),
				Left:         float64(c) / float64(total),
			})
		}
	}
	return layouts
}

// ByID indexes layouts by event id so a renderer can look them up while
// walking its own event list.
func ByID(layouts []EventLayout) map[string]EventLayout {
	out := make(map[string]EventLayout, len(layouts))
	for _, l := range layouts {
		out[l.Event.ID] = l
	}
	return out
}

func overlapsAny(e event.Event, others []*event.Event) bool {
	for _, o := range others {
		if Overlaps(e, *o) {
			return true
		}
	}
	return false
}

// sortByStart orders the members of a group by start time, then by input
// index. Members arrive in discovery order, which is not the input order, so
// a stable sort alone would not keep equal starts in input order.
func sortByStart(events []event.Event, members []int) []*event.Event {
	sort.Slice(members, func(i, j int) bool {
		a, b := startKey(events[members[i]]), startKey(events[members[j]])
		if a != b {
			return a < b
		}
		return members[i] < members[j]
	})
	group := make([]*event.Event, len(members))
	for k, m := range members {
		group[k] = &events[m]
	}
	return group
}

// startKey orders all-day events, which have no start time, ahead of
// everything else. They only reach a sort as singletons, but the key must
// not panic on them.
func startKey(e event.Event) int {
	if e.IsAllDay {
		return -1
	}
	return e.StartMinutes()
}
