package diary

import (
	"github.com/mattparker/diary/internal/event"
	"github.com/mattparker/diary/internal/layout"
)

// Filter selects events to hide from the view. Filters are additive: a
// segment is hidden when any active filter matches its event.
type Filter func(*event.Event) bool

// CategoryFilter hides events carrying the given category tag.
func CategoryFilter(cat string) Filter {
	return func(ev *event.Event) bool { return ev.HasCategory(cat) }
}

// AddFilter registers a named filter, hides matching segments, and
// rebuilds the affected days so lane widths reflow. Re-registering a name
// replaces the previous predicate.
func (s *Scheduler) AddFilter(name string, f Filter) {
	s.filters[name] = f
	s.applyFilters()
}

// RemoveFilter drops a named filter and restores visibility of segments
// no other filter hides. Removing an unknown name is a no-op.
func (s *Scheduler) RemoveFilter(name string) {
	if _, ok := s.filters[name]; !ok {
		return
	}
	delete(s.filters, name)
	s.applyFilters()
}

func (s *Scheduler) matchesAnyFilter(ev *event.Event) bool {
	for _, f := range s.filters {
		if f(ev) {
			return true
		}
	}
	return false
}

// applyFilters recomputes every segment's visibility and rebuilds days
// whose visibility changed.
func (s *Scheduler) applyFilters() {
	affected := make(map[int64]*layout.Day)

	for _, seg := range s.index {
		visible := !s.matchesAnyFilter(seg.Event)
		if visible == seg.Visible() {
			continue
		}
		seg.SetVisible(visible)
		if day := seg.Day(); day != nil {
			affected[day.Date.Unix()] = day
		}
	}
	for _, day := range affected {
		day.Rebuild()
	}
}
