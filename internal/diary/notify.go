package diary

import (
	"time"

	"github.com/mattparker/diary/internal/layout"
)

// TimeChange carries the original and candidate times of a move, resize,
// or creation, for subscribers that veto or audit the change.
type TimeChange struct {
	FromStart time.Time
	FromEnd   time.Time
	ToStart   time.Time
	ToEnd     time.Time
}

// hooks holds the observer lists. Cancelable hooks return false to veto;
// all hooks run synchronously on the caller's goroutine.
type hooks struct {
	beforeStartMove   []func(*layout.Segment) bool
	beforeEndMove     []func(*layout.Segment, TimeChange) bool
	endMove           []func(*layout.Segment, TimeChange)
	beforeStartCreate []func() bool
	beforeEndCreate   []func(start, end time.Time) bool
	endCreate         []func(*layout.Segment)
	dataFailure       []func(error)
}

// OnBeforeStartMove subscribes to the start of a drag or resize.
// Returning false cancels the manipulation before any state changes.
func (s *Scheduler) OnBeforeStartMove(fn func(*layout.Segment) bool) {
	s.hooks.beforeStartMove = append(s.hooks.beforeStartMove, fn)
}

// OnBeforeEndMove subscribes to the commit of a drag or resize.
// Returning false rolls the segment back to its pre-manipulation times.
func (s *Scheduler) OnBeforeEndMove(fn func(*layout.Segment, TimeChange) bool) {
	s.hooks.beforeEndMove = append(s.hooks.beforeEndMove, fn)
}

// OnEndMove subscribes to committed moves and resizes, for audit or undo
// consumers. Not cancelable.
func (s *Scheduler) OnEndMove(fn func(*layout.Segment, TimeChange)) {
	s.hooks.endMove = append(s.hooks.endMove, fn)
}

// OnBeforeStartCreate subscribes to the start of click-drag creation.
// Returning false cancels it.
func (s *Scheduler) OnBeforeStartCreate(fn func() bool) {
	s.hooks.beforeStartCreate = append(s.hooks.beforeStartCreate, fn)
}

// OnBeforeEndCreate subscribes to the end of click-drag creation, before
// the event exists. Returning false cancels it.
func (s *Scheduler) OnBeforeEndCreate(fn func(start, end time.Time) bool) {
	s.hooks.beforeEndCreate = append(s.hooks.beforeEndCreate, fn)
}

// OnEndCreate subscribes to completed creations. Not cancelable.
func (s *Scheduler) OnEndCreate(fn func(*layout.Segment)) {
	s.hooks.endCreate = append(s.hooks.endCreate, fn)
}

// OnDataFailure subscribes to source fetch failures. Not cancelable.
func (s *Scheduler) OnDataFailure(fn func(error)) {
	s.hooks.dataFailure = append(s.hooks.dataFailure, fn)
}

func (h *hooks) fireBeforeStartMove(seg *layout.Segment) bool {
	for _, fn := range h.beforeStartMove {
		if !fn(seg) {
			return false
		}
	}
	return true
}

func (h *hooks) fireBeforeEndMove(seg *layout.Segment, tc TimeChange) bool {
	for _, fn := range h.beforeEndMove {
		if !fn(seg, tc) {
			return false
		}
	}
	return true
}

func (h *hooks) fireEndMove(seg *layout.Segment, tc TimeChange) {
	for _, fn := range h.endMove {
		fn(seg, tc)
	}
}

func (h *hooks) fireBeforeStartCreate() bool {
	for _, fn := range h.beforeStartCreate {
		if !fn() {
			return false
		}
	}
	return true
}

func (h *hooks) fireBeforeEndCreate(start, end time.Time) bool {
	for _, fn := range h.beforeEndCreate {
		if !fn(start, end) {
			return false
		}
	}
	return true
}

func (h *hooks) fireEndCreate(seg *layout.Segment) {
	for _, fn := range h.endCreate {
		fn(seg)
	}
}

func (h *hooks) fireDataFailure(err error) {
	for _, fn := range h.dataFailure {
		fn(err)
	}
}
