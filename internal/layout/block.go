package layout

import "sort"

// lane tracks the time extent and visibility of one vertical slot.
type lane struct {
	startSecs int
	endSecs   int
	visible   bool
}

// Block clusters segments that are connected by pairwise overlap,
// transitively: two segments that never touch each other still share a
// block if a third overlaps both. Within a block each segment is assigned
// a lane such that no two segments in a lane overlap in time.
type Block struct {
	segments  []*Segment
	lanes     []lane
	startSecs int
	endSecs   int
}

// NewBlock creates an empty block.
func NewBlock() *Block {
	return &Block{
		startSecs: 86401,
		endSecs:   -1,
	}
}

// fits returns the lowest-indexed lane whose extent does not overlap the
// segment's display window. Touching endpoints count as non-overlapping.
// Greedy first fit is deliberate: it is stable under incremental inserts,
// so earlier-placed lanes keep their slot.
func (b *Block) fits(seg *Segment) (int, bool) {
	start, end := seg.DisplayStartSeconds(), seg.DisplayEndSeconds()
	for i := range b.lanes {
		if end <= b.lanes[i].startSecs || start >= b.lanes[i].endSecs {
			return i, true
		}
	}
	return 0, false
}

// Add places the segment in the first fitting lane, widening that lane's
// extent and OR-ing its visibility, or appends a new lane seeded with the
// segment's own extent. The resolved lane index is stored on the segment.
func (b *Block) Add(seg *Segment) {
	start, end := seg.DisplayStartSeconds(), seg.DisplayEndSeconds()

	idx, ok := b.fits(seg)
	if !ok {
		b.lanes = append(b.lanes, lane{startSecs: start, endSecs: end, visible: seg.Visible()})
		idx = len(b.lanes) - 1
	} else {
		if start < b.lanes[idx].startSecs {
			b.lanes[idx].startSecs = start
		}
		if end > b.lanes[idx].endSecs {
			b.lanes[idx].endSecs = end
		}
		b.lanes[idx].visible = b.lanes[idx].visible || seg.Visible()
	}
	seg.setLane(idx)

	b.segments = append(b.segments, seg)
	sort.SliceStable(b.segments, func(i, j int) bool {
		return b.segments[i].DisplayStartSeconds() < b.segments[j].DisplayStartSeconds()
	})

	if start < b.startSecs {
		b.startSecs = start
	}
	if end > b.endSecs {
		b.endSecs = end
	}
}

// Remove drops the segment by identity. Lane extents are left as they
// were: every removal call site immediately rebuilds the owning day, which
// recomputes them from scratch.
func (b *Block) Remove(seg *Segment) bool {
	for i, s := range b.segments {
		if s == seg {
			b.segments = append(b.segments[:i], b.segments[i+1:]...)
			return true
		}
	}
	return false
}

// Overlaps reports whether the segment's display window overlaps the
// block's overall extent. The inequalities are strict, so a segment that
// exactly touches the block does not merge into it, matching lane-fit
// semantics.
func (b *Block) Overlaps(seg *Segment) bool {
	return seg.DisplayStartSeconds() < b.endSecs && seg.DisplayEndSeconds() > b.startSecs
}

// Contains reports whether the segment is currently held by this block.
func (b *Block) Contains(seg *Segment) bool {
	for _, s := range b.segments {
		if s == seg {
			return true
		}
	}
	return false
}

// Segments returns the block's segments in display-start order.
func (b *Block) Segments() []*Segment { return b.segments }

// LaneCount returns the total number of lanes, hidden ones included.
func (b *Block) LaneCount() int { return len(b.lanes) }

// VisibleLaneCount returns the number of lanes holding at least one
// visible segment. It is the divisor for column width, so filtered-out
// lanes reserve no space.
func (b *Block) VisibleLaneCount() int {
	n := 0
	for _, l := range b.lanes {
		if l.visible {
			n++
		}
	}
	return n
}

// VisualOffset maps a lane index to its 0-based rank among visible lanes.
// Hidden lanes are skipped, so drawn columns stay packed.
func (b *Block) VisualOffset(laneIdx int) int {
	off := 0
	for i := 0; i < laneIdx && i < len(b.lanes); i++ {
		if b.lanes[i].visible {
			off++
		}
	}
	return off
}

// StartSecs returns the earliest display start over all contained segments.
func (b *Block) StartSecs() int { return b.startSecs }

// EndSecs returns the latest display end over all contained segments.
func (b *Block) EndSecs() int { return b.endSecs }
