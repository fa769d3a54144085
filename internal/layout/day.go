package layout

import (
	"sort"
	"time"

	"github.com/mattparker/diary/internal/timeutil"
)

// Day owns the blocks for one calendar date. Its identity is the date,
// normalized to midnight; it lives only as long as the visible range.
type Day struct {
	Date   time.Time
	blocks []*Block
}

// NewDay creates an empty day layout for the date containing t.
func NewDay(t time.Time) *Day {
	return &Day{Date: timeutil.StartOfDay(t)}
}

// AddSegment routes the segment to the first existing block whose extent
// it overlaps, or starts a new block. First match wins; blocks are never
// split or merged except by Rebuild.
func (d *Day) AddSegment(seg *Segment) {
	seg.day = d
	for _, b := range d.blocks {
		if b.Overlaps(seg) {
			b.Add(seg)
			return
		}
	}
	nb := NewBlock()
	nb.Add(seg)
	d.blocks = append(d.blocks, nb)
}

// RemoveSegment removes the segment from whichever block holds it.
// Returns false if no block does.
func (d *Day) RemoveSegment(seg *Segment) bool {
	for _, b := range d.blocks {
		if b.Remove(seg) {
			return true
		}
	}
	return false
}

// Rebuild discards all blocks and re-adds every segment in display-start
// order. This is the only path that can change which block or lane a
// segment lands in after a mutation, so it must run after every add,
// remove, or time change that could shift overlap relationships.
func (d *Day) Rebuild() {
	all := d.Segments()
	d.blocks = nil

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].DisplayStartSeconds() < all[j].DisplayStartSeconds()
	})

	for _, seg := range all {
		d.AddSegment(seg)
	}
}

// Segments collects every segment currently placed in the day, in block
// order.
func (d *Day) Segments() []*Segment {
	var all []*Segment
	for _, b := range d.blocks {
		all = append(all, b.Segments()...)
	}
	return all
}

// Blocks returns the day's blocks in insertion order.
func (d *Day) Blocks() []*Block { return d.blocks }

// BlockFor returns the block currently holding the segment, or nil.
func (d *Day) BlockFor(seg *Segment) *Block {
	for _, b := range d.blocks {
		if b.Contains(seg) {
			return b
		}
	}
	return nil
}

// Len returns the number of segments placed in the day.
func (d *Day) Len() int {
	n := 0
	for _, b := range d.blocks {
		n += len(b.Segments())
	}
	return n
}
