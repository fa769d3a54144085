package layout

import (
	"testing"
	"time"
)

func TestDayAddSegmentRouting(t *testing.T) {
	d := NewDay(testDay)

	a := seg(t, "a", "09:00", "10:00")
	b := seg(t, "b", "09:30", "10:30")
	c := seg(t, "c", "14:00", "15:00")

	d.AddSegment(a)
	d.AddSegment(b)
	d.AddSegment(c)

	if got := len(d.Blocks()); got != 2 {
		t.Fatalf("block count = %d, want 2", got)
	}
	if d.BlockFor(a) != d.BlockFor(b) {
		t.Error("overlapping segments should share a block")
	}
	if d.BlockFor(a) == d.BlockFor(c) {
		t.Error("distant segments should not share a block")
	}
	if a.Day() != d {
		t.Error("segment does not point back to its day")
	}
}

func TestDayTouchingSegmentsStaySeparate(t *testing.T) {
	d := NewDay(testDay)
	d.AddSegment(seg(t, "a", "09:00", "10:00"))
	d.AddSegment(seg(t, "b", "10:00", "11:00"))

	if got := len(d.Blocks()); got != 2 {
		t.Errorf("touching segments merged: block count = %d, want 2", got)
	}
}

func TestDayRemoveSegment(t *testing.T) {
	d := NewDay(testDay)
	a := seg(t, "a", "09:00", "10:00")
	d.AddSegment(a)

	if !d.RemoveSegment(a) {
		t.Fatal("RemoveSegment returned false")
	}
	if d.RemoveSegment(a) {
		t.Error("second RemoveSegment should return false")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d after removal", d.Len())
	}
}

func TestDayRebuildSplitsBlocks(t *testing.T) {
	d := NewDay(testDay)

	a := seg(t, "a", "09:00", "10:00")
	bridge := seg(t, "bridge", "09:30", "14:30")
	c := seg(t, "c", "14:00", "15:00")

	d.AddSegment(a)
	d.AddSegment(bridge)
	d.AddSegment(c)

	if got := len(d.Blocks()); got != 1 {
		t.Fatalf("bridged block count = %d, want 1", got)
	}

	// Removing the bridge and rebuilding must split the cluster again.
	d.RemoveSegment(bridge)
	d.Rebuild()

	if got := len(d.Blocks()); got != 2 {
		t.Errorf("block count after rebuild = %d, want 2", got)
	}
	if got := d.Len(); got != 2 {
		t.Errorf("Len after rebuild = %d, want 2", got)
	}
}

func TestDayRebuildIdempotent(t *testing.T) {
	d := NewDay(testDay)
	segs := []*Segment{
		seg(t, "a", "09:00", "10:00"),
		seg(t, "b", "09:30", "10:30"),
		seg(t, "c", "10:00", "11:00"),
	}
	for _, s := range segs {
		d.AddSegment(s)
	}
	d.Rebuild()

	lanes := make([]int, len(segs))
	for i, s := range segs {
		lanes[i] = s.Lane()
	}
	blocks := len(d.Blocks())

	d.Rebuild()
	d.Rebuild()

	if got := len(d.Blocks()); got != blocks {
		t.Errorf("block count changed across rebuilds: %d -> %d", blocks, got)
	}
	for i, s := range segs {
		if s.Lane() != lanes[i] {
			t.Errorf("segment %d lane changed across rebuilds: %d -> %d", i, lanes[i], s.Lane())
		}
	}
}

func TestNewDayNormalizesDate(t *testing.T) {
	d := NewDay(time.Date(2026, 3, 14, 17, 45, 3, 0, time.UTC))
	if d.Date.Hour() != 0 || d.Date.Minute() != 0 || d.Date.Second() != 0 {
		t.Errorf("Date not normalized to midnight: %v", d.Date)
	}
}
