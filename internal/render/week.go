package render

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mattparker/diary/internal/diary"
	"github.com/mattparker/diary/internal/layout"
)

// rowSeconds is the time span of one grid row.
const rowSeconds = 1800

// timeColWidth leaves room for "HH:MM ".
const timeColWidth = 6

// Renderer draws a scheduler's days side by side, one column per day,
// one row per half hour.
type Renderer struct {
	styles    *Styles
	width     int
	startHour int
	endHour   int
}

// New creates a renderer for the given display window. Hours outside
// [startHour, endHour) are not drawn; events there simply fall off the
// grid, matching what a scrolled-away viewport would show.
func New(startHour, endHour int) *Renderer {
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 || endHour <= startHour {
		endHour = 24
	}
	return &Renderer{
		styles:    NewStyles(),
		width:     terminalWidth(),
		startHour: startHour,
		endHour:   endHour,
	}
}

// SetWidth overrides the detected terminal width.
func (r *Renderer) SetWidth(w int) {
	if w > timeColWidth+defaultColWidth {
		r.width = w
	}
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 120
}

// Render draws the scheduler's full view.
func (r *Renderer) Render(sched *diary.Scheduler) string {
	return r.renderDays(sched.Days(), time.Now())
}

// RenderDay draws a single day as a one-column grid.
func (r *Renderer) RenderDay(day *layout.Day) string {
	return r.renderDays([]*layout.Day{day}, time.Now())
}

func (r *Renderer) renderDays(days []*layout.Day, now time.Time) string {
	if len(days) == 0 {
		return ""
	}

	colWidth := (r.width - timeColWidth) / len(days)
	if colWidth < 8 {
		colWidth = 8
	}
	if colWidth > 28 {
		colWidth = 28
	}

	var b strings.Builder

	title := fmt.Sprintf("%s - %s",
		days[0].Date.Format("Mon 2 Jan 2006"),
		days[len(days)-1].Date.Format("Mon 2 Jan 2006"))
	b.WriteString(r.styles.TitleStyle.Render(title))
	b.WriteString("\n\n")

	// Header row.
	b.WriteString(strings.Repeat(" ", timeColWidth))
	for _, day := range days {
		today := sameDate(day.Date, now)
		b.WriteString(r.styles.DayHeaderStyleWidth(colWidth, today).Render(day.Date.Format("Mon 2")))
	}
	b.WriteString("\n")

	rows := (r.endHour - r.startHour) * 3600 / rowSeconds
	columns := make([][]string, len(days))
	for i, day := range days {
		columns[i] = r.renderColumn(day, rows, colWidth)
	}

	for row := 0; row < rows; row++ {
		secs := r.startHour*3600 + row*rowSeconds
		label := "     "
		if secs%3600 == 0 {
			label = fmt.Sprintf("%02d:00", secs/3600)
		}
		b.WriteString(r.styles.TimeColumnStyle.Render(label))
		for i := range columns {
			b.WriteString(columns[i][row])
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderColumn builds one day's cells. Overlapping segments share the
// column: each visible lane of a block gets an equal slice of the cell
// width, in visual offset order.
func (r *Renderer) renderColumn(day *layout.Day, rows, colWidth int) []string {
	cells := make([]string, rows)
	for row := 0; row < rows; row++ {
		rowStart := r.startHour*3600 + row*rowSeconds

		block := blockAt(day, rowStart)
		if block == nil {
			cells[row] = r.emptyCell(colWidth)
			continue
		}

		visible := block.VisibleLaneCount()
		if visible == 0 {
			cells[row] = r.emptyCell(colWidth)
			continue
		}

		laneWidth := colWidth / visible
		rem := colWidth - laneWidth*visible

		var cell strings.Builder
		for offset := 0; offset < visible; offset++ {
			w := laneWidth
			if offset == visible-1 {
				w += rem
			}
			seg := segmentAtOffset(block, offset, rowStart)
			if seg == nil {
				cell.WriteString(r.styles.EmptyCellStyleWidth(w).Render(""))
				continue
			}
			cell.WriteString(r.renderLaneCell(seg, rowStart, w, offset%2 == 1))
		}
		cells[row] = cell.String()
	}
	return cells
}

func (r *Renderer) renderLaneCell(seg *layout.Segment, rowStart, width int, alt bool) string {
	style := r.styles.EventStyleWidth(width, alt)

	// Label only the segment's first visible row.
	segStart := seg.DisplayStartSeconds()
	first := (segStart >= rowStart && segStart < rowStart+rowSeconds) ||
		(segStart < rowStart && rowStart == r.startHour*3600)
	if !first {
		return style.Render("")
	}

	label := seg.Event.Summary
	if seg.Position == layout.PositionSingle || seg.Position == layout.PositionFirst {
		label = seg.StartText() + " " + label
	}
	return style.Render(truncate(label, width))
}

func (r *Renderer) emptyCell(width int) string {
	return r.styles.EmptyCellStyleWidth(width).Render(strings.Repeat("·", 1))
}

// blockAt finds the block whose extent covers the given row, if any
// of its visible segments do.
func blockAt(day *layout.Day, rowStart int) *layout.Block {
	for _, block := range day.Blocks() {
		if segmentCovering(block, rowStart) != nil {
			return block
		}
	}
	return nil
}

func segmentCovering(block *layout.Block, rowStart int) *layout.Segment {
	for _, seg := range block.Segments() {
		if !seg.Visible() {
			continue
		}
		if seg.DisplayStartSeconds() < rowStart+rowSeconds && seg.DisplayEndSeconds() > rowStart {
			return seg
		}
	}
	return nil
}

func segmentAtOffset(block *layout.Block, offset, rowStart int) *layout.Segment {
	for _, seg := range block.Segments() {
		if !seg.Visible() {
			continue
		}
		if block.VisualOffset(seg.Lane()) != offset {
			continue
		}
		if seg.DisplayStartSeconds() < rowStart+rowSeconds && seg.DisplayEndSeconds() > rowStart {
			return seg
		}
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:1])
	}
	if len(runes) > width-1 {
		runes = runes[:width-1]
	}
	return string(runes) + "…"
}
