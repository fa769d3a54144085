// Package render draws diary days as a terminal grid using the
// segment geometry produced by the layout engine.
package render

import "github.com/charmbracelet/lipgloss"

// Default column width - recalculated from the terminal width.
const defaultColWidth = 18

// Styles holds all lipgloss styles for the calendar grid.
type Styles struct {
	colorFg       lipgloss.Color
	colorFgMuted  lipgloss.Color
	colorAccent   lipgloss.Color
	colorEvent    lipgloss.Color
	colorEventAlt lipgloss.Color

	TitleStyle          lipgloss.Style
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style
	EventStyle          lipgloss.Style
	EventAltStyle       lipgloss.Style
	EmptyCellStyle      lipgloss.Style
	SeparatorStyle      lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() *Styles {
	s := &Styles{
		colorFg:       lipgloss.Color("252"),
		colorFgMuted:  lipgloss.Color("240"),
		colorAccent:   lipgloss.Color("214"),
		colorEvent:    lipgloss.Color("24"),
		colorEventAlt: lipgloss.Color("60"),
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Width(defaultColWidth)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorAccent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Width(6)

	s.EventStyle = lipgloss.NewStyle().
		Background(s.colorEvent).
		Foreground(s.colorFg).
		Align(lipgloss.Left)

	// Alternate shade keeps adjacent lanes distinguishable.
	s.EventAltStyle = lipgloss.NewStyle().
		Background(s.colorEventAlt).
		Foreground(s.colorFg).
		Align(lipgloss.Left)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Width(defaultColWidth)

	s.SeparatorStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted)

	return s
}

// EventStyleWidth returns the event style with the specified width.
func (s *Styles) EventStyleWidth(width int, alt bool) lipgloss.Style {
	if alt {
		return s.EventAltStyle.Width(width)
	}
	return s.EventStyle.Width(width)
}

// EmptyCellStyleWidth returns the empty cell style with the specified width.
func (s *Styles) EmptyCellStyleWidth(width int) lipgloss.Style {
	return s.EmptyCellStyle.Width(width)
}

// DayHeaderStyleWidth returns the day header style with the specified width.
func (s *Styles) DayHeaderStyleWidth(width int, today bool) lipgloss.Style {
	if today {
		return s.DayHeaderTodayStyle.Width(width)
	}
	return s.DayHeaderStyle.Width(width)
}
