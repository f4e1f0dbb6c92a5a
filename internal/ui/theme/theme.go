package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/leetreview/internal/spacedrep"
)

// Color palette
var (
	Primary   = lipgloss.Color("#F59E0B") // Amber
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#8B5CF6") // Purple
	Success   = lipgloss.Color("#22C55E") // Green
	Warning   = lipgloss.Color("#EAB308") // Yellow
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Label = lipgloss.NewStyle().
		Foreground(TextDim).
		Width(16)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)
)

var difficultyColors = map[string]lipgloss.Style{
	"EASY":   lipgloss.NewStyle().Foreground(Success),
	"MEDIUM": lipgloss.NewStyle().Foreground(Warning),
	"HARD":   lipgloss.NewStyle().Foreground(Error),
}

// Difficulty renders a difficulty name in its color.
func Difficulty(d string) string {
	if s, ok := difficultyColors[d]; ok {
		return s.Render(d)
	}
	return d
}

// Outcome returns the style used for an attempt outcome.
func Outcome(o spacedrep.Outcome) lipgloss.Style {
	switch o {
	case spacedrep.Pass:
		return lipgloss.NewStyle().Foreground(Success).Bold(true)
	case spacedrep.Shaky:
		return lipgloss.NewStyle().Foreground(Warning).Bold(true)
	case spacedrep.Fail:
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}
