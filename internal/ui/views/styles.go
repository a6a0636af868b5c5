package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Input         lipgloss.Style
	Spinner       lipgloss.Style
	Error         lipgloss.Style
	Hint          lipgloss.Style
	Card          lipgloss.Style
	CardSelected  lipgloss.Style
	TrialTitle    lipgloss.Style
	TrialMeta     lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	StatusLine    lipgloss.Style
	StatusWarning lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("238")).
			PaddingLeft(1),
		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("99")).
			PaddingLeft(1),
		TrialTitle:    lipgloss.NewStyle().Bold(true),
		TrialMeta:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Help:          lipgloss.NewStyle().Faint(true),
		Main:          lipgloss.NewStyle().Padding(1, 2),
		StatusLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
	}
}

// GetStatusColor returns the color for a trial's overall status
func GetStatusColor(status string) string {
	switch strings.ToUpper(strings.ReplaceAll(status, " ", "_")) {
	case "RECRUITING", "ENROLLING_BY_INVITATION":
		return "78" // green
	case "ACTIVE_NOT_RECRUITING", "NOT_YET_RECRUITING":
		return "33" // blue
	case "COMPLETED":
		return "51" // cyan
	case "TERMINATED", "WITHDRAWN", "SUSPENDED":
		return "203" // red
	default:
		return "214" // yellow for unknown and other states
	}
}
