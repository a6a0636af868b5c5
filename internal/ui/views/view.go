package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trialsearch/internal/domain"
)

// AppTitle is the page heading
const AppTitle = "Clinical Trials Search"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width         int
	Height        int
	Input         string // rendered text input
	Loading       bool
	Spinner       string // current spinner frame
	Error         string
	Hint          string
	Results       []domain.Trial // already capped for display
	Selected      int
	StatusLine    string
	StatusWarning bool
	Help          string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}
	innerWidth := state.Width - r.styles.Main.GetHorizontalFrameSize()
	if innerWidth < 20 {
		innerWidth = 20
	}

	content.WriteString(r.renderTitleLine(state, innerWidth))
	content.WriteString("\n\n")
	content.WriteString(r.renderInput(state, innerWidth))
	content.WriteString("\n")

	if state.Error != "" {
		content.WriteString(r.styles.Error.Render(state.Error))
		content.WriteString("\n")
	} else if state.Hint != "" && len(state.Results) == 0 {
		content.WriteString(r.styles.Hint.Render(state.Hint))
		content.WriteString("\n")
	}

	if len(state.Results) > 0 {
		content.WriteString("\n")
		if r.needsCompactList(state) {
			content.WriteString(r.renderCompactList(state, innerWidth))
		} else {
			content.WriteString(r.renderList(state, innerWidth))
		}
	}

	if state.Help != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.Help))
	}

	return r.styles.Main.Render(content.String())
}

// renderTitleLine renders the heading with the status line right-aligned
func (r *Renderer) renderTitleLine(state ViewState, width int) string {
	title := r.styles.Title.Render(AppTitle)
	if state.StatusLine == "" {
		return title
	}

	statusStyle := r.styles.StatusLine
	if state.StatusWarning {
		statusStyle = r.styles.StatusWarning
	}
	status := statusStyle.Render(state.StatusLine)

	padding := width - lipgloss.Width(title) - lipgloss.Width(status)
	if padding < 2 {
		return title + "\n" + status
	}
	return title + strings.Repeat(" ", padding) + status
}

// renderInput renders the query box with the spinner inside its right edge
func (r *Renderer) renderInput(state ViewState, width int) string {
	indicator := " "
	if state.Loading {
		indicator = r.styles.Spinner.Render(state.Spinner)
	}

	boxWidth := width - r.styles.Input.GetHorizontalBorderSize()
	inputWidth := boxWidth - r.styles.Input.GetHorizontalPadding() - lipgloss.Width(indicator) - 1
	if inputWidth < 1 {
		inputWidth = 1
	}
	input := lipgloss.NewStyle().Width(inputWidth).MaxWidth(inputWidth).Render(state.Input)
	line := lipgloss.JoinHorizontal(lipgloss.Top, input, " ", indicator)
	return r.styles.Input.Width(boxWidth).Render(line)
}

// needsCompactList reports whether full cards would overflow the terminal
func (r *Renderer) needsCompactList(state ViewState) bool {
	if state.Height <= 0 {
		return false
	}
	// title, blank, input box (3), error, blank, help, frame padding
	const chrome = 10
	return chrome+len(state.Results)*4 > state.Height
}

func (r *Renderer) renderList(state ViewState, width int) string {
	cards := make([]string, 0, len(state.Results))
	for i, trial := range state.Results {
		cards = append(cards, r.renderCard(trial, i == state.Selected, width))
	}
	return strings.Join(cards, "\n\n") + "\n"
}

// renderCard renders one trial as title, identifier and status
func (r *Renderer) renderCard(trial domain.Trial, selected bool, width int) string {
	style := r.styles.Card
	if selected {
		style = r.styles.CardSelected
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	title := r.styles.TrialTitle.Width(inner).Render(trial.BriefTitle)
	id := r.styles.TrialMeta.Render("NCT ID: " + trial.NCTID)
	status := r.styles.TrialMeta.Render("Status: ") + r.renderStatus(trial.OverallStatus)

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, title, id, status))
}

func (r *Renderer) renderCompactList(state ViewState, width int) string {
	line := lipgloss.NewStyle().MaxWidth(width)
	lines := make([]string, 0, len(state.Results))
	for i, trial := range state.Results {
		cursor := "  "
		if i == state.Selected {
			cursor = r.styles.Title.Render("▸ ")
		}
		entry := fmt.Sprintf("%s%s  %s  %s",
			cursor,
			r.styles.TrialMeta.Render(trial.NCTID),
			r.renderStatus(trial.OverallStatus),
			trial.BriefTitle,
		)
		lines = append(lines, line.Render(entry))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (r *Renderer) renderStatus(status string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(GetStatusColor(status))).Render(status)
}
