package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"trialsearch/internal/domain"
)

// trialPageURL is the public registry page for a trial
const trialPageURL = "https://clinicaltrials.gov/study/"

// FormatTrialDetail renders the full record shown in the pager
func FormatTrialDetail(trial domain.Trial) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(trial.BriefTitle))
	b.WriteString("\n\n")

	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(fmt.Sprintf("%-15s", label+":")), value))
	}

	field("NCT ID", trial.NCTID)
	field("Status", trial.OverallStatus)
	field("Official title", trial.OfficialTitle)

	if len(trial.Conditions) == 0 {
		field("Conditions", "")
	} else {
		b.WriteString(labelStyle.Render("Conditions:"))
		b.WriteString("\n")
		for _, c := range trial.Conditions {
			b.WriteString("  - " + c + "\n")
		}
	}

	if trial.NCTID != "" {
		b.WriteString("\n")
		b.WriteString(trialPageURL + trial.NCTID)
		b.WriteString("\n")
	}

	return b.String()
}

// PagerOps shows trial records in the ov pager
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// ShowTrial shows a trial's full record using ov
func (p *PagerOps) ShowTrial(trial domain.Trial) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(FormatTrialDetail(trial)))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
