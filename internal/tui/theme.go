package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

type theme struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	text     lipgloss.Style
	muted    lipgloss.Style
	ok       lipgloss.Style
	warn     lipgloss.Style
	danger   lipgloss.Style
	info     lipgloss.Style
	cursor   lipgloss.Style
	panel    lipgloss.Style
	focused  lipgloss.Style
	help     lipgloss.Style
}

func newTheme() theme {
	border := lipgloss.RoundedBorder()
	return theme{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		subtitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		text:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		danger:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		info:     lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		panel:    lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		focused:  lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("86")).Padding(0, 1),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

func (t theme) band(b service.ProgressBand) lipgloss.Style {
	switch b {
	case service.BandOver:
		return t.danger
	case service.BandCaution:
		return t.warn
	default:
		return t.ok
	}
}

func (t theme) notice(level tracker.NoticeLevel) lipgloss.Style {
	switch level {
	case tracker.NoticeError:
		return t.danger
	case tracker.NoticeSuccess:
		return t.ok
	default:
		return t.info
	}
}

func (t theme) box(focused bool) lipgloss.Style {
	if focused {
		return t.focused
	}
	return t.panel
}
