package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/owned/scenario"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ctorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	dtorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// painter applies styles only when color output is enabled.
type painter struct {
	enabled bool
}

func (p painter) render(style lipgloss.Style, s string) string {
	if !p.enabled {
		return s
	}
	return style.Render(s)
}

// event renders one trace line.
func (p painter) event(e scenario.Event) string {
	switch e.Kind {
	case scenario.EventConstruct:
		return p.render(ctorStyle, e.String())
	case scenario.EventDestroy:
		return p.render(dtorStyle, e.String())
	case scenario.EventLeak, scenario.EventError:
		return p.render(errorStyle, e.String())
	default:
		return p.render(resultStyle, e.String())
	}
}
