package render

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette, true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// ---------------------------------------------------------------------------
// Semantic color aliases
// ---------------------------------------------------------------------------

const (
	colorIncome  = colorGreen
	colorOutcome = colorRed
	colorTotal   = colorYellow
	colorAmount  = colorMauve
	colorPrompt  = colorBlue
	colorNotice  = colorPeach
	colorBorder  = colorOverlay1
)

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
	income  lipgloss.Style
	outcome lipgloss.Style
	total   lipgloss.Style
	stats   lipgloss.Style
	label   lipgloss.Style
	amount  lipgloss.Style
	notice  lipgloss.Style
	prompt  lipgloss.Style
	success lipgloss.Style
	abort   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	cell := r.NewStyle().Padding(0, 1).Foreground(colorText)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(colorBase).Background(colorTotal).Padding(0, 1),
		header:  cell.Bold(true).Foreground(colorTotal),
		cell:    cell,
		border:  r.NewStyle().Foreground(colorBorder),
		income:  cell.Bold(true).Foreground(colorIncome),
		outcome: cell.Bold(true).Foreground(colorOutcome),
		total:   cell.Bold(true).Foreground(colorTotal),
		stats:   r.NewStyle().Foreground(colorBase).Background(colorTotal),
		label:   r.NewStyle().Bold(true).Foreground(colorPrompt),
		amount:  r.NewStyle().Italic(true).Foreground(colorAmount),
		notice:  r.NewStyle().Bold(true).Foreground(colorNotice),
		prompt:  r.NewStyle().Bold(true).Foreground(colorPrompt),
		success: r.NewStyle().Bold(true).Foreground(colorIncome),
		abort:   r.NewStyle().Bold(true).Foreground(colorOutcome),
	}
}
