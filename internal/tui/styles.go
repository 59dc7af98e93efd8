package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/benjcrowley/bom-speed-reader/internal/model"
)

type palette struct {
	word    lipgloss.Style
	pivot   lipgloss.Style
	ghost   lipgloss.Style
	read    lipgloss.Style
	current lipgloss.Style
	pending lipgloss.Style
	header  lipgloss.Style
	footer  lipgloss.Style
	errText lipgloss.Style
	modal   lipgloss.Style
	border  lipgloss.Color
}

var (
	darkPalette = palette{
		word:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true),
		pivot:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true),
		ghost:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")),
		read:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		current: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true),
		footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(1, 2),
		border: lipgloss.Color("#4A4A4A"),
	}

	lightPalette = palette{
		word:    lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")).Bold(true),
		pivot:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D4380D")).Bold(true),
		ghost:   lipgloss.NewStyle().Foreground(lipgloss.Color("#BFBFBF")),
		read:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		current: lipgloss.NewStyle().Foreground(lipgloss.Color("#AD6800")).Underline(true),
		pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("#434343")).Bold(true),
		footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		errText: lipgloss.NewStyle().Foreground(lipgloss.Color("#CF1322")),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BFBFBF")).
			Padding(1, 2),
		border: lipgloss.Color("#BFBFBF"),
	}
)

func paletteFor(t model.Theme) palette {
	if t == model.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

func pickerStyles(p palette) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.border).
		Inherit(p.header).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Inherit(p.current).
		UnsetUnderline().
		Bold(true)
	return styles
}
