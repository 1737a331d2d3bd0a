// Package tui renders EcoSort results for terminals: lipgloss product
// cards and the Bubble Tea browser behind "ecosort browse".
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette. Adaptive colors keep contrast on light and dark terminals.
//
//nolint:gochecknoglobals // Shared lipgloss palette.
var (
	ColorHeader    = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#81C784"}
	ColorLabel     = lipgloss.AdaptiveColor{Light: "#455A64", Dark: "#B0BEC5"}
	ColorValue     = lipgloss.AdaptiveColor{Light: "#212121", Dark: "#FAFAFA"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#757575"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#BDBDBD", Dark: "#616161"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#A5D6A7"}
	ColorSpinner   = lipgloss.AdaptiveColor{Light: "#00838F", Dark: "#4DD0E1"}

	ColorOK       = lipgloss.Color("#2E7D32")
	ColorWarning  = lipgloss.Color("#F9A825")
	ColorCritical = lipgloss.Color("#C62828")
)

// Text styles.
//
//nolint:gochecknoglobals // Shared lipgloss styles.
var (
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorHeader)
	LabelStyle    = lipgloss.NewStyle().Foreground(ColorLabel)
	ValueStyle    = lipgloss.NewStyle().Foreground(ColorValue)
	SubtleStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	OKStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorOK)
	WarningStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
	CriticalStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCritical)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorHeader).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder).
				BorderBottom(true)
	TableSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorHighlight)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms.
}

// RenderLoadingIndicator is shown while results are computed.
func RenderLoadingIndicator() string {
	return lipgloss.NewStyle().Foreground(ColorSpinner).Bold(true).Render("Simulating logistics...")
}
