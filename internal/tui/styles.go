package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette, green primary and blue accent
var (
	primaryColor   = lipgloss.Color("#43A047")
	secondaryColor = lipgloss.Color("#2196F3")
	warningColor   = lipgloss.Color("#FFA000")
	errorColor     = lipgloss.Color("#E53935")
	mutedColor     = lipgloss.Color("#757575")
	textColor      = lipgloss.Color("#FAFAFA")
)

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func plain(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Chrome
var (
	headerStyle = bold(textColor).
			Background(primaryColor).
			Padding(0, 1).
			MarginBottom(1)
	navStyle         = plain(mutedColor).MarginBottom(1)
	navActiveStyle   = bold(primaryColor).Underline(true)
	navInactiveStyle = plain(mutedColor)
	statusStyle      = plain(mutedColor).MarginTop(1)
)

// Cards and sections
var (
	titleStyle     = bold(primaryColor).MarginBottom(1)
	cardTitleStyle = bold(primaryColor).MarginBottom(1)
	sectionStyle   = bold(secondaryColor)
	cardStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)
	metricLabelStyle = plain(mutedColor).Width(20)
	metricValueStyle = bold(textColor)
)

// Activity table
var (
	tableHeaderStyle   = bold(secondaryColor).Padding(0, 1)
	tableRowStyle      = lipgloss.NewStyle().Padding(0, 1)
	tableSelectedStyle = bold(textColor).Background(primaryColor).Padding(0, 1)
)

// Text
var (
	mutedStyle    = plain(mutedColor)
	errorStyle    = plain(errorColor)
	successStyle  = plain(primaryColor)
	warningStyle  = plain(warningColor)
	helpKeyStyle  = bold(secondaryColor)
	helpDescStyle = plain(mutedColor)
)

// achievementCardStyle borders a card in its category color, thicker when selected
func achievementCardStyle(hex string, selected bool) lipgloss.Style {
	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(lipgloss.Color(hex)).
		Padding(0, 1).
		Width(30)
}

// RenderMetric renders a label and value on one line
func RenderMetric(label, value string) string {
	return metricLabelStyle.Render(label) + metricValueStyle.Render(value)
}

// RenderProgressBar draws percent (0..1) of width cells
func RenderProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	return plain(primaryColor).Render(strings.Repeat("█", filled)) +
		plain(mutedColor).Render(strings.Repeat("░", width-filled))
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
