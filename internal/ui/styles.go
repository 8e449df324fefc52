package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

var (
	// Color palette
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorDanger  = lipgloss.Color("#FF6B6B") // Red
	colorWarning = lipgloss.Color("#FFD93D") // Yellow
	colorMuted   = lipgloss.Color("#6C757D") // Gray
	colorBorder  = lipgloss.Color("#4A90E2") // Border blue

	// tierColors maps a tier's color tag to its terminal color.
	tierColors = map[string]lipgloss.Color{
		"green":      lipgloss.Color("#2ECC71"),
		"lightgreen": lipgloss.Color("#A3E4A0"),
		"blue":       colorBorder,
		"orange":     lipgloss.Color("#FF8C42"),
		"red":        colorDanger,
	}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Padding(0, 1).
				MarginTop(1)

	periodBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// tierColor returns the terminal color for a tier.
func tierColor(t models.Tier) lipgloss.Color {
	if c, ok := tierColors[t.Color()]; ok {
		return c
	}
	return colorMuted
}

// tierStyle renders text in a tier's color.
func tierStyle(t models.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tierColor(t)).Bold(true)
}

// tierBadge renders the tier name as a colored badge.
func tierBadge(t models.Tier) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1B1B1B")).
		Background(tierColor(t)).
		Bold(true).
		Padding(0, 1).
		Render(t.String())
}
