package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

// renderForecastPane renders the synopsis and every classified period
func (m Model) renderForecastPane(width int) string {
	// Border: 2 chars, Padding: 2 chars
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}
	wrapped := lipgloss.NewStyle().Width(contentWidth)

	if m.report == nil {
		return mutedStyle.Render("No forecast data available")
	}

	var sections []string

	if m.report.Synopsis != "" {
		sections = append(sections,
			sectionHeaderStyle.Render("SYNOPSIS"),
			wrapped.Render(m.report.Synopsis),
		)
	}

	sections = append(sections, sectionHeaderStyle.Render("FORECAST"))
	if len(m.report.Periods) == 0 {
		sections = append(sections, mutedStyle.Render("No forecast periods found on this page"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	for _, p := range m.report.Periods {
		sections = append(sections, renderPeriod(p, contentWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderPeriod renders one period in its tier's color
func renderPeriod(p models.ForecastRecord, width int) string {
	var content strings.Builder
	wrapped := lipgloss.NewStyle().Width(width - 4)

	content.WriteString(tierStyle(p.Tier).Render(p.Period))
	content.WriteString("  ")
	content.WriteString(tierBadge(p.Tier))
	content.WriteString("\n")

	summary := strings.TrimSpace(p.Summary.Emoji + " " + p.Summary.Text)
	content.WriteString(wrapped.Render(tierStyle(p.Tier).UnsetBold().Render(summary)))

	for _, f := range periodFields(p) {
		content.WriteString("\n")
		content.WriteString(wrapped.Render(labelStyle.Render(f.label+": ") + valueStyle.Render(f.value)))
	}

	return periodBoxStyle.
		BorderForeground(tierColor(p.Tier)).
		Width(width).
		Render(content.String())
}

type periodField struct {
	label string
	value string
}

// periodFields lists the non-empty sub-fields of a period in display order
func periodFields(p models.ForecastRecord) []periodField {
	all := []periodField{
		{"Wind", p.Winds},
		{"Seas", p.Seas},
		{"Wave Detail", p.WaveDetail},
		{"Thunderstorms", p.Thunderstorms},
		{"Visibility", p.Visibility},
		{"Conditions", p.Description},
	}
	fields := all[:0]
	for _, f := range all {
		if f.value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// worstTierLine summarizes the most severe tier in the report
func (m Model) worstTierLine() string {
	if m.report == nil {
		return ""
	}
	worst, ok := m.report.WorstTier()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s %s", mutedStyle.Render("Worst period:"), tierBadge(worst))
}
