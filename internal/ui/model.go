package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ngmaloney/marine-outlook/internal/config"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
)

// errOffline is returned when a fetch is attempted without a client.
var errOffline = errors.New("no forecast source available in offline mode")

// AppState represents the current state of the application
type AppState int

const (
	StateZoneList AppState = iota // Pick one of the configured zones
	StateSearch                   // Type a zone code
	StateLoading                  // Fetching and classifying a forecast
	StateDisplay                  // Show the classified forecast
	StateError                    // Error state
)

// Model represents the application's state
type Model struct {
	state  AppState
	width  int
	height int
	err    error

	// Search
	searchInput textinput.Model
	spinner     spinner.Model

	// Zones
	zones    []config.Zone
	zoneList list.Model
	selected *config.Zone

	client  noaa.MarineClient
	builder *forecast.Builder

	// Data
	report  *forecast.Report
	source  string
	offline bool
	pending bool
}

// NewModel creates a model listing zones and fetching through client. A nil
// builder uses the default extractor and classifier.
func NewModel(client noaa.MarineClient, builder *forecast.Builder, zones []config.Zone) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a zone code, e.g. ANZ230 or ANZ230 ANZ200"
	ti.CharLimit = 32
	ti.Width = 60

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if builder == nil {
		builder = forecast.NewBuilder()
	}

	m := Model{
		searchInput: ti,
		spinner:     s,
		zones:       zones,
		client:      client,
		builder:     builder,
		offline:     client == nil,
	}
	if len(zones) > 0 {
		m.state = StateZoneList
		m.zoneList = createZoneList(zones, 76, 16)
	} else {
		m.state = StateSearch
		m.searchInput.Focus()
	}
	return m
}

// WithZone makes the model fetch zone as soon as it starts.
func (m Model) WithZone(zone config.Zone) Model {
	m.selected = &zone
	m.state = StateLoading
	m.pending = true
	return m
}

// WithReport makes the model open on an already built report.
func (m Model) WithReport(report forecast.Report) Model {
	m.selected = &config.Zone{Code: report.Zone, Name: m.zoneName(report.Zone)}
	m.report = &report
	m.state = StateDisplay
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.pending && m.selected != nil {
		return tea.Batch(m.spinner.Tick, m.fetch(*m.selected))
	}
	if m.state == StateSearch {
		return textinput.Blink
	}
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Handle window size
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		if len(m.zones) > 0 {
			m.zoneList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil
	}

	// Handle custom messages
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		m.state = StateError
		return m, nil

	case forecastFetchedMsg:
		m.pending = false
		if msg.err != nil {
			code := ""
			if m.selected != nil {
				code = m.selected.Code
			}
			m.err = fmt.Errorf("fetching forecast for %s: %w", code, msg.err)
			m.state = StateError
			return m, nil
		}
		m.report = msg.report
		m.source = msg.source
		m.state = StateDisplay
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Handle keyboard input
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		// Global keys
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if keyMsg.String() == "q" && m.state != StateSearch {
			return m, tea.Quit
		}

		// State-specific handling
		switch m.state {
		case StateSearch:
			return m.handleSearchInput(keyMsg)

		case StateZoneList:
			return m.handleZoneList(keyMsg)

		case StateDisplay:
			return m.handleDisplay(keyMsg)

		case StateLoading:
			return m, nil

		case StateError:
			// Any key returns to search (except quit keys)
			return m.toSearch()
		}
	}

	// Update appropriate component based on state
	switch m.state {
	case StateSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case StateZoneList:
		m.zoneList, cmd = m.zoneList.Update(msg)
	}

	return m, cmd
}

// handleSearchInput handles keyboard input in search state
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		query := m.searchInput.Value()
		if query == "" {
			return m, nil
		}
		zone, err := parseZoneQuery(query)
		if err != nil {
			m.err = err
			return m, nil
		}
		if zone.Name == "" {
			zone.Name = m.zoneName(zone.Code)
		}
		m.err = nil
		return m.startFetch(zone)

	case tea.KeyEsc:
		if len(m.zones) > 0 {
			m.err = nil
			m.searchInput.Blur()
			m.state = StateZoneList
		}
		return m, nil
	}

	// Clear error when typing
	m.err = nil

	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleZoneList handles keyboard input in zone list state
func (m Model) handleZoneList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "enter":
		if item, ok := m.zoneList.SelectedItem().(zoneItem); ok {
			return m.startFetch(item.zone)
		}
		return m, nil
	case "s", "/":
		return m.toSearch()
	}

	m.zoneList, cmd = m.zoneList.Update(msg)
	return m, cmd
}

// handleDisplay handles keyboard input in display state
func (m Model) handleDisplay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "/":
		return m.toSearch()
	case "z", "esc":
		if len(m.zones) > 0 {
			m.state = StateZoneList
		}
		return m, nil
	case "r":
		if m.selected != nil && !m.offline {
			return m.startFetch(*m.selected)
		}
	}
	return m, nil
}

func (m Model) toSearch() (tea.Model, tea.Cmd) {
	m.state = StateSearch
	m.err = nil
	m.searchInput.SetValue("")
	m.searchInput.Focus()
	return m, textinput.Blink
}

func (m Model) startFetch(zone config.Zone) (tea.Model, tea.Cmd) {
	m.selected = &zone
	m.report = nil
	m.source = ""
	m.state = StateLoading
	m.searchInput.Blur()
	return m, tea.Batch(m.spinner.Tick, m.fetch(zone))
}

func (m Model) fetch(zone config.Zone) tea.Cmd {
	if m.client == nil {
		return func() tea.Msg { return errMsg{err: errOffline} }
	}
	return fetchForecast(m.client, m.builder, zone)
}

// zoneName looks up a configured zone's name.
func (m Model) zoneName(code string) string {
	for _, z := range m.zones {
		if z.Code == code {
			return z.Name
		}
	}
	return ""
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.state {
	case StateZoneList:
		return m.viewZoneList()
	case StateSearch:
		return m.viewSearch()
	case StateLoading:
		return m.viewLoading()
	case StateDisplay:
		return m.viewDisplay()
	case StateError:
		return m.viewError()
	}

	return ""
}

// viewError renders the error view
func (m Model) viewError() string {
	title := errorStyle.Render("✗ Error")

	errorMsg := "An unknown error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	help := helpStyle.Render("Press any key to return to search • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, "", errorMsg, "", help)
}

// viewSearch renders the search view
func (m Model) viewSearch() string {
	title := titleStyle.Render("⚓ Marine Outlook")
	subtitle := mutedStyle.Render("NOAA marine forecasts, graded for small craft")

	searchBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(64).
		Render(m.searchInput.View())

	sections := []string{title, subtitle, "", searchBox}

	if m.err != nil {
		sections = append(sections, "", errorStyle.Padding(0, 2).Render("✗ "+m.err.Error()))
	}

	examples := mutedStyle.Render("Examples: ANZ230 | ANZ254 ANZ200 | PZZ530")
	help := "Press Enter to fetch • Ctrl+C to quit"
	if len(m.zones) > 0 {
		help = "Press Enter to fetch • Esc: Zone list • Ctrl+C to quit"
	}

	sections = append(sections, "", examples, "", helpStyle.Render(help))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewZoneList renders the marine zone selection list
func (m Model) viewZoneList() string {
	title := titleStyle.Render("⚓ Marine Zones")
	subtitle := mutedStyle.Render(fmt.Sprintf("%d watched zones", len(m.zones)))

	help := helpStyle.Render("↑/↓: Navigate • Enter: Select • S: Search by code • Q: Quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", m.zoneList.View(), help)
}

// viewLoading renders the loading view
func (m Model) viewLoading() string {
	s := "Fetching marine forecast"
	if m.selected != nil {
		s += " for " + m.selected.Code
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), s)
}

// viewDisplay renders the classified forecast
func (m Model) viewDisplay() string {
	if m.selected == nil || m.report == nil {
		return "No zone selected"
	}

	heading := "⚓ " + m.selected.Code
	if m.selected.Name != "" {
		heading += " - " + m.selected.Name
	}
	header := titleStyle.Padding(0, 1).Render(heading)

	sections := []string{header}

	var meta []string
	if !m.report.FetchedAt.IsZero() {
		meta = append(meta, "Fetched "+m.report.FetchedAt.Local().Format("Mon Jan 2 3:04 PM"))
	}
	if m.source != "" {
		meta = append(meta, "via "+m.source)
	}
	if m.report.Layer != "" {
		meta = append(meta, "layout: "+m.report.Layer)
	}
	if len(meta) > 0 {
		sections = append(sections, mutedStyle.Padding(0, 1).Render(strings.Join(meta, " • ")))
	}
	if m.report.Stale {
		sections = append(sections, staleStyle.Padding(0, 1).Render("⚠ NOAA was unreachable. Showing the last saved forecast."))
	}
	if line := m.worstTierLine(); line != "" {
		sections = append(sections, lipgloss.NewStyle().Padding(0, 1).Render(line))
	}

	sections = append(sections, m.renderForecastPane(m.width-2))

	help := "S: New search • Q: Quit"
	if !m.offline {
		help = "R: Refresh • " + help
	}
	if len(m.zones) > 0 {
		help = "Z: Zone list • " + help
	}
	sections = append(sections, helpStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
