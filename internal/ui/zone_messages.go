package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/marine-outlook/internal/config"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
)

// fetchTimeout bounds one forecast fetch from the UI.
const fetchTimeout = 30 * time.Second

// fetchForecast fetches and classifies the forecast for a marine zone
func fetchForecast(client noaa.MarineClient, builder *forecast.Builder, zone config.Zone) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		page, err := client.FetchForecastPage(ctx, zone.Code, zone.Synopsis)
		if err != nil {
			return forecastFetchedMsg{err: err}
		}

		report := builder.Build(forecast.Source{
			Zone:      page.Zone,
			Markup:    page.HTML,
			Stale:     page.Stale,
			FetchedAt: page.FetchedAt,
		})
		return forecastFetchedMsg{report: &report, source: page.Source}
	}
}

// parseZoneQuery reads "ANZ230" or "ANZ230 ANZ200" into a zone.
func parseZoneQuery(query string) (config.Zone, error) {
	fields := strings.Fields(strings.ToUpper(query))
	if len(fields) == 0 || len(fields) > 2 {
		return config.Zone{}, fmt.Errorf("enter a zone code, optionally followed by a synopsis zone")
	}

	zone := config.Zone{Code: fields[0]}
	if len(fields) == 2 {
		zone.Synopsis = fields[1]
	}
	for _, code := range fields {
		if !config.ValidZoneCode(code) {
			return config.Zone{}, fmt.Errorf("%q is not a marine zone code (e.g. ANZ230)", code)
		}
	}
	return zone, nil
}
