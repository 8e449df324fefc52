package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/ngmaloney/marine-outlook/internal/config"
	"github.com/ngmaloney/marine-outlook/internal/database"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
	"github.com/ngmaloney/marine-outlook/internal/ui"
)

func main() {
	zoneCode := flag.String("zone", "", "Marine zone code to load directly (e.g., ANZ230)")
	synopsisZone := flag.String("syn", "", "Synopsis zone to include with --zone (e.g., ANZ200)")
	file := flag.String("file", "", "Render a saved forecast HTML page instead of fetching from NOAA")
	flag.Parse()

	if *synopsisZone != "" && *zoneCode == "" {
		fmt.Println("Error: --syn requires --zone.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	zone := config.Zone{
		Code:     strings.ToUpper(*zoneCode),
		Synopsis: strings.ToUpper(*synopsisZone),
	}
	for _, z := range cfg.Zones {
		if z.Code != zone.Code {
			continue
		}
		zone.Name = z.Name
		if zone.Synopsis == "" {
			zone.Synopsis = z.Synopsis
		}
	}

	builder := forecast.NewBuilder()

	var model ui.Model
	if *file != "" {
		model, err = offlineModel(*file, zone, cfg.Zones, builder)
	} else {
		model, err = onlineModel(cfg, zone, builder)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

// offlineModel renders a local page with no network access.
func offlineModel(path string, zone config.Zone, zones []config.Zone, builder *forecast.Builder) (ui.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ui.Model{}, fmt.Errorf("reading forecast page: %w", err)
	}
	if zone.Code == "" {
		zone.Code = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	report := builder.Build(forecast.Source{Zone: zone.Code, Markup: string(data)})
	return ui.NewModel(nil, builder, zones).WithReport(report), nil
}

// onlineModel fetches from NOAA, caching pages in the local database.
func onlineModel(cfg *config.Config, zone config.Zone, builder *forecast.Builder) (ui.Model, error) {
	// Logs would draw over the terminal UI.
	logger := slog.New(slog.DiscardHandler)

	opts := []noaa.Option{
		noaa.WithBaseURL(cfg.NOAABaseURL),
		noaa.WithUserAgent(cfg.NOAAUserAgent),
		noaa.WithTimeout(cfg.FetchTimeout),
		noaa.WithRatePerMinute(cfg.FetchRatePerMinute),
		noaa.WithLogger(logger),
	}
	if db, err := database.Open(cfg.DBPath); err == nil {
		opts = append(opts, noaa.WithCache(database.NewPageStore(db, clockwork.NewRealClock()), cfg.CacheTTL))
	}
	client := noaa.NewMarineClient(opts...)

	if zone.Code != "" {
		code, err := noaa.NormalizeZone(zone.Code)
		if err != nil {
			return ui.Model{}, err
		}
		zone.Code = code
	}

	model := ui.NewModel(client, builder, cfg.Zones)
	if zone.Code != "" {
		model = model.WithZone(zone)
	}
	return model, nil
}
