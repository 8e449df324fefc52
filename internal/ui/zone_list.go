package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/ngmaloney/marine-outlook/internal/config"
)

// zoneItem wraps a configured Zone for use in a list
type zoneItem struct {
	zone config.Zone
}

// FilterValue implements list.Item
func (z zoneItem) FilterValue() string {
	return z.zone.Code + " " + z.zone.Name
}

// Title implements list.DefaultItem
func (z zoneItem) Title() string {
	if z.zone.Name == "" {
		return z.zone.Code
	}
	return z.zone.Code + " - " + z.zone.Name
}

// Description implements list.DefaultItem
func (z zoneItem) Description() string {
	if z.zone.Synopsis == "" {
		return "No synopsis zone"
	}
	return "Synopsis from " + z.zone.Synopsis
}

// createZoneList creates a list.Model from the configured zones
func createZoneList(zones []config.Zone, width, height int) list.Model {
	items := make([]list.Item, len(zones))
	for i, zone := range zones {
		items[i] = zoneItem{zone: zone}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Select a Marine Zone"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)

	return l
}
