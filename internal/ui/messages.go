package ui

import (
	"github.com/ngmaloney/marine-outlook/internal/forecast"
)

// Message types for async operations

// forecastFetchedMsg is sent when a zone's forecast has been fetched and
// classified
type forecastFetchedMsg struct {
	report *forecast.Report
	source string
	err    error
}

// errMsg is a message type for errors
type errMsg struct {
	err error
}
