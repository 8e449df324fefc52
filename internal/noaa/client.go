package noaa

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrZoneRequired is returned when no marine zone is given.
	ErrZoneRequired = errors.New("marine zone is required")
	// ErrInvalidZone is returned for zone codes not shaped like "ANZ230".
	ErrInvalidZone = errors.New("invalid marine zone")
)

// Page sources reported in Page.Source.
const (
	SourceNetwork     = "network"
	SourceTextProduct = "text-product"
	SourceCache       = "cache"
	SourceStale       = "stale"
)

// Page is a raw marine forecast page.
type Page struct {
	Zone         string
	SynopsisZone string
	URL          string
	HTML         string
	FetchedAt    time.Time
	Source       string
	// Stale is set when the upstream could not be reached and an expired
	// cached copy was served instead.
	Stale bool
}

// MarineClient defines the interface for fetching marine forecast pages
type MarineClient interface {
	// FetchForecastPage retrieves the forecast page for a zone, with the
	// synopsis of synopsisZone when it is not empty
	FetchForecastPage(ctx context.Context, zone, synopsisZone string) (*Page, error)
}
