// Package extract turns a marine forecast web page into a synopsis and an
// ordered list of forecast periods. Extraction is best-effort: it never
// fails, and a page it cannot read yields an empty document.
package extract

import (
	"log/slog"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

// Extractor runs the layered period strategies over a page.
type Extractor struct {
	layers []layer
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*extractorOptions)

type extractorOptions struct {
	dropLeading bool
	logger      *slog.Logger
}

// WithDropLeadingMatch controls whether the primary layer discards its
// first raw match. It is on by default.
func WithDropLeadingMatch(drop bool) Option {
	return func(o *extractorOptions) { o.dropLeading = drop }
}

// WithLogger sets the logger used for strategy failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *extractorOptions) { o.logger = logger }
}

// New returns an Extractor with the default strategy order.
func New(opts ...Option) *Extractor {
	o := extractorOptions{dropLeading: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Extractor{layers: defaultLayers(o.dropLeading), logger: o.logger}
}

var defaultExtractor = New()

// Extract runs the default Extractor.
func Extract(markup string) models.ForecastDocument {
	return defaultExtractor.Extract(markup)
}

// Extract returns the synopsis and the periods from the first strategy that
// produces any. Periods is never nil.
func (e *Extractor) Extract(markup string) (doc models.ForecastDocument) {
	doc.Periods = []models.ForecastPeriod{}
	if markup == "" {
		return doc
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("extraction aborted", "panic", r)
			doc = models.ForecastDocument{Periods: []models.ForecastPeriod{}}
		}
	}()

	markup = stripNoise(markup)
	doc.Synopsis = extractSynopsis(markup)

	for _, l := range e.layers {
		periods, err := l.run(markup)
		if err != nil {
			e.logger.Warn("extraction strategy failed", "layer", l.name, "error", err)
			continue
		}
		if len(periods) > 0 {
			doc.Periods = periods
			doc.Layer = l.name
			return doc
		}
	}
	return doc
}
