// Package forecast turns forecast pages into classified reports.
package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/ngmaloney/marine-outlook/internal/classify"
	"github.com/ngmaloney/marine-outlook/internal/extract"
	"github.com/ngmaloney/marine-outlook/internal/models"
	"github.com/ngmaloney/marine-outlook/internal/observability"
)

// maxParallelBuilds bounds BuildAll.
const maxParallelBuilds = 4

// Report is a zone's synopsis plus its classified periods.
type Report struct {
	Zone        string                  `json:"zone"`
	Synopsis    string                  `json:"synopsis"`
	Layer       string                  `json:"layer,omitempty"`
	Periods     []models.ForecastRecord `json:"periods"`
	Stale       bool                    `json:"stale,omitempty"`
	FetchedAt   time.Time               `json:"fetchedAt,omitzero"`
	GeneratedAt time.Time               `json:"generatedAt"`
}

// WorstTier returns the most severe tier across the report's periods, and
// false when there are none.
func (r Report) WorstTier() (models.Tier, bool) {
	if len(r.Periods) == 0 {
		return models.TierExcellent, false
	}
	worst := r.Periods[0].Tier
	for _, p := range r.Periods[1:] {
		if p.Tier.MoreSevere(worst) {
			worst = p.Tier
		}
	}
	return worst, true
}

// Source is one page of markup to build a report from.
type Source struct {
	Zone      string
	Markup    string
	Stale     bool
	FetchedAt time.Time
}

// Builder extracts and classifies forecast pages.
type Builder struct {
	extractor  *extract.Extractor
	classifier *classify.Classifier
	clock      clockwork.Clock
	metrics    *observability.Metrics
}

// Option configures a Builder.
type Option func(*Builder)

// WithClassifier sets the classifier used for periods. A nil classifier
// keeps the default.
func WithClassifier(c *classify.Classifier) Option {
	return func(b *Builder) {
		if c != nil {
			b.classifier = c
		}
	}
}

// WithExtractor sets the page extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(b *Builder) { b.extractor = e }
}

// WithClock sets the time source for GeneratedAt.
func WithClock(c clockwork.Clock) Option {
	return func(b *Builder) { b.clock = c }
}

// WithMetrics records extraction and classification counts.
func WithMetrics(m *observability.Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// NewBuilder returns a Builder with the default extractor and classifier.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		extractor:  extract.New(),
		classifier: classify.New(),
		clock:      clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build extracts the page and classifies every period.
func (b *Builder) Build(src Source) Report {
	start := b.clock.Now()

	doc := b.extractor.Extract(src.Markup)
	report := Report{
		Zone:        src.Zone,
		Synopsis:    doc.Synopsis,
		Layer:       doc.Layer,
		Periods:     make([]models.ForecastRecord, 0, len(doc.Periods)),
		Stale:       src.Stale,
		FetchedAt:   src.FetchedAt,
		GeneratedAt: start,
	}
	for _, cp := range b.classifier.ClassifyPeriods(doc.Periods) {
		report.Periods = append(report.Periods, cp.Record())
	}

	if b.metrics != nil {
		if doc.Layer != "" {
			b.metrics.PeriodsExtracted.WithLabelValues(doc.Layer).Add(float64(len(doc.Periods)))
		}
		for _, p := range report.Periods {
			b.metrics.TiersAssigned.WithLabelValues(p.Tier.String()).Inc()
		}
		b.metrics.BuildDuration.Observe(b.clock.Since(start).Seconds())
	}
	return report
}

// BuildAll builds reports for every source in parallel. Reports come back
// in the order of sources. Only context cancellation stops it early.
func (b *Builder) BuildAll(ctx context.Context, sources []Source) ([]Report, error) {
	reports := make([]Report, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelBuilds)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("building %s: %w", src.Zone, err)
			}
			reports[i] = b.Build(src)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Build extracts and classifies one page with c.
func Build(zone, markup string, c *classify.Classifier) Report {
	return NewBuilder(WithClassifier(c)).Build(Source{Zone: zone, Markup: markup})
}

// BuildAll builds several pages in parallel with c.
func BuildAll(ctx context.Context, sources []Source, c *classify.Classifier) ([]Report, error) {
	return NewBuilder(WithClassifier(c)).BuildAll(ctx, sources)
}
