// Package classify grades forecast text into one of five severity tiers and
// pairs it with a narrative message from that tier's pool.
package classify

import (
	"math/rand/v2"
	"strings"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

// Classification is the result of classifying a piece of forecast text.
type Classification struct {
	Tier    models.Tier             `json:"tier"`
	Message models.NarrativeMessage `json:"message"`
	Signal  Signal                  `json:"signal"`
}

// Classifier assigns tiers and draws narrative messages.
type Classifier struct {
	pools Pools
	intn  func(n int) int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRand sets the source used to pick messages. intn must return a value
// in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(c *Classifier) { c.intn = intn }
}

// WithPools replaces the built-in message pools.
func WithPools(p Pools) Option {
	return func(c *Classifier) { c.pools = p }
}

// New returns a Classifier using the built-in pools and a random source.
func New(opts ...Option) *Classifier {
	c := &Classifier{pools: DefaultPools(), intn: rand.IntN}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify parses text, assigns its tier and picks a message for it.
func (c *Classifier) Classify(text string) Classification {
	signal := ParseSignal(text)
	tier := AssignTier(signal)
	return Classification{
		Tier:    tier,
		Message: c.PickMessage(tier),
		Signal:  signal,
	}
}

// PickMessage draws one message from the tier's pool. The message's color
// tag always matches the tier.
func (c *Classifier) PickMessage(tier models.Tier) models.NarrativeMessage {
	pool := c.pools[tier]
	if len(pool) == 0 {
		return models.NarrativeMessage{Text: tier.String(), ColorTag: tier.Color()}
	}
	i := c.intn(len(pool))
	if i < 0 || i >= len(pool) {
		i = 0
	}
	msg := pool[i]
	msg.ColorTag = tier.Color()
	return msg
}

// ClassifyPeriod classifies a period using its raw text, or the joined
// sub-fields when the raw text is missing.
func (c *Classifier) ClassifyPeriod(p models.ForecastPeriod) models.ClassifiedPeriod {
	cl := c.Classify(periodText(p))
	return models.ClassifiedPeriod{Period: p, Tier: cl.Tier, Message: cl.Message}
}

// ClassifyPeriods classifies each period in order.
func (c *Classifier) ClassifyPeriods(periods []models.ForecastPeriod) []models.ClassifiedPeriod {
	out := make([]models.ClassifiedPeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, c.ClassifyPeriod(p))
	}
	return out
}

func periodText(p models.ForecastPeriod) string {
	if p.RawText != "" {
		return p.RawText
	}
	var parts []string
	for _, f := range []string{p.Winds, p.Seas, p.WaveDetail, p.Thunderstorms, p.Visibility, p.Description} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, ". ")
}

var defaultClassifier = New()

// Classify runs the default Classifier.
func Classify(text string) Classification {
	return defaultClassifier.Classify(text)
}
