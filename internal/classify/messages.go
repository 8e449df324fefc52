package classify

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

// minPoolSize is the smallest pool a tier may have.
const minPoolSize = 20

//go:embed messages.yaml
var messagesYAML []byte

// Pools maps each tier to its narrative messages.
type Pools map[models.Tier][]models.NarrativeMessage

type poolEntry struct {
	Emoji string `yaml:"emoji"`
	Text  string `yaml:"text"`
}

// LoadPools decodes a message file keyed by tier name. Every tier must be
// present with at least minPoolSize entries. Each message's color tag is
// set from its tier.
func LoadPools(data []byte) (Pools, error) {
	var raw map[string][]poolEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding message pools: %w", err)
	}

	pools := make(Pools, len(models.AllTiers))
	for name, entries := range raw {
		tier, err := models.ParseTier(name)
		if err != nil {
			return nil, fmt.Errorf("message pools: %w", err)
		}
		msgs := make([]models.NarrativeMessage, 0, len(entries))
		for i, e := range entries {
			if e.Text == "" {
				return nil, fmt.Errorf("message pools: %s entry %d has no text", tier, i)
			}
			msgs = append(msgs, models.NarrativeMessage{
				Emoji:    e.Emoji,
				Text:     e.Text,
				ColorTag: tier.Color(),
			})
		}
		pools[tier] = msgs
	}

	for _, tier := range models.AllTiers {
		if n := len(pools[tier]); n < minPoolSize {
			return nil, fmt.Errorf("message pools: %s has %d messages, want at least %d", tier, n, minPoolSize)
		}
	}
	return pools, nil
}

// DefaultPools returns the built-in message pools.
func DefaultPools() Pools {
	return defaultPools
}

var defaultPools = mustLoadPools(messagesYAML)

func mustLoadPools(data []byte) Pools {
	pools, err := LoadPools(data)
	if err != nil {
		panic(err)
	}
	return pools
}
