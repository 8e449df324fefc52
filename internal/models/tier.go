package models

import "fmt"

// Tier is the severity classification of a forecast period. Values are
// ordered: a larger Tier is more severe.
type Tier int

const (
	TierExcellent Tier = iota
	TierGood
	TierModerate
	TierCaution
	TierDangerous
)

// AllTiers lists every tier from least to most severe.
var AllTiers = []Tier{TierExcellent, TierGood, TierModerate, TierCaution, TierDangerous}

var tierNames = map[Tier]string{
	TierExcellent: "Excellent",
	TierGood:      "Good",
	TierModerate:  "Moderate",
	TierCaution:   "Caution",
	TierDangerous: "Dangerous",
}

var tierColors = map[Tier]string{
	TierExcellent: "green",
	TierGood:      "lightgreen",
	TierModerate:  "blue",
	TierCaution:   "orange",
	TierDangerous: "red",
}

// String returns the display name of the tier
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tier(%d)", int(t))
}

// Color returns the color tag every narrative message of this tier carries
func (t Tier) Color() string {
	return tierColors[t]
}

// MoreSevere reports whether t ranks above other.
func (t Tier) MoreSevere(other Tier) bool {
	return t > other
}

// ParseTier converts a tier name back into a Tier.
func ParseTier(s string) (Tier, error) {
	for tier, name := range tierNames {
		if name == s {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}

// MarshalText encodes the tier by name so JSON carries "Caution", not 3.
func (t Tier) MarshalText() ([]byte, error) {
	if _, ok := tierNames[t]; !ok {
		return nil, fmt.Errorf("unknown tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// NarrativeMessage is a short, tier-flavoured line shown next to a period.
type NarrativeMessage struct {
	Emoji    string `json:"emoji" yaml:"emoji"`
	Text     string `json:"text" yaml:"text"`
	ColorTag string `json:"colorTag" yaml:"colorTag"`
}

// ClassifiedPeriod pairs a forecast period with its tier and narrative.
type ClassifiedPeriod struct {
	Period  ForecastPeriod
	Tier    Tier
	Message NarrativeMessage
}

// Record flattens the classified period into its wire shape.
func (c ClassifiedPeriod) Record() ForecastRecord {
	return ForecastRecord{
		Period:        c.Period.Label,
		Winds:         c.Period.Winds,
		Seas:          c.Period.Seas,
		WaveDetail:    c.Period.WaveDetail,
		Thunderstorms: c.Period.Thunderstorms,
		Visibility:    c.Period.Visibility,
		Description:   c.Period.Description,
		Tier:          c.Tier,
		Summary:       c.Message,
	}
}

// ForecastRecord is the JSON shape emitted for a period plus its classification.
type ForecastRecord struct {
	Period        string           `json:"period"`
	Winds         string           `json:"winds"`
	Seas          string           `json:"seas"`
	WaveDetail    string           `json:"waveDetail"`
	Thunderstorms string           `json:"thunderstorms"`
	Visibility    string           `json:"visibility"`
	Description   string           `json:"description"`
	Tier          Tier             `json:"tier"`
	Summary       NarrativeMessage `json:"summary"`
}
