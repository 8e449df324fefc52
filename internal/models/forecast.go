package models

// ForecastPeriod is a single forecast time segment recovered from a marine
// forecast page, e.g. "TONIGHT" or "WED NIGHT".
type ForecastPeriod struct {
	Label         string `json:"period"`
	RawText       string `json:"rawText"`       // Cleaned body text, kept for re-parsing
	Winds         string `json:"winds"`         // e.g. "SW winds 5 to 10 kt, becoming W"
	Seas          string `json:"seas"`          // e.g. "Seas 1 ft or less"
	WaveDetail    string `json:"waveDetail"`    // e.g. "S 2 ft at 7 seconds"
	Thunderstorms string `json:"thunderstorms"` // Sentence mentioning tstms, if any
	Visibility    string `json:"visibility"`    // e.g. "Vsby 1 to 3 nm"
	Description   string `json:"description"`   // Condensed condition phrase, e.g. "showers, fog"
}

// ForecastDocument is everything recovered from one raw marine forecast page.
type ForecastDocument struct {
	Synopsis string           `json:"synopsis"`
	Periods  []ForecastPeriod `json:"periods"`
	Layer    string           `json:"layer,omitempty"` // Extraction strategy that produced Periods
}
