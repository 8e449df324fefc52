package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword tags recorded in Signal.Keywords.
const (
	KeywordClear         = "clear"
	KeywordPartlyCloudy  = "partly cloudy"
	KeywordCloudy        = "cloudy"
	KeywordShowers       = "showers"
	KeywordThunderstorms = "thunderstorms"
	KeywordFog           = "fog"
	KeywordRain          = "rain"
)

// Signal holds the values parsed out of a period's text that drive tier
// assignment. Has* fields report whether the matching value was found.
type Signal struct {
	WindSpeed     float64  `json:"windSpeed,omitempty"`
	HasWind       bool     `json:"hasWind"`
	GustSpeed     float64  `json:"gustSpeed,omitempty"`
	HasGust       bool     `json:"hasGust"`
	SeaHeight     float64  `json:"seaHeight,omitempty"`
	HasSeas       bool     `json:"hasSeas"`
	Visibility    float64  `json:"visibility,omitempty"`
	HasVisibility bool     `json:"hasVisibility"`
	Keywords      []string `json:"keywords"`
	PartialDay    bool     `json:"partialDay"`
}

// HasKeyword reports whether tag was recorded.
func (s Signal) HasKeyword(tag string) bool {
	for _, k := range s.Keywords {
		if k == tag {
			return true
		}
	}
	return false
}

const number = `(\d+(?:\.\d+)?(?:/\d+)?)`

var (
	windPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwinds?\s+(?:around\s+|about\s+|near\s+|up\s+to\s+|less\s+than\s+)?` + number + `(?:\s*to\s*` + number + `)?\s*(?:kt|knots?)\b`),
		regexp.MustCompile(`(?i)\b[a-z]+\s+winds?\s+(?:around\s+|about\s+)?` + number + `(?:\s*to\s*` + number + `)?\s*(?:kt|knots?)\b`),
		regexp.MustCompile(`(?i)\bwinds?\s+[a-z]+\s+` + number + `(?:\s*to\s*` + number + `)?\s*(?:kt|knots?)\b`),
	}

	gustPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bgusts?\s+(?:up\s+to\s+|to\s+|around\s+)?` + number + `\s*(?:kt|knots?)\b`),
	}

	seasPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:seas|waves)\s+(?:around\s+|about\s+|building\s+to\s+|subsiding\s+to\s+|less\s+than\s+)?` + number + `(?:\s*to\s*` + number + `)?\s*(?:ft|feet|foot)\b`),
		regexp.MustCompile(`(?i)\b` + number + `(?:\s*to\s*` + number + `)?\s*(?:ft|feet|foot)\s+seas\b`),
	}

	visibilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:visibility|vsby)\s+(?:around\s+|about\s+)?` + number + `(?:\s*to\s*` + number + `)?\s*(?:nm|miles?)\b`),
		regexp.MustCompile(`(?i)\b(?:visibility|vsby)\s+(?:less\s+than\s+|under\s+|below\s+)` + number + `\s*(?:nm|miles?)\b`),
	}

	keywordPatterns = []struct {
		tag string
		re  *regexp.Regexp
	}{
		{KeywordClear, regexp.MustCompile(`(?i)\b(?:clear|sunny|fair)\b`)},
		{KeywordPartlyCloudy, regexp.MustCompile(`(?i)\bpartly\s+cloudy\b`)},
		{KeywordCloudy, regexp.MustCompile(`(?i)\b(?:cloudy|overcast)\b`)},
		{KeywordShowers, regexp.MustCompile(`(?i)\bshowers?\b`)},
		{KeywordThunderstorms, regexp.MustCompile(`(?i)\b(?:thunderstorms?|tstms?)\b`)},
		// Prefix match so "foggy" and "misty" count.
		{KeywordFog, regexp.MustCompile(`(?i)\b(?:fog|mist)`)},
		{KeywordRain, regexp.MustCompile(`(?i)\brain\b`)},
	}

	partialDayRe = regexp.MustCompile(`(?i)\b(?:morning|afternoon|evening|tonight|later|becoming|then|after|before|until)\b`)
)

// ParseSignal reads wind, gust, sea, visibility, keyword and partial-day
// information from free forecast text. Wind, gusts and seas keep the highest
// value found; visibility keeps the lowest.
func ParseSignal(text string) Signal {
	s := Signal{Keywords: []string{}}

	s.WindSpeed, s.HasWind = scan(text, windPatterns, higher)
	s.GustSpeed, s.HasGust = scan(text, gustPatterns, higher)
	s.SeaHeight, s.HasSeas = scan(text, seasPatterns, higher)
	s.Visibility, s.HasVisibility = scan(text, visibilityPatterns, lower)

	// Tags are not exclusive: "partly cloudy" also counts as "cloudy".
	for _, kp := range keywordPatterns {
		if kp.re.MatchString(text) {
			s.Keywords = append(s.Keywords, kp.tag)
		}
	}

	s.PartialDay = partialDayRe.MatchString(text)
	return s
}

// scan runs every pattern over text and folds every number captured into
// one value with pick.
func scan(text string, patterns []*regexp.Regexp, pick func(a, b float64) float64) (float64, bool) {
	var (
		value float64
		found bool
	)
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, g := range m[1:] {
				n, ok := parseNumber(g)
				if !ok {
					continue
				}
				if !found {
					value, found = n, true
					continue
				}
				value = pick(value, n)
			}
		}
	}
	return value, found
}

func higher(a, b float64) float64 { return max(a, b) }

func lower(a, b float64) float64 { return min(a, b) }

// parseNumber accepts integers, decimals and simple fractions like "1/2".
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
