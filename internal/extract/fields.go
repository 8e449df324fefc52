package extract

import (
	"regexp"
	"strings"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

var (
	// windHeadRe finds a directional wind clause such as "SW winds 10 to 15 kt".
	windHeadRe    = regexp.MustCompile(`(?i)\b(?:(?-i:[NSEW]{1,3})|variable)\s+winds?\b[^.]*?\b\d+(?:\s+to\s+\d+)?\s*(?:kt|knots?|mph)\b`)
	windMentionRe = regexp.MustCompile(`(?i)\b(?:(?-i:[NSEW]{1,3})|variable)\s+winds?\b`)
	// windLooseRe also accepts "Winds ENE 15 kt" and stops at a comma.
	windLooseRe = regexp.MustCompile(`(?i)\b(?:(?-i:[NSEW]{1,3})\s+)?winds?\b[^,.]*?\b\d+(?:\s+to\s+\d+)?\s*(?:kt|knots?|mph)\b[^,.]*`)
	// unitQualifierRe separates a speed unit from a capitalised qualifier:
	// "15 kt Gusts to 25 kt" becomes "15 kt, Gusts to 25 kt".
	unitQualifierRe = regexp.MustCompile(`\b((?i:kt|knots?|mph))\s+([A-Z][a-z])`)

	seasHeadRe    = regexp.MustCompile(`(?i)\b(?:seas|waves)\b[^.]*?\b\d+(?:\s+to\s+\d+)?\s*(?:ft|feet|foot)\b`)
	seasMentionRe = regexp.MustCompile(`(?i)\b(?:seas|waves)\b`)
	seasLooseRe   = regexp.MustCompile(`(?i)\b(?:seas|waves)\b[^,]*?\d+(?:\.\d+)?\s*(?:ft|feet|foot)\b[^,.]*`)

	waveDetailRe    = regexp.MustCompile(`(?i)\bwave\s+detail\s*:\s*(.*?)(?:\.\s|\.$|$)`)
	thunderstormsRe = regexp.MustCompile(`(?i)[^.]*\b(?:thunderstorms?|tstms?)\b[^.]*`)

	vsbyRe       = regexp.MustCompile(`(?i)\bvsby\b[^.]*?\d+(?:/\d+)?(?:\s+to\s+\d+(?:/\d+)?)?\s*(?:nm|miles?)\b[^.,]*`)
	visibilityRe = regexp.MustCompile(`(?i)\bvisibility\b[^.]*?\d+(?:/\d+)?(?:\s+to\s+\d+(?:/\d+)?)?\s*(?:nm|miles?)\b[^.,]*`)

	sentenceEndRe = regexp.MustCompile(`\.(?:\s|$)`)
)

// descriptionPatterns are tried in order; a later match already contained
// in an earlier phrase ("rain" inside "freezing rain") is skipped.
var descriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bfreezing\s+(?:rain|drizzle)\b`),
	regexp.MustCompile(`(?i)\b(?:rain\s+|snow\s+)?showers\b`),
	regexp.MustCompile(`(?i)\bdrizzle\b`),
	regexp.MustCompile(`(?i)\brain\b`),
	regexp.MustCompile(`(?i)\b(?:thunderstorms|tstms)\b`),
	regexp.MustCompile(`(?i)\b(?:mostly|partly)\s+(?:cloudy|sunny|clear)\b`),
	regexp.MustCompile(`(?i)\bcloudy\b`),
	regexp.MustCompile(`(?i)\bovercast\b`),
	regexp.MustCompile(`(?i)\bclear\b`),
	regexp.MustCompile(`(?i)\bsunny\b`),
	regexp.MustCompile(`(?i)\b(?:patchy\s+|dense\s+|areas\s+of\s+)?fog\b`),
	regexp.MustCompile(`(?i)\bmist\b`),
	regexp.MustCompile(`(?i)\bhaze\b`),
	regexp.MustCompile(`(?i)\bsleet\b`),
	regexp.MustCompile(`(?i)\bsnow\b`),
}

var fairRe = regexp.MustCompile(`(?i)\bfair\b`)

// buildPeriod turns an accepted candidate into a period with its
// sub-fields filled from the body text.
func buildPeriod(c candidate) models.ForecastPeriod {
	return models.ForecastPeriod{
		Label:         c.label,
		RawText:       c.body,
		Winds:         extractWinds(c.body),
		Seas:          extractSeas(c.body),
		WaveDetail:    extractWaveDetail(c.body),
		Thunderstorms: extractThunderstorms(c.body),
		Visibility:    extractVisibility(c.body),
		Description:   extractDescription(c.body),
	}
}

func extractWinds(text string) string {
	if loc := windHeadRe.FindStringIndex(text); loc != nil {
		clause := extendClause(text, loc, windMentionRe)
		return tidyClause(unitQualifierRe.ReplaceAllString(clause, "$1, $2"))
	}
	if m := windLooseRe.FindString(text); m != "" {
		return tidyClause(unitQualifierRe.ReplaceAllString(m, "$1, $2"))
	}
	return ""
}

func extractSeas(text string) string {
	if loc := seasHeadRe.FindStringIndex(text); loc != nil {
		return tidyClause(extendClause(text, loc, seasMentionRe))
	}
	return tidyClause(seasLooseRe.FindString(text))
}

func extractWaveDetail(text string) string {
	m := waveDetailRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return tidyClause(m[1])
}

func extractThunderstorms(text string) string {
	return tidyClause(thunderstormsRe.FindString(text))
}

func extractVisibility(text string) string {
	if m := vsbyRe.FindString(text); m != "" {
		return tidyClause(m)
	}
	return tidyClause(visibilityRe.FindString(text))
}

// extractDescription lists the recognised sky and precipitation phrases in
// the order of descriptionPatterns. It never invents a description.
func extractDescription(text string) string {
	var phrases []string
	for _, re := range descriptionPatterns {
		for _, m := range re.FindAllString(text, -1) {
			phrase := strings.ToLower(normalizeSpace(m))
			if containedIn(phrase, phrases) {
				continue
			}
			phrases = append(phrases, phrase)
		}
	}
	if len(phrases) > 0 {
		return strings.Join(phrases, ", ")
	}
	if fairRe.MatchString(text) {
		return "fair"
	}
	return ""
}

func containedIn(phrase string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(p, phrase) {
			return true
		}
	}
	return false
}

// extendClause grows the match at loc to the end of its sentence or to the
// next mention matched by stop, whichever comes first.
func extendClause(text string, loc []int, stop *regexp.Regexp) string {
	rest := text[loc[1]:]
	end := len(rest)
	if m := sentenceEndRe.FindStringIndex(rest); m != nil {
		end = m[0]
	}
	if m := stop.FindStringIndex(rest); m != nil && m[0] < end {
		end = m[0]
	}
	return text[loc[0] : loc[1]+end]
}

func tidyClause(s string) string {
	s = normalizeSpace(s)
	return strings.TrimRight(s, ",;. ")
}
