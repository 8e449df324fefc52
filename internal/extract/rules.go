package extract

import "regexp"

// rejection names the reason a candidate period was discarded.
type rejection string

const (
	accepted      rejection = ""
	rejectEmpty   rejection = "empty"
	rejectTime    rejection = "timestamp"
	rejectZone    rejection = "zone-code"
	rejectLeading rejection = "leading-match"
)

var (
	timeLabelRe = regexp.MustCompile(`(?i)^(?:\d{1,2}:\d{2}|\d{3,4})\s*(?:AM|PM)\b`)
	zoneLabelRe = regexp.MustCompile(`^[A-Z]{3}\d{3}`)
)

type candidate struct {
	label string
	body  string
}

// reject applies the acceptance rules in order and returns the first rule
// that discards c, or accepted. dropLeading is set for the first raw match
// of a strategy that skips it.
func reject(c candidate, dropLeading bool) rejection {
	switch {
	case c.label == "" || c.body == "":
		return rejectEmpty
	case timeLabelRe.MatchString(c.label):
		return rejectTime
	case zoneLabelRe.MatchString(c.label):
		return rejectZone
	case dropLeading:
		return rejectLeading
	}
	return accepted
}
