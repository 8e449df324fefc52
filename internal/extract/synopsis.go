package extract

import (
	"regexp"
	"strings"
)

var (
	synopsisOpenRe = regexp.MustCompile(`(?i)<(div|p|span|section|pre|td|article)\b[^>]*synopsis[^>]*>`)
	// timestampRe matches issuance stamps such as "1132 AM EST" or "3:45 PM EDT".
	timestampRe       = regexp.MustCompile(`\b(?:\d{1,2}:\d{2}|\d{1,4})\s*(?:AM|PM|am|pm)\s+[A-Z]{3}\b`)
	synopsisKeywordRe = regexp.MustCompile(`(?i)\b(?:high\s+pressure|low\s+pressure|small\s+craft|gale|advisory|storm\s+warning|cold\s+front|warm\s+front|synopsis)\b`)
	synopsisPrefixRe  = regexp.MustCompile(`(?i)^synopsis\b[\s.:-]*`)
)

// extractSynopsis returns the synopsis text or "" when none is found. An
// element marked as a synopsis wins; otherwise the first paragraph before
// the first issuance stamp that reads like a synopsis is used.
func extractSynopsis(markup string) string {
	if text := markedSynopsis(markup); text != "" {
		return text
	}

	head := markup
	if loc := timestampRe.FindStringIndex(markup); loc != nil {
		head = markup[:loc[0]]
	}
	for _, para := range splitParagraphs(head) {
		if synopsisKeywordRe.MatchString(para) {
			return para
		}
	}
	return ""
}

func markedSynopsis(markup string) string {
	var text string
	eachElement(markup, synopsisOpenRe, func(body string) bool {
		text = strings.TrimSpace(synopsisPrefixRe.ReplaceAllString(cleanText(body), ""))
		return text != ""
	})
	return text
}
