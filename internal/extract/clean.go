package extract

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	// stripPolicy removes every tag. A space is left where a tag stood so
	// "<b>TONIGHT</b>...SW" does not glue words together.
	stripPolicy = newStripPolicy()

	breakRe = regexp.MustCompile(`(?i)<br\s*/?>`)

	// noiseRe matches regions whose text is never forecast content.
	noiseRe = regexp.MustCompile(`(?is)<script\b.*?</script\s*>|<style\b.*?</style\s*>|<!--.*?-->|<head\b.*?</head\s*>`)

	// blockBoundaryRe splits markup into line-like segments.
	blockBoundaryRe = regexp.MustCompile(`(?i)<br\s*/?>|</?(?:p|div|pre|tr|td|th|li|ul|ol|table|tbody|thead|h[1-6]|hr|section|article|header|footer|nav)\b[^>]*>`)

	// paragraphBoundaryRe is like blockBoundaryRe but keeps <br> and single
	// newlines inside a block, splitting on blank lines instead.
	paragraphBoundaryRe = regexp.MustCompile(`(?i)</?(?:p|div|pre|tr|td|th|li|ul|ol|table|h[1-6]|hr|section|article)\b[^>]*>|\n\s*\n`)
)

func newStripPolicy() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}

// stripNoise drops scripts, styles, comments and the document head.
func stripNoise(markup string) string {
	return noiseRe.ReplaceAllString(markup, " ")
}

// plainText strips tags and decodes entities but keeps line structure.
func plainText(fragment string) string {
	if fragment == "" {
		return ""
	}
	s := breakRe.ReplaceAllString(fragment, "\n")
	s = stripPolicy.Sanitize(s)
	return html.UnescapeString(s)
}

// cleanText strips tags, decodes entities and collapses whitespace.
func cleanText(fragment string) string {
	return normalizeSpace(plainText(fragment))
}

// normalizeSpace collapses runs of whitespace (including U+00A0) into one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanLabel cleans a period label and trims the &nbsp; residue and
// "..." separators that surround labels on forecast pages.
func cleanLabel(fragment string) string {
	s := cleanText(fragment)
	for {
		trimmed := strings.TrimLeft(s, "  ")
		trimmed = strings.TrimPrefix(trimmed, "&nbsp;")
		trimmed = strings.TrimPrefix(trimmed, "nbsp;")
		if trimmed == s {
			break
		}
		s = trimmed
	}
	s = strings.TrimRight(s, ".:-–  ")
	return strings.TrimSpace(s)
}

// cleanBody cleans a period body and drops the leading "..." or ":" that
// joins it to its label.
func cleanBody(fragment string) string {
	s := cleanText(fragment)
	s = strings.TrimLeft(s, ".:-– ")
	return strings.TrimSpace(s)
}

// splitSegments breaks markup into cleaned, non-empty line-like segments.
func splitSegments(markup string) []string {
	var out []string
	for _, block := range blockBoundaryRe.Split(markup, -1) {
		for _, line := range strings.Split(block, "\n") {
			if text := cleanText(line); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

// splitParagraphs breaks markup into cleaned, non-empty paragraphs.
func splitParagraphs(markup string) []string {
	var out []string
	for _, block := range paragraphBoundaryRe.Split(markup, -1) {
		if text := cleanText(block); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// elementBody returns the markup between an opening tag (ending at start)
// and its balanced closing tag. An unclosed element runs to the end of the
// document.
func elementBody(markup string, start int, tag string) string {
	if start < 0 || start > len(markup) {
		return ""
	}
	re := tagRe(tag)
	depth := 1
	for pos := start; pos < len(markup); {
		loc := re.FindStringSubmatchIndex(markup[pos:])
		if loc == nil {
			break
		}
		if loc[3] > loc[2] {
			depth--
		} else {
			depth++
		}
		if depth == 0 {
			return markup[start : pos+loc[0]]
		}
		pos += loc[1]
	}
	return markup[start:]
}

// eachElement calls visit with the body of every element whose opening tag
// matches opener, in document order, until visit returns true. Group 1 of
// opener must capture the tag name. Elements nested inside a body already
// visited are skipped: their markup was part of that body.
func eachElement(markup string, opener *regexp.Regexp, visit func(body string) bool) {
	visited := 0
	for _, loc := range opener.FindAllStringSubmatchIndex(markup, -1) {
		if loc[0] < visited {
			continue
		}
		body := elementBody(markup, loc[1], markup[loc[2]:loc[3]])
		if visit(body) {
			return
		}
		visited = loc[1] + len(body)
	}
}

var knownTagRes = map[string]*regexp.Regexp{}

func init() {
	for _, tag := range []string{"div", "pre", "p", "span", "section", "td", "article"} {
		knownTagRes[tag] = compileTagRe(tag)
	}
}

func tagRe(tag string) *regexp.Regexp {
	tag = strings.ToLower(tag)
	if re, ok := knownTagRes[tag]; ok {
		return re
	}
	return compileTagRe(tag)
}

func compileTagRe(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)<(/?)` + regexp.QuoteMeta(tag) + `\b[^>]*>`)
}
