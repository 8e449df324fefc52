package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

// Layer names reported in ForecastDocument.Layer.
const (
	LayerPrimary     = "primary"
	LayerBold        = "secondary/bold"
	LayerTextProduct = "secondary/text-product"
	LayerTable       = "secondary/table"
	LayerKeywordScan = "keyword-scan"
)

// keywordScanLimit caps the periods produced by the last-resort scan.
const keywordScanLimit = 3

// minScanLength is the shortest line the keyword scan will accept.
const minScanLength = 20

var (
	preformattedOpenRe = regexp.MustCompile(`(?i)<(div|pre|td|section|span|article|p)\b[^>]*style\s*=\s*["'][^"']*white-space\s*:\s*pre[^"']*["'][^>]*>`)
	preOpenRe          = regexp.MustCompile(`(?i)<(pre)\b[^>]*>`)

	// labelRunRe matches bold runs used as period labels.
	labelRunRe = regexp.MustCompile(`(?is)<(?:b|strong)\b[^>]*>(.*?)</(?:b|strong)\s*>|<span\b[^>]*font-weight\s*:\s*(?:bold|[6-9]00)[^>]*>(.*?)</span\s*>`)
	// emphasisRunRe is the looser bold match used by the secondary layer.
	emphasisRunRe = regexp.MustCompile(`(?is)<(?:b|strong|em)\b[^>]*>(.*?)</(?:b|strong|em)\s*>`)
	// bodyStopRe ends a loose body at the next block boundary.
	bodyStopRe = regexp.MustCompile(`(?i)</?(?:div|p|td|th|tr|li|pre|table|h[1-6])\b[^>]*>|<hr\b`)

	dayTokenRe = regexp.MustCompile(`(?i)\b(?:today|tonight|tomorrow|overnight|this\s+(?:morning|afternoon|evening)|rest\s+of|(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)(?:day|sday|nesday|rsday|urday)?)\b`)

	weatherWordRe = regexp.MustCompile(`(?i)\b(?:winds?|seas|waves?|knots?|kt|mph|ft|visibility)\b`)

	productHeaderRe = regexp.MustCompile(`(?i)advisory|warning|watch`)
)

// layer is one extraction strategy. Layers are tried in order and the first
// that yields an accepted period wins.
type layer struct {
	name string
	// dropLeading discards the first raw candidate, which on the current
	// page layout is header residue rather than a forecast period.
	dropLeading bool
	limit       int
	find        func(markup string) []candidate
}

func defaultLayers(dropLeading bool) []layer {
	return []layer{
		{name: LayerPrimary, dropLeading: dropLeading, find: findPreformatted},
		{name: LayerBold, find: findEmphasis},
		{name: LayerTextProduct, find: findTextProduct},
		{name: LayerTable, find: findTableRows},
		{name: LayerKeywordScan, limit: keywordScanLimit, find: findWeatherLines},
	}
}

// run applies the layer. A panic inside a strategy yields no periods so the
// next layer gets its turn.
func (l layer) run(markup string) (periods []models.ForecastPeriod, err error) {
	defer func() {
		if r := recover(); r != nil {
			periods = nil
			err = fmt.Errorf("layer %s: %v", l.name, r)
		}
	}()

	for i, c := range l.find(markup) {
		if reject(c, i == 0 && l.dropLeading) != accepted {
			continue
		}
		periods = append(periods, buildPeriod(c))
		if l.limit > 0 && len(periods) == l.limit {
			break
		}
	}
	return periods, nil
}

// findPreformatted reads labelled runs inside the first preserved-whitespace
// container that has any. Each body runs to the next label.
func findPreformatted(markup string) []candidate {
	var found []candidate
	for _, opener := range []*regexp.Regexp{preformattedOpenRe, preOpenRe} {
		eachElement(markup, opener, func(body string) bool {
			found = labelledRuns(body, labelRunRe, false)
			return len(found) > 0
		})
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

// findEmphasis reads bold or emphasised labels naming a day anywhere in the
// document. Bodies stop at the next label or block boundary.
func findEmphasis(markup string) []candidate {
	var out []candidate
	for _, c := range labelledRuns(markup, emphasisRunRe, true) {
		if dayTokenRe.MatchString(c.label) {
			out = append(out, c)
		}
	}
	return out
}

func labelledRuns(markup string, re *regexp.Regexp, stopAtBlock bool) []candidate {
	matches := re.FindAllStringSubmatchIndex(markup, -1)
	out := make([]candidate, 0, len(matches))
	for i, m := range matches {
		end := len(markup)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := markup[m[1]:end]
		if stopAtBlock {
			if stop := bodyStopRe.FindStringIndex(body); stop != nil {
				body = body[:stop[0]]
			}
		}
		out = append(out, candidate{
			label: cleanLabel(firstGroup(markup, m)),
			body:  cleanBody(body),
		})
	}
	return out
}

func firstGroup(s string, m []int) string {
	for g := 1; 2*g+1 < len(m); g++ {
		if m[2*g] >= 0 {
			return s[m[2*g]:m[2*g+1]]
		}
	}
	return ""
}

// findTextProduct reads the NWS coded text layout where each period starts
// a line with ".NAME...". Headline banners such as "...SMALL CRAFT
// ADVISORY..." are skipped.
func findTextProduct(markup string) []candidate {
	text := "\n" + plainText(markup)
	if i := strings.Index(text, "$$"); i >= 0 {
		text = text[:i]
	}

	var out []candidate
	for _, chunk := range strings.Split(text, "\n.")[1:] {
		parts := strings.SplitN(chunk, "...", 2)
		if len(parts) != 2 {
			continue
		}
		name := normalizeSpace(parts[0])
		if name == "" || strings.HasPrefix(name, ".") || len(name) > 40 {
			continue
		}
		if productHeaderRe.MatchString(name) {
			continue
		}
		out = append(out, candidate{label: name, body: normalizeSpace(parts[1])})
	}
	return out
}

// findTableRows reads two-cell table rows whose first cell names a day or
// whose second cell reads like marine weather.
func findTableRows(markup string) []candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	var out []candidate
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td, th")
		if cells.Length() < 2 {
			return
		}
		label := cleanLabel(cells.Eq(0).Text())
		body := cleanBody(cells.Eq(1).Text())
		if dayTokenRe.MatchString(label) || weatherWordRe.MatchString(body) {
			out = append(out, candidate{label: label, body: body})
		}
	})
	return out
}

// findWeatherLines is the last resort: any line long enough to be a
// sentence that mentions wind, seas or visibility becomes "Forecast N".
func findWeatherLines(markup string) []candidate {
	var out []candidate
	for _, line := range splitSegments(markup) {
		if utf8.RuneCountInString(line) < minScanLength || !weatherWordRe.MatchString(line) {
			continue
		}
		out = append(out, candidate{
			label: fmt.Sprintf("Forecast %d", len(out)+1),
			body:  line,
		})
	}
	return out
}
