package extract

import (
	"strings"
	"testing"
	"time"
)

const forecastPage = `<html>
<head><title>Marine Forecast</title><script>var banner = "TONIGHT winds 40 kt";</script></head>
<body>
<div class="nav">Home | Marine | Contact</div>
<p>Synopsis for Cape Cod Bay. High pressure builds over the waters through Wednesday.</p>
<div style="font-family: monospace; white-space: pre-wrap;">
<b>1132 AM EST Tue Nov 12 2024</b>
<b>&nbsp;TONIGHT...</b>SW winds 10 to 15 kt. Seas 2 to 3 ft. Wave Detail: S 3 ft at 5 seconds.
<b>WED...</b>W winds 15 to 20 kt with gusts up to 25 kt. Seas 3 to 4 ft. A chance of showers.
</div>
<div class="footer">National Weather Service</div>
</body>
</html>`

func TestExtract_PrimaryLayer(t *testing.T) {
	doc := Extract(forecastPage)

	if doc.Layer != LayerPrimary {
		t.Errorf("Layer = %q, want %q", doc.Layer, LayerPrimary)
	}

	if len(doc.Periods) != 2 {
		t.Fatalf("got %d periods, want 2: %+v", len(doc.Periods), doc.Periods)
	}

	tonight := doc.Periods[0]
	if tonight.Label != "TONIGHT" {
		t.Errorf("Label = %q, want TONIGHT", tonight.Label)
	}
	if tonight.Winds != "SW winds 10 to 15 kt" {
		t.Errorf("Winds = %q, want %q", tonight.Winds, "SW winds 10 to 15 kt")
	}
	if tonight.Seas != "Seas 2 to 3 ft" {
		t.Errorf("Seas = %q, want %q", tonight.Seas, "Seas 2 to 3 ft")
	}
	if tonight.WaveDetail != "S 3 ft at 5 seconds" {
		t.Errorf("WaveDetail = %q, want %q", tonight.WaveDetail, "S 3 ft at 5 seconds")
	}
	if strings.HasPrefix(tonight.RawText, ".") {
		t.Errorf("RawText should not keep the label separator: %q", tonight.RawText)
	}

	wed := doc.Periods[1]
	if wed.Label != "WED" {
		t.Errorf("Label = %q, want WED", wed.Label)
	}
	if wed.Winds != "W winds 15 to 20 kt with gusts up to 25 kt" {
		t.Errorf("Winds = %q", wed.Winds)
	}
	if wed.Description != "showers" {
		t.Errorf("Description = %q, want showers", wed.Description)
	}
	if strings.Contains(wed.RawText, "National Weather Service") {
		t.Errorf("body ran past its container: %q", wed.RawText)
	}
}

func TestExtract_Synopsis(t *testing.T) {
	doc := Extract(forecastPage)
	want := "Synopsis for Cape Cod Bay. High pressure builds over the waters through Wednesday."
	if doc.Synopsis != want {
		t.Errorf("Synopsis = %q, want %q", doc.Synopsis, want)
	}
}

func TestExtract_TimestampDroppedTwice(t *testing.T) {
	page := `<div style="white-space: pre"><b>11:32 AM EST</b> Issued by NWS Boston
<b>TONIGHT</b>...S winds 5 kt. Seas 1 ft.
<b>WED</b>...SW winds 10 kt. Seas 2 ft.</div>`

	for _, drop := range []bool{true, false} {
		doc := New(WithDropLeadingMatch(drop)).Extract(page)
		if len(doc.Periods) != 2 {
			t.Fatalf("drop=%v: got %d periods, want 2", drop, len(doc.Periods))
		}
		if doc.Periods[0].Label != "TONIGHT" || doc.Periods[1].Label != "WED" {
			t.Errorf("drop=%v: labels = %q, %q", drop, doc.Periods[0].Label, doc.Periods[1].Label)
		}
	}
}

func TestExtract_RejectsTimeAndZoneLabels(t *testing.T) {
	page := `<pre><b>11:32 AM EST</b> Tue Nov 12 2024
<b>ANZ230</b> Cape Cod Bay
<b>TONIGHT</b>...NE winds 5 kt. Seas 1 ft or less.</pre>`

	doc := New(WithDropLeadingMatch(false)).Extract(page)
	for _, p := range doc.Periods {
		if p.Label == "11:32 AM EST" || strings.HasPrefix(p.Label, "ANZ230") {
			t.Errorf("period %q should have been rejected", p.Label)
		}
	}
	if len(doc.Periods) != 1 || doc.Periods[0].Label != "TONIGHT" {
		t.Errorf("Periods = %+v, want only TONIGHT", doc.Periods)
	}
}

func TestExtract_DropLeadingMatch(t *testing.T) {
	page := `<pre><b>Coastal Waters Forecast</b> for Massachusetts
<b>TONIGHT</b>...NE winds 5 kt.</pre>`

	if got := len(Extract(page).Periods); got != 1 {
		t.Errorf("default: got %d periods, want 1", got)
	}
	if got := len(New(WithDropLeadingMatch(false)).Extract(page).Periods); got != 2 {
		t.Errorf("without drop: got %d periods, want 2", got)
	}
}

func TestExtract_NestedContainer(t *testing.T) {
	page := `<div style="white-space:pre"><b>HEADER</b>x
<div class="inner">Issued by NWS</div>
<b>TONIGHT</b>...N winds 10 kt.
</div>
<b>Monday Outside</b> winds 50 kt.`

	doc := Extract(page)
	if len(doc.Periods) != 1 {
		t.Fatalf("got %d periods, want 1: %+v", len(doc.Periods), doc.Periods)
	}
	if strings.Contains(doc.Periods[0].RawText, "Outside") {
		t.Errorf("body escaped the container: %q", doc.Periods[0].RawText)
	}
}

func TestExtract_BoldDayLabels(t *testing.T) {
	page := `<div class="content">
<p><strong>Tonight</strong>: NW winds 5 kt. Seas 1 ft.</p>
<p><strong>Wednesday</strong>: W winds 10 to 15 kt. Seas 2 ft. Partly cloudy.</p>
<p><strong>Contact us</strong> for more information.</p>
</div>`

	doc := Extract(page)
	if doc.Layer != LayerBold {
		t.Errorf("Layer = %q, want %q", doc.Layer, LayerBold)
	}
	if len(doc.Periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(doc.Periods))
	}
	if doc.Periods[0].Label != "Tonight" || doc.Periods[0].RawText != "NW winds 5 kt. Seas 1 ft." {
		t.Errorf("first period = %+v", doc.Periods[0])
	}
	if doc.Periods[1].Description != "partly cloudy" {
		t.Errorf("Description = %q, want partly cloudy", doc.Periods[1].Description)
	}
}

func TestExtract_TextProduct(t *testing.T) {
	page := `<pre>
ANZ230-130400-
Cape Cod Bay-
1132 AM EST Tue Nov 12 2024

...SMALL CRAFT ADVISORY IN EFFECT THROUGH WEDNESDAY...

.TONIGHT...SW winds 10 to 15 kt. Seas 2 to 3 ft.
.WED...W winds 15 to 20 kt. Seas 3 to 4 ft.
$$
</pre>`

	doc := Extract(page)
	if doc.Layer != LayerTextProduct {
		t.Errorf("Layer = %q, want %q", doc.Layer, LayerTextProduct)
	}
	if len(doc.Periods) != 2 {
		t.Fatalf("got %d periods, want 2: %+v", len(doc.Periods), doc.Periods)
	}
	if doc.Periods[0].Label != "TONIGHT" || doc.Periods[1].Label != "WED" {
		t.Errorf("labels = %q, %q", doc.Periods[0].Label, doc.Periods[1].Label)
	}
	if doc.Periods[1].Seas != "Seas 3 to 4 ft" {
		t.Errorf("Seas = %q", doc.Periods[1].Seas)
	}
}

func TestExtract_TableRows(t *testing.T) {
	page := `<table>
<tr><th>Period</th><th>Forecast</th></tr>
<tr><td>Tonight</td><td>S winds 5 kt. Seas 1 ft.</td></tr>
<tr><td>Thursday</td><td>SE winds 10 kt. Seas 2 ft. Rain.</td></tr>
</table>`

	doc := Extract(page)
	if doc.Layer != LayerTable {
		t.Errorf("Layer = %q, want %q", doc.Layer, LayerTable)
	}
	if len(doc.Periods) != 2 {
		t.Fatalf("got %d periods, want 2: %+v", len(doc.Periods), doc.Periods)
	}
	if doc.Periods[1].Label != "Thursday" || doc.Periods[1].Description != "rain" {
		t.Errorf("second period = %+v", doc.Periods[1])
	}
}

func TestExtract_KeywordScan(t *testing.T) {
	page := `<html><body>
<div>Marine weather service</div>
<div>Winds ENE 15 kt, visibility 2 nm in haze</div>
<div>Contact</div>
</body></html>`

	doc := Extract(page)
	if doc.Layer != LayerKeywordScan {
		t.Errorf("Layer = %q, want %q", doc.Layer, LayerKeywordScan)
	}
	if len(doc.Periods) != 1 {
		t.Fatalf("got %d periods, want 1: %+v", len(doc.Periods), doc.Periods)
	}

	p := doc.Periods[0]
	if p.Label != "Forecast 1" {
		t.Errorf("Label = %q, want Forecast 1", p.Label)
	}
	if p.Winds != "Winds ENE 15 kt" {
		t.Errorf("Winds = %q, want %q", p.Winds, "Winds ENE 15 kt")
	}
	if p.Visibility != "visibility 2 nm in haze" {
		t.Errorf("Visibility = %q", p.Visibility)
	}
	if p.Description != "haze" {
		t.Errorf("Description = %q, want haze", p.Description)
	}
}

func TestExtract_KeywordScanLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		b.WriteString("<div>Winds light and variable near 5 kt today</div>\n")
	}

	doc := Extract(b.String())
	if len(doc.Periods) != keywordScanLimit {
		t.Errorf("got %d periods, want %d", len(doc.Periods), keywordScanLimit)
	}
	if doc.Periods[2].Label != "Forecast 3" {
		t.Errorf("Label = %q, want Forecast 3", doc.Periods[2].Label)
	}
}

func TestExtract_NeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<<<>>>",
		"\xff\xfe\x00\x01",
		`<div style="white-space:pre"><b>TONIGHT`,
		`<div style="white-space:pre"><b>TONIGHT</b>`,
		`<pre><b></b><b></b></pre>`,
		"<table><tr><td>only one cell</td></tr>",
		strings.Repeat("<div>", 500),
		"\n.\n...\n.X...",
	}

	for _, in := range inputs {
		doc := Extract(in)
		if doc.Periods == nil {
			t.Errorf("Extract(%q).Periods is nil", in)
		}
	}
}

func TestExtract_ManyContainers(t *testing.T) {
	last := `<pre><b>1132 AM EST Tue Nov 12 2024</b>
<b>TONIGHT...</b>SW winds 10 kt. Seas 2 ft.
<b>WED...</b>W winds 15 kt. Seas 3 ft.</pre>`

	tests := []struct {
		name    string
		page    string
		periods int
	}{
		{"sibling pre blocks", strings.Repeat("<pre>a</pre>", 5000) + last, 2},
		{"unclosed pre blocks", strings.Repeat("<pre>a", 5000), 0},
		{"nested styled blocks", strings.Repeat(`<div style="white-space:pre">a`, 3000) + strings.Repeat("</div>", 3000), 0},
		{"synopsis markers", strings.Repeat(`<div class="synopsis">`, 3000), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			doc := Extract(tt.page)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Extract took %v", elapsed)
			}
			if len(doc.Periods) != tt.periods {
				t.Errorf("got %d periods, want %d", len(doc.Periods), tt.periods)
			}
		})
	}
}

func TestElementBody(t *testing.T) {
	markup := `<pre>a<pre>b</pre>c</pre><pre>d</pre>`
	if got := elementBody(markup, len("<pre>"), "pre"); got != "a<pre>b</pre>c" {
		t.Errorf("elementBody = %q", got)
	}
	if got := elementBody("<pre>open", len("<pre>"), "pre"); got != "open" {
		t.Errorf("unclosed elementBody = %q, want %q", got, "open")
	}
}

func TestEachElement_SkipsNested(t *testing.T) {
	markup := `<pre>a<pre>b</pre>c</pre><pre>d</pre>`

	var bodies []string
	eachElement(markup, preOpenRe, func(body string) bool {
		bodies = append(bodies, body)
		return false
	})

	want := []string{"a<pre>b</pre>c", "d"}
	if strings.Join(bodies, "|") != strings.Join(want, "|") {
		t.Errorf("bodies = %q, want %q", bodies, want)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	doc := Extract("<html><body><p>Nothing to see here.</p></body></html>")
	if len(doc.Periods) != 0 {
		t.Errorf("got %d periods, want 0", len(doc.Periods))
	}
	if doc.Synopsis != "" {
		t.Errorf("Synopsis = %q, want empty", doc.Synopsis)
	}
	if doc.Layer != "" {
		t.Errorf("Layer = %q, want empty", doc.Layer)
	}
}
