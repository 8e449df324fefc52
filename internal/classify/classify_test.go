package classify

import (
	"strings"
	"testing"

	"github.com/ngmaloney/marine-outlook/internal/models"
)

func TestParseSignal(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wind       float64
		gust       float64
		seas       float64
		visibility float64
		partialDay bool
	}{
		{
			name: "range takes the upper bound",
			text: "SW winds 5 to 10 kt. Seas 1 ft or less.",
			wind: 10, seas: 1,
		},
		{
			name: "gusts kept apart from wind",
			text: "N winds 25 to 30 kt with gusts up to 35 kt. Seas 5 to 7 ft.",
			wind: 30, gust: 35, seas: 7,
		},
		{
			name: "highest across mentions",
			text: "S winds 10 kt, increasing to winds 20 to 25 kt after midnight. Seas 2 ft building to seas 4 ft.",
			wind: 25, seas: 4, partialDay: true,
		},
		{
			name: "direction after winds",
			text: "Winds ENE 15 kt, visibility 2 nm in haze",
			wind: 15, visibility: 2,
		},
		{
			name:       "visibility takes the lower bound",
			text:       "Vsby 1 to 3 nm in fog.",
			visibility: 1,
		},
		{
			name:       "fractional visibility",
			text:       "Visibility 1/2 nm or less.",
			visibility: 0.5,
		},
		{
			name: "feet before seas",
			text: "3 to 5 ft seas in the afternoon.",
			seas: 5, partialDay: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseSignal(tt.text)
			if s.WindSpeed != tt.wind {
				t.Errorf("WindSpeed = %v, want %v", s.WindSpeed, tt.wind)
			}
			if s.GustSpeed != tt.gust {
				t.Errorf("GustSpeed = %v, want %v", s.GustSpeed, tt.gust)
			}
			if s.SeaHeight != tt.seas {
				t.Errorf("SeaHeight = %v, want %v", s.SeaHeight, tt.seas)
			}
			if s.Visibility != tt.visibility {
				t.Errorf("Visibility = %v, want %v", s.Visibility, tt.visibility)
			}
			if s.PartialDay != tt.partialDay {
				t.Errorf("PartialDay = %v, want %v", s.PartialDay, tt.partialDay)
			}
		})
	}
}

func TestParseSignal_Keywords(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Sunny.", []string{KeywordClear}},
		{"Partly cloudy.", []string{KeywordPartlyCloudy, KeywordCloudy}},
		{"Overcast with rain.", []string{KeywordCloudy, KeywordRain}},
		{"Partly cloudy, then cloudy late.", []string{KeywordPartlyCloudy, KeywordCloudy}},
		{"Showers and tstms.", []string{KeywordShowers, KeywordThunderstorms}},
		{"Patchy mist.", []string{KeywordFog}},
		{"Foggy near shore.", []string{KeywordFog}},
		{"Seas 2 ft.", []string{}},
	}

	for _, tt := range tests {
		got := ParseSignal(tt.text).Keywords
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Keywords(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestParseSignal_PartialDayWholeWords(t *testing.T) {
	if ParseSignal("Seas 2 ft. Thenar muscles ache.").PartialDay {
		t.Error("PartialDay should not match inside another word")
	}
	if !ParseSignal("Seas 2 ft, then 3 ft.").PartialDay {
		t.Error("PartialDay should match \"then\"")
	}
}

func TestAssignTier_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Tier
	}{
		{"calm with range", "SW winds 5 to 10 kt. Seas 1 ft or less.", models.TierGood},
		{"strong wind", "N winds 25 to 30 kt with gusts up to 35 kt. Seas 5 to 7 ft.", models.TierDangerous},
		{"afternoon storms", "NE winds around 5 kt, becoming SE in the afternoon. Seas 1 ft or less. Slight chance of showers and tstms in the afternoon.", models.TierCaution},
		{"all-day storms", "S winds 10 kt. Seas 2 ft. Showers and tstms.", models.TierDangerous},
		{"fog", "Light winds. Dense fog.", models.TierDangerous},
		{"low visibility", "Visibility 1/2 nm.", models.TierDangerous},
		{"gale gusts", "Gusts to 30 kt.", models.TierDangerous},
		{"fresh breeze", "SW winds 15 to 20 kt. Seas 2 ft.", models.TierCaution},
		{"moderate seas", "W winds 5 kt. Seas 2 to 3 ft.", models.TierCaution},
		{"cloudy", "W winds 5 kt. Seas 1 ft. Cloudy.", models.TierModerate},
		{"moderate wind", "W winds 12 kt. Seas 1 ft.", models.TierModerate},
		{"partly cloudy", "Partly cloudy.", models.TierModerate},
		{"partly cloudy calm", "Partly cloudy. W winds 5 kt. Seas 1 ft.", models.TierModerate},
		{"foggy", "Light winds. Foggy.", models.TierDangerous},
		{"flat calm", "Winds 3 kt. Sunny.", models.TierExcellent},
		{"no signal", "", models.TierExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignTier(ParseSignal(tt.text)); got != tt.want {
				t.Errorf("AssignTier(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAssignTier_Deterministic(t *testing.T) {
	text := "NE winds around 5 kt, becoming SE in the afternoon. Seas 1 ft or less. Slight chance of showers and tstms in the afternoon."
	first := AssignTier(ParseSignal(text))
	for i := 0; i < 100; i++ {
		if got := AssignTier(ParseSignal(text)); got != first {
			t.Fatalf("call %d: tier = %v, want %v", i, got, first)
		}
	}
}

func TestAssignTier_Escalation(t *testing.T) {
	calm := "Wind 5kt, seas 1ft."
	if got := AssignTier(ParseSignal(calm)); got.MoreSevere(models.TierGood) {
		t.Fatalf("calm baseline tier = %v, want Good or better", got)
	}
	if got := AssignTier(ParseSignal("Wind 25kt, seas 1ft.")); got != models.TierDangerous {
		t.Errorf("stronger wind tier = %v, want Dangerous", got)
	}
	if got := AssignTier(ParseSignal("Wind 5kt, seas 6 ft.")); got != models.TierDangerous {
		t.Errorf("higher seas tier = %v, want Dangerous", got)
	}
}

func TestAssignTier_Fallback(t *testing.T) {
	// All-day showers trip no rule: not Caution without a partial-day
	// qualifier, and not Excellent because showers are present.
	s := ParseSignal("Showers.")
	if got := AssignTier(s); got != models.TierModerate {
		t.Errorf("AssignTier() = %v, want Moderate", got)
	}
}

func TestPickMessage_ColorMatchesTier(t *testing.T) {
	c := New()
	for _, tier := range models.AllTiers {
		for i := 0; i < 1000; i++ {
			msg := c.PickMessage(tier)
			if msg.ColorTag != tier.Color() {
				t.Fatalf("%v draw %d: ColorTag = %q, want %q", tier, i, msg.ColorTag, tier.Color())
			}
			if msg.Text == "" {
				t.Fatalf("%v draw %d: empty text", tier, i)
			}
		}
	}
}

func TestPickMessage_InjectedRand(t *testing.T) {
	var seen []int
	c := New(WithRand(func(n int) int {
		seen = append(seen, n)
		return n - 1
	}))

	msg := c.PickMessage(models.TierGood)
	pool := DefaultPools()[models.TierGood]
	if msg.Text != pool[len(pool)-1].Text {
		t.Errorf("Text = %q, want last pool entry", msg.Text)
	}
	if len(seen) != 1 || seen[0] != len(pool) {
		t.Errorf("rand called with %v, want [%d]", seen, len(pool))
	}
}

func TestPickMessage_OutOfRangeRand(t *testing.T) {
	c := New(WithRand(func(n int) int { return n + 5 }))
	msg := c.PickMessage(models.TierCaution)
	if msg.Text != DefaultPools()[models.TierCaution][0].Text {
		t.Errorf("Text = %q, want first pool entry", msg.Text)
	}
}

func TestLoadPools(t *testing.T) {
	pools := DefaultPools()
	for _, tier := range models.AllTiers {
		if n := len(pools[tier]); n < minPoolSize {
			t.Errorf("%v has %d messages, want at least %d", tier, n, minPoolSize)
		}
	}

	if _, err := LoadPools([]byte("Excellent:\n  - {emoji: x, text: y}\n")); err == nil {
		t.Error("LoadPools() with short pools should fail")
	}
	if _, err := LoadPools([]byte("Balmy:\n  - {emoji: x, text: y}\n")); err == nil {
		t.Error("LoadPools() with an unknown tier should fail")
	}
}

func TestClassifyPeriod(t *testing.T) {
	c := New(WithRand(func(int) int { return 0 }))

	withRaw := models.ForecastPeriod{Label: "TONIGHT", RawText: "N winds 25 kt. Seas 6 ft."}
	if got := c.ClassifyPeriod(withRaw); got.Tier != models.TierDangerous {
		t.Errorf("Tier = %v, want Dangerous", got.Tier)
	}

	fieldsOnly := models.ForecastPeriod{Label: "WED", Winds: "SW winds 5 to 10 kt", Seas: "Seas 1 ft"}
	got := c.ClassifyPeriod(fieldsOnly)
	if got.Tier != models.TierGood {
		t.Errorf("Tier = %v, want Good", got.Tier)
	}
	if got.Period.Label != "WED" {
		t.Errorf("Period.Label = %q, want WED", got.Period.Label)
	}
}

func TestClassify_NeverPanics(t *testing.T) {
	inputs := []string{"", "\xff\xfe", "<b>winds</b>", "winds 999999999999999999999999 kt", "visibility 1/0 nm", strings.Repeat("seas ", 1000)}
	for _, in := range inputs {
		cl := Classify(in)
		if cl.Message.ColorTag != cl.Tier.Color() {
			t.Errorf("Classify(%q): ColorTag %q does not match tier %v", in, cl.Message.ColorTag, cl.Tier)
		}
	}
}
