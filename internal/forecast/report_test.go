package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngmaloney/marine-outlook/internal/classify"
	"github.com/ngmaloney/marine-outlook/internal/extract"
	"github.com/ngmaloney/marine-outlook/internal/models"
	"github.com/ngmaloney/marine-outlook/internal/observability"
)

const samplePage = `<html><body>
<p>High pressure builds over the waters tonight, then a cold front crosses Thursday.</p>
<div style="white-space: pre">
<b>1132 AM EST Tue Nov 12 2024</b>
<b>TONIGHT...</b>SW winds 5 to 10 kt. Seas 1 ft or less.
<b>WED...</b>N winds 25 to 30 kt with gusts up to 35 kt. Seas 5 to 7 ft.
</div>
</body></html>`

func fixedRand(int) int { return 0 }

func TestBuild(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 11, 12, 16, 0, 0, 0, time.UTC))
	b := NewBuilder(
		WithClassifier(classify.New(classify.WithRand(fixedRand))),
		WithClock(clock),
	)

	report := b.Build(Source{Zone: "ANZ230", Markup: samplePage})

	assert.Equal(t, "ANZ230", report.Zone)
	assert.Contains(t, report.Synopsis, "High pressure")
	assert.Equal(t, extract.LayerPrimary, report.Layer)
	assert.Equal(t, clock.Now(), report.GeneratedAt)
	require.Len(t, report.Periods, 2)

	assert.Equal(t, "TONIGHT", report.Periods[0].Period)
	assert.Equal(t, models.TierGood, report.Periods[0].Tier)
	assert.Equal(t, "lightgreen", report.Periods[0].Summary.ColorTag)

	assert.Equal(t, "WED", report.Periods[1].Period)
	assert.Equal(t, models.TierDangerous, report.Periods[1].Tier)
	assert.Equal(t, "red", report.Periods[1].Summary.ColorTag)

	worst, ok := report.WorstTier()
	assert.True(t, ok)
	assert.Equal(t, models.TierDangerous, worst)
}

func TestBuild_EmptyPage(t *testing.T) {
	report := Build("ANZ230", "", nil)

	assert.NotNil(t, report.Periods)
	assert.Empty(t, report.Periods)
	assert.Empty(t, report.Synopsis)

	_, ok := report.WorstTier()
	assert.False(t, ok)
}

func TestBuild_WireShape(t *testing.T) {
	report := Build("ANZ230", samplePage, classify.New(classify.WithRand(fixedRand)))

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded struct {
		Zone    string           `json:"zone"`
		Periods []map[string]any `json:"periods"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Periods, 2)

	first := decoded.Periods[0]
	for _, key := range []string{"period", "winds", "seas", "waveDetail", "thunderstorms", "visibility", "description", "tier", "summary"} {
		assert.Contains(t, first, key)
	}
	assert.Equal(t, "Good", first["tier"])
}

func TestBuild_RecordsMetrics(t *testing.T) {
	m := observability.NewMetricsForTesting()
	b := NewBuilder(WithMetrics(m))

	b.Build(Source{Zone: "ANZ230", Markup: samplePage})

	assert.InDelta(t, 2, testutil.ToFloat64(m.PeriodsExtracted.WithLabelValues(extract.LayerPrimary)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TiersAssigned.WithLabelValues("Dangerous")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TiersAssigned.WithLabelValues("Good")), 0)
}

func TestBuildAll_KeepsOrder(t *testing.T) {
	var sources []Source
	for i := 0; i < 10; i++ {
		sources = append(sources, Source{Zone: fmt.Sprintf("ANZ2%02d", i), Markup: samplePage})
	}

	reports, err := BuildAll(context.Background(), sources, nil)
	require.NoError(t, err)
	require.Len(t, reports, len(sources))
	for i, r := range reports {
		assert.Equal(t, sources[i].Zone, r.Zone)
		assert.Len(t, r.Periods, 2)
	}
}

func TestBuildAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildAll(ctx, []Source{{Zone: "ANZ230", Markup: samplePage}}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorstTier(t *testing.T) {
	r := Report{Periods: []models.ForecastRecord{
		{Tier: models.TierGood},
		{Tier: models.TierCaution},
		{Tier: models.TierModerate},
	}}
	worst, ok := r.WorstTier()
	assert.True(t, ok)
	assert.Equal(t, models.TierCaution, worst)
}
