package analyzer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmt927/weather-notify/internal/weather"
)

func fp(v float64) *float64 { return &v }

func rec(date string, high, low, prob float64) weather.ForecastRecord {
	return weather.ForecastRecord{
		Date:       date,
		HighTempC:  fp(high),
		LowTempC:   fp(low),
		PrecipProb: fp(prob),
		Condition:  weather.ConditionCloudy,
		FetchedAt:  time.Now().UTC(),
	}
}

// window returns n records with identical highs so the mean is obvious.
func window(n int, high float64) []weather.ForecastRecord {
	out := make([]weather.ForecastRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, rec(fmt.Sprintf("2026-08-%02d", 20+i), high, high-8, 20))
	}
	return out
}

func TestAnalyzeInsufficientDataSmallWindow(t *testing.T) {
	a := New(DefaultThresholds())

	for _, recs := range [][]weather.ForecastRecord{nil, window(1, 20)} {
		res := a.Analyze(recs, rec("2026-08-31", 25, 17, 10))
		assert.Equal(t, CategoryInsufficientData, res.Category)
		assert.NotEmpty(t, res.Summary)
		// Degraded results still carry suggestions for the notification.
		assert.NotEmpty(t, res.Suggestions.Clothing)
	}
}

func TestAnalyzeInsufficientDataAfterExclusion(t *testing.T) {
	a := New(DefaultThresholds())

	// Three records but only one has a usable high: missing fields are
	// excluded from the mean, not treated as zero.
	recs := []weather.ForecastRecord{
		{Date: "2026-08-27"},
		{Date: "2026-08-28"},
		rec("2026-08-29", 20, 12, 10),
	}

	res := a.Analyze(recs, rec("2026-08-31", 25, 17, 10))
	assert.Equal(t, CategoryInsufficientData, res.Category)
}

func TestAnalyzeAlertOnTempDelta(t *testing.T) {
	th := DefaultThresholds()
	th.TempAlertC = 4.0
	a := New(th)

	res := a.Analyze(window(5, 20), rec("2026-08-31", 25, 17, 20))

	assert.Equal(t, CategoryAlert, res.Category)
	assert.Equal(t, 5.0, res.Metrics["high_temp_delta"])
	assert.Equal(t, 20.0, res.Metrics["window_mean_high"])
}

func TestAnalyzeStableOnZeroDelta(t *testing.T) {
	a := New(DefaultThresholds())

	res := a.Analyze(window(5, 20), rec("2026-08-31", 20, 12, 20))

	assert.Equal(t, CategoryStable, res.Category)
	assert.Equal(t, 0.0, res.Metrics["high_temp_delta"])
}

func TestAnalyzeDeltaAtThresholdIsNotAlert(t *testing.T) {
	th := DefaultThresholds()
	th.TempAlertC = 4.0
	a := New(th)

	// Ties favor the milder category: exactly +4.0 is rising, not an alert.
	res := a.Analyze(window(5, 20), rec("2026-08-31", 24, 16, 20))

	assert.Equal(t, CategoryRising, res.Category)
}

func TestAnalyzeRisingAndFalling(t *testing.T) {
	a := New(DefaultThresholds())

	res := a.Analyze(window(5, 20), rec("2026-08-31", 22, 14, 20))
	assert.Equal(t, CategoryRising, res.Category)

	res = a.Analyze(window(5, 20), rec("2026-08-31", 18, 10, 20))
	assert.Equal(t, CategoryFalling, res.Category)
}

func TestAnalyzePrecipAlert(t *testing.T) {
	th := DefaultThresholds()
	th.PrecipAlertPct = 30.0
	a := New(th)

	// Temp is flat but precipitation probability jumps well past threshold.
	res := a.Analyze(window(5, 20), rec("2026-08-31", 20, 12, 80))

	assert.Equal(t, CategoryAlert, res.Category)
	assert.Equal(t, 60.0, res.Metrics["precip_prob_delta"])
}

func TestAnalyzeMissingFieldsExcludedFromMean(t *testing.T) {
	a := New(DefaultThresholds())

	recs := []weather.ForecastRecord{
		rec("2026-08-27", 20, 12, 20),
		{Date: "2026-08-28", HighTempC: fp(24)}, // no low, no precip
		rec("2026-08-29", 22, 14, 20),
	}

	res := a.Analyze(recs, rec("2026-08-31", 22, 14, 20))

	// Mean high over all three: (20+24+22)/3 = 22.
	assert.Equal(t, 0.0, res.Metrics["high_temp_delta"])
	assert.Equal(t, CategoryStable, res.Category)
	// Low mean only over the two records that carry a low: (12+14)/2 = 13.
	assert.Equal(t, 1.0, res.Metrics["low_temp_delta"])
}

func TestAnalyzeWarnings(t *testing.T) {
	a := New(DefaultThresholds())

	today := rec("2026-08-31", 36, 18, 80)
	res := a.Analyze(window(5, 26), today)

	require.NotEmpty(t, res.Warnings)
	joined := ""
	for _, w := range res.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "Heat warning")
	assert.Contains(t, joined, "umbrella")
	assert.Contains(t, joined, "spread")
}

func TestFormatReportContainsKeyFacts(t *testing.T) {
	a := New(DefaultThresholds())

	today := rec("2026-08-31", 25, 17, 40)
	today.Text = "Partly cloudy"
	res := a.Analyze(window(5, 20), today)

	report := a.FormatReport(res)

	assert.Contains(t, report, "2026-08-31")
	assert.Contains(t, report, "Partly cloudy")
	assert.Contains(t, report, string(res.Category))
	assert.Contains(t, report, "Clothing")
}
