package analyzer

import (
	"fmt"
	"math"

	"github.com/lmt927/weather-notify/internal/common"
	"github.com/lmt927/weather-notify/internal/weather"
)

// Category classifies tomorrow's forecast against the comparison window.
type Category string

const (
	CategoryStable           Category = "stable"
	CategoryRising           Category = "rising"
	CategoryFalling          Category = "falling"
	CategoryAlert            Category = "alert"
	CategoryInsufficientData Category = "insufficient_data"
)

// Thresholds are the externally configured classification limits. All
// comparisons are strict, so a delta exactly at a threshold does not trip it.
type Thresholds struct {
	// TempAlertC is the absolute high-temperature delta (°C vs window mean)
	// above which the run is classified as an alert.
	TempAlertC float64

	// PrecipAlertPct is the precipitation-probability delta (percentage
	// points vs window mean) above which the run is classified as an alert.
	PrecipAlertPct float64

	HotWarningC   float64 // tomorrow's high at or above this adds a heat warning
	ColdWarningC  float64 // tomorrow's low at or below this adds a cold warning
	DiurnalSwingC float64 // day/night spread above this adds a swing warning
	SharpChangeC  float64 // day-over-day high change above this adds a warning
}

// DefaultThresholds returns the classification limits used when none are
// configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TempAlertC:     4.0,
		PrecipAlertPct: 30.0,
		HotWarningC:    35.0,
		ColdWarningC:   5.0,
		DiurnalSwingC:  10.0,
		SharpChangeC:   8.0,
	}
}

// Suggestions are the lifestyle hints derived from the forecast.
type Suggestions struct {
	Clothing string
	Activity string
	Health   string
}

// Result is the outcome of one analysis. It is embedded in the notification
// and never persisted on its own.
type Result struct {
	Category    Category
	Summary     string
	Metrics     map[string]float64
	Warnings    []string
	Suggestions Suggestions
	Today       weather.ForecastRecord
	WindowSize  int
}

// Analyzer compares a new forecast against recent history.
type Analyzer struct {
	thresholds Thresholds
}

func New(thresholds Thresholds) *Analyzer {
	return &Analyzer{thresholds: thresholds}
}

// Analyze classifies tomorrow's record against the comparison window. The
// window is expected to exclude the record's own date. Records missing a
// field are excluded from that field's mean; if fewer than 2 usable values
// remain the result degrades to CategoryInsufficientData instead of failing.
func (a *Analyzer) Analyze(window []weather.ForecastRecord, today weather.ForecastRecord) Result {
	res := Result{
		Category:   CategoryStable,
		Metrics:    map[string]float64{},
		Today:      today,
		WindowSize: len(window),
	}

	a.fillComfort(&res)
	res.Suggestions = a.suggest(res)

	highs := collect(window, func(r weather.ForecastRecord) *float64 { return r.HighTempC })
	if today.HighTempC == nil || len(highs) < 2 {
		res.Category = CategoryInsufficientData
		res.Summary = "Not enough recent history to compare against; reporting tomorrow's forecast as-is."
		return res
	}

	th := a.thresholds

	meanHigh := mean(highs)
	highDelta := *today.HighTempC - meanHigh
	res.Metrics["high_temp_delta"] = round1(highDelta)
	res.Metrics["window_mean_high"] = round1(meanHigh)
	if len(highs) > 1 {
		res.Metrics["high_temp_stddev"] = round1(stddev(highs))
	}

	lows := collect(window, func(r weather.ForecastRecord) *float64 { return r.LowTempC })
	if today.LowTempC != nil && len(lows) > 0 {
		meanLow := mean(lows)
		res.Metrics["low_temp_delta"] = round1(*today.LowTempC - meanLow)
		res.Metrics["window_mean_low"] = round1(meanLow)
	}

	var precipDelta float64
	precipOK := false
	probs := collect(window, func(r weather.ForecastRecord) *float64 { return r.PrecipProb })
	if today.PrecipProb != nil && len(probs) > 0 {
		meanProb := mean(probs)
		precipDelta = *today.PrecipProb - meanProb
		precipOK = true
		res.Metrics["precip_prob_delta"] = round1(precipDelta)
		res.Metrics["window_mean_precip_prob"] = round1(meanProb)
	}

	if today.HighTempC != nil && today.LowTempC != nil {
		res.Metrics["diurnal_range"] = round1(*today.HighTempC - *today.LowTempC)
	}
	if meanRange, ok := meanDiurnalRange(window); ok {
		res.Metrics["window_mean_diurnal_range"] = round1(meanRange)
	}
	res.Metrics["rainy_days"] = float64(countRainyDays(window))

	switch {
	case math.Abs(highDelta) > th.TempAlertC:
		res.Category = CategoryAlert
	case precipOK && precipDelta > th.PrecipAlertPct:
		res.Category = CategoryAlert
	case highDelta > 0:
		res.Category = CategoryRising
	case highDelta < 0:
		res.Category = CategoryFalling
	default:
		res.Category = CategoryStable
	}

	res.Warnings = a.checkWarnings(today, window)
	res.Summary = summarize(res.Category, highDelta, precipDelta, precipOK, meanHigh)

	// Suggestions depend on the classified trend, so refresh them.
	res.Suggestions = a.suggest(res)

	return res
}

func summarize(cat Category, highDelta, precipDelta float64, precipOK bool, meanHigh float64) string {
	s := fmt.Sprintf("Tomorrow's high is %+.1f°C against the recent average of %.1f°C", highDelta, meanHigh)
	if precipOK {
		s += fmt.Sprintf("; precipitation probability is %+.1f pts vs the recent average", precipDelta)
	}
	return fmt.Sprintf("%s (trend: %s).", s, cat)
}

func (a *Analyzer) fillComfort(res *Result) {
	today := res.Today
	if today.HighTempC == nil {
		return
	}

	// Humidity-adjusted apparent temperature; only relevant when warm.
	apparent := *today.HighTempC
	humidity := 50.0
	if today.HumidityPct != nil {
		humidity = *today.HumidityPct
	}
	if apparent > 25 {
		apparent += (humidity - 50) * 0.1
	}
	res.Metrics["apparent_temp"] = round1(apparent)
}

func comfortLevel(apparent float64) string {
	switch {
	case apparent >= 18 && apparent <= 26:
		return "comfortable"
	case (apparent >= 15 && apparent < 18) || (apparent > 26 && apparent <= 30):
		return "fair"
	case apparent < 15:
		return "chilly"
	default:
		return "hot"
	}
}

func (a *Analyzer) checkWarnings(today weather.ForecastRecord, window []weather.ForecastRecord) []string {
	th := a.thresholds
	var warnings []string

	if today.HighTempC != nil && *today.HighTempC >= th.HotWarningC {
		warnings = append(warnings, fmt.Sprintf("Heat warning: tomorrow's high reaches %.0f°C, stay hydrated and avoid midday sun", *today.HighTempC))
	}
	if today.LowTempC != nil && *today.LowTempC <= th.ColdWarningC {
		warnings = append(warnings, fmt.Sprintf("Cold warning: tomorrow's low drops to %.0f°C, dress warmly", *today.LowTempC))
	}
	if today.HighTempC != nil && today.LowTempC != nil {
		if swing := *today.HighTempC - *today.LowTempC; swing > th.DiurnalSwingC {
			warnings = append(warnings, fmt.Sprintf("Large day/night spread of %.1f°C, layer up accordingly", swing))
		}
	}
	if today.PrecipProb != nil && *today.PrecipProb > 70 {
		warnings = append(warnings, fmt.Sprintf("Rain warning: %.0f%% precipitation probability, bring an umbrella", *today.PrecipProb))
	}

	// Sharp change against the most recent day on record.
	if len(window) > 0 && today.HighTempC != nil {
		last := window[len(window)-1]
		if last.HighTempC != nil {
			change := *today.HighTempC - *last.HighTempC
			if math.Abs(change) > th.SharpChangeC {
				direction := "warmer"
				if change < 0 {
					direction = "colder"
				}
				warnings = append(warnings, fmt.Sprintf("Sharp swing: %.1f°C %s than the previous day", math.Abs(change), direction))
			}
		}
	}

	return warnings
}

func countRainyDays(window []weather.ForecastRecord) int {
	n := 0
	for _, r := range window {
		switch {
		case r.Condition == weather.ConditionRain || r.Condition == weather.ConditionStorm:
			n++
		case common.HasAny(r.Text, "雨", "Rain", "Shower"):
			n++
		case r.PrecipProb != nil && *r.PrecipProb > 50:
			n++
		}
	}
	return n
}

func collect(recs []weather.ForecastRecord, pick func(weather.ForecastRecord) *float64) []float64 {
	var out []float64
	for _, r := range recs {
		if v := pick(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func meanDiurnalRange(recs []weather.ForecastRecord) (float64, bool) {
	var sum float64
	n := 0
	for _, r := range recs {
		if r.HighTempC != nil && r.LowTempC != nil {
			sum += *r.HighTempC - *r.LowTempC
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the sample standard deviation.
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)-1))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
