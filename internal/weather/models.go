package weather

import (
	"sort"
	"time"
)

// DateLayout is the calendar-day format used for record keys and on disk.
const DateLayout = "2006-01-02"

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// ForecastRecord is one day's forecast snapshot, immutable once created.
// Numeric fields are pointers so that values absent from older data files
// stay distinguishable from a genuine zero.
type ForecastRecord struct {
	Date        string    `json:"date"` // YYYY-MM-DD
	HighTempC   *float64  `json:"high_temp_c"`
	LowTempC    *float64  `json:"low_temp_c"`
	PrecipProb  *float64  `json:"precipitation_probability"`
	HumidityPct *float64  `json:"humidity_pct,omitempty"`
	Condition   Condition `json:"condition_code"`
	Text        string    `json:"condition_text,omitempty"`
	WindScale   string    `json:"wind_scale,omitempty"`
	WindDir     string    `json:"wind_dir,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"` // always UTC
}

// Day parses the record's calendar day.
func (r ForecastRecord) Day() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// History is the persisted ordered sequence of forecast records,
// sorted ascending by date with at most one record per date.
type History struct {
	Records []ForecastRecord `json:"records"`
}

// Append upserts the record for its date and keeps the history sorted.
// A second run on the same day overwrites that day's record, which makes
// re-runs idempotent.
func (h *History) Append(rec ForecastRecord) {
	for i := range h.Records {
		if h.Records[i].Date == rec.Date {
			h.Records[i] = rec
			return
		}
	}
	h.Records = append(h.Records, rec)
	sort.Slice(h.Records, func(i, j int) bool {
		return h.Records[i].Date < h.Records[j].Date
	})
}

// Prune removes records older than ref minus retentionDays and reports how
// many were dropped. It is a pure function of its arguments; ISO dates sort
// lexicographically so plain string comparison is enough.
func (h *History) Prune(retentionDays int, ref time.Time) int {
	if retentionDays <= 0 {
		return 0
	}
	cutoff := ref.AddDate(0, 0, -retentionDays).Format(DateLayout)

	kept := h.Records[:0]
	for _, rec := range h.Records {
		if rec.Date >= cutoff {
			kept = append(kept, rec)
		}
	}
	dropped := len(h.Records) - len(kept)
	h.Records = kept
	return dropped
}

// Window returns up to n records strictly before the given date, most
// recent last. It is the comparison baseline for trend analysis and never
// includes the day under analysis itself.
func (h *History) Window(beforeDate string, n int) []ForecastRecord {
	if n <= 0 {
		return nil
	}
	var out []ForecastRecord
	for _, rec := range h.Records {
		if rec.Date < beforeDate {
			out = append(out, rec)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// Len reports the number of records in the history.
func (h *History) Len() int {
	return len(h.Records)
}
