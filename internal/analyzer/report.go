package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// FormatReport renders the analysis as a Markdown report suitable for push
// notification bodies.
func (a *Analyzer) FormatReport(res Result) string {
	today := res.Today
	var b strings.Builder

	fmt.Fprintf(&b, "# Tomorrow's Weather — %s\n\n", today.Date)

	b.WriteString("## Overview\n")
	if today.Text != "" {
		fmt.Fprintf(&b, "**Conditions**: %s  \n", today.Text)
	} else if today.Condition != "" {
		fmt.Fprintf(&b, "**Conditions**: %s  \n", today.Condition)
	}
	if today.LowTempC != nil && today.HighTempC != nil {
		fmt.Fprintf(&b, "**Temperature**: %.0f°C ~ %.0f°C  \n", *today.LowTempC, *today.HighTempC)
	}
	if today.HumidityPct != nil {
		fmt.Fprintf(&b, "**Humidity**: %.0f%%  \n", *today.HumidityPct)
	}
	if today.WindScale != "" {
		wind := today.WindScale
		if today.WindDir != "" {
			wind = today.WindDir + " " + wind
		}
		fmt.Fprintf(&b, "**Wind**: %s  \n", wind)
	}
	b.WriteString("\n")

	b.WriteString("## Trend\n")
	fmt.Fprintf(&b, "**Category**: %s  \n", res.Category)
	fmt.Fprintf(&b, "%s\n\n", res.Summary)

	if delta, ok := res.Metrics["high_temp_delta"]; ok {
		b.WriteString("## Temperature\n")
		fmt.Fprintf(&b, "**High vs recent average**: %+.1f°C (average %.1f°C)  \n", delta, res.Metrics["window_mean_high"])
		if lowDelta, ok := res.Metrics["low_temp_delta"]; ok {
			fmt.Fprintf(&b, "**Low vs recent average**: %+.1f°C  \n", lowDelta)
		}
		if rng, ok := res.Metrics["diurnal_range"]; ok {
			fmt.Fprintf(&b, "**Day/night spread**: %.1f°C", rng)
			if avg, ok := res.Metrics["window_mean_diurnal_range"]; ok {
				fmt.Fprintf(&b, " (recent average %.1f°C)", avg)
			}
			b.WriteString("  \n")
		}
		if sd, ok := res.Metrics["high_temp_stddev"]; ok {
			volatility := "steady"
			if sd > 5 {
				volatility = "volatile"
			}
			fmt.Fprintf(&b, "**Recent variability**: %s (σ %.1f°C)  \n", volatility, sd)
		}
		b.WriteString("\n")
	}

	if today.PrecipProb != nil {
		b.WriteString("## Precipitation\n")
		fmt.Fprintf(&b, "**Probability**: %.0f%%  \n", *today.PrecipProb)
		if delta, ok := res.Metrics["precip_prob_delta"]; ok {
			fmt.Fprintf(&b, "**Vs recent average**: %+.1f pts  \n", delta)
		}
		if rainy, ok := res.Metrics["rainy_days"]; ok && res.WindowSize > 0 {
			fmt.Fprintf(&b, "**Rainy days in the last %d**: %.0f  \n", res.WindowSize, rainy)
		}
		b.WriteString("\n")
	}

	if apparent, ok := res.Metrics["apparent_temp"]; ok {
		b.WriteString("## Comfort\n")
		fmt.Fprintf(&b, "**Feels like**: %.1f°C (%s)  \n\n", apparent, comfortLevel(apparent))
	}

	if len(res.Warnings) > 0 {
		b.WriteString("## Warnings\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&b, "- ⚠️ %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Suggestions\n")
	fmt.Fprintf(&b, "**Clothing**: %s  \n", res.Suggestions.Clothing)
	fmt.Fprintf(&b, "**Activity**: %s  \n", res.Suggestions.Activity)
	fmt.Fprintf(&b, "**Health**: %s  \n\n", res.Suggestions.Health)

	fmt.Fprintf(&b, "---\n*Generated at %s*\n", time.Now().UTC().Format("2006-01-02 15:04:05 MST"))

	return b.String()
}
