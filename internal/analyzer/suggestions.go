package analyzer

import (
	"fmt"
	"strings"

	"github.com/lmt927/weather-notify/internal/weather"
)

// suggest derives clothing, activity and health hints from the forecast and
// the classified trend.
func (a *Analyzer) suggest(res Result) Suggestions {
	today := res.Today

	var high, low float64
	if today.HighTempC != nil {
		high = *today.HighTempC
	}
	if today.LowTempC != nil {
		low = *today.LowTempC
	}

	apparent := high
	if v, ok := res.Metrics["apparent_temp"]; ok {
		apparent = v
	}

	var rainProb float64
	if today.PrecipProb != nil {
		rainProb = *today.PrecipProb
	}

	return Suggestions{
		Clothing: clothingSuggestion(high, low),
		Activity: activitySuggestion(today.Condition, comfortLevel(apparent), rainProb),
		Health:   healthSuggestion(res.Category, high, low),
	}
}

// clothingSuggestion keys off the low (the temperature when leaving home) and
// adds a midday hint when the day/night spread is wide.
func clothingSuggestion(high, low float64) string {
	var morning string
	switch {
	case low < -5:
		morning = "heavy down jacket, sweater and thermal underwear"
	case low < 0:
		morning = "down jacket or padded coat over a sweater"
	case low < 5:
		morning = "thick coat and a sweater"
	case low < 10:
		morning = "jacket or windbreaker over a hoodie"
	case low < 15:
		morning = "light jacket over long sleeves"
	case low < 20:
		morning = "long-sleeve shirt or hoodie"
	case low < 25:
		morning = "short sleeves, keep a light layer handy"
	default:
		morning = "short sleeves and shorts"
	}

	spread := high - low
	switch {
	case spread >= 12:
		return fmt.Sprintf("Morning/evening: %s. %.0f°C spread through the day (midday near %.0f°C), dress in layers you can shed.", morning, spread, high)
	case spread >= 8:
		return fmt.Sprintf("%s; midday warms to about %.0f°C, shed a layer then.", capitalize(morning), high)
	default:
		return capitalize(morning) + "."
	}
}

func activitySuggestion(cond weather.Condition, comfort string, rainProb float64) string {
	switch {
	case rainProb > 70:
		return "Poor day for outdoor plans; consider indoor exercise instead."
	case cond == weather.ConditionRain || cond == weather.ConditionSnow || cond == weather.ConditionStorm:
		return "Outdoor activity is limited; indoor options are a better bet."
	case comfort == "comfortable":
		return "Pleasant conditions, good day for outdoor exercise or a walk."
	case comfort == "fair":
		return "Fine for moderate outdoor activity; skip anything strenuous."
	case comfort == "hot":
		return "Warm day; keep outdoor activity to mornings and evenings."
	case comfort == "chilly":
		return "Cold day; wrap up well for any time outdoors."
	default:
		return "Moderate outdoor activity should be fine."
	}
}

func healthSuggestion(cat Category, high, low float64) string {
	var hints []string

	switch cat {
	case CategoryFalling:
		hints = append(hints, "temperatures are dropping, watch out for colds")
	case CategoryRising:
		hints = append(hints, "temperatures are climbing, keep up fluid intake")
	case CategoryAlert:
		hints = append(hints, "a sharp weather change is ahead, give your body time to adjust")
	}

	if high-low > 12 {
		hints = append(hints, "large day/night spread, take extra care with cardiovascular conditions")
	}
	if low < 10 {
		hints = append(hints, "cold mornings, warm up before early exercise")
	}
	if high > 30 {
		hints = append(hints, "avoid prolonged sun exposure")
	}

	if len(hints) == 0 {
		return "Mild conditions; keep to a regular routine."
	}
	return capitalize(strings.Join(hints, "; ")) + "."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
