package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lmt927/weather-notify/internal/weather"
)

// OpenMeteoProvider implements weather.ForecastProvider against the Open-Meteo
// daily forecast API. It needs no API key but requires coordinates; see
// ResolveCoordinates for city-based configuration.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	lat     float64
	lon     float64
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client, lat, lon float64) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		lat:     lat,
		lon:     lon,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchTomorrow(ctx context.Context) (weather.ForecastRecord, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", p.lat))
		values.Set("longitude", fmt.Sprintf("%f", p.lon))
		values.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_probability_max,weather_code")
		values.Set("forecast_days", "2")
		values.Set("timezone", "auto")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.ForecastRecord{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time          []string  `json:"time"`
			TempMax       []float64 `json:"temperature_2m_max"`
			TempMin       []float64 `json:"temperature_2m_min"`
			PrecipProbMax []float64 `json:"precipitation_probability_max"`
			WeatherCode   []int     `json:"weather_code"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastRecord{}, err
	}

	// Index 1 is tomorrow; index 0 is today.
	d := payload.Daily
	if len(d.Time) < 2 || len(d.TempMax) < 2 || len(d.TempMin) < 2 {
		return weather.ForecastRecord{}, fmt.Errorf("%w: daily series too short", weather.ErrBadPayload)
	}

	high := d.TempMax[1]
	low := d.TempMin[1]

	rec := weather.ForecastRecord{
		Date:      d.Time[1],
		HighTempC: &high,
		LowTempC:  &low,
		Condition: weather.ConditionUnknown,
		FetchedAt: time.Now().UTC(),
	}

	if len(d.PrecipProbMax) >= 2 {
		prob := d.PrecipProbMax[1]
		rec.PrecipProb = &prob
	}
	if len(d.WeatherCode) >= 2 {
		rec.Condition = mapOpenMeteoCondition(d.WeatherCode[1])
	}

	return rec, nil
}

// mapOpenMeteoCondition maps Open-Meteo WMO weather codes (simplified).
func mapOpenMeteoCondition(code int) weather.Condition {
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code >= 45 && code <= 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
