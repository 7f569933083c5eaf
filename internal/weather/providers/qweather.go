package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/lmt927/weather-notify/internal/common"
	"github.com/lmt927/weather-notify/internal/weather"
)

// DefaultQWeatherBaseURL is the public QWeather API host. Paid plans get a
// per-account host which can be supplied via configuration instead.
const DefaultQWeatherBaseURL = "https://devapi.qweather.com"

// QWeatherProvider implements weather.ForecastProvider against the QWeather
// v7 3-day forecast endpoint.
type QWeatherProvider struct {
	name       string
	apiKey     string
	locationID string
	baseURL    string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewQWeatherProvider(client *http.Client, apiKey, locationID, baseURL string) *QWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultQWeatherBaseURL
	}

	return &QWeatherProvider{
		name:       "qweather",
		apiKey:     apiKey,
		locationID: locationID,
		baseURL:    baseURL,
		httpCfg:    defaultHTTPConfig(client),
		circuit:    newCircuit("qweather"),
	}
}

func (p *QWeatherProvider) Name() string {
	return p.name
}

// FetchTomorrow requests the 3-day forecast and normalizes the entry for
// tomorrow (index 1 of the daily series).
func (p *QWeatherProvider) FetchTomorrow(ctx context.Context) (weather.ForecastRecord, error) {
	if p.apiKey == "" {
		return weather.ForecastRecord{}, fmt.Errorf("qweather api key is not configured")
	}
	if p.locationID == "" {
		return weather.ForecastRecord{}, fmt.Errorf("qweather location id is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("location", p.locationID)
		values.Set("key", p.apiKey)

		u := fmt.Sprintf("%s/v7/weather/3d?%s", p.baseURL, values.Encode())
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
		Code  string `json:"code"`
		Daily []struct {
			FxDate       string `json:"fxDate"`
			TempMax      string `json:"tempMax"`
			TempMin      string `json:"tempMin"`
			TextDay      string `json:"textDay"`
			Humidity     string `json:"humidity"`
			Precip       string `json:"precip"`
			WindScaleDay string `json:"windScaleDay"`
			WindDirDay   string `json:"windDirDay"`
		} `json:"daily"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ForecastRecord{}, err
	}

	// QWeather wraps its own status in the body; HTTP 200 alone means nothing.
	if payload.Code != "200" {
		return weather.ForecastRecord{}, fmt.Errorf("qweather api error code %s", payload.Code)
	}
	if len(payload.Daily) < 2 {
		return weather.ForecastRecord{}, fmt.Errorf("%w: daily series too short", weather.ErrBadPayload)
	}

	tomorrow := payload.Daily[1]
	if tomorrow.FxDate == "" {
		return weather.ForecastRecord{}, fmt.Errorf("%w: fxDate", weather.ErrBadPayload)
	}

	high, err := strconv.ParseFloat(tomorrow.TempMax, 64)
	if err != nil {
		return weather.ForecastRecord{}, fmt.Errorf("%w: tempMax %q", weather.ErrBadPayload, tomorrow.TempMax)
	}
	low, err := strconv.ParseFloat(tomorrow.TempMin, 64)
	if err != nil {
		return weather.ForecastRecord{}, fmt.Errorf("%w: tempMin %q", weather.ErrBadPayload, tomorrow.TempMin)
	}

	rec := weather.ForecastRecord{
		Date:      tomorrow.FxDate,
		HighTempC: &high,
		LowTempC:  &low,
		Condition: mapQWeatherCondition(tomorrow.TextDay),
		Text:      tomorrow.TextDay,
		WindScale: tomorrow.WindScaleDay,
		WindDir:   tomorrow.WindDirDay,
		FetchedAt: time.Now().UTC(),
	}

	if precip, err := strconv.ParseFloat(tomorrow.Precip, 64); err == nil {
		rec.PrecipProb = &precip
	}
	if humidity, err := strconv.ParseFloat(tomorrow.Humidity, 64); err == nil {
		rec.HumidityPct = &humidity
	}

	return rec, nil
}

// mapQWeatherCondition normalizes the localized daytime description. QWeather
// returns Chinese text by default and English when lang=en is set, so both
// vocabularies are matched.
func mapQWeatherCondition(text string) weather.Condition {
	switch {
	case common.HasAny(text, "雷", "Thunder", "Storm"):
		return weather.ConditionStorm
	case common.HasAny(text, "雪", "Snow", "Sleet"):
		return weather.ConditionSnow
	case common.HasAny(text, "雨", "Rain", "Drizzle", "Shower"):
		return weather.ConditionRain
	case common.HasAny(text, "雾", "霾", "Fog", "Mist", "Haze"):
		return weather.ConditionMist
	case common.HasAny(text, "云", "阴", "Cloud", "Overcast"):
		return weather.ConditionCloudy
	case common.HasAny(text, "晴", "Clear", "Sunny"):
		return weather.ConditionClear
	default:
		return weather.ConditionUnknown
	}
}
