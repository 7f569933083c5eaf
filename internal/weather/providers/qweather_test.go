package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmt927/weather-notify/internal/weather"
)

const qweather3dBody = `{
	"code": "200",
	"daily": [
		{"fxDate": "2026-08-30", "tempMax": "30", "tempMin": "22", "textDay": "Sunny", "humidity": "60", "precip": "0.0", "windScaleDay": "2", "windDirDay": "NE"},
		{"fxDate": "2026-08-31", "tempMax": "27", "tempMin": "20", "textDay": "Moderate rain", "humidity": "85", "precip": "6.2", "windScaleDay": "4", "windDirDay": "SE"},
		{"fxDate": "2026-09-01", "tempMax": "26", "tempMin": "19", "textDay": "Cloudy", "humidity": "70", "precip": "0.0", "windScaleDay": "3", "windDirDay": "S"}
	]
}`

func newQWeatherTest(t *testing.T, handler http.HandlerFunc) *QWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewQWeatherProvider(srv.Client(), "test-key", "101190101", srv.URL)
}

func TestQWeatherFetchTomorrow(t *testing.T) {
	p := newQWeatherTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v7/weather/3d", r.URL.Path)
		assert.Equal(t, "101190101", r.URL.Query().Get("location"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(qweather3dBody))
	})

	rec, err := p.FetchTomorrow(context.Background())
	require.NoError(t, err)

	// Index 1 of the daily series is tomorrow.
	assert.Equal(t, "2026-08-31", rec.Date)
	require.NotNil(t, rec.HighTempC)
	assert.Equal(t, 27.0, *rec.HighTempC)
	require.NotNil(t, rec.LowTempC)
	assert.Equal(t, 20.0, *rec.LowTempC)
	require.NotNil(t, rec.PrecipProb)
	assert.Equal(t, 6.2, *rec.PrecipProb)
	assert.Equal(t, weather.ConditionRain, rec.Condition)
	assert.Equal(t, "Moderate rain", rec.Text)
	assert.Equal(t, "SE", rec.WindDir)
	assert.False(t, rec.FetchedAt.IsZero())
}

func TestQWeatherAPIErrorCode(t *testing.T) {
	// QWeather signals auth errors inside an HTTP 200 body.
	p := newQWeatherTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "401"}`))
	})

	_, err := p.FetchTomorrow(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestQWeatherShortDailySeries(t *testing.T) {
	p := newQWeatherTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "200", "daily": [{"fxDate": "2026-08-30", "tempMax": "30", "tempMin": "22"}]}`))
	})

	_, err := p.FetchTomorrow(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrBadPayload))
}

func TestQWeatherMalformedTemperature(t *testing.T) {
	p := newQWeatherTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "200", "daily": [
			{"fxDate": "2026-08-30", "tempMax": "30", "tempMin": "22"},
			{"fxDate": "2026-08-31", "tempMax": "", "tempMin": "20"}
		]}`))
	})

	_, err := p.FetchTomorrow(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, weather.ErrBadPayload))
}

func TestQWeatherMissingCredentials(t *testing.T) {
	p := NewQWeatherProvider(http.DefaultClient, "", "101190101", "")
	_, err := p.FetchTomorrow(context.Background())
	require.Error(t, err)
}

func TestQWeatherTerminalStatusNotRetried(t *testing.T) {
	calls := 0
	p := newQWeatherTest(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := p.FetchTomorrow(context.Background())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestMapQWeatherCondition(t *testing.T) {
	tests := []struct {
		text string
		want weather.Condition
	}{
		{"晴", weather.ConditionClear},
		{"多云", weather.ConditionCloudy},
		{"小雨", weather.ConditionRain},
		{"雷阵雨", weather.ConditionStorm},
		{"大雪", weather.ConditionSnow},
		{"雾", weather.ConditionMist},
		{"Sunny", weather.ConditionClear},
		{"Overcast", weather.ConditionCloudy},
		{"Light rain", weather.ConditionRain},
		{"???", weather.ConditionUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapQWeatherCondition(tt.text), "text %q", tt.text)
	}
}
