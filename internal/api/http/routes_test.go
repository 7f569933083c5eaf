package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmt927/weather-notify/internal/store"
	"github.com/lmt927/weather-notify/internal/weather"
)

func newTestAPI(t *testing.T) (*fiber.App, *store.FileStore) {
	t.Helper()

	dir := t.TempDir()
	fileStore := store.NewFileStore(
		filepath.Join(dir, "weather_data.json"),
		filepath.Join(dir, "run_record.json"),
	)

	app := fiber.New()
	RegisterRoutes(app, fileStore)
	return app, fileStore
}

func TestHealthz(t *testing.T) {
	app, _ := newTestAPI(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHistoryDaysValidation(t *testing.T) {
	app, _ := newTestAPI(t)

	// Non-integer days should return 400.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/history?days=soon", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Out-of-range days value should also return 400.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/history?days=400", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryReturnsRecentRecords(t *testing.T) {
	app, fileStore := newTestAPI(t)

	high := 28.0
	var h weather.History
	h.Append(weather.ForecastRecord{Date: "2000-01-01", HighTempC: &high})
	h.Append(weather.ForecastRecord{Date: time.Now().Format(weather.DateLayout), HighTempC: &high})
	require.NoError(t, fileStore.SaveHistory(h))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/history?days=7", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Count   int                      `json:"count"`
		Records []weather.ForecastRecord `json:"records"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	// Only the recent record falls inside the 7-day window.
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Records, 1)
	assert.NotEqual(t, "2000-01-01", body.Records[0].Date)
}

func TestRunRecordEndpoint(t *testing.T) {
	app, fileStore := newTestAPI(t)
	require.NoError(t, fileStore.RecordRun(store.RunSuccess, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/run", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec store.RunRecord
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rec))
	assert.Equal(t, store.RunSuccess, rec.Status)
}
