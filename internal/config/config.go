package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/lmt927/weather-notify/internal/analyzer"
	"github.com/lmt927/weather-notify/internal/notifier"
)

var validate = validator.New()

// AppConfig is the full application configuration, constructed once at
// startup and passed into component constructors. No ambient globals.
type AppConfig struct {
	// Forecast source: "qweather" (default) or "openmeteo".
	Provider string `validate:"oneof=qweather openmeteo"`

	QWeatherAPIKey     string `validate:"required_if=Provider qweather"`
	QWeatherLocationID string `validate:"required_if=Provider qweather"`
	QWeatherBaseURL    string // optional per-account API host

	// Open-Meteo location. Either coordinates, or city/country resolved
	// through the Google geocoder.
	LocationLat     *float64
	LocationLon     *float64
	LocationCity    string
	LocationCountry string
	GeocoderAPIKey  string

	Notifier notifier.Config

	// Persisted files, owned exclusively by the store.
	HistoryFile   string `validate:"required"`
	RunRecordFile string `validate:"required"`

	// DataRetentionDays is the on-disk retention window; AnalysisDays is the
	// comparison baseline length.
	DataRetentionDays int `validate:"min=1"`
	AnalysisDays      int `validate:"min=1"`

	Thresholds analyzer.Thresholds

	// HTTPTimeout bounds each outbound request to the weather API and the
	// notification relay.
	HTTPTimeout time.Duration

	// Daemon mode: run daily at NotifyAt in Timezone and serve the status
	// API on Port. Disabled by default; the job is a one-shot batch.
	Daemon   bool
	NotifyAt string
	Timezone string
	Port     string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.Provider = getenvDefault("WEATHER_PROVIDER", "qweather")
	cfg.QWeatherAPIKey = os.Getenv("QWEATHER_API_KEY")
	cfg.QWeatherLocationID = os.Getenv("QWEATHER_LOCATION_ID")
	cfg.QWeatherBaseURL = os.Getenv("QWEATHER_BASE_URL")

	if v, ok := lookupFloat("LOCATION_LAT"); ok {
		cfg.LocationLat = &v
	}
	if v, ok := lookupFloat("LOCATION_LON"); ok {
		cfg.LocationLon = &v
	}
	cfg.LocationCity = os.Getenv("LOCATION_CITY")
	cfg.LocationCountry = os.Getenv("LOCATION_COUNTRY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.Notifier = notifier.Config{
		Provider:          getenvDefault("NOTIFY_PROVIDER", "serverchan"),
		SendKey:           os.Getenv("SERVERCHAN_SENDKEY"),
		ServerChanBaseURL: os.Getenv("SERVERCHAN_BASE_URL"),
		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),
	}

	cfg.HistoryFile = getenvDefault("HISTORY_FILE", "weather_data.json")
	cfg.RunRecordFile = getenvDefault("RUN_RECORD_FILE", "run_record.json")

	cfg.DataRetentionDays = getenvInt("DATA_RETENTION_DAYS", 30)
	cfg.AnalysisDays = getenvInt("ANALYSIS_DAYS", 7)

	th := analyzer.DefaultThresholds()
	th.TempAlertC = getenvFloat("TEMP_ALERT_THRESHOLD", th.TempAlertC)
	th.PrecipAlertPct = getenvFloat("PRECIP_ALERT_THRESHOLD", th.PrecipAlertPct)
	th.HotWarningC = getenvFloat("HOT_WARNING_TEMP", th.HotWarningC)
	th.ColdWarningC = getenvFloat("COLD_WARNING_TEMP", th.ColdWarningC)
	th.DiurnalSwingC = getenvFloat("DIURNAL_SWING_THRESHOLD", th.DiurnalSwingC)
	th.SharpChangeC = getenvFloat("SHARP_CHANGE_THRESHOLD", th.SharpChangeC)
	cfg.Thresholds = th

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Daemon = os.Getenv("DAEMON") == "true"
	cfg.NotifyAt = getenvDefault("NOTIFY_AT", "07:30")
	cfg.Timezone = getenvDefault("TIMEZONE", "UTC")
	cfg.Port = getenvDefault("PORT", "8080")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func lookupFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
