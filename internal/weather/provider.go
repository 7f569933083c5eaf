package weather

import (
	"context"
	"errors"
)

// ErrBadPayload indicates a provider response that decoded but is missing
// required forecast fields.
var ErrBadPayload = errors.New("forecast payload missing required fields")

// ForecastProvider abstracts a forecast data source (e.g. QWeather, Open-Meteo).
// Implementations return the normalized record for tomorrow at the provider's
// configured location.
type ForecastProvider interface {
	Name() string
	FetchTomorrow(ctx context.Context) (ForecastRecord, error)
}
