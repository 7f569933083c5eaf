package providers

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// ResolveCoordinates turns a city/country pair into latitude and longitude
// using the Google geocoding API. Only needed for providers that take
// coordinates when none are configured directly.
func ResolveCoordinates(apiKey, city, country string) (lat, lon float64, err error) {
	if apiKey == "" {
		return 0, 0, fmt.Errorf("geocoder api key is not configured")
	}
	if city == "" {
		return 0, 0, fmt.Errorf("geocoder requires a city")
	}

	geocoder.ApiKey = apiKey

	address := geocoder.Address{
		City:    city,
		Country: country,
	}

	location, err := geocoder.Geocoding(address)
	if err != nil {
		return 0, 0, fmt.Errorf("geocode %s,%s: %w", city, country, err)
	}

	return location.Latitude, location.Longitude, nil
}
