package location

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"
)

// Place is the reverse-geocoded description of a coordinate.
type Place struct {
	Name     string
	Country  string
	Timezone *string
}

// Geocoder maps a raw coordinate to a place name and country. It may
// fail independently of location acquisition; the bridge degrades to a
// placeholder instead of surfacing the failure.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}

// GoogleGeocoder resolves coordinates through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the shared geocoder API key and returns
// an adapter implementing Geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	addresses, err := geocoder.GeocodingReverse(geocoder.Location{
		Latitude:  lat,
		Longitude: lon,
	})
	if err != nil {
		return Place{}, err
	}
	if len(addresses) == 0 {
		return Place{}, errors.New("no reverse geocoding results")
	}

	addr := addresses[0]
	name := addr.City
	if name == "" {
		name = addr.State
	}
	return Place{Name: name, Country: addr.Country}, nil
}

var _ Geocoder = (*GoogleGeocoder)(nil)
