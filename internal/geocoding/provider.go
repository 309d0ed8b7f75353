package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
)

// Provider is an interface that defines a method for geocoding an address.
// The Geocode method takes a context and an address string as input,
// and returns the coordinates of the first matching candidate or an error.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}

// IsNotFound reports whether err means the provider had no candidate for the address.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNominatimEmptyResponse) || errors.Is(err, ErrEmptyResponse)
}
