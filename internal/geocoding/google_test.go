package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/pakketpunt/internal/geocoding"
	"github.com/UnknownOlympus/pakketpunt/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGeocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "nl", slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address, Region: "nl"}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, address)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		address := "some invalid place"
		req := &maps.GeocodingRequest{Address: address, Region: "nl"}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		mockClient.AssertExpectations(t)
	})

	t.Run("successfull geocoding", func(t *testing.T) {
		address := "Middenweg 14, Amsterdam, 1097BM, The Netherlands"
		req := &maps.GeocodingRequest{Address: address, Region: "nl"}
		mockReponse := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 52.35, Lng: 4.93}}},
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 10, Lng: 10}}},
		}

		mockClient.On("Geocode", ctx, req).Return(mockReponse, nil).Once()

		coords, err := provider.Geocode(ctx, address)

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 52.35, coords.Latitude, 0.01)
		require.InEpsilon(t, 4.93, coords.Longitude, 0.01)
		mockClient.AssertExpectations(t)
	})
}
