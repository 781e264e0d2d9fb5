package geocoding_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/hazardmap/internal/geocoding"
	"github.com/UnknownOlympus/hazardmap/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestGoogleProvider_Geocode(t *testing.T) {
	mockClient := mocks.NewGoogleAPIClient(t)
	provider := geocoding.NewGoogleProvider(mockClient, "np", slog.Default())
	ctx := t.Context()

	t.Run("api returns error", func(t *testing.T) {
		query := "some invalid place"
		req := &maps.GeocodingRequest{Address: query, Region: "np"}

		mockClient.On("Geocode", ctx, req).Return(nil, assert.AnError).Once()

		_, err := provider.Geocode(ctx, query)

		require.Error(t, err)
		require.ErrorIs(t, err, assert.AnError)
		mockClient.AssertExpectations(t)
	})

	t.Run("api return empty response", func(t *testing.T) {
		query := "nowhere at all"
		req := &maps.GeocodingRequest{Address: query, Region: "np"}

		mockClient.On("Geocode", ctx, req).Return(nil, nil).Once()

		coords, err := provider.Geocode(ctx, query)

		require.Nil(t, coords)
		require.ErrorIs(t, err, geocoding.ErrEmptyResponse)
		require.ErrorIs(t, err, geocoding.ErrNoResults)
		mockClient.AssertExpectations(t)
	})

	t.Run("successful geocoding", func(t *testing.T) {
		query := "Durbar Marg, Kathmandu"
		req := &maps.GeocodingRequest{Address: query, Region: "np"}
		response := []maps.GeocodingResult{
			{Geometry: maps.AddressGeometry{Location: maps.LatLng{Lat: 27.7115, Lng: 85.3180}}},
		}

		mockClient.On("Geocode", ctx, req).Return(response, nil).Once()

		coords, err := provider.Geocode(ctx, query)

		require.NoError(t, err)
		require.NotNil(t, coords)
		require.InEpsilon(t, 27.7115, coords.Latitude, 0.0001)
		require.InEpsilon(t, 85.3180, coords.Longitude, 0.0001)
		mockClient.AssertExpectations(t)
	})
}
