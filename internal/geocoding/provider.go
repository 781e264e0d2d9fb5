package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/hazardmap/internal/models"
)

// ErrNoResults is returned, possibly wrapped, when a provider finds nothing for a query.
var ErrNoResults = errors.New("no geocoding results")

// Provider resolves a free-form place query (an address, a place name) to coordinates.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Coordinates, error)
}
