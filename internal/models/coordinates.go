package models

import "fmt"

// Coordinates represents a geographical point defined by its latitude and longitude.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`  // Latitude of the geographical point.
	Longitude float64 `json:"longitude"` // Longitude of the geographical point.
}

const (
	maxLatitude  = 90.0
	maxLongitude = 180.0
)

// Valid reports whether the point lies within WGS-84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -maxLatitude && c.Latitude <= maxLatitude &&
		c.Longitude >= -maxLongitude && c.Longitude <= maxLongitude
}

// Validate returns ErrInvalidCoordinate describing the offending axis.
func (c Coordinates) Validate() error {
	if c.Latitude < -maxLatitude || c.Latitude > maxLatitude {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -maxLongitude || c.Longitude > maxLongitude {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, c.Longitude)
	}

	return nil
}
