package models

import (
	"fmt"
	"time"
)

// DefaultFrequency is the observation count of a freshly reported hazard.
const DefaultFrequency = 1

// Hazard is one observed hazard at a geographic point: its category, where it is,
// how many times it was observed and when it was seen last.
//
// Hazard is a value type. Nothing mutates it in place; a changed observation count
// produces a new value.
type Hazard struct {
	Kind       string    `json:"type"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Frequency  int       `json:"frequency"`
	LastUpdate time.Time `json:"latest_update"`
}

// HazardOption overrides one of the defaulted fields of NewHazard.
type HazardOption func(*Hazard)

// WithFrequency sets the observation count. The value is stored as given.
func WithFrequency(n int) HazardOption {
	return func(h *Hazard) {
		h.Frequency = n
	}
}

// WithLastUpdate sets the time of the most recent observation.
func WithLastUpdate(t time.Time) HazardOption {
	return func(h *Hazard) {
		h.LastUpdate = t
	}
}

// NewHazard builds a hazard record without validating it. Frequency defaults to 1 and
// LastUpdate to the clock reading taken during this call.
func NewHazard(kind string, latitude, longitude float64, opts ...HazardOption) Hazard {
	h := Hazard{
		Kind:       kind,
		Latitude:   latitude,
		Longitude:  longitude,
		Frequency:  DefaultFrequency,
		LastUpdate: clock.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&h)
	}

	return h
}

// NewValidatedHazard is NewHazard followed by Validate.
func NewValidatedHazard(kind string, latitude, longitude float64, opts ...HazardOption) (Hazard, error) {
	h := NewHazard(kind, latitude, longitude, opts...)
	if err := h.Validate(); err != nil {
		return Hazard{}, err
	}

	return h, nil
}

// Validate checks the invariants the constructor does not enforce.
func (h Hazard) Validate() error {
	if h.Kind == "" {
		return ErrEmptyKind
	}
	if err := h.Coordinates().Validate(); err != nil {
		return err
	}
	if h.Frequency < DefaultFrequency {
		return fmt.Errorf("%w: %d, must be at least %d", ErrInvalidFrequency, h.Frequency, DefaultFrequency)
	}

	return nil
}

// Coordinates returns the location of the hazard.
func (h Hazard) Coordinates() Coordinates {
	return Coordinates{Latitude: h.Latitude, Longitude: h.Longitude}
}

// Equal reports value equality. Timestamps are compared as instants.
func (h Hazard) Equal(other Hazard) bool {
	return h.Kind == other.Kind &&
		h.Latitude == other.Latitude &&
		h.Longitude == other.Longitude &&
		h.Frequency == other.Frequency &&
		h.LastUpdate.Equal(other.LastUpdate)
}

// NearbyHazard is a hazard annotated with its distance from a query point.
type NearbyHazard struct {
	Hazard

	DistanceMeters float64 `json:"distance_m"`
}
