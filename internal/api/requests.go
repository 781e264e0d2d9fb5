package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/models"
)

var errMissingParam = errors.New("missing query parameter")

// AccidentRequest is the body of a hazard report submitted from the map.
type AccidentRequest struct {
	AccidentType string    `json:"accidentType" validate:"required,oneof=vehicle damagedroad landslide flood other"`
	Description  string    `json:"description"  validate:"required,min=10,max=2000"`
	Date         time.Time `json:"date"`
	Coordinates  []float64 `json:"coordinates"  validate:"omitempty,len=2"`
	Address      string    `json:"address"      validate:"required_without=Coordinates,max=512"`
	Timestamp    time.Time `json:"timestamp"`
}

func (a *AccidentRequest) Bind(_ *http.Request) error {
	a.AccidentType = strings.ToLower(strings.TrimSpace(a.AccidentType))
	a.Description = strings.TrimSpace(a.Description)
	a.Address = strings.TrimSpace(a.Address)
	return nil
}

// Report converts the request into a domain report. The picked date wins over the
// submission timestamp; both empty leaves the time to the service.
func (a *AccidentRequest) Report() models.Report {
	report := models.Report{
		Kind:        models.KindForReportType(a.AccidentType),
		Description: a.Description,
		Address:     a.Address,
		ObservedAt:  a.Timestamp,
	}
	if !a.Date.IsZero() {
		report.ObservedAt = a.Date
	}
	if len(a.Coordinates) == 2 {
		report.Coordinates = &models.Coordinates{Latitude: a.Coordinates[0], Longitude: a.Coordinates[1]}
	}

	return report
}

// NearbyRequest holds the query parameters of a nearby search.
type NearbyRequest struct {
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	Radius    float64 `validate:"gte=0,lte=50000"`
	Kind      string
}

func parseNearbyRequest(r *http.Request) (*NearbyRequest, error) {
	query := r.URL.Query()
	req := &NearbyRequest{Kind: strings.TrimSpace(query.Get("type"))}

	var err error
	if req.Latitude, err = parseFloatParam(query.Get("lat"), "lat", true); err != nil {
		return nil, err
	}
	if req.Longitude, err = parseFloatParam(query.Get("lon"), "lon", true); err != nil {
		return nil, err
	}
	if req.Radius, err = parseFloatParam(query.Get("radius"), "radius", false); err != nil {
		return nil, err
	}

	return req, nil
}

func parseFloatParam(raw, name string, required bool) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: %s", errMissingParam, name)
		}
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be a number: %w", name, err)
	}
	return value, nil
}

// SearchResponse is the location found for a free-text query.
type SearchResponse struct {
	Query     string  `json:"query"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
