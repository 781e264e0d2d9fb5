package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/api"
	"github.com/UnknownOlympus/hazardmap/internal/geocoding"
	"github.com/UnknownOlympus/hazardmap/internal/heatmap"
	"github.com/UnknownOlympus/hazardmap/internal/metrics"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/UnknownOlympus/hazardmap/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	report    models.Report
	outcome   models.ReportOutcome
	kind      string
	center    models.Coordinates
	radius    float64
	hazards   []models.Hazard
	nearby    []models.NearbyHazard
	layers    heatmap.Layers
	query     string
	coords    *models.Coordinates
	err       error
	submitted bool
}

func (s *stubService) SubmitReport(_ context.Context, report models.Report) (models.ReportOutcome, error) {
	s.submitted = true
	s.report = report
	return s.outcome, s.err
}

func (s *stubService) ListHazards(_ context.Context, kind string) ([]models.Hazard, error) {
	s.kind = kind
	return s.hazards, s.err
}

func (s *stubService) NearbyHazards(
	_ context.Context, center models.Coordinates, radius float64, kind string,
) ([]models.NearbyHazard, error) {
	s.center, s.radius, s.kind = center, radius, kind
	return s.nearby, s.err
}

func (s *stubService) Heatmap(context.Context) (heatmap.Layers, error) {
	return s.layers, s.err
}

func (s *stubService) Search(_ context.Context, query string) (*models.Coordinates, error) {
	s.query = query
	return s.coords, s.err
}

func newServer(t *testing.T, svc api.HazardService) (http.Handler, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return api.NewRouter(svc, m, slog.Default(), []string{"http://localhost:3000"}), m
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrResponse {
	t.Helper()
	var resp api.ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSubmitAccident(t *testing.T) {
	t.Run("created with coordinates", func(t *testing.T) {
		hazard := models.NewHazard("accident", 27.7, 85.3, models.WithFrequency(2))
		svc := &stubService{outcome: models.ReportOutcome{
			ReportID: 5, Status: models.ReportStatusRecorded, Hazard: &hazard,
		}}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "vehicle",
			"description": "  truck blocking both lanes  ",
			"date": "2024-07-14T09:30:00.000Z",
			"coordinates": [27.7, 85.3],
			"timestamp": "2024-07-14T10:00:00.000Z"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "accident", svc.report.Kind)
		assert.Equal(t, "truck blocking both lanes", svc.report.Description)
		require.NotNil(t, svc.report.Coordinates)
		assert.Equal(t, models.Coordinates{Latitude: 27.7, Longitude: 85.3}, *svc.report.Coordinates)
		assert.True(t, time.Date(2024, 7, 14, 9, 30, 0, 0, time.UTC).Equal(svc.report.ObservedAt))

		var outcome models.ReportOutcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		assert.Equal(t, int64(5), outcome.ReportID)
		require.NotNil(t, outcome.Hazard)
		assert.Equal(t, 2, outcome.Hazard.Frequency)
	})

	t.Run("address only uses timestamp", func(t *testing.T) {
		svc := &stubService{outcome: models.ReportOutcome{ReportID: 6, Status: models.ReportStatusPending}}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "Flood",
			"description": "water up to the knees",
			"address": "Baneshwor, Kathmandu",
			"timestamp": "2024-07-14T10:00:00Z"
		}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "flood", svc.report.Kind)
		assert.Nil(t, svc.report.Coordinates)
		assert.Equal(t, "Baneshwor, Kathmandu", svc.report.Address)
		assert.True(t, time.Date(2024, 7, 14, 10, 0, 0, 0, time.UTC).Equal(svc.report.ObservedAt))
		assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	})

	t.Run("validation errors are translated", func(t *testing.T) {
		svc := &stubService{}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "meteor",
			"description": "short",
			"coordinates": [27.7, 85.3]
		}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, svc.submitted)
		resp := decodeError(t, rec)
		assert.Equal(t, "Invalid request.", resp.StatusText)
		require.Len(t, resp.ErrValidation, 2)
		assert.Contains(t, resp.ErrValidation[0], "AccidentType")
		assert.Contains(t, resp.ErrValidation[1], "Description")
	})

	t.Run("coordinates need two values", func(t *testing.T) {
		svc := &stubService{}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "landslide",
			"description": "rocks across the road",
			"coordinates": [27.7]
		}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, svc.submitted)
	})

	t.Run("location is required", func(t *testing.T) {
		svc := &stubService{}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "landslide",
			"description": "rocks across the road"
		}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeError(t, rec).ErrValidation)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, _ := newServer(t, &stubService{})

		rec := do(t, h, http.MethodPost, "/api/accidents", `{"accidentType":`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("domain error maps to bad request", func(t *testing.T) {
		svc := &stubService{err: fmt.Errorf("%w: latitude 200 out of range", models.ErrInvalidCoordinate)}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "other",
			"description": "fallen tree on the road",
			"coordinates": [200, 85.3]
		}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).ErrorText, "latitude 200")
	})

	t.Run("unknown kind from the service maps to bad request", func(t *testing.T) {
		svc := &stubService{err: fmt.Errorf("%w: %q", models.ErrUnknownKind, "meteor")}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "other",
			"description": "fallen tree on the road",
			"coordinates": [27.7, 85.3]
		}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage error maps to internal error", func(t *testing.T) {
		svc := &stubService{err: assert.AnError}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodPost, "/api/accidents", `{
			"accidentType": "other",
			"description": "fallen tree on the road",
			"address": "Kalanki"
		}`)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error.", decodeError(t, rec).StatusText)
	})
}

func TestListHazards(t *testing.T) {
	hazards := []models.Hazard{models.NewHazard("flood", 27.7, 85.3, models.WithFrequency(3))}
	svc := &stubService{hazards: hazards}
	h, m := newServer(t, svc)

	rec := do(t, h, http.MethodGet, "/api/hazards?type=flood", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "flood", svc.kind)
	var got []models.Hazard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.True(t, hazards[0].Equal(got[0]))
	assert.Contains(t, rec.Body.String(), `"latest_update"`)
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestNearbyHazards(t *testing.T) {
	t.Run("parses query parameters", func(t *testing.T) {
		svc := &stubService{nearby: []models.NearbyHazard{
			{Hazard: models.NewHazard("flood", 27.7, 85.3), DistanceMeters: 42},
		}}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodGet, "/api/hazards/nearby?lat=27.7&lon=85.3&radius=250&type=flood", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.Coordinates{Latitude: 27.7, Longitude: 85.3}, svc.center)
		assert.InDelta(t, 250, svc.radius, 0)
		assert.Equal(t, "flood", svc.kind)
		assert.Contains(t, rec.Body.String(), `"distance_m":42`)
	})

	t.Run("missing latitude", func(t *testing.T) {
		h, _ := newServer(t, &stubService{})

		rec := do(t, h, http.MethodGet, "/api/hazards/nearby?lon=85.3", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).ErrorText, "lat")
	})

	t.Run("non numeric radius", func(t *testing.T) {
		h, _ := newServer(t, &stubService{})

		rec := do(t, h, http.MethodGet, "/api/hazards/nearby?lat=1&lon=2&radius=far", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		h, _ := newServer(t, &stubService{})

		rec := do(t, h, http.MethodGet, "/api/hazards/nearby?lat=95&lon=2", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeError(t, rec).ErrValidation)
	})
}

func TestHeatmap(t *testing.T) {
	svc := &stubService{layers: heatmap.Layers{"flood": {{27.7, 85.3, 90}}}}
	h, _ := newServer(t, svc)

	rec := do(t, h, http.MethodGet, "/api/heatmap", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"flood":[[27.7,85.3,90]]}`, rec.Body.String())
}

func TestSearch(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubService{coords: &models.Coordinates{Latitude: 27.67, Longitude: 85.43}}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodGet, "/api/geocode?q=Bhaktapur", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"query":"Bhaktapur","latitude":27.67,"longitude":85.43}`, rec.Body.String())
	})

	t.Run("no results is not found", func(t *testing.T) {
		svc := &stubService{err: fmt.Errorf("failed to search location: %w", geocoding.ErrNoResults)}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodGet, "/api/geocode?q=Atlantis", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty query is bad request", func(t *testing.T) {
		svc := &stubService{err: service.ErrEmptyQuery}
		h, _ := newServer(t, svc)

		rec := do(t, h, http.MethodGet, "/api/geocode", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newServer(t, &stubService{})
	req := httptest.NewRequest(http.MethodOptions, "/api/accidents", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
