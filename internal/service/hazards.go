package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/events"
	"github.com/UnknownOlympus/hazardmap/internal/geocoding"
	"github.com/UnknownOlympus/hazardmap/internal/geoindex"
	"github.com/UnknownOlympus/hazardmap/internal/heatmap"
	"github.com/UnknownOlympus/hazardmap/internal/metrics"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/UnknownOlympus/hazardmap/internal/repository"
	"github.com/jonboulle/clockwork"
)

// HazardService turns user reports into hazard records and answers map queries.
type HazardService struct {
	log          *slog.Logger         // Logger for logging service activities
	repo         repository.Interface // Interface for data repository access
	provider     geocoding.Provider   // Geocoding provider used by Search
	providerName string               // Name of the provider for metrics labeling
	publisher    events.Publisher     // Publisher notified about every stored observation
	metrics      *metrics.Metrics     // Metrics for tracking service performance
	clock        clockwork.Clock      // Clock for default observation times
	resolution   int                  // H3 resolution hazards are merged at
	nearbyRadius float64              // Default search radius in meters
}

// HazardServiceConfig holds the tunables of HazardService.
type HazardServiceConfig struct {
	ProviderName string
	Resolution   int
	NearbyRadius float64
}

// NewHazardService creates a new instance of HazardService. A nil clock means real time.
func NewHazardService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	publisher events.Publisher,
	metrics *metrics.Metrics,
	clock clockwork.Clock,
	cfg HazardServiceConfig,
) *HazardService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if !geoindex.ValidResolution(cfg.Resolution) {
		cfg.Resolution = geoindex.DefaultResolution
	}

	return &HazardService{
		log:          log,
		repo:         repo,
		provider:     provider,
		providerName: cfg.ProviderName,
		publisher:    publisher,
		metrics:      metrics,
		clock:        clock,
		resolution:   cfg.Resolution,
		nearbyRadius: cfg.NearbyRadius,
	}
}

// SubmitReport stores a report. A report with coordinates is folded into its hazard record
// in the same write; one with only an address is left for the ReportResolver.
func (hs *HazardService) SubmitReport(ctx context.Context, report models.Report) (models.ReportOutcome, error) {
	report.Kind = strings.TrimSpace(report.Kind)
	switch {
	case report.Kind == "":
		return models.ReportOutcome{}, models.ErrEmptyKind
	case !models.IsReportKind(report.Kind):
		return models.ReportOutcome{}, fmt.Errorf("%w: %q", models.ErrUnknownKind, report.Kind)
	}
	report.Address = strings.TrimSpace(report.Address)
	if report.ObservedAt.IsZero() {
		report.ObservedAt = hs.clock.Now().UTC()
	}

	switch {
	case report.Coordinates != nil:
		if err := report.Coordinates.Validate(); err != nil {
			return models.ReportOutcome{}, err
		}
	case report.Address == "":
		return models.ReportOutcome{}, models.ErrMissingLocation
	}

	if report.Coordinates == nil {
		reportID, err := hs.repo.SaveReport(ctx, report)
		if err != nil {
			return models.ReportOutcome{}, fmt.Errorf("failed to store report: %w", err)
		}
		hs.metrics.ReportsReceived.WithLabelValues(report.Kind, models.ReportStatusPending).Inc()
		hs.log.InfoContext(ctx, "Report queued for geocoding", "report", reportID, "kind", report.Kind)
		return models.ReportOutcome{ReportID: reportID, Status: models.ReportStatusPending}, nil
	}

	hazard, cell, err := hs.observation(report.Kind, *report.Coordinates, report.ObservedAt)
	if err != nil {
		return models.ReportOutcome{}, err
	}
	reportID, stored, err := hs.repo.SaveLocatedReport(ctx, report, hazard, cell)
	if err != nil {
		return models.ReportOutcome{}, fmt.Errorf("failed to store report: %w", err)
	}
	hs.announce(ctx, cell, stored)
	hs.metrics.ReportsReceived.WithLabelValues(report.Kind, models.ReportStatusRecorded).Inc()

	return models.ReportOutcome{ReportID: reportID, Status: models.ReportStatusRecorded, Hazard: &stored}, nil
}

// RecordObservation adds one observation of kind at coords to the hazard record of its cell
// and announces the updated record.
func (hs *HazardService) RecordObservation(
	ctx context.Context,
	kind string,
	coords models.Coordinates,
	observedAt time.Time,
) (models.Hazard, error) {
	hazard, cell, err := hs.observation(kind, coords, observedAt)
	if err != nil {
		return models.Hazard{}, err
	}

	stored, err := hs.repo.RecordObservation(ctx, hazard, cell)
	if err != nil {
		return models.Hazard{}, fmt.Errorf("failed to record observation: %w", err)
	}
	hs.announce(ctx, cell, stored)

	return stored, nil
}

// ResolveReport stores the geocoded position of a pending report together with the observation
// it adds, then announces the updated record.
func (hs *HazardService) ResolveReport(
	ctx context.Context,
	report models.Report,
	coords models.Coordinates,
) (models.Hazard, error) {
	hazard, cell, err := hs.observation(report.Kind, coords, report.ObservedAt)
	if err != nil {
		return models.Hazard{}, err
	}

	stored, err := hs.repo.ResolveReport(ctx, report.ID, hazard, cell)
	if err != nil {
		return models.Hazard{}, fmt.Errorf("failed to resolve report: %w", err)
	}
	hs.announce(ctx, cell, stored)

	return stored, nil
}

// observation builds the validated single observation of kind at coords and the cell it
// merges into.
func (hs *HazardService) observation(
	kind string,
	coords models.Coordinates,
	observedAt time.Time,
) (models.Hazard, string, error) {
	if observedAt.IsZero() {
		observedAt = hs.clock.Now()
	}
	hazard, err := models.NewValidatedHazard(
		kind, coords.Latitude, coords.Longitude, models.WithLastUpdate(observedAt.UTC()),
	)
	if err != nil {
		return models.Hazard{}, "", err
	}

	return hazard, geoindex.Cell(coords, hs.resolution), nil
}

// announce counts a stored observation and publishes the updated record. Publish failures are
// logged and counted only.
func (hs *HazardService) announce(ctx context.Context, cell string, stored models.Hazard) {
	hs.metrics.HazardsRecorded.WithLabelValues(stored.Kind).Inc()

	if err := hs.publisher.PublishHazard(ctx, cell, stored); err != nil {
		hs.metrics.EventsPublished.WithLabelValues("failure").Inc()
		hs.log.ErrorContext(ctx, "Failed to publish hazard update", "kind", stored.Kind, "cell", cell, "error", err)
	} else {
		hs.metrics.EventsPublished.WithLabelValues("success").Inc()
	}

	hs.log.DebugContext(ctx, "Observation recorded",
		"kind", stored.Kind, "cell", cell, "frequency", stored.Frequency)
}

// ListHazards returns the stored hazards of kind, or every hazard when kind is empty.
func (hs *HazardService) ListHazards(ctx context.Context, kind string) ([]models.Hazard, error) {
	hazards, err := hs.repo.ListHazards(ctx, strings.TrimSpace(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list hazards: %w", err)
	}

	return hazards, nil
}

// NearbyHazards returns hazards within radiusMeters of center, closest first.
// A non-positive radius falls back to the configured default.
func (hs *HazardService) NearbyHazards(
	ctx context.Context,
	center models.Coordinates,
	radiusMeters float64,
	kind string,
) ([]models.NearbyHazard, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radiusMeters <= 0 {
		radiusMeters = hs.nearbyRadius
	}

	spans := geoindex.Cover(center, radiusMeters, hs.resolution)
	candidates, err := hs.repo.ListHazardsInSpans(ctx, spans, strings.TrimSpace(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list nearby hazards: %w", err)
	}

	nearby := make([]models.NearbyHazard, 0, len(candidates))
	for _, hazard := range candidates {
		distance := geoindex.Distance(center, hazard.Coordinates())
		if distance > radiusMeters {
			continue
		}
		nearby = append(nearby, models.NearbyHazard{Hazard: hazard, DistanceMeters: distance})
	}
	slices.SortStableFunc(nearby, func(a, b models.NearbyHazard) int {
		switch {
		case a.DistanceMeters < b.DistanceMeters:
			return -1
		case a.DistanceMeters > b.DistanceMeters:
			return 1
		default:
			return 0
		}
	})

	return nearby, nil
}

// Heatmap returns every stored hazard grouped into weighted heatmap layers.
func (hs *HazardService) Heatmap(ctx context.Context) (heatmap.Layers, error) {
	hazards, err := hs.repo.ListHazards(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load hazards for heatmap: %w", err)
	}

	return heatmap.Build(hazards), nil
}

// Search resolves a free-text location through the geocoding provider.
func (hs *HazardService) Search(ctx context.Context, query string) (*models.Coordinates, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	startTime := hs.clock.Now()
	coords, err := hs.provider.Geocode(ctx, query)
	hs.metrics.RequestSeconds.WithLabelValues(hs.providerName).Observe(hs.clock.Since(startTime).Seconds())
	if err != nil {
		hs.metrics.APIErrors.Inc()
		return nil, fmt.Errorf("failed to search location: %w", err)
	}

	return coords, nil
}
