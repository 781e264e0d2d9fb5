package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/hazardmap/internal/geoindex"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/jackc/pgx/v5"
)

const hazardColumns = `kind, latitude, longitude, frequency, last_update`

// RecordObservation folds hazard into the record stored for (kind, cell). A new cell gets a row
// with the hazard as given; an existing one has its frequency increased by hazard.Frequency and
// keeps the newer of the two timestamps. The row's position stays at the first observation.
func (r *Repository) RecordObservation(ctx context.Context, hazard models.Hazard, cell string) (models.Hazard, error) {
	stored, err := upsertHazard(ctx, r.db, hazard, cell)
	if err != nil {
		return models.Hazard{}, err
	}

	r.log.DebugContext(ctx, "Hazard observation recorded",
		"kind", stored.Kind, "cell", cell, "frequency", stored.Frequency)

	return stored, nil
}

func upsertHazard(ctx context.Context, db rowQuerier, hazard models.Hazard, cell string) (models.Hazard, error) {
	query := `
		INSERT INTO hazards (kind, latitude, longitude, cell, frequency, last_update)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (kind, cell) DO UPDATE
		SET
			frequency = hazards.frequency + EXCLUDED.frequency,
			last_update = GREATEST(hazards.last_update, EXCLUDED.last_update)
		RETURNING kind, latitude, longitude, frequency, last_update;
	`

	var stored models.Hazard
	err := db.QueryRow(ctx, query,
		hazard.Kind, hazard.Latitude, hazard.Longitude, cell, hazard.Frequency, hazard.LastUpdate,
	).Scan(&stored.Kind, &stored.Latitude, &stored.Longitude, &stored.Frequency, &stored.LastUpdate)
	if err != nil {
		return models.Hazard{}, fmt.Errorf("failed to record hazard observation: %w", err)
	}
	stored.LastUpdate = stored.LastUpdate.UTC()

	return stored, nil
}

// ListHazards returns every hazard of kind, or all hazards when kind is empty,
// most frequent first.
func (r *Repository) ListHazards(ctx context.Context, kind string) ([]models.Hazard, error) {
	query := `
		SELECT ` + hazardColumns + `
		FROM hazards
		WHERE $1 = '' OR kind = $1
		ORDER BY frequency DESC, last_update DESC;
	`

	rows, err := r.db.Query(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query hazards: %w", err)
	}

	return scanHazards(rows)
}

// ListHazardsInSpans returns the hazards whose cell falls in any of spans, optionally filtered
// by kind.
func (r *Repository) ListHazardsInSpans(
	ctx context.Context,
	spans []geoindex.Span,
	kind string,
) ([]models.Hazard, error) {
	if len(spans) == 0 {
		return []models.Hazard{}, nil
	}

	firsts := make([]string, 0, len(spans))
	lasts := make([]string, 0, len(spans))
	for _, span := range spans {
		firsts = append(firsts, span.First)
		lasts = append(lasts, span.Last)
	}

	query := `
		SELECT h.kind, h.latitude, h.longitude, h.frequency, h.last_update
		FROM unnest($1::text[], $2::text[]) AS s(first_cell, last_cell)
		JOIN hazards h ON h.cell BETWEEN s.first_cell AND s.last_cell
		WHERE $3 = '' OR h.kind = $3;
	`

	rows, err := r.db.Query(ctx, query, firsts, lasts, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query hazards in cells: %w", err)
	}

	return scanHazards(rows)
}

func scanHazards(rows pgx.Rows) ([]models.Hazard, error) {
	defer rows.Close()

	hazards := []models.Hazard{}
	for rows.Next() {
		var hazard models.Hazard
		if err := rows.Scan(
			&hazard.Kind, &hazard.Latitude, &hazard.Longitude, &hazard.Frequency, &hazard.LastUpdate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan hazard: %w", err)
		}
		hazard.LastUpdate = hazard.LastUpdate.UTC()
		hazards = append(hazards, hazard)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return hazards, nil
}
