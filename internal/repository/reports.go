package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/jackc/pgx/v5"
)

// SaveReport stores an incoming report and returns its id. Reports without coordinates are
// picked up later by FetchReportsForGeocoding.
func (r *Repository) SaveReport(ctx context.Context, report models.Report) (int64, error) {
	return insertReport(ctx, r.db, report)
}

// SaveLocatedReport stores a report together with the observation it adds to hazard's record.
// Either both writes happen or neither does.
func (r *Repository) SaveLocatedReport(
	ctx context.Context,
	report models.Report,
	hazard models.Hazard,
	cell string,
) (int64, models.Hazard, error) {
	var (
		reportID int64
		stored   models.Hazard
	)
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		if reportID, err = insertReport(ctx, tx, report); err != nil {
			return err
		}
		stored, err = upsertHazard(ctx, tx, hazard, cell)
		return err
	})
	if err != nil {
		return 0, models.Hazard{}, err
	}

	return reportID, stored, nil
}

func insertReport(ctx context.Context, db rowQuerier, report models.Report) (int64, error) {
	query := `
		INSERT INTO hazard_reports (kind, description, address, latitude, longitude, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING report_id;
	`

	var lat, lon *float64
	if report.Coordinates != nil {
		lat, lon = &report.Coordinates.Latitude, &report.Coordinates.Longitude
	}

	var reportID int64
	err := db.QueryRow(ctx, query,
		report.Kind, report.Description, report.Address, lat, lon, report.ObservedAt,
	).Scan(&reportID)
	if err != nil {
		return 0, fmt.Errorf("failed to save hazard report: %w", err)
	}

	return reportID, nil
}

// FetchReportsForGeocoding retrieves reports that still need coordinates.
// It returns reports that have a NULL latitude, fewer than 5 geocoding attempts
// and a non-empty address, oldest first, limited to the specified count.
func (r *Repository) FetchReportsForGeocoding(ctx context.Context, limit int) ([]models.Report, error) {
	var reports []models.Report
	query := `
		SELECT report_id, kind, description, address, observed_at
		FROM hazard_reports
		WHERE
			latitude IS NULL
			AND geocoding_attempts < 5
			AND address <> ''
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var report models.Report
		if errScan := rows.Scan(
			&report.ID, &report.Kind, &report.Description, &report.Address, &report.ObservedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan pending report: %w", errScan)
		}
		r.log.DebugContext(ctx, "A pending report without coordinates has been received.",
			"ID", report.ID, "Address", report.Address)
		reports = append(reports, report)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return reports, nil
}

// ResolveReport stores the geocoded position of a report, clears its geocoding error and adds
// hazard to its record in one transaction. A report whose observation could not be recorded
// keeps a NULL latitude and stays in the geocoding queue.
func (r *Repository) ResolveReport(
	ctx context.Context,
	reportID int64,
	hazard models.Hazard,
	cell string,
) (models.Hazard, error) {
	query := `
		UPDATE hazard_reports
		SET
			latitude = $1,
			longitude = $2,
			geocoding_error = NULL
		WHERE
			report_id = $3;
	`

	var stored models.Hazard
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, hazard.Latitude, hazard.Longitude, reportID); err != nil {
			return fmt.Errorf("failed to update report coordinates: %w", err)
		}

		var err error
		stored, err = upsertHazard(ctx, tx, hazard, cell)
		return err
	})
	if err != nil {
		return models.Hazard{}, err
	}

	return stored, nil
}

// IncrementFailureCount increments the geocoding attempt count for the report
// and records the error message.
func (r *Repository) IncrementFailureCount(ctx context.Context, reportID int64, errMsg string) error {
	query := `
		UPDATE hazard_reports
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE report_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, reportID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
