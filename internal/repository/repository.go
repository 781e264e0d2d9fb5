package repository

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/hazardmap/internal/geoindex"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schema string

// Repository stores hazards and the reports they are built from in Postgres.
type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is the storage contract the services depend on.
type Interface interface {
	RecordObservation(ctx context.Context, hazard models.Hazard, cell string) (models.Hazard, error)
	ListHazards(ctx context.Context, kind string) ([]models.Hazard, error)
	ListHazardsInSpans(ctx context.Context, spans []geoindex.Span, kind string) ([]models.Hazard, error)
	SaveReport(ctx context.Context, report models.Report) (int64, error)
	SaveLocatedReport(
		ctx context.Context, report models.Report, hazard models.Hazard, cell string,
	) (int64, models.Hazard, error)
	FetchReportsForGeocoding(ctx context.Context, limit int) ([]models.Report, error)
	ResolveReport(ctx context.Context, reportID int64, hazard models.Hazard, cell string) (models.Hazard, error)
	IncrementFailureCount(ctx context.Context, reportID int64, errMsg string) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// Migrate creates the tables the repository works with. It is safe to run on every start.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	r.log.DebugContext(ctx, "Database schema is up to date")

	return nil
}

// inTx runs fn in a transaction, committing when fn succeeds and rolling back otherwise.
func (r *Repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if errRollback := tx.Rollback(ctx); errRollback != nil {
			r.log.ErrorContext(ctx, "Failed to roll back transaction", "error", errRollback)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
