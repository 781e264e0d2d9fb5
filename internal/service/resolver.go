package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/hazardmap/internal/geocoding"
	"github.com/UnknownOlympus/hazardmap/internal/metrics"
	"github.com/UnknownOlympus/hazardmap/internal/models"
	"github.com/UnknownOlympus/hazardmap/internal/repository"
	"github.com/jonboulle/clockwork"
)

const (
	reportBatchLimit    = 100
	defaultPollInterval = time.Minute
)

// reportRecorder stores the geocoded position of a report along with its observation.
type reportRecorder interface {
	ResolveReport(ctx context.Context, report models.Report, coords models.Coordinates) (models.Hazard, error)
}

// ReportResolver geocodes reports that were submitted with an address only
// and records them once their coordinates are known.
type ReportResolver struct {
	log           *slog.Logger         // Logger for logging service activities
	repo          repository.Interface // Interface for data repository access
	provider      geocoding.Provider   // Geocoding provider for external geocoding services
	recorder      reportRecorder       // Records resolved reports as hazard observations
	providerName  string               // Name of the provider for metrics labeling
	metrics       *metrics.Metrics     // Metrics for tracking service performance
	clock         clockwork.Clock      // Clock driving the poll ticker and request timing
	numWorkers    int                  // Number of concurrent workers for processing
	pollInterval  time.Duration        // Interval for polling pending reports
	addressPrefix string               // Address prefix for more accurate geocoding (indicating country, city, etc.)
}

// ResolverConfig holds the tunables of ReportResolver.
type ResolverConfig struct {
	ProviderName  string
	Workers       int
	PollInterval  time.Duration
	AddressPrefix string
}

// NewReportResolver creates a new instance of ReportResolver. A nil clock means real time.
func NewReportResolver(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	recorder reportRecorder,
	metrics *metrics.Metrics,
	clock clockwork.Clock,
	cfg ResolverConfig,
) *ReportResolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &ReportResolver{
		log:           log,
		repo:          repo,
		provider:      provider,
		recorder:      recorder,
		providerName:  cfg.ProviderName,
		metrics:       metrics,
		clock:         clock,
		numWorkers:    cfg.Workers,
		pollInterval:  cfg.PollInterval,
		addressPrefix: cfg.AddressPrefix,
	}
}

// Run periodically polls for pending reports until ctx is cancelled.
func (rr *ReportResolver) Run(ctx context.Context) {
	ticker := rr.clock.NewTicker(rr.pollInterval)
	defer ticker.Stop()

	rr.log.InfoContext(ctx, "Report resolver started...")

	for {
		select {
		case <-ctx.Done():
			rr.log.InfoContext(ctx, "Report resolver stopped.")
			return
		case <-ticker.Chan():
			rr.log.InfoContext(ctx, "Polling for pending reports to geocode...")
			rr.processReports(ctx)
		}
	}
}

// processReports fetches pending reports and geocodes them with a pool of workers,
// returning once the whole batch is done.
func (rr *ReportResolver) processReports(ctx context.Context) {
	reports, err := rr.repo.FetchReportsForGeocoding(ctx, reportBatchLimit)
	if err != nil {
		rr.log.ErrorContext(ctx, "Failed to fetch pending reports", "error", err)
		return
	}
	if len(reports) == 0 {
		rr.log.InfoContext(ctx, "No reports to process.")
		return
	}

	rr.log.InfoContext(
		ctx,
		"Found reports to process. Starting worker pool.",
		"jobs", len(reports),
		"num_workers", rr.numWorkers,
	)

	jobs := make(chan models.Report, len(reports))
	var wgr sync.WaitGroup

	for i := 1; i <= rr.numWorkers; i++ {
		wgr.Add(1)
		go rr.worker(ctx, i, &wgr, jobs)
	}

	for _, report := range reports {
		jobs <- report
	}
	close(jobs)

	wgr.Wait()
	rr.log.InfoContext(ctx, "Processing batch finished")
}

func (rr *ReportResolver) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Report) {
	defer wg.Done()
	for report := range jobs {
		rr.metrics.ActiveWorkers.Inc()
		rr.resolve(ctx, idx, report)
		rr.metrics.ActiveWorkers.Dec()
	}
}

// resolve geocodes one report and records it. Any failure bumps the report's attempt counter;
// the report keeps no coordinates until its observation is stored.
func (rr *ReportResolver) resolve(ctx context.Context, idx int, report models.Report) {
	rr.log.DebugContext(ctx, "Processing report", "worker", idx, "report", report.ID)

	startTime := rr.clock.Now()
	coords, err := rr.provider.Geocode(ctx, rr.addressPrefix+report.Address)
	rr.metrics.RequestSeconds.WithLabelValues(rr.providerName).Observe(rr.clock.Since(startTime).Seconds())

	if err == nil && coords != nil {
		err = coords.Validate()
	} else if err == nil {
		err = geocoding.ErrNoResults
	}

	if err != nil {
		rr.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "report", report.ID, "error", err)
		rr.metrics.APIErrors.Inc()
		rr.fail(ctx, idx, report, err)
		return
	}

	if _, err = rr.recorder.ResolveReport(ctx, report, *coords); err != nil {
		rr.log.ErrorContext(ctx, "Failed to record resolved report",
			"worker", idx, "report", report.ID, "error", err)
		rr.fail(ctx, idx, report, err)
		return
	}
	rr.metrics.ReportsResolved.WithLabelValues("success").Inc()
	rr.metrics.ReportsReceived.WithLabelValues(report.Kind, models.ReportStatusRecorded).Inc()

	rr.log.DebugContext(ctx, "Worker successfully processed the report", "worker", idx, "report", report.ID)
}

func (rr *ReportResolver) fail(ctx context.Context, idx int, report models.Report, cause error) {
	rr.metrics.ReportsResolved.WithLabelValues("failure").Inc()

	if err := rr.repo.IncrementFailureCount(ctx, report.ID, cause.Error()); err != nil {
		rr.log.ErrorContext(ctx, "Could not update failure count for report",
			"worker", idx, "report", report.ID, "error", err)
	}
}
