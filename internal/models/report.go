package models

import "time"

// Report types accepted from the reporting form.
const (
	ReportTypeVehicle     = "vehicle"
	ReportTypeDamagedRoad = "damagedroad"
	ReportTypeLandslide   = "landslide"
	ReportTypeFlood       = "flood"
	ReportTypeOther       = "other"
)

// Hazard kinds reports are aggregated under.
const (
	KindAccident    = "accident"
	KindDamagedRoad = "damagedroad"
	KindLandslide   = "landslide"
	KindFlood       = "flood"
	KindOther       = "other"
)

// Report statuses returned to the submitter.
const (
	ReportStatusRecorded = "recorded"
	ReportStatusPending  = "pending"
)

// Report is a single user submission. Either Coordinates or Address locates it.
type Report struct {
	ID          int64        // ID is assigned by the repository.
	Kind        string       // Kind is the hazard kind the report counts towards.
	Description string       // Description is the free text from the submitter.
	Address     string       // Address is geocoded later when Coordinates is nil.
	Coordinates *Coordinates // Coordinates of the observation, if known.
	ObservedAt  time.Time    // ObservedAt is when the hazard was observed.
}

// ReportOutcome tells the submitter what happened to a report.
type ReportOutcome struct {
	ReportID int64   `json:"report_id"`
	Status   string  `json:"status"`
	Hazard   *Hazard `json:"hazard,omitempty"`
}

// KindForReportType maps a form report type to the hazard kind it is aggregated under.
func KindForReportType(reportType string) string {
	if reportType == ReportTypeVehicle {
		return KindAccident
	}

	return reportType
}

// IsReportKind reports whether kind is one a report can count towards.
func IsReportKind(kind string) bool {
	switch kind {
	case KindAccident, KindDamagedRoad, KindLandslide, KindFlood, KindOther:
		return true
	default:
		return false
	}
}
