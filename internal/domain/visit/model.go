package visit

import (
	"github.com/homechart/homechart/internal/clinical"
	"github.com/homechart/homechart/internal/platform/store"
)

// StartRequest opens a visit session. VisitDate defaults to today.
type StartRequest struct {
	PatientID   string `json:"patient_id" validate:"required"`
	ServiceCode string `json:"service_code" validate:"required"`
	VisitDate   string `json:"visit_date"`
}

// StartResult confirms an opened session.
type StartResult struct {
	SessionID   string `json:"session_id"`
	VisitID     string `json:"visit_id"`
	PatientID   string `json:"patient_id"`
	ServiceCode string `json:"service_code"`
	TimeIn      string `json:"time_in"`
	Message     string `json:"message"`
}

// CompleteRequest closes a session. Disposition defaults to "complete".
type CompleteRequest struct {
	Disposition   string `json:"disposition"`
	NextVisitDate string `json:"next_visit_date"`
}

// CompleteResult summarizes the closed visit. DurationMinutes is the
// raw wall-clock difference between time in and time out and goes
// negative when a visit spans midnight.
type CompleteResult struct {
	VisitID         string `json:"visit_id"`
	Status          string `json:"status"`
	TimeIn          string `json:"time_in"`
	TimeOut         string `json:"time_out"`
	DurationMinutes int    `json:"duration_minutes"`
	SyncStatus      string `json:"sync_status"`
	Message         string `json:"message"`
}

// RecordVitalsRequest carries the raw vitals payload.
type RecordVitalsRequest struct {
	Vitals store.Vitals `json:"vitals" validate:"required"`
}

// VitalsResult is the recording confirmation with rule findings.
type VitalsResult struct {
	Recorded   bool               `json:"recorded"`
	Vitals     store.Vitals       `json:"vitals"`
	Validation []clinical.Finding `json:"validation"`
	Alerts     []clinical.Finding `json:"alerts"`
}

// TrendEntry is one visit's readings for the requested vital. Keys
// beyond date and visit_id depend on the vital type (blood pressure
// contributes two).
type TrendEntry map[string]interface{}

// Trends is the per-patient history for one vital type.
type Trends struct {
	PatientID  string       `json:"patient_id"`
	VitalType  string       `json:"vital_type"`
	DataPoints int          `json:"data_points"`
	Trends     []TrendEntry `json:"trends"`
}
