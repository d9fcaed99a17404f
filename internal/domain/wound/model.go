package wound

import "github.com/homechart/homechart/internal/platform/store"

// RecordResult lists the wounds currently being tracked.
type RecordResult struct {
	PatientID        string        `json:"patient_id"`
	ActiveWoundCount int           `json:"active_wound_count"`
	Wounds           []store.Wound `json:"wounds"`
}

// AddRequest registers a new wound for tracking.
type AddRequest struct {
	Location  string `json:"location" validate:"required"`
	Type      string `json:"type" validate:"required"`
	OnsetDate string `json:"onset_date" validate:"required"`
}

// AddResult confirms the new wound.
type AddResult struct {
	WoundID string       `json:"wound_id"`
	Status  string       `json:"status"`
	Wound   *store.Wound `json:"wound"`
}

// AssessmentRequest is one visit's wound assessment. The snapshot on
// the record is replaced, not appended to.
type AssessmentRequest struct {
	Measurements    store.WoundMeasurements    `json:"measurements"`
	Characteristics store.WoundCharacteristics `json:"characteristics"`
}

// AssessmentResult carries the computed severity score.
type AssessmentResult struct {
	Documented   bool                    `json:"documented"`
	WoundID      string                  `json:"wound_id"`
	WATScore     int                     `json:"wat_score"`
	Measurements store.WoundMeasurements `json:"measurements"`
}
