package patient

import "github.com/homechart/homechart/internal/platform/store"

// Summary is the compact search-result view of a patient.
type Summary struct {
	PatientID        string `json:"patient_id"`
	Name             string `json:"name"`
	PreferredName    string `json:"preferred_name,omitempty"`
	DOB              string `json:"dob"`
	Age              int    `json:"age"`
	Gender           string `json:"gender"`
	Address          string `json:"address"`
	Phone            string `json:"phone,omitempty"`
	Status           string `json:"status"`
	PrimaryDiagnosis string `json:"primary_diagnosis,omitempty"`
	AlertsCount      int    `json:"alerts_count"`
}

// DemographicsView bundles the identity, coverage and episode sections
// of a record.
type DemographicsView struct {
	PatientID    string             `json:"patient_id"`
	Demographics store.Demographics `json:"demographics"`
	Insurance    store.Insurance    `json:"insurance"`
	Episode      store.Episode      `json:"episode"`
}

// ChangeRequest is the review artifact produced by a demographics
// update. The record itself is never mutated directly.
type ChangeRequest struct {
	RequestID     string      `json:"request_id"`
	Status        string      `json:"status"`
	PatientID     string      `json:"patient_id"`
	Field         string      `json:"field"`
	ProposedValue interface{} `json:"proposed_value"`
	CurrentValue  interface{} `json:"current_value"`
	Message       string      `json:"message"`
}

// CarePlanView is the full plan-of-care payload.
type CarePlanView struct {
	PatientID          string           `json:"patient_id"`
	CarePlan           store.CarePlan   `json:"care_plan"`
	Diagnoses          []store.Diagnosis `json:"diagnoses"`
	Alerts             []store.Alert    `json:"alerts"`
	PhysicianProtocols []store.Protocol `json:"physician_protocols"`
}

// CalendarEntry is one completed visit in the calendar view.
type CalendarEntry struct {
	VisitID     string `json:"visit_id"`
	Date        string `json:"date"`
	ServiceCode string `json:"service_code"`
	Status      string `json:"status"`
}

// Calendar is the visit history plus the next scheduled date carried on
// the most recent visit.
type Calendar struct {
	PatientID       string          `json:"patient_id"`
	CompletedVisits int             `json:"completed_visits"`
	VisitHistory    []CalendarEntry `json:"visit_history"`
	NextScheduled   string          `json:"next_scheduled,omitempty"`
}

// UpdateDemographicsRequest is the change-request submission payload.
type UpdateDemographicsRequest struct {
	Field string      `json:"field" validate:"required"`
	Value interface{} `json:"value" validate:"required"`
}
