package medication

import "github.com/homechart/homechart/internal/platform/store"

// ListResult splits the profile into active and discontinued
// medications and carries the allergy list for reconciliation.
type ListResult struct {
	PatientID               string             `json:"patient_id"`
	ActiveCount             int                `json:"active_count"`
	ActiveMedications       []store.Medication `json:"active_medications"`
	DiscontinuedMedications []store.Medication `json:"discontinued_medications"`
	Allergies               []store.Allergy    `json:"allergies"`
}

// AddRequest is a new medication order. Route defaults to PO.
type AddRequest struct {
	Name             string   `json:"name" validate:"required"`
	Dose             string   `json:"dose"`
	Unit             string   `json:"unit"`
	Route            string   `json:"route"`
	Frequency        string   `json:"frequency"`
	Times            []string `json:"times"`
	Purpose          string   `json:"purpose"`
	Prescriber       string   `json:"prescriber"`
	OverrideWarnings bool     `json:"override_warnings"`
}

// Warning is a safety finding raised while adding a medication.
type Warning struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// AddResult reports either the added medication or the block.
type AddResult struct {
	Status     string            `json:"status"`
	MedID      string            `json:"med_id,omitempty"`
	Medication *store.Medication `json:"medication,omitempty"`
	Warnings   []Warning         `json:"warnings"`
	Message    string            `json:"message,omitempty"`
}

// DiscontinueRequest stops an active medication.
type DiscontinueRequest struct {
	Reason          string `json:"reason" validate:"required"`
	DiscontinueDate string `json:"discontinue_date"`
}

// DiscontinueResult confirms the discontinuation.
type DiscontinueResult struct {
	Status        string `json:"status"`
	MedID         string `json:"med_id"`
	Medication    string `json:"medication"`
	Reason        string `json:"reason"`
	EffectiveDate string `json:"effective_date"`
}

// ValidateRequest attests a set of medications during a visit.
type ValidateRequest struct {
	MedicationIDs []string `json:"medication_ids" validate:"required"`
}

// ValidatedEntry is one successfully attested medication.
type ValidatedEntry struct {
	MedID     string `json:"med_id"`
	Name      string `json:"name"`
	Validated bool   `json:"validated"`
}

// ValidateResult is the attestation outcome.
type ValidateResult struct {
	SessionID            string           `json:"session_id"`
	ValidatedCount       int              `json:"validated_count"`
	Validated            []ValidatedEntry `json:"validated"`
	NotFound             []string         `json:"not_found"`
	AttestationTimestamp string           `json:"attestation_timestamp"`
}
