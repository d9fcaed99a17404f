package medication

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/homechart/homechart/internal/platform/metrics"
	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

// ErrMedicationNotFound is returned when a med id is missing from the
// patient's profile.
var ErrMedicationNotFound = errors.New("medication not found")

// errBlocked aborts the store mutation without persisting; the blocked
// outcome is still a successful call from the handler's point of view.
var errBlocked = errors.New("medication blocked by warnings")

// Store is the record access the medication service needs.
type Store interface {
	GetPatient(id string) (*store.Patient, error)
	UpdatePatient(id string, fn func(*store.Patient) error) error
}

type Service struct {
	store    Store
	registry *session.Registry

	now func() time.Time
}

func NewService(st Store, reg *session.Registry) *Service {
	return &Service{store: st, registry: reg, now: time.Now}
}

// List returns the medication profile split by status.
func (s *Service) List(patientID string) (*ListResult, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	active := []store.Medication{}
	discontinued := []store.Medication{}
	for _, m := range p.Medications {
		switch m.Status {
		case "active":
			active = append(active, m)
		case "discontinued":
			discontinued = append(discontinued, m)
		}
	}

	return &ListResult{
		PatientID:               patientID,
		ActiveCount:             len(active),
		ActiveMedications:       active,
		DiscontinuedMedications: discontinued,
		Allergies:               p.Allergies,
	}, nil
}

// Add appends a new medication after checking the name against the
// patient's allergy list. A match blocks the add unless the caller set
// override_warnings; the warnings are returned either way.
func (s *Service) Add(patientID string, req AddRequest) (*AddResult, error) {
	var result *AddResult

	err := s.store.UpdatePatient(patientID, func(p *store.Patient) error {
		warnings := allergyWarnings(p.Allergies, req.Name)

		if len(warnings) > 0 && !req.OverrideWarnings {
			metrics.MedicationBlocked()
			result = &AddResult{
				Status:   "blocked",
				Warnings: warnings,
				Message:  "Medication not added due to warnings. Set override_warnings=true to proceed.",
			}
			return errBlocked
		}

		route := req.Route
		if route == "" {
			route = "PO"
		}
		med := store.Medication{
			MedID:      fmt.Sprintf("MED-%03d", len(p.Medications)+1),
			Name:       req.Name,
			Dose:       req.Dose,
			Unit:       req.Unit,
			Route:      route,
			Frequency:  req.Frequency,
			Times:      req.Times,
			Purpose:    req.Purpose,
			Prescriber: req.Prescriber,
			StartDate:  s.now().Format("2006-01-02"),
			Status:     "active",
		}
		p.Medications = append(p.Medications, med)

		result = &AddResult{
			Status:     "added",
			MedID:      med.MedID,
			Medication: &med,
			Warnings:   warnings,
		}
		return nil
	})
	if err != nil && !errors.Is(err, errBlocked) {
		return nil, err
	}
	return result, nil
}

// allergyWarnings flags the medication when any allergen appears as a
// substring of its name, case insensitively. At most one warning is
// produced no matter how many allergens match.
func allergyWarnings(allergies []store.Allergy, medName string) []Warning {
	nameLower := strings.ToLower(medName)
	for _, a := range allergies {
		if a.Allergen == "" {
			continue
		}
		if strings.Contains(nameLower, strings.ToLower(a.Allergen)) {
			return []Warning{{
				Type:     "allergy",
				Severity: "high",
				Message:  fmt.Sprintf("ALLERGY ALERT: Patient allergic to component in %s", medName),
			}}
		}
	}
	return nil
}

// Discontinue marks the medication discontinued with an end date and
// reason. The entry stays on the profile.
func (s *Service) Discontinue(patientID, medID string, req DiscontinueRequest) (*DiscontinueResult, error) {
	var result *DiscontinueResult

	err := s.store.UpdatePatient(patientID, func(p *store.Patient) error {
		for i := range p.Medications {
			if p.Medications[i].MedID != medID {
				continue
			}
			endDate := req.DiscontinueDate
			if endDate == "" {
				endDate = s.now().Format("2006-01-02")
			}
			p.Medications[i].Status = "discontinued"
			p.Medications[i].EndDate = endDate
			p.Medications[i].DiscontinueReason = req.Reason

			result = &DiscontinueResult{
				Status:        "discontinued",
				MedID:         medID,
				Medication:    p.Medications[i].Name,
				Reason:        req.Reason,
				EffectiveDate: endDate,
			}
			return nil
		}
		return fmt.Errorf("%w: %s for patient %s", ErrMedicationNotFound, medID, patientID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Validate attests the given medication ids against the profile of the
// session's patient.
func (s *Service) Validate(sessionID string, medicationIDs []string) (*ValidateResult, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetPatient(sess.PatientID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]store.Medication, len(p.Medications))
	for _, m := range p.Medications {
		byID[m.MedID] = m
	}

	validated := []ValidatedEntry{}
	notFound := []string{}
	for _, id := range medicationIDs {
		if m, ok := byID[id]; ok {
			validated = append(validated, ValidatedEntry{MedID: id, Name: m.Name, Validated: true})
		} else {
			notFound = append(notFound, id)
		}
	}

	return &ValidateResult{
		SessionID:            sessionID,
		ValidatedCount:       len(validated),
		Validated:            validated,
		NotFound:             notFound,
		AttestationTimestamp: s.now().Format(time.RFC3339),
	}, nil
}
