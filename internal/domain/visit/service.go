package visit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/homechart/homechart/internal/clinical"
	"github.com/homechart/homechart/internal/platform/metrics"
	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

// ErrInvalidServiceCode is returned when starting a visit with a code
// missing from the reference catalog.
var ErrInvalidServiceCode = errors.New("invalid service code")

// Store is the record access the visit service needs.
type Store interface {
	GetPatient(id string) (*store.Patient, error)
	UpdatePatient(id string, fn func(*store.Patient) error) error
	ServiceCode(code string) (store.ServiceCode, bool)
}

type Service struct {
	store    Store
	registry *session.Registry

	clinicianID   string
	clinicianName string

	// now is swappable so tests can pin visit timestamps.
	now func() time.Time
}

func NewService(st Store, reg *session.Registry, clinicianID, clinicianName string) *Service {
	return &Service{
		store:         st,
		registry:      reg,
		clinicianID:   clinicianID,
		clinicianName: clinicianName,
		now:           time.Now,
	}
}

// Start opens a new visit session for the patient. The session lives
// only in the registry until Complete materializes it into the record.
func (s *Service) Start(req StartRequest) (*StartResult, error) {
	p, err := s.store.GetPatient(req.PatientID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.store.ServiceCode(req.ServiceCode); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidServiceCode, req.ServiceCode)
	}

	visitDate := req.VisitDate
	if visitDate == "" {
		visitDate = s.now().Format("2006-01-02")
	}

	sc, _ := s.store.ServiceCode(req.ServiceCode)
	sess := &session.Session{
		SessionID:              session.NewSessionID(),
		VisitID:                session.NewVisitID(visitDate, len(p.Visits)),
		PatientID:              req.PatientID,
		ServiceCode:            req.ServiceCode,
		ServiceCodeDescription: sc.Description,
		Date:                   visitDate,
		Clinician:              store.Clinician{ID: s.clinicianID, Name: s.clinicianName},
		TimeIn:                 s.now().Format("15:04"),
		Status:                 "in_progress",
		Vitals:                 store.Vitals{},
		AssessmentSummary:      map[string]string{},
		InterventionsProvided:  []store.InterventionEntry{},
		GoalsAddressed:         []store.GoalProgressEntry{},
		CoordinationNotes:      []store.CoordinationNote{},
		CreatedAt:              s.now().Format(time.RFC3339),
	}
	s.registry.Add(sess)
	metrics.VisitStarted(req.ServiceCode)

	return &StartResult{
		SessionID:   sess.SessionID,
		VisitID:     sess.VisitID,
		PatientID:   req.PatientID,
		ServiceCode: req.ServiceCode,
		TimeIn:      sess.TimeIn,
		Message: fmt.Sprintf("Visit started for %s %s",
			p.Demographics.FirstName, p.Demographics.LastName),
	}, nil
}

// Complete closes the session, appends the visit record to the patient
// and removes the session id from circulation.
func (s *Service) Complete(sessionID string, req CompleteRequest) (*CompleteResult, error) {
	disposition := req.Disposition
	if disposition == "" {
		disposition = "complete"
	}

	var patientID string
	var record store.VisitRecord
	err := s.registry.Update(sessionID, func(sess *session.Session) error {
		sess.TimeOut = s.now().Format("15:04")
		if disposition == "complete" {
			sess.Status = "completed"
		} else {
			sess.Status = disposition
		}
		sess.NextVisitScheduled = req.NextVisitDate

		// Materialize from a snapshot so the record shares nothing with
		// the session while it remains registered.
		snap := sess.Snapshot()
		patientID = snap.PatientID
		record = store.VisitRecord{
			VisitID:                snap.VisitID,
			ServiceCode:            snap.ServiceCode,
			ServiceCodeDescription: snap.ServiceCodeDescription,
			Date:                   snap.Date,
			Clinician:              snap.Clinician,
			TimeIn:                 snap.TimeIn,
			TimeOut:                snap.TimeOut,
			Status:                 snap.Status,
			Vitals:                 snap.Vitals,
			AssessmentSummary:      snap.AssessmentSummary,
			InterventionsProvided:  snap.InterventionsProvided,
			GoalsAddressed:         snap.GoalsAddressed,
			CoordinationNotes:      snap.CoordinationNotes,
			NextVisitScheduled:     req.NextVisitDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.store.UpdatePatient(patientID, func(p *store.Patient) error {
		p.Visits = append(p.Visits, record)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.Remove(sessionID)
	metrics.VisitCompleted(disposition)

	return &CompleteResult{
		VisitID:         record.VisitID,
		Status:          record.Status,
		TimeIn:          record.TimeIn,
		TimeOut:         record.TimeOut,
		DurationMinutes: durationMinutes(record.TimeIn, record.TimeOut),
		SyncStatus:      "pending",
		Message:         "Visit completed and queued for sync",
	}, nil
}

// GetSession returns the open session for id.
func (s *Service) GetSession(sessionID string) (*session.Session, error) {
	return s.registry.Get(sessionID)
}

// RecordVitals replaces the session's vitals wholesale and evaluates
// them against the patient's protocols. Recording succeeds even when
// findings include alerts; the alerts ride along in the result.
func (s *Service) RecordVitals(sessionID string, vitals store.Vitals) (*VitalsResult, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetPatient(sess.PatientID)
	if err != nil {
		return nil, err
	}

	findings := clinical.ValidateVitals(p.PhysicianProtocols, p.Visits, vitals)
	err = s.registry.Update(sessionID, func(sess *session.Session) error {
		sess.Vitals = vitals
		return nil
	})
	if err != nil {
		return nil, err
	}

	alerts := clinical.Alerts(findings)
	for _, a := range alerts {
		metrics.VitalAlert(a.Vital)
	}

	return &VitalsResult{
		Recorded:   true,
		Vitals:     vitals,
		Validation: findings,
		Alerts:     alerts,
	}, nil
}

// vitalKeys maps the caller-facing trend type to the vitals map keys it
// covers. Unknown types fall through as a literal key.
var vitalKeys = map[string][]string{
	"bp":                {"blood_pressure_systolic", "blood_pressure_diastolic"},
	"blood_pressure":    {"blood_pressure_systolic", "blood_pressure_diastolic"},
	"hr":                {"heart_rate"},
	"heart_rate":        {"heart_rate"},
	"weight":            {"weight"},
	"temp":              {"temperature"},
	"temperature":       {"temperature"},
	"o2":                {"oxygen_saturation"},
	"oxygen_saturation": {"oxygen_saturation"},
	"pain":              {"pain_level"},
}

// GetTrends collects the requested vital across the last limit visits,
// newest first. Visits without any of the mapped keys are skipped.
func (s *Service) GetTrends(patientID, vitalType string, limit int) (*Trends, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	keys, ok := vitalKeys[strings.ToLower(vitalType)]
	if !ok {
		keys = []string{vitalType}
	}

	visits := p.Visits
	if len(visits) > limit {
		visits = visits[len(visits)-limit:]
	}

	trends := []TrendEntry{}
	for i := len(visits) - 1; i >= 0; i-- {
		v := visits[i]
		hit := false
		for _, k := range keys {
			if _, present := v.Vitals[k]; present {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		entry := TrendEntry{"date": v.Date, "visit_id": v.VisitID}
		for _, k := range keys {
			if val, present := v.Vitals[k]; present {
				entry[k] = val
			}
		}
		trends = append(trends, entry)
	}

	return &Trends{
		PatientID:  patientID,
		VitalType:  vitalType,
		DataPoints: len(trends),
		Trends:     trends,
	}, nil
}

// durationMinutes computes time_out minus time_in for HH:MM clock
// strings. No day component is tracked, so an overnight visit yields a
// negative duration.
func durationMinutes(timeIn, timeOut string) int {
	return clockMinutes(timeOut) - clockMinutes(timeIn)
}

func clockMinutes(hhmm string) int {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}
