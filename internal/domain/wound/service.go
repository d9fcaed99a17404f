package wound

import (
	"errors"
	"fmt"
	"time"

	"github.com/homechart/homechart/internal/clinical"
	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

// ErrWoundNotFound is returned for unknown wound ids.
var ErrWoundNotFound = errors.New("wound not found")

// Store is the record access the wound service needs.
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

// Record returns the active wounds only; healed or closed wounds stay
// on the record but drop out of the working list.
func (s *Service) Record(patientID string) (*RecordResult, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	active := []store.Wound{}
	for _, w := range p.Wounds {
		if w.Status == "active" {
			active = append(active, w)
		}
	}

	return &RecordResult{
		PatientID:        patientID,
		ActiveWoundCount: len(active),
		Wounds:           active,
	}, nil
}

// Add starts tracking a new wound with empty measurements until the
// first assessment fills them in.
func (s *Service) Add(patientID string, req AddRequest) (*AddResult, error) {
	var result *AddResult

	err := s.store.UpdatePatient(patientID, func(p *store.Patient) error {
		w := store.Wound{
			WoundID:   fmt.Sprintf("W-%03d", len(p.Wounds)+1),
			Type:      req.Type,
			Location:  req.Location,
			OnsetDate: req.OnsetDate,
			Status:    "active",
		}
		p.Wounds = append(p.Wounds, w)
		result = &AddResult{WoundID: w.WoundID, Status: "created", Wound: &w}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DocumentAssessment replaces the wound's measurement and
// characteristic snapshot and scores it.
func (s *Service) DocumentAssessment(sessionID, woundID string, req AssessmentRequest) (*AssessmentResult, error) {
	sess, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}

	var result *AssessmentResult
	err = s.store.UpdatePatient(sess.PatientID, func(p *store.Patient) error {
		for i := range p.Wounds {
			if p.Wounds[i].WoundID != woundID {
				continue
			}
			p.Wounds[i].Measurements = req.Measurements
			p.Wounds[i].Characteristics = req.Characteristics
			p.Wounds[i].LastAssessmentDate = s.now().Format("2006-01-02")

			result = &AssessmentResult{
				Documented:   true,
				WoundID:      woundID,
				WATScore:     clinical.WATScore(req.Measurements, req.Characteristics),
				Measurements: req.Measurements,
			}
			return nil
		}
		return fmt.Errorf("%w: %s", ErrWoundNotFound, woundID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
