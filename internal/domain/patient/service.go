package patient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/homechart/homechart/internal/platform/store"
)

// ErrUnknownField is returned when a demographics change request names
// a field outside the reviewable set.
var ErrUnknownField = errors.New("unknown demographics field")

// Store is the record access the patient service needs.
type Store interface {
	GetPatient(id string) (*store.Patient, error)
	Patients() []*store.Patient
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Search scans the patient collection in store order and returns
// summaries for matching records. Scanning stops as soon as limit
// matches are collected, so two identical queries always return the
// same prefix.
func (s *Service) Search(query, searchType, status string, limit int) []Summary {
	if limit <= 0 {
		limit = 10
	}
	queryLower := strings.ToLower(query)
	queryUpper := strings.ToUpper(query)

	var results []Summary
	for _, p := range s.store.Patients() {
		match := false

		if searchType == "all" || searchType == "name" {
			fullName := p.Demographics.FirstName + " " + p.Demographics.LastName
			if strings.Contains(strings.ToLower(fullName), queryLower) {
				match = true
			}
		}
		if searchType == "all" || searchType == "id" {
			if strings.Contains(strings.ToUpper(p.PatientID), queryUpper) {
				match = true
			}
		}
		if searchType == "all" || searchType == "phone" {
			if strings.Contains(p.Demographics.PhoneHome, query) ||
				strings.Contains(p.Demographics.PhoneCell, query) {
				match = true
			}
		}

		if match && (status == "" || p.Episode.Status == status) {
			results = append(results, summarize(p))
		}
		if len(results) >= limit {
			break
		}
	}
	return results
}

func summarize(p *store.Patient) Summary {
	demo := p.Demographics

	phone := demo.PhoneHome
	if phone == "" {
		phone = demo.PhoneCell
	}

	primaryDx := ""
	if len(p.Diagnoses) > 0 {
		primaryDx = p.Diagnoses[0].Description
	}

	activeAlerts := 0
	for _, a := range p.Alerts {
		if a.Active {
			activeAlerts++
		}
	}

	return Summary{
		PatientID:        p.PatientID,
		Name:             demo.FirstName + " " + demo.LastName,
		PreferredName:    demo.PreferredName,
		DOB:              demo.DOB,
		Age:              demo.Age,
		Gender:           demo.Gender,
		Address:          demo.Address.City + ", " + demo.Address.State,
		Phone:            phone,
		Status:           p.Episode.Status,
		PrimaryDiagnosis: primaryDx,
		AlertsCount:      activeAlerts,
	}
}

// Get returns the full patient record.
func (s *Service) Get(patientID string) (*store.Patient, error) {
	return s.store.GetPatient(patientID)
}

// GetDemographics returns the identity, insurance and episode sections.
func (s *Service) GetDemographics(patientID string) (*DemographicsView, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	return &DemographicsView{
		PatientID:    patientID,
		Demographics: p.Demographics,
		Insurance:    p.Insurance,
		Episode:      p.Episode,
	}, nil
}

// UpdateDemographics submits a change request for review. Nothing is
// written to the record; the caller gets back the current and proposed
// values so the reviewer can compare them.
func (s *Service) UpdateDemographics(patientID, field string, value interface{}) (*ChangeRequest, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	current, err := demographicsField(p.Demographics, field)
	if err != nil {
		return nil, err
	}

	return &ChangeRequest{
		RequestID:     newChangeRequestID(),
		Status:        "change_request_created",
		PatientID:     patientID,
		Field:         field,
		ProposedValue: value,
		CurrentValue:  current,
		Message:       "Demographics change request submitted for review",
	}, nil
}

// demographicsField resolves a field name to its current value. The set
// of reviewable fields is closed; anything else is an error rather than
// a nil lookup.
func demographicsField(d store.Demographics, field string) (interface{}, error) {
	switch field {
	case "first_name":
		return d.FirstName, nil
	case "last_name":
		return d.LastName, nil
	case "preferred_name":
		return d.PreferredName, nil
	case "dob":
		return d.DOB, nil
	case "age":
		return d.Age, nil
	case "gender":
		return d.Gender, nil
	case "phone_home":
		return d.PhoneHome, nil
	case "phone_cell":
		return d.PhoneCell, nil
	case "email":
		return d.Email, nil
	case "address.street":
		return d.Address.Street, nil
	case "address.city":
		return d.Address.City, nil
	case "address.state":
		return d.Address.State, nil
	case "address.zip":
		return d.Address.Zip, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func newChangeRequestID() string {
	hexID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "CR-" + strings.ToUpper(hexID[:8])
}

// GetCarePlan returns the plan of care with its supporting sections.
func (s *Service) GetCarePlan(patientID string) (*CarePlanView, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	return &CarePlanView{
		PatientID:          patientID,
		CarePlan:           p.CarePlan,
		Diagnoses:          p.Diagnoses,
		Alerts:             p.Alerts,
		PhysicianProtocols: p.PhysicianProtocols,
	}, nil
}

// GetVisitCalendar returns completed visit summaries and the next
// scheduled date from the most recent visit.
func (s *Service) GetVisitCalendar(patientID string) (*Calendar, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	history := make([]CalendarEntry, 0, len(p.Visits))
	for _, v := range p.Visits {
		history = append(history, CalendarEntry{
			VisitID:     v.VisitID,
			Date:        v.Date,
			ServiceCode: v.ServiceCode,
			Status:      v.Status,
		})
	}

	nextScheduled := ""
	if len(p.Visits) > 0 {
		nextScheduled = p.Visits[len(p.Visits)-1].NextVisitScheduled
	}

	return &Calendar{
		PatientID:       patientID,
		CompletedVisits: len(p.Visits),
		VisitHistory:    history,
		NextScheduled:   nextScheduled,
	}, nil
}
