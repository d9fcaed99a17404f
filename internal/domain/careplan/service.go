package careplan

import (
	"time"

	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

// Store is the record access the care plan service needs.
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

// ActiveInterventions flattens the care plan hierarchy into one list of
// interventions and one of goals, each tagged with its problem
// statement and pathway.
func (s *Service) ActiveInterventions(patientID string) (*InterventionsResult, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	interventions := []FlatIntervention{}
	goals := []FlatGoal{}
	goalsMet, goalsInProgress := 0, 0

	for _, ps := range p.CarePlan.ProblemStatements {
		for _, iv := range ps.Interventions {
			interventions = append(interventions, FlatIntervention{
				Intervention:       iv,
				ProblemStatementID: ps.PSID,
				Pathway:            ps.Pathway,
			})
		}
		for _, g := range ps.Goals {
			goals = append(goals, FlatGoal{
				Goal:               g,
				ProblemStatementID: ps.PSID,
				Pathway:            ps.Pathway,
			})
			switch g.Status {
			case "met":
				goalsMet++
			case "in_progress":
				goalsInProgress++
			}
		}
	}

	return &InterventionsResult{
		PatientID:         patientID,
		InterventionCount: len(interventions),
		Interventions:     interventions,
		GoalCount:         len(goals),
		Goals:             goals,
		GoalsMet:          goalsMet,
		GoalsInProgress:   goalsInProgress,
	}, nil
}

// DocumentIntervention appends a provided/not-provided entry to the
// open session. Nothing persists until the visit completes.
func (s *Service) DocumentIntervention(sessionID string, req DocumentInterventionRequest) (*DocumentInterventionResult, error) {
	// Absent means provided; an explicit false is a refusal or omission.
	provided := true
	if req.Provided != nil {
		provided = *req.Provided
	}

	err := s.registry.Update(sessionID, func(sess *session.Session) error {
		sess.InterventionsProvided = append(sess.InterventionsProvided, store.InterventionEntry{
			InterventionID: req.InterventionID,
			Provided:       provided,
			Details:        req.Details,
			Timestamp:      s.now().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &DocumentInterventionResult{
		Documented:     true,
		InterventionID: req.InterventionID,
		Provided:       provided,
	}, nil
}

// UpdateGoalStatus appends a progress entry to the session. A "met"
// status additionally updates the goal on the care plan itself, with
// today's date, and persists immediately; any other status stays
// session-local until completion.
func (s *Service) UpdateGoalStatus(sessionID, goalID string, req UpdateGoalRequest) (*UpdateGoalResult, error) {
	var patientID string
	err := s.registry.Update(sessionID, func(sess *session.Session) error {
		patientID = sess.PatientID
		sess.GoalsAddressed = append(sess.GoalsAddressed, store.GoalProgressEntry{
			GoalID:    goalID,
			Status:    req.Status,
			Notes:     req.Notes,
			Timestamp: s.now().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.Status == "met" {
		err = s.store.UpdatePatient(patientID, func(p *store.Patient) error {
			for i := range p.CarePlan.ProblemStatements {
				goals := p.CarePlan.ProblemStatements[i].Goals
				for j := range goals {
					if goals[j].GoalID == goalID {
						goals[j].Status = "met"
						goals[j].MetDate = s.now().Format("2006-01-02")
					}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &UpdateGoalResult{
		Updated:   true,
		GoalID:    goalID,
		NewStatus: req.Status,
	}, nil
}
