package careplan

import "github.com/homechart/homechart/internal/platform/store"

// FlatIntervention is an intervention annotated with its owning problem
// statement, flattened out of the care plan hierarchy.
type FlatIntervention struct {
	store.Intervention
	ProblemStatementID string `json:"problem_statement_id"`
	Pathway            string `json:"pathway"`
}

// FlatGoal is a goal annotated with its owning problem statement.
type FlatGoal struct {
	store.Goal
	ProblemStatementID string `json:"problem_statement_id"`
	Pathway            string `json:"pathway"`
}

// InterventionsResult is the flattened working view of the care plan.
type InterventionsResult struct {
	PatientID         string             `json:"patient_id"`
	InterventionCount int                `json:"intervention_count"`
	Interventions     []FlatIntervention `json:"interventions"`
	GoalCount         int                `json:"goal_count"`
	Goals             []FlatGoal         `json:"goals"`
	GoalsMet          int                `json:"goals_met"`
	GoalsInProgress   int                `json:"goals_in_progress"`
}

// DocumentInterventionRequest records that an intervention was (or was
// not) provided during the visit.
type DocumentInterventionRequest struct {
	InterventionID string `json:"intervention_id" validate:"required"`
	Provided       *bool  `json:"provided"`
	Details        string `json:"details"`
}

// DocumentInterventionResult confirms the documentation.
type DocumentInterventionResult struct {
	Documented     bool   `json:"documented"`
	InterventionID string `json:"intervention_id"`
	Provided       bool   `json:"provided"`
}

// UpdateGoalRequest records goal progress during a visit.
type UpdateGoalRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes"`
}

// UpdateGoalResult confirms the progress note.
type UpdateGoalResult struct {
	Updated   bool   `json:"updated"`
	GoalID    string `json:"goal_id"`
	NewStatus string `json:"new_status"`
}
