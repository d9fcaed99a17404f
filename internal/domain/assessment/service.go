package assessment

import (
	"errors"
	"fmt"

	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

// ErrInvalidCategory is returned for a category outside the body-system
// catalog.
var ErrInvalidCategory = errors.New("invalid assessment category")

// catalog is the fixed set of body-system assessment forms.
var catalog = map[string][]Question{
	"cardiovascular": {
		{ID: "cv1", Text: "Heart sounds", Type: "select", Options: []string{"S1S2 regular rate", "S1S2 irregular", "Murmur present", "S3 gallop", "S4 gallop"}},
		{ID: "cv2", Text: "Pedal edema", Type: "select", Options: []string{"None", "Trace", "+1", "+2", "+3", "+4"}},
		{ID: "cv3", Text: "JVD present", Type: "boolean"},
		{ID: "cv4", Text: "Chest pain", Type: "boolean"},
		{ID: "cv5", Text: "Additional findings", Type: "text"},
	},
	"respiratory": {
		{ID: "resp1", Text: "Lung sounds", Type: "select", Options: []string{"Clear throughout", "Diminished bases", "Crackles", "Wheezes", "Rhonchi"}},
		{ID: "resp2", Text: "Dyspnea", Type: "select", Options: []string{"None", "With exertion", "At rest", "Orthopnea"}},
		{ID: "resp3", Text: "Cough present", Type: "boolean"},
		{ID: "resp4", Text: "Oxygen in use", Type: "boolean"},
		{ID: "resp5", Text: "Additional findings", Type: "text"},
	},
	"neurological": {
		{ID: "neuro1", Text: "Level of consciousness", Type: "select", Options: []string{"Alert", "Lethargic", "Obtunded", "Unresponsive"}},
		{ID: "neuro2", Text: "Orientation", Type: "multiselect", Options: []string{"Person", "Place", "Time", "Situation"}},
		{ID: "neuro3", Text: "Speech", Type: "select", Options: []string{"Clear", "Slurred", "Aphasia"}},
		{ID: "neuro4", Text: "Pupils", Type: "select", Options: []string{"PERRLA", "Unequal", "Non-reactive"}},
		{ID: "neuro5", Text: "Additional findings", Type: "text"},
	},
	"integumentary": {
		{ID: "skin1", Text: "Skin integrity", Type: "select", Options: []string{"Intact", "Impaired"}},
		{ID: "skin2", Text: "Color", Type: "select", Options: []string{"Normal", "Pale", "Cyanotic", "Jaundiced", "Flushed"}},
		{ID: "skin3", Text: "Turgor", Type: "select", Options: []string{"Normal", "Decreased", "Tenting"}},
		{ID: "skin4", Text: "Wounds present", Type: "boolean"},
		{ID: "skin5", Text: "Additional findings", Type: "text"},
	},
	"gastrointestinal": {
		{ID: "gi1", Text: "Bowel sounds", Type: "select", Options: []string{"Normal", "Hyperactive", "Hypoactive", "Absent"}},
		{ID: "gi2", Text: "Abdomen", Type: "select", Options: []string{"Soft, non-tender", "Distended", "Tender", "Rigid"}},
		{ID: "gi3", Text: "Last bowel movement", Type: "text"},
		{ID: "gi4", Text: "Nausea/vomiting", Type: "boolean"},
		{ID: "gi5", Text: "Additional findings", Type: "text"},
	},
	"genitourinary": {
		{ID: "gu1", Text: "Voiding pattern", Type: "select", Options: []string{"Normal", "Frequency", "Urgency", "Incontinence", "Retention"}},
		{ID: "gu2", Text: "Catheter present", Type: "boolean"},
		{ID: "gu3", Text: "Urine characteristics", Type: "select", Options: []string{"Clear yellow", "Dark", "Cloudy", "Bloody"}},
		{ID: "gu4", Text: "Additional findings", Type: "text"},
	},
	"musculoskeletal": {
		{ID: "msk1", Text: "ROM limitations", Type: "text"},
		{ID: "msk2", Text: "Strength", Type: "select", Options: []string{"5/5 all extremities", "Weakness present", "Paralysis"}},
		{ID: "msk3", Text: "Gait", Type: "select", Options: []string{"Steady", "Unsteady", "Uses assistive device", "Non-ambulatory"}},
		{ID: "msk4", Text: "Fall risk", Type: "select", Options: []string{"Low", "Moderate", "High"}},
		{ID: "msk5", Text: "Additional findings", Type: "text"},
	},
}

// Store is the record access the assessment service needs.
type Store interface {
	GetPatient(id string) (*store.Patient, error)
}

type Service struct {
	store    Store
	registry *session.Registry
}

func NewService(st Store, reg *session.Registry) *Service {
	return &Service{store: st, registry: reg}
}

// Questions returns the form for a category plus the most recent prior
// narrative for that category, scanning the visit history backwards.
func (s *Service) Questions(patientID, category string) (*QuestionsResult, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}

	questions, ok := catalog[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCategory, category)
	}

	previous := ""
	for i := len(p.Visits) - 1; i >= 0; i-- {
		if narrative, found := p.Visits[i].AssessmentSummary[category]; found {
			previous = narrative
			break
		}
	}

	return &QuestionsResult{
		PatientID:          patientID,
		Category:           category,
		Questions:          questions,
		PreviousAssessment: previous,
	}, nil
}

// Submit stores the category's narrative on the session. A later
// submission for the same category overwrites the earlier one.
func (s *Service) Submit(sessionID, category string, responses map[string]interface{}) (*SubmitResult, error) {
	err := s.registry.Update(sessionID, func(sess *session.Session) error {
		sess.AssessmentSummary[category] = narrative(responses)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Recorded:  true,
		Category:  category,
		SessionID: sessionID,
	}, nil
}

// narrative extracts the free-text summary from the responses, falling
// back to a rendering of the raw payload.
func narrative(responses map[string]interface{}) string {
	if v, ok := responses["narrative"].(string); ok && v != "" {
		return v
	}
	if v, ok := responses["summary"].(string); ok && v != "" {
		return v
	}
	return fmt.Sprintf("%v", responses)
}

// Categories lists the valid assessment categories.
func Categories() []string {
	return []string{
		"cardiovascular", "respiratory", "neurological", "integumentary",
		"gastrointestinal", "genitourinary", "musculoskeletal",
	}
}
