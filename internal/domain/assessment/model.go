package assessment

// Question is one item in a body-system assessment form.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// QuestionsResult is the form for one category, with the most recent
// narrative from prior visits for comparison charting.
type QuestionsResult struct {
	PatientID          string     `json:"patient_id"`
	Category           string     `json:"category"`
	Questions          []Question `json:"questions"`
	PreviousAssessment string     `json:"previous_assessment,omitempty"`
}

// SubmitRequest carries the raw responses for one category. A
// "narrative" (or "summary") key becomes the stored text; anything
// else is rendered verbatim.
type SubmitRequest struct {
	Responses map[string]interface{} `json:"responses" validate:"required"`
}

// SubmitResult confirms the recording.
type SubmitResult struct {
	Recorded  bool   `json:"recorded"`
	Category  string `json:"category"`
	SessionID string `json:"session_id"`
}
