package store

// Patient is the full home-health patient record as persisted in
// patients.json. Field names mirror the on-disk JSON keys; the whole
// structure round-trips losslessly through load/save.
type Patient struct {
	PatientID          string           `json:"patient_id"`
	Demographics       Demographics     `json:"demographics"`
	Insurance          Insurance        `json:"insurance"`
	Episode            Episode          `json:"episode"`
	Diagnoses          []Diagnosis      `json:"diagnoses"`
	Allergies          []Allergy        `json:"allergies"`
	Medications        []Medication     `json:"medications"`
	Wounds             []Wound          `json:"wounds,omitempty"`
	CarePlan           CarePlan         `json:"care_plan"`
	PhysicianProtocols []Protocol       `json:"physician_protocols,omitempty"`
	Alerts             []Alert          `json:"alerts,omitempty"`
	Visits             []VisitRecord    `json:"visits"`
}

// Clone returns a deep copy of the record. Store reads hand out clones
// so handlers can read without holding the store lock; all mutation
// goes through Store.UpdatePatient.
func (p *Patient) Clone() *Patient {
	c := *p
	c.Diagnoses = append([]Diagnosis(nil), p.Diagnoses...)
	c.Allergies = append([]Allergy(nil), p.Allergies...)
	c.Medications = cloneMedications(p.Medications)
	c.Wounds = append([]Wound(nil), p.Wounds...)
	c.CarePlan = p.CarePlan.clone()
	c.PhysicianProtocols = append([]Protocol(nil), p.PhysicianProtocols...)
	c.Alerts = append([]Alert(nil), p.Alerts...)
	c.Visits = cloneVisits(p.Visits)
	return &c
}

func cloneMedications(meds []Medication) []Medication {
	out := append([]Medication(nil), meds...)
	for i := range out {
		out[i].Times = append([]string(nil), meds[i].Times...)
	}
	return out
}

func (cp CarePlan) clone() CarePlan {
	out := CarePlan{ProblemStatements: append([]ProblemStatement(nil), cp.ProblemStatements...)}
	for i := range out.ProblemStatements {
		ps := &out.ProblemStatements[i]
		ps.Goals = append([]Goal(nil), ps.Goals...)
		ps.Interventions = append([]Intervention(nil), ps.Interventions...)
	}
	return out
}

func cloneVisits(visits []VisitRecord) []VisitRecord {
	out := append([]VisitRecord(nil), visits...)
	for i := range out {
		v := &out[i]
		v.Vitals = v.Vitals.Clone()
		if visits[i].AssessmentSummary != nil {
			m := make(map[string]string, len(visits[i].AssessmentSummary))
			for k, val := range visits[i].AssessmentSummary {
				m[k] = val
			}
			v.AssessmentSummary = m
		}
		v.InterventionsProvided = append([]InterventionEntry(nil), v.InterventionsProvided...)
		v.GoalsAddressed = append([]GoalProgressEntry(nil), v.GoalsAddressed...)
		v.CoordinationNotes = append([]CoordinationNote(nil), v.CoordinationNotes...)
	}
	return out
}

type Demographics struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	PreferredName string  `json:"preferred_name,omitempty"`
	DOB           string  `json:"dob"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	PhoneHome     string  `json:"phone_home,omitempty"`
	PhoneCell     string  `json:"phone_cell,omitempty"`
	Email         string  `json:"email,omitempty"`
	Address       Address `json:"address"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Insurance struct {
	Primary   string `json:"primary"`
	PolicyID  string `json:"policy_id,omitempty"`
	Secondary string `json:"secondary,omitempty"`
}

// Episode is the certified period of care for the patient.
type Episode struct {
	Status             string `json:"status"`
	AdmissionDate      string `json:"admission_date,omitempty"`
	CertPeriodStart    string `json:"cert_period_start,omitempty"`
	CertPeriodEnd      string `json:"cert_period_end,omitempty"`
	ReferringPhysician string `json:"referring_physician,omitempty"`
}

type Diagnosis struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Primary     bool   `json:"primary"`
}

type Allergy struct {
	Allergen string `json:"allergen"`
	Reaction string `json:"reaction,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Medication identifiers are dense per patient: MED-001, MED-002, ...
type Medication struct {
	MedID             string   `json:"med_id"`
	Name              string   `json:"name"`
	Dose              string   `json:"dose,omitempty"`
	Unit              string   `json:"unit,omitempty"`
	Route             string   `json:"route,omitempty"`
	Frequency         string   `json:"frequency,omitempty"`
	Times             []string `json:"times,omitempty"`
	Purpose           string   `json:"purpose,omitempty"`
	Prescriber        string   `json:"prescriber,omitempty"`
	StartDate         string   `json:"start_date,omitempty"`
	Status            string   `json:"status"`
	EndDate           string   `json:"end_date,omitempty"`
	DiscontinueReason string   `json:"discontinue_reason,omitempty"`
}

// Wound holds the single current snapshot of measurements and
// characteristics; assessments replace it rather than append.
type Wound struct {
	WoundID            string               `json:"wound_id"`
	Type               string               `json:"type"`
	Location           string               `json:"location"`
	OnsetDate          string               `json:"onset_date"`
	Status             string               `json:"status"`
	Measurements       WoundMeasurements    `json:"measurements"`
	Characteristics    WoundCharacteristics `json:"characteristics"`
	LastAssessmentDate string               `json:"last_assessment_date,omitempty"`
}

type WoundMeasurements struct {
	LengthCm float64 `json:"length_cm,omitempty"`
	WidthCm  float64 `json:"width_cm,omitempty"`
	DepthCm  float64 `json:"depth_cm,omitempty"`
}

type WoundCharacteristics struct {
	Edges          string `json:"edges,omitempty"`
	Drainage       string `json:"drainage,omitempty"`
	Periwound      string `json:"periwound,omitempty"`
	InfectionSigns bool   `json:"infection_signs,omitempty"`
	WoundBed       string `json:"wound_bed,omitempty"`
}

type CarePlan struct {
	ProblemStatements []ProblemStatement `json:"problem_statements"`
}

type ProblemStatement struct {
	PSID          string         `json:"ps_id"`
	Pathway       string         `json:"pathway"`
	Problem       string         `json:"problem,omitempty"`
	Goals         []Goal         `json:"goals"`
	Interventions []Intervention `json:"interventions"`
}

type Goal struct {
	GoalID      string `json:"goal_id"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	TargetDate  string `json:"target_date,omitempty"`
	MetDate     string `json:"met_date,omitempty"`
}

type Intervention struct {
	InterventionID string `json:"intervention_id"`
	Description    string `json:"description,omitempty"`
	Frequency      string `json:"frequency,omitempty"`
}

// Protocol is a physician-authored instruction set consulted during
// vitals validation. Matching is by substring of the protocol name.
type Protocol struct {
	Protocol     string `json:"protocol"`
	Instructions string `json:"instructions,omitempty"`
}

type Alert struct {
	AlertID string `json:"alert_id,omitempty"`
	Text    string `json:"text"`
	Active  bool   `json:"active"`
}

// Vitals is a sparse set of recorded vital values keyed by vital name
// (blood_pressure_systolic, heart_rate, weight, ...). Presence of a key
// matters to validation, so this stays a map rather than a struct.
type Vitals map[string]float64

// Clone copies the vitals map; a nil map stays nil so omitempty
// serialization is unaffected.
func (v Vitals) Clone() Vitals {
	if v == nil {
		return nil
	}
	out := make(Vitals, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

type Clinician struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VisitRecord is the immutable snapshot of a completed visit session,
// appended to the patient's visit history on completion.
type VisitRecord struct {
	VisitID                string               `json:"visit_id"`
	ServiceCode            string               `json:"service_code"`
	ServiceCodeDescription string               `json:"service_code_description"`
	Date                   string               `json:"date"`
	Clinician              Clinician            `json:"clinician"`
	TimeIn                 string               `json:"time_in"`
	TimeOut                string               `json:"time_out"`
	Status                 string               `json:"status"`
	Vitals                 Vitals               `json:"vitals"`
	AssessmentSummary      map[string]string    `json:"assessment_summary"`
	InterventionsProvided  []InterventionEntry  `json:"interventions_provided"`
	GoalsAddressed         []GoalProgressEntry  `json:"goals_addressed"`
	CoordinationNotes      []CoordinationNote   `json:"coordination_notes"`
	NextVisitScheduled     string               `json:"next_visit_scheduled,omitempty"`
}

// InterventionEntry is one intervention documented during a visit.
type InterventionEntry struct {
	InterventionID string `json:"intervention_id"`
	Provided       bool   `json:"provided"`
	Details        string `json:"details,omitempty"`
	Timestamp      string `json:"timestamp"`
}

// GoalProgressEntry is one goal progress note recorded during a visit.
type GoalProgressEntry struct {
	GoalID    string `json:"goal_id"`
	Status    string `json:"status"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp"`
}

type CoordinationNote struct {
	NoteID    string `json:"note_id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"created_at"`
}

// -- Reference datasets --

type ServiceCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Discipline  string `json:"discipline,omitempty"`
}

type VisitStatus struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type Discipline struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type ICD10Code struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// CatalogMedication is an entry in the reference medication formulary,
// distinct from a Medication on a patient's profile.
type CatalogMedication struct {
	Name        string   `json:"name"`
	Class       string   `json:"class,omitempty"`
	CommonDoses []string `json:"common_doses,omitempty"`
}
