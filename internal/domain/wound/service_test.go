package wound

import (
	"errors"
	"fmt"
	"testing"

	"github.com/homechart/homechart/internal/platform/session"
	"github.com/homechart/homechart/internal/platform/store"
)

type mockStore struct {
	patients map[string]*store.Patient
	saves    int
}

func (m *mockStore) GetPatient(id string) (*store.Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrPatientNotFound, id)
	}
	return p, nil
}

func (m *mockStore) UpdatePatient(id string, fn func(*store.Patient) error) error {
	p, ok := m.patients[id]
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrPatientNotFound, id)
	}
	if err := fn(p); err != nil {
		return err
	}
	m.saves++
	return nil
}

func newMockStore() *mockStore {
	return &mockStore{
		patients: map[string]*store.Patient{
			"PT-1001": {
				PatientID: "PT-1001",
				Wounds: []store.Wound{
					{WoundID: "W-001", Type: "pressure_ulcer", Location: "sacrum", Status: "active"},
					{WoundID: "W-002", Type: "surgical", Location: "left knee", Status: "healed"},
				},
			},
		},
	}
}

func TestRecordFiltersActive(t *testing.T) {
	svc := NewService(newMockStore(), session.NewRegistry())

	result, err := svc.Record("PT-1001")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.ActiveWoundCount != 1 {
		t.Fatalf("active count: got %d", result.ActiveWoundCount)
	}
	if result.Wounds[0].WoundID != "W-001" {
		t.Errorf("wound: got %s", result.Wounds[0].WoundID)
	}
}

func TestAddWound(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	result, err := svc.Add("PT-1001", AddRequest{
		Location: "right heel", Type: "diabetic_ulcer", OnsetDate: "2024-01-10",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.WoundID != "W-003" {
		t.Errorf("wound id: got %q", result.WoundID)
	}
	if result.Status != "created" {
		t.Errorf("status: got %q", result.Status)
	}
	if result.Wound.Status != "active" {
		t.Errorf("wound status: got %q", result.Wound.Status)
	}
	if result.Wound.Measurements != (store.WoundMeasurements{}) {
		t.Errorf("measurements should start empty: %+v", result.Wound.Measurements)
	}
	if len(st.patients["PT-1001"].Wounds) != 3 {
		t.Errorf("wounds on record: got %d", len(st.patients["PT-1001"].Wounds))
	}
	if st.saves != 1 {
		t.Errorf("saves: got %d", st.saves)
	}
}

func TestDocumentAssessment(t *testing.T) {
	st := newMockStore()
	reg := session.NewRegistry()
	reg.Add(&session.Session{SessionID: "VS-TEST0001", PatientID: "PT-1001"})
	svc := NewService(st, reg)

	result, err := svc.DocumentAssessment("VS-TEST0001", "W-001", AssessmentRequest{
		Measurements: store.WoundMeasurements{LengthCm: 6.2, WidthCm: 3.1, DepthCm: 0.8},
		Characteristics: store.WoundCharacteristics{
			Drainage: "Serosanguineous", InfectionSigns: true,
		},
	})
	if err != nil {
		t.Fatalf("document assessment: %v", err)
	}
	if !result.Documented {
		t.Error("expected documented=true")
	}
	// length > 5 (+1), depth > 0.5 (+1), drainage present (+1),
	// infection signs (+2).
	if result.WATScore != 5 {
		t.Errorf("wat score: got %d, want 5", result.WATScore)
	}

	w := st.patients["PT-1001"].Wounds[0]
	if w.Measurements.LengthCm != 6.2 {
		t.Errorf("snapshot not replaced: %+v", w.Measurements)
	}
	if w.LastAssessmentDate == "" {
		t.Error("last assessment date not set")
	}
	if st.saves != 1 {
		t.Errorf("saves: got %d", st.saves)
	}
}

func TestDocumentAssessmentNoDrainage(t *testing.T) {
	st := newMockStore()
	reg := session.NewRegistry()
	reg.Add(&session.Session{SessionID: "VS-TEST0001", PatientID: "PT-1001"})
	svc := NewService(st, reg)

	result, err := svc.DocumentAssessment("VS-TEST0001", "W-001", AssessmentRequest{
		Measurements:    store.WoundMeasurements{LengthCm: 2.0, DepthCm: 0.2},
		Characteristics: store.WoundCharacteristics{Drainage: "None"},
	})
	if err != nil {
		t.Fatalf("document assessment: %v", err)
	}
	if result.WATScore != 0 {
		t.Errorf("wat score: got %d, want 0", result.WATScore)
	}
}

func TestDocumentAssessmentUnknownWound(t *testing.T) {
	st := newMockStore()
	reg := session.NewRegistry()
	reg.Add(&session.Session{SessionID: "VS-TEST0001", PatientID: "PT-1001"})
	svc := NewService(st, reg)

	_, err := svc.DocumentAssessment("VS-TEST0001", "W-099", AssessmentRequest{})
	if !errors.Is(err, ErrWoundNotFound) {
		t.Fatalf("expected ErrWoundNotFound, got %v", err)
	}
	if st.saves != 0 {
		t.Errorf("failed assessment persisted: saves=%d", st.saves)
	}
}

func TestDocumentAssessmentUnknownSession(t *testing.T) {
	svc := NewService(newMockStore(), session.NewRegistry())

	_, err := svc.DocumentAssessment("VS-MISSING1", "W-001", AssessmentRequest{})
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
