package medication

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
				Allergies: []store.Allergy{
					{Allergen: "Penicillin", Reaction: "Hives", Severity: "severe"},
				},
				Medications: []store.Medication{
					{MedID: "MED-001", Name: "Furosemide", Dose: "40", Unit: "mg", Status: "active"},
					{MedID: "MED-002", Name: "Metoprolol", Dose: "25", Unit: "mg", Status: "active"},
					{MedID: "MED-003", Name: "Warfarin", Status: "discontinued"},
				},
			},
		},
	}
}

func TestListSplitsByStatus(t *testing.T) {
	svc := NewService(newMockStore(), session.NewRegistry())

	result, err := svc.List("PT-1001")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.ActiveCount != 2 {
		t.Errorf("active count: got %d", result.ActiveCount)
	}
	if len(result.DiscontinuedMedications) != 1 {
		t.Errorf("discontinued: got %d", len(result.DiscontinuedMedications))
	}
	if len(result.Allergies) != 1 {
		t.Errorf("allergies: got %d", len(result.Allergies))
	}
}

func TestAddMedication(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	result, err := svc.Add("PT-1001", AddRequest{
		Name: "Lisinopril", Dose: "10", Unit: "mg", Frequency: "daily",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Status != "added" {
		t.Fatalf("status: got %q", result.Status)
	}
	if result.MedID != "MED-004" {
		t.Errorf("med id: got %q", result.MedID)
	}
	if result.Medication.Route != "PO" {
		t.Errorf("default route: got %q", result.Medication.Route)
	}
	if result.Medication.StartDate == "" {
		t.Error("start date not set")
	}
	if len(st.patients["PT-1001"].Medications) != 4 {
		t.Errorf("profile length: got %d", len(st.patients["PT-1001"].Medications))
	}
	if st.saves != 1 {
		t.Errorf("saves: got %d", st.saves)
	}
}

func TestAddMedicationTwiceCreatesTwoEntries(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	req := AddRequest{Name: "Lisinopril", Dose: "10", Unit: "mg", Frequency: "daily"}
	first, err := svc.Add("PT-1001", req)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.Add("PT-1001", req)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	// Identical payloads are distinct entries, not an upsert.
	if first.MedID == second.MedID {
		t.Fatalf("both adds got id %q", first.MedID)
	}
	if first.MedID != "MED-004" || second.MedID != "MED-005" {
		t.Errorf("ids: %q, %q", first.MedID, second.MedID)
	}
	if len(st.patients["PT-1001"].Medications) != 5 {
		t.Errorf("profile length: got %d", len(st.patients["PT-1001"].Medications))
	}
}

func TestAddMedicationAllergyBlocked(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	result, err := svc.Add("PT-1001", AddRequest{Name: "Penicillin VK"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Status != "blocked" {
		t.Fatalf("status: got %q", result.Status)
	}
	if result.MedID != "" {
		t.Errorf("blocked add must not assign an id, got %q", result.MedID)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != "allergy" {
		t.Fatalf("warnings: got %+v", result.Warnings)
	}
	if len(st.patients["PT-1001"].Medications) != 3 {
		t.Errorf("blocked add mutated the profile")
	}
	if st.saves != 0 {
		t.Errorf("blocked add persisted: saves=%d", st.saves)
	}
}

func TestAddMedicationMultipleAllergenMatchesOneWarning(t *testing.T) {
	st := newMockStore()
	st.patients["PT-1001"].Allergies = append(st.patients["PT-1001"].Allergies,
		store.Allergy{Allergen: "Penicillin VK", Reaction: "Rash", Severity: "moderate"})
	svc := NewService(st, session.NewRegistry())

	// The name matches both "Penicillin" and "Penicillin VK"; the block
	// still carries a single warning.
	result, err := svc.Add("PT-1001", AddRequest{Name: "Penicillin VK"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Status != "blocked" {
		t.Fatalf("status: got %q", result.Status)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings: got %d, want 1", len(result.Warnings))
	}
}

func TestAddMedicationAllergyOverride(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	result, err := svc.Add("PT-1001", AddRequest{Name: "Penicillin VK", OverrideWarnings: true})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Status != "added" {
		t.Fatalf("status: got %q", result.Status)
	}
	// Warnings still ride along with the override.
	if len(result.Warnings) != 1 {
		t.Errorf("warnings: got %d", len(result.Warnings))
	}
	if len(st.patients["PT-1001"].Medications) != 4 {
		t.Errorf("override did not persist the add")
	}
}

func TestDiscontinueMedication(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	result, err := svc.Discontinue("PT-1001", "MED-001", DiscontinueRequest{
		Reason: "Dose adjusted per MD", DiscontinueDate: "2024-01-15",
	})
	if err != nil {
		t.Fatalf("discontinue: %v", err)
	}
	if result.Status != "discontinued" || result.Medication != "Furosemide" {
		t.Errorf("result: %+v", result)
	}
	if result.EffectiveDate != "2024-01-15" {
		t.Errorf("effective date: got %q", result.EffectiveDate)
	}

	med := st.patients["PT-1001"].Medications[0]
	if med.Status != "discontinued" || med.EndDate != "2024-01-15" || med.DiscontinueReason != "Dose adjusted per MD" {
		t.Errorf("record: %+v", med)
	}
	if st.saves != 1 {
		t.Errorf("saves: got %d", st.saves)
	}
}

func TestDiscontinueUnknownMedication(t *testing.T) {
	st := newMockStore()
	svc := NewService(st, session.NewRegistry())

	_, err := svc.Discontinue("PT-1001", "MED-099", DiscontinueRequest{Reason: "n/a"})
	if !errors.Is(err, ErrMedicationNotFound) {
		t.Fatalf("expected ErrMedicationNotFound, got %v", err)
	}
	if st.saves != 0 {
		t.Errorf("failed discontinue persisted: saves=%d", st.saves)
	}
}

func TestValidateMedications(t *testing.T) {
	st := newMockStore()
	reg := session.NewRegistry()
	reg.Add(&session.Session{SessionID: "VS-TEST0001", PatientID: "PT-1001"})
	svc := NewService(st, reg)

	result, err := svc.Validate("VS-TEST0001", []string{"MED-001", "MED-099", "MED-002"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.ValidatedCount != 2 {
		t.Errorf("validated count: got %d", result.ValidatedCount)
	}
	if result.Validated[0].Name != "Furosemide" || !result.Validated[0].Validated {
		t.Errorf("validated entry: %+v", result.Validated[0])
	}
	if len(result.NotFound) != 1 || result.NotFound[0] != "MED-099" {
		t.Errorf("not found: %+v", result.NotFound)
	}
	if result.AttestationTimestamp == "" {
		t.Error("attestation timestamp not set")
	}
}

func TestValidateUnknownSession(t *testing.T) {
	svc := NewService(newMockStore(), session.NewRegistry())

	_, err := svc.Validate("VS-MISSING1", []string{"MED-001"})
	if !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
