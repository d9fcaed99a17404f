package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "patients.json", `{
		"patients": [
			{
				"patient_id": "PT-1001",
				"demographics": {
					"first_name": "Dorothy", "last_name": "Mitchell",
					"dob": "1942-03-18", "age": 83, "gender": "F",
					"address": {"street": "1 Elm St", "city": "Plano", "state": "TX", "zip": "75023"}
				},
				"insurance": {"primary": "Medicare"},
				"episode": {"status": "active"},
				"diagnoses": [], "allergies": [], "medications": [], "visits": []
			},
			{
				"patient_id": "PT-1002",
				"demographics": {
					"first_name": "Harold", "last_name": "Greene",
					"dob": "1951-07-02", "age": 74, "gender": "M",
					"address": {"street": "2 Oak St", "city": "Dallas", "state": "TX", "zip": "75201"}
				},
				"insurance": {"primary": "Medicare"},
				"episode": {"status": "active"},
				"diagnoses": [], "allergies": [], "medications": [], "visits": []
			}
		],
		"metadata": {"version": "1.0.0", "updated_at": "2024-01-01T00:00:00", "description": "test"}
	}`)
	writeFile(t, dir, "service_codes.json", `{
		"service_codes": [{"code": "SN11", "description": "Skilled Nursing Visit", "discipline": "SN"}],
		"visit_statuses": [{"code": "completed", "description": "Completed"}],
		"disciplines": [{"code": "SN", "description": "Skilled Nursing"}]
	}`)
	writeFile(t, dir, "icd10_codes.json", `{
		"icd10_codes": [{"code": "I50.32", "description": "Chronic diastolic heart failure"}]
	}`)
	writeFile(t, dir, "medications.json", `{
		"medications": [{"name": "Furosemide", "class": "Loop diuretic", "common_doses": ["20 mg", "40 mg"]}],
		"routes": ["PO", "SubQ"],
		"frequencies": ["daily", "BID"]
	}`)
	return dir
}

func TestOpenLoadsDatasets(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	p, err := s.GetPatient("PT-1001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if p.Demographics.FirstName != "Dorothy" {
		t.Errorf("first name: got %q", p.Demographics.FirstName)
	}

	if _, ok := s.ServiceCode("SN11"); !ok {
		t.Error("service code SN11 not loaded")
	}
	if !s.VisitStatusKnown("completed") {
		t.Error("visit status not loaded")
	}
	if _, ok := s.Discipline("SN"); !ok {
		t.Error("discipline not loaded")
	}
	if _, ok := s.ICD10("I50.32"); !ok {
		t.Error("icd10 code not loaded")
	}
	if _, ok := s.CatalogMedication("Furosemide"); !ok {
		t.Error("catalog medication not loaded")
	}
	if len(s.Routes()) != 2 || len(s.Frequencies()) != 2 {
		t.Errorf("reference lists: routes=%d frequencies=%d", len(s.Routes()), len(s.Frequencies()))
	}
}

func TestOpenMissingFile(t *testing.T) {
	dir := fixtureDir(t)
	os.Remove(filepath.Join(dir, "icd10_codes.json"))

	_, err := Open(dir)
	if err == nil {
		t.Fatal("expected error")
	}
	var dle *DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected *DataLoadError, got %T", err)
	}
	if dle.File != "icd10_codes.json" {
		t.Errorf("file: got %q", dle.File)
	}
}

func TestOpenMalformedJSON(t *testing.T) {
	dir := fixtureDir(t)
	writeFile(t, dir, "patients.json", "{not json")

	_, err := Open(dir)
	var dle *DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
}

func TestOpenMissingTopLevelKey(t *testing.T) {
	dir := fixtureDir(t)
	writeFile(t, dir, "medications.json", `{"routes": [], "frequencies": []}`)

	_, err := Open(dir)
	var dle *DataLoadError
	if !errors.As(err, &dle) {
		t.Fatalf("expected *DataLoadError, got %v", err)
	}
	if dle.File != "medications.json" {
		t.Errorf("file: got %q", dle.File)
	}
}

func TestGetPatientNotFound(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = s.GetPatient("PT-9999")
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestPatientsPreserveFileOrder(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ps := s.Patients()
	if len(ps) != 2 {
		t.Fatalf("patients: got %d", len(ps))
	}
	if ps[0].PatientID != "PT-1001" || ps[1].PatientID != "PT-1002" {
		t.Errorf("order: %s, %s", ps[0].PatientID, ps[1].PatientID)
	}
}

func TestGetPatientReturnsIsolatedCopy(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	snap, err := s.GetPatient("PT-1001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	snap.Demographics.FirstName = "Scribbled"
	snap.Medications = append(snap.Medications, Medication{MedID: "MED-999"})

	fresh, err := s.GetPatient("PT-1001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if fresh.Demographics.FirstName != "Dorothy" {
		t.Errorf("caller mutation leaked into the store: %q", fresh.Demographics.FirstName)
	}
	if len(fresh.Medications) != 0 {
		t.Errorf("caller append leaked into the store: %+v", fresh.Medications)
	}

	// The reverse direction holds too: a committed write does not bleed
	// into snapshots handed out earlier.
	err = s.UpdatePatient("PT-1001", func(p *Patient) error {
		p.Medications = append(p.Medications, Medication{MedID: "MED-001", Status: "active"})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(fresh.Medications) != 0 {
		t.Errorf("write bled into an earlier snapshot: %+v", fresh.Medications)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				p, err := s.GetPatient("PT-1001")
				if err != nil {
					t.Errorf("get patient: %v", err)
					return
				}
				// Field reads on the snapshot must be safe against
				// concurrent writers.
				_ = len(p.Medications)
				_ = p.Demographics.FirstName
			}
		}()
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				err := s.UpdatePatient("PT-1001", func(p *Patient) error {
					p.Medications = append(p.Medications, Medication{
						MedID:  fmt.Sprintf("MED-%d-%d", worker, j),
						Status: "active",
					})
					return nil
				})
				if err != nil {
					t.Errorf("update patient: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	p, err := s.GetPatient("PT-1001")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}
	if len(p.Medications) != 20 {
		t.Errorf("medications after concurrent writes: got %d, want 20", len(p.Medications))
	}
}

func TestUpdatePatientPersistsAndRoundTrips(t *testing.T) {
	dir := fixtureDir(t)
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	err = s.UpdatePatient("PT-1001", func(p *Patient) error {
		p.Medications = append(p.Medications, Medication{
			MedID: "MED-001", Name: "Furosemide", Status: "active",
		})
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// Reopen from disk and confirm the write survived.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	p, err := s2.GetPatient("PT-1001")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if len(p.Medications) != 1 || p.Medications[0].MedID != "MED-001" {
		t.Errorf("medications after reopen: %+v", p.Medications)
	}

	// Metadata on disk is refreshed on every save.
	raw, err := os.ReadFile(filepath.Join(dir, "patients.json"))
	if err != nil {
		t.Fatalf("read patients.json: %v", err)
	}
	var pf struct {
		Metadata struct {
			Version   string `json:"version"`
			UpdatedAt string `json:"updated_at"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &pf); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if pf.Metadata.Version != "1.0.0" || pf.Metadata.UpdatedAt == "" {
		t.Errorf("metadata: %+v", pf.Metadata)
	}
}

func TestUpdatePatientErrorDoesNotPersist(t *testing.T) {
	dir := fixtureDir(t)
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	updateErr := errors.New("validation failed")
	err = s.UpdatePatient("PT-1001", func(p *Patient) error {
		return updateErr
	})
	if !errors.Is(err, updateErr) {
		t.Fatalf("expected the fn error back, got %v", err)
	}

	// No temp residue and no rewrite.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestUpdatePatientUnknownID(t *testing.T) {
	s, err := Open(fixtureDir(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = s.UpdatePatient("PT-9999", func(p *Patient) error { return nil })
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}
