package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrPatientNotFound is returned for lookups of unknown patient ids.
var ErrPatientNotFound = errors.New("patient not found")

// DataLoadError wraps any failure while reading the reference datasets
// at startup. It is fatal: the server cannot run on a partial load.
type DataLoadError struct {
	File string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.File, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

type patientsFile struct {
	Patients []*Patient       `json:"patients"`
	Metadata patientsMetadata `json:"metadata"`
}

type patientsMetadata struct {
	Version     string `json:"version"`
	UpdatedAt   string `json:"updated_at"`
	Description string `json:"description"`
}

type serviceCodesFile struct {
	ServiceCodes  []ServiceCode `json:"service_codes"`
	VisitStatuses []VisitStatus `json:"visit_statuses"`
	Disciplines   []Discipline  `json:"disciplines"`
}

type icd10File struct {
	ICD10Codes []ICD10Code `json:"icd10_codes"`
}

type medicationsFile struct {
	Medications []CatalogMedication `json:"medications"`
	Routes      []string            `json:"routes"`
	Frequencies []string            `json:"frequencies"`
}

// Store owns the patient collection and reference datasets. Patients are
// kept in file order so that search traversal (and therefore limit
// truncation) is deterministic; byID is a lookup index over the same
// records. Mutations run under mu and persist before returning, so a
// successful write is never observable with stale disk state.
type Store struct {
	mu      sync.RWMutex
	dataDir string

	patients []*Patient
	byID     map[string]*Patient

	serviceCodes  map[string]ServiceCode
	visitStatuses map[string]VisitStatus
	disciplines   map[string]Discipline
	icd10         map[string]ICD10Code
	medCatalog    map[string]CatalogMedication
	routes        []string
	frequencies   []string
}

// Open loads every dataset from dataDir. Any missing or malformed file
// is a *DataLoadError.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		dataDir:       dataDir,
		byID:          make(map[string]*Patient),
		serviceCodes:  make(map[string]ServiceCode),
		visitStatuses: make(map[string]VisitStatus),
		disciplines:   make(map[string]Discipline),
		icd10:         make(map[string]ICD10Code),
		medCatalog:    make(map[string]CatalogMedication),
	}

	var pf patientsFile
	if err := readJSON(filepath.Join(dataDir, "patients.json"), &pf); err != nil {
		return nil, &DataLoadError{File: "patients.json", Err: err}
	}
	if pf.Patients == nil {
		return nil, &DataLoadError{File: "patients.json", Err: errors.New("missing patients key")}
	}
	s.patients = pf.Patients
	for _, p := range s.patients {
		s.byID[p.PatientID] = p
	}

	var scf serviceCodesFile
	if err := readJSON(filepath.Join(dataDir, "service_codes.json"), &scf); err != nil {
		return nil, &DataLoadError{File: "service_codes.json", Err: err}
	}
	if scf.ServiceCodes == nil {
		return nil, &DataLoadError{File: "service_codes.json", Err: errors.New("missing service_codes key")}
	}
	for _, sc := range scf.ServiceCodes {
		s.serviceCodes[sc.Code] = sc
	}
	for _, vs := range scf.VisitStatuses {
		s.visitStatuses[vs.Code] = vs
	}
	for _, d := range scf.Disciplines {
		s.disciplines[d.Code] = d
	}

	var icf icd10File
	if err := readJSON(filepath.Join(dataDir, "icd10_codes.json"), &icf); err != nil {
		return nil, &DataLoadError{File: "icd10_codes.json", Err: err}
	}
	if icf.ICD10Codes == nil {
		return nil, &DataLoadError{File: "icd10_codes.json", Err: errors.New("missing icd10_codes key")}
	}
	for _, ic := range icf.ICD10Codes {
		s.icd10[ic.Code] = ic
	}

	var mf medicationsFile
	if err := readJSON(filepath.Join(dataDir, "medications.json"), &mf); err != nil {
		return nil, &DataLoadError{File: "medications.json", Err: err}
	}
	if mf.Medications == nil {
		return nil, &DataLoadError{File: "medications.json", Err: errors.New("missing medications key")}
	}
	for _, m := range mf.Medications {
		s.medCatalog[m.Name] = m
	}
	s.routes = mf.Routes
	s.frequencies = mf.Frequencies

	return s, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// GetPatient returns a point-in-time copy of the patient record for id.
// Callers read it freely without holding the store lock; writes go
// through UpdatePatient.
func (s *Store) GetPatient(id string) (*Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return p.Clone(), nil
}

// Patients returns copies of the patient records in store (file) order.
func (s *Store) Patients() []*Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Patient, len(s.patients))
	for i, p := range s.patients {
		out[i] = p.Clone()
	}
	return out
}

// UpdatePatient runs fn against the patient record under the store lock
// and persists the whole collection before returning. If fn errors,
// nothing is written.
func (s *Store) UpdatePatient(id string, fn func(*Patient) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	if err := fn(p); err != nil {
		return err
	}
	return s.savePatientsLocked()
}

// savePatientsLocked rewrites patients.json wholesale. The write goes to
// a temp file in the same directory and is renamed into place so a crash
// mid-write cannot corrupt the store.
func (s *Store) savePatientsLocked() error {
	pf := patientsFile{
		Patients: s.patients,
		Metadata: patientsMetadata{
			Version:     "1.0.0",
			UpdatedAt:   time.Now().Format(time.RFC3339),
			Description: "Home health patient records",
		},
	}
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal patients: %w", err)
	}

	target := filepath.Join(s.dataDir, "patients.json")
	tmp, err := os.CreateTemp(s.dataDir, "patients-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write patients: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace patients.json: %w", err)
	}
	return nil
}

// ServiceCode looks up a service code in the reference catalog.
func (s *Store) ServiceCode(code string) (ServiceCode, bool) {
	sc, ok := s.serviceCodes[code]
	return sc, ok
}

// VisitStatusKnown reports whether code is a recognized visit status.
func (s *Store) VisitStatusKnown(code string) bool {
	_, ok := s.visitStatuses[code]
	return ok
}

// Discipline looks up a discipline code.
func (s *Store) Discipline(code string) (Discipline, bool) {
	d, ok := s.disciplines[code]
	return d, ok
}

// ICD10 looks up an ICD-10 code.
func (s *Store) ICD10(code string) (ICD10Code, bool) {
	ic, ok := s.icd10[code]
	return ic, ok
}

// CatalogMedication looks up a formulary entry by exact name.
func (s *Store) CatalogMedication(name string) (CatalogMedication, bool) {
	m, ok := s.medCatalog[name]
	return m, ok
}

// Routes returns the reference list of administration routes.
func (s *Store) Routes() []string { return s.routes }

// Frequencies returns the reference list of dosing frequencies.
func (s *Store) Frequencies() []string { return s.frequencies }
