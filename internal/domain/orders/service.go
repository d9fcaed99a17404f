package orders

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/homechart/homechart/internal/platform/store"
)

// ErrInvalidOrderType is returned for order types outside the closed
// set.
var ErrInvalidOrderType = errors.New("invalid order type")

var validOrderTypes = map[string]bool{
	"physician": true, "poc_update": true, "discharge": true,
	"hospital_hold": true, "roc": true,
}

// Store is the record access the orders service needs.
type Store interface {
	GetPatient(id string) (*store.Patient, error)
}

type Service struct {
	store         Store
	defaultAuthor string

	now func() time.Time
}

func NewService(st Store, defaultAuthor string) *Service {
	return &Service{store: st, defaultAuthor: defaultAuthor, now: time.Now}
}

// CreateOrder queues a new order for physician signature. The order is
// acknowledged but never written to the patient record.
func (s *Service) CreateOrder(patientID string, req CreateOrderRequest) (*CreateOrderResult, error) {
	if !validOrderTypes[req.OrderType] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderType, req.OrderType)
	}
	if _, err := s.store.GetPatient(patientID); err != nil {
		return nil, err
	}

	effectiveDate := req.EffectiveDate
	if effectiveDate == "" {
		effectiveDate = s.now().Format("2006-01-02")
	}

	order := &Order{
		OrderID:       newID("ORD"),
		OrderType:     req.OrderType,
		PatientID:     patientID,
		PhysicianID:   req.PhysicianID,
		Instructions:  req.Instructions,
		EffectiveDate: effectiveDate,
		CreatedAt:     s.now().Format(time.RFC3339),
		Status:        "pending_signature",
	}

	return &CreateOrderResult{
		OrderID: order.OrderID,
		Status:  "created",
		Order:   order,
		Message: "Order created and queued for physician signature",
	}, nil
}

// AddNote acknowledges a standalone coordination note. Like orders,
// standalone notes are not written back; notes only land on the record
// through a visit session.
func (s *Service) AddNote(patientID string, req AddNoteRequest) (*AddNoteResult, error) {
	if _, err := s.store.GetPatient(patientID); err != nil {
		return nil, err
	}

	author := req.Author
	if author == "" {
		author = s.defaultAuthor
	}

	note := &store.CoordinationNote{
		NoteID:    newID("NOTE"),
		Type:      req.Type,
		Content:   req.Content,
		Author:    author,
		CreatedAt: s.now().Format(time.RFC3339),
	}

	return &AddNoteResult{
		NoteID: note.NoteID,
		Status: "created",
		Note:   note,
	}, nil
}

// GetNotes collects coordination notes out of the visit history, newest
// visit first, optionally filtered by note type.
func (s *Service) GetNotes(patientID, noteType string, limit int) (*NotesResult, error) {
	p, err := s.store.GetPatient(patientID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	notes := []VisitNote{}
	for _, v := range p.Visits {
		for _, n := range v.CoordinationNotes {
			if noteType != "" && n.Type != noteType {
				continue
			}
			notes = append(notes, VisitNote{
				CoordinationNote: n,
				VisitID:          v.VisitID,
				VisitDate:        v.Date,
			})
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].VisitDate > notes[j].VisitDate
	})
	if len(notes) > limit {
		notes = notes[:limit]
	}

	return &NotesResult{
		PatientID: patientID,
		NoteCount: len(notes),
		Notes:     notes,
	}, nil
}

func newID(prefix string) string {
	hexID := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "-" + strings.ToUpper(hexID[:8])
}
