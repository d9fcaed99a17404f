package orders

import "github.com/homechart/homechart/internal/platform/store"

// Order is a physician order awaiting signature. Orders are not written
// to the patient record; they go to the signature queue on the EMR side.
type Order struct {
	OrderID       string `json:"order_id"`
	OrderType     string `json:"order_type"`
	PatientID     string `json:"patient_id"`
	PhysicianID   string `json:"physician_id"`
	Instructions  string `json:"instructions"`
	EffectiveDate string `json:"effective_date"`
	CreatedAt     string `json:"created_at"`
	Status        string `json:"status"`
}

// CreateOrderRequest submits a new order.
type CreateOrderRequest struct {
	OrderType     string `json:"order_type" validate:"required"`
	PhysicianID   string `json:"physician_id" validate:"required"`
	Instructions  string `json:"instructions" validate:"required"`
	EffectiveDate string `json:"effective_date"`
}

// CreateOrderResult confirms the queued order.
type CreateOrderResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Order   *Order `json:"order"`
	Message string `json:"message"`
}

// AddNoteRequest submits a care coordination note.
type AddNoteRequest struct {
	Type    string `json:"type" validate:"required"`
	Content string `json:"content" validate:"required"`
	Author  string `json:"author"`
}

// AddNoteResult confirms the note.
type AddNoteResult struct {
	NoteID string                 `json:"note_id"`
	Status string                 `json:"status"`
	Note   *store.CoordinationNote `json:"note"`
}

// VisitNote is a coordination note joined with the visit it was
// documented on.
type VisitNote struct {
	store.CoordinationNote
	VisitID   string `json:"visit_id"`
	VisitDate string `json:"visit_date"`
}

// NotesResult lists coordination notes from visit history.
type NotesResult struct {
	PatientID string      `json:"patient_id"`
	NoteCount int         `json:"note_count"`
	Notes     []VisitNote `json:"notes"`
}
