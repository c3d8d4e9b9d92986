package audit

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: records
	// created for a student and every status decision on a homologation.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for operational visibility,
	// such as collaborator degradations and notification failures.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the workflow to capture key actions. It never carries
// the raw national ID; SubjectHash identifies the student instead.
type Event struct {
	ID             string        `json:"id"`
	Category       EventCategory `json:"category"`
	Timestamp      time.Time     `json:"timestamp"`
	Action         string        `json:"action"`
	SubjectHash    string        `json:"subject_hash,omitempty"`
	HomologationID string        `json:"homologation_id,omitempty"`
	Status         string        `json:"status,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	RequestID      string        `json:"request_id,omitempty"`
	ActorID        string        `json:"actor_id,omitempty"`
}

type AuditEvent string

const (
	EventIntakeCaptured       AuditEvent = "intake_captured"
	EventIntakeRejected       AuditEvent = "intake_rejected"
	EventStudentCreated       AuditEvent = "student_created"
	EventHomologationCreated  AuditEvent = "homologation_created"
	EventExistingProcessFound AuditEvent = "existing_process_found"
	EventDocumentsSubmitted   AuditEvent = "documents_submitted"
	EventAcademicDataResolved AuditEvent = "academic_data_resolved"
	EventCatalogDegraded      AuditEvent = "catalog_degraded"
	EventStatusChanged        AuditEvent = "status_changed"
	EventTicketCreated        AuditEvent = "ticket_created"
	EventTicketClosed         AuditEvent = "ticket_closed"
	EventNotificationFailed   AuditEvent = "notification_failed"
	EventHomologationExported AuditEvent = "homologation_exported"
	EventStorageCompensated   AuditEvent = "storage_compensated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventStudentCreated:       CategoryCompliance,
	EventHomologationCreated:  CategoryCompliance,
	EventDocumentsSubmitted:   CategoryCompliance,
	EventStatusChanged:        CategoryCompliance,
	EventTicketCreated:        CategoryCompliance,
	EventTicketClosed:         CategoryCompliance,
	EventIntakeRejected:       CategoryCompliance,
	EventHomologationExported: CategoryCompliance,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// HashSubject returns the hex BLAKE2b-256 digest of a normalized national ID.
func HashSubject(nationalID string) string {
	if nationalID == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(strings.ToUpper(strings.TrimSpace(nationalID))))
	return hex.EncodeToString(sum[:])
}

// Store appends events to a sink.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Lister is implemented by sinks that can be queried back.
type Lister interface {
	ListBySubject(ctx context.Context, subjectHash string) ([]Event, error)
}
