package models

import (
	"time"

	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

// IntakeCommand is the input of the initial intake.
type IntakeCommand struct {
	Phone            string
	Landline         string
	Email            string
	DocumentContent  []byte
	DocumentFilename string
	ContentType      string
}

// IntakeResult is returned by RegisterIntake. ExistingProcess is true when
// the student already had homologations; when the live one is PENDING nothing
// new was created and Document is nil.
type IntakeResult struct {
	Student         *Student           `json:"student"`
	Contact         *Contact           `json:"contact"`
	Homologation    *Homologation      `json:"homologation"`
	Document        *Document          `json:"document,omitempty"`
	Identity        IdentityValidation `json:"identity"`
	ExistingProcess bool               `json:"existing_process"`
}

// SubmitDocumentsCommand is the input of the document collection stage.
type SubmitDocumentsCommand struct {
	NationalID     id.NationalID
	Institution    string
	OriginProgram  string
	GraduationDate time.Time
	Documents      []DocumentUpload
}

// SubmitResult is returned by SubmitDocuments. StatusChanged reports whether
// this call moved the homologation into PENDING.
type SubmitResult struct {
	Homologation   *Homologation `json:"homologation"`
	Document       *Document     `json:"document"`
	ProcessedFiles []string      `json:"processed_files"`
	StatusChanged  bool          `json:"status_changed"`
}

// ResolveAcademicCommand is the input of the academic code resolution.
type ResolveAcademicCommand struct {
	NationalID id.NationalID
	Target     TargetProgram
}

// AcademicResult lists the lookups that degraded to "none" because a catalog
// was unavailable.
type AcademicResult struct {
	Homologation *Homologation `json:"homologation"`
	Codes        AcademicCodes `json:"codes"`
	Degraded     []string      `json:"degraded,omitempty"`
}

// FinalizeCommand is the input of the finalization stage.
type FinalizeCommand struct {
	NationalID   id.NationalID
	Observations string
}

type EmailOutcome struct {
	Delivered bool   `json:"delivered"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

type TicketOutcome struct {
	Created      bool   `json:"created"`
	TicketNumber string `json:"ticket_number"`
	Message      string `json:"message"`
}

// FinalizeResult is returned by Finalize.
type FinalizeResult struct {
	Homologation *Homologation `json:"homologation"`
	Email        EmailOutcome  `json:"email"`
	Ticket       TicketOutcome `json:"ticket"`
}

// HomologationDetails is one row of the details listing. Missing text fields
// carry display defaults instead of empty strings.
type HomologationDetails struct {
	HomologationID id.HomologationID `json:"homologation_id"`
	CreatedAt      time.Time         `json:"created_at"`
	NationalID     id.NationalID     `json:"national_id"`
	StudentName    string            `json:"student_name"`
	EducationLevel string            `json:"education_level"`
	OriginProgram  string            `json:"origin_program"`
	TargetProgram  string            `json:"target_program"`
	Status         Status            `json:"status"`
	DocumentURLs   []string          `json:"documents"`
	Observations   string            `json:"observations"`
}

// StatusChange is returned by a staff status update.
type StatusChange struct {
	Homologation *Homologation `json:"homologation"`
	From         Status        `json:"from"`
	To           Status        `json:"to"`
	ChangedAt    time.Time     `json:"changed_at"`
}

// RelatedPrograms lists the internal programs related to the origin program
// of a student's most recent homologation.
type RelatedPrograms struct {
	StudentID     id.StudentID `json:"student_id"`
	StudentName   string       `json:"student_name"`
	Institution   string       `json:"institution"`
	OriginProgram string       `json:"origin_program"`
	Programs      []string     `json:"programs"`
}

// SENAExport is a generated SENA workbook.
type SENAExport struct {
	Filename string
	Content  []byte
	Rows     int
}
