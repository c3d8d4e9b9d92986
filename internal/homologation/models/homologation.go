package models

import (
	"time"

	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

// Student is created once per national ID and never deleted by the workflow.
type Student struct {
	ID         id.StudentID  `json:"id"`
	FullName   string        `json:"full_name"`
	NationalID id.NationalID `json:"national_id"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func NewStudent(fullName string, nationalID id.NationalID, now time.Time) *Student {
	return &Student{
		ID:         id.NewStudentID(),
		FullName:   fullName,
		NationalID: nationalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Contact is owned 1:1 by a Student.
type Contact struct {
	ID        id.ContactID `json:"id"`
	StudentID id.StudentID `json:"student_id"`
	Phone     string       `json:"phone"`
	Landline  string       `json:"landline,omitempty"`
	Email     string       `json:"email"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewContact(studentID id.StudentID, phone, landline, email string, now time.Time) *Contact {
	return &Contact{
		ID:        id.NewContactID(),
		StudentID: studentID,
		Phone:     phone,
		Landline:  landline,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply overwrites the contact fields with a newer capture.
func (c *Contact) Apply(phone, landline, email string, now time.Time) {
	c.Phone = phone
	c.Landline = landline
	c.Email = email
	c.UpdatedAt = now
}

// Homologation is the state-carrying entity of the workflow. Empty strings
// and a zero SemesterCount mean "not resolved".
type Homologation struct {
	ID             id.HomologationID `json:"id"`
	StudentID      id.StudentID      `json:"student_id"`
	Institution    string            `json:"institution,omitempty"`
	OriginProgram  string            `json:"origin_program,omitempty"`
	GraduationDate *time.Time        `json:"graduation_date,omitempty"`
	EducationLevel string            `json:"education_level,omitempty"`
	TargetProgram  string            `json:"target_program,omitempty"`
	Schedule       string            `json:"schedule,omitempty"`
	Modality       string            `json:"modality,omitempty"`
	City           string            `json:"city,omitempty"`
	ProgramCode    string            `json:"program_code,omitempty"`
	CurriculumCode string            `json:"curriculum_code,omitempty"`
	Period         string            `json:"period,omitempty"`
	SemesterCount  int               `json:"semester_count,omitempty"`
	Observations   string            `json:"observations,omitempty"`
	TicketNumber   string            `json:"ticket_number,omitempty"`
	Status         Status            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewHomologation starts a fresh attempt in NO_DOCUMENTS.
func NewHomologation(studentID id.StudentID, now time.Time) *Homologation {
	return &Homologation{
		ID:        id.NewHomologationID(),
		StudentID: studentID,
		Status:    StatusNoDocuments,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TransitionTo validates and applies a status change.
func (h *Homologation) TransitionTo(target Status, now time.Time) error {
	if err := h.Status.CanTransitionTo(target); err != nil {
		return err
	}
	h.Status = target
	h.UpdatedAt = now
	return nil
}

// ApplyOrigin records where the student's prior title comes from.
func (h *Homologation) ApplyOrigin(institution, program string, graduation time.Time, now time.Time) {
	h.Institution = institution
	h.OriginProgram = program
	h.GraduationDate = &graduation
	h.UpdatedAt = now
}

// ApplyTarget records the internal program the student applies to together
// with whatever catalog codes resolved. Unresolved codes are cleared.
func (h *Homologation) ApplyTarget(target TargetProgram, codes AcademicCodes, now time.Time) {
	h.TargetProgram = target.Program
	h.Schedule = target.Schedule
	h.Modality = target.Modality
	h.City = target.City
	h.ProgramCode = codes.ProgramCode
	h.CurriculumCode = codes.CurriculumCode
	h.Period = codes.Period
	h.SemesterCount = codes.SemesterCount
	h.UpdatedAt = now
}

// HasAcademicCodes reports whether the codes needed for a SENA export are set.
func (h *Homologation) HasAcademicCodes() bool {
	return h.ProgramCode != "" && h.CurriculumCode != "" && h.SemesterCount > 0
}

// IntakeContactCapture is a write-once record of what a student typed at
// first intake, kept whatever the intake outcome.
type IntakeContactCapture struct {
	ID            id.IntakeID `json:"id"`
	Phone         string      `json:"phone"`
	Landline      string      `json:"landline,omitempty"`
	Email         string      `json:"email"`
	ClientIP      string      `json:"client_ip,omitempty"`
	DeviceSummary string      `json:"device_summary,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TargetProgram is the internal program chosen by the student.
type TargetProgram struct {
	Program  string
	Modality string
	Schedule string
	City     string
}

// AcademicCodes are the catalog codes resolved for a TargetProgram.
type AcademicCodes struct {
	ProgramCode    string `json:"program_code,omitempty"`
	CurriculumCode string `json:"curriculum_code,omitempty"`
	Period         string `json:"period,omitempty"`
	SemesterCount  int    `json:"semester_count,omitempty"`
}
