package handler

import (
	"strings"
	"time"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	emailutil "github.com/cavidescun/314q34wefasd/pkg/email"
)

// IntakeRequest carries the text fields of the multipart intake form.
type IntakeRequest struct {
	Phone    string `validate:"required,max=20"`
	Landline string `validate:"max=20"`
	Email    string `validate:"required,email,max=254"`
}

func (r *IntakeRequest) Normalize() {
	r.Phone = strings.TrimSpace(r.Phone)
	r.Landline = strings.TrimSpace(r.Landline)
	r.Email = emailutil.Normalize(r.Email)
}

// SubmitDocumentsRequest carries the text fields of the document form.
type SubmitDocumentsRequest struct {
	NationalID     string `validate:"required,max=20"`
	Institution    string `validate:"required,max=255"`
	OriginProgram  string `validate:"required,max=255"`
	GraduationDate string `validate:"required,datetime=2006-01-02"`

	parsedNationalID id.NationalID
	parsedDate       time.Time
}

func (r *SubmitDocumentsRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Institution = strings.TrimSpace(r.Institution)
	r.OriginProgram = strings.TrimSpace(r.OriginProgram)
	r.GraduationDate = strings.TrimSpace(r.GraduationDate)
}

func (r *SubmitDocumentsRequest) Validate() error {
	nid, err := id.ParseNationalID(r.NationalID)
	if err != nil {
		return err
	}
	date, err := time.Parse(time.DateOnly, r.GraduationDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "graduation_date must match 2006-01-02").
			WithMeta("field", "graduation_date")
	}
	r.parsedNationalID = nid
	r.parsedDate = date
	return nil
}

type AcademicDataRequest struct {
	NationalID string `json:"national_id" validate:"required,max=20"`
	Program    string `json:"program" validate:"required,max=255"`
	Modality   string `json:"modality" validate:"required,max=50"`
	Schedule   string `json:"schedule" validate:"omitempty,oneof=DIURNA NOCTURNA"`
	City       string `json:"city" validate:"max=100"`

	parsedNationalID id.NationalID
}

func (r *AcademicDataRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Program = strings.TrimSpace(r.Program)
	r.Modality = strings.ToUpper(strings.TrimSpace(r.Modality))
	r.Schedule = strings.ToUpper(strings.TrimSpace(r.Schedule))
	r.City = strings.TrimSpace(r.City)
}

func (r *AcademicDataRequest) Validate() error {
	nid, err := id.ParseNationalID(r.NationalID)
	if err != nil {
		return err
	}
	if r.Modality != "VIRTUAL" && r.Schedule == "" {
		return dErrors.New(dErrors.CodeValidation, "schedule is required unless modality is VIRTUAL").
			WithMeta("field", "schedule")
	}
	r.parsedNationalID = nid
	return nil
}

type FinalizeRequest struct {
	NationalID   string `json:"national_id" validate:"required,max=20"`
	Observations string `json:"observations" validate:"max=2000"`

	parsedNationalID id.NationalID
}

func (r *FinalizeRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Observations = strings.TrimSpace(r.Observations)
}

func (r *FinalizeRequest) Validate() error {
	nid, err := id.ParseNationalID(r.NationalID)
	if err != nil {
		return err
	}
	r.parsedNationalID = nid
	return nil
}

type CloseTicketRequest struct {
	NationalID string `json:"national_id" validate:"required,max=20"`
	Reason     string `json:"reason" validate:"required,max=500"`

	parsedNationalID id.NationalID
}

func (r *CloseTicketRequest) Normalize() {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *CloseTicketRequest) Validate() error {
	nid, err := id.ParseNationalID(r.NationalID)
	if err != nil {
		return err
	}
	r.parsedNationalID = nid
	return nil
}

type UpdateStatusRequest struct {
	Status       string `json:"status" validate:"required"`
	Observations string `json:"observations" validate:"max=2000"`

	parsedStatus models.Status
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.Observations = strings.TrimSpace(r.Observations)
}

func (r *UpdateStatusRequest) Validate() error {
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}
