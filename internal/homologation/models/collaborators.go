package models

import id "github.com/cavidescun/314q34wefasd/pkg/domain"

// IdentityValidationStatus is the verdict of the document validator.
type IdentityValidationStatus string

const (
	IdentityValid   IdentityValidationStatus = "valid"
	IdentityInvalid IdentityValidationStatus = "invalid"
	IdentityError   IdentityValidationStatus = "error"
)

// IdentityValidation is what the OCR collaborator extracted from an identity
// document.
type IdentityValidation struct {
	Status     IdentityValidationStatus `json:"status"`
	Message    string                   `json:"message,omitempty"`
	FullName   string                   `json:"full_name,omitempty"`
	NationalID string                   `json:"national_id,omitempty"`
}

// Accepted reports a valid verdict carrying both identity fields.
func (v *IdentityValidation) Accepted() bool {
	return v != nil && v.Status == IdentityValid && v.FullName != "" && v.NationalID != ""
}

// DocumentUpload is one file submitted for a homologation.
type DocumentUpload struct {
	Type        DocumentType
	Content     []byte
	ContentType string
}

// TicketRequest carries the student and case data of a support ticket.
type TicketRequest struct {
	FullName           string
	NationalID         id.NationalID
	Phone              string
	InstitutionalEmail string
	PersonalEmail      string
	Program            string
	Modality           string
	Period             string
	City               string

	Subject     string
	Request     string
	Category    string
	Category2   string
	Category3   string
	Description string
}

// Ticket is a created support ticket.
type Ticket struct {
	Number string `json:"ticket_number"`
}

// ConfirmationEmail is sent after a homologation is finalized.
type ConfirmationEmail struct {
	To          string
	StudentName string
	Institution string
	Program     string
}
