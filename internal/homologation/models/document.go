package models

import (
	"fmt"
	"time"

	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

// DocumentType names one of the files attached to a homologation.
type DocumentType string

const (
	DocumentIdentity             DocumentType = "identity-doc"
	DocumentBachelorDiploma      DocumentType = "bachiller"
	DocumentTitle                DocumentType = "titulo"
	DocumentTranscript           DocumentType = "sabana-notas"
	DocumentHomologationLetter   DocumentType = "carta-homologacion"
	DocumentProgrammaticContents DocumentType = "contenidos-programaticos"
)

// SubmittableDocuments are the document types accepted after intake, in the
// order they are processed.
var SubmittableDocuments = []DocumentType{
	DocumentBachelorDiploma,
	DocumentTitle,
	DocumentTranscript,
	DocumentHomologationLetter,
	DocumentProgrammaticContents,
}

var documentLabels = map[DocumentType]string{
	DocumentIdentity:             "documento de identificación",
	DocumentBachelorDiploma:      "título de bachiller",
	DocumentTitle:                "título a homologar",
	DocumentTranscript:           "sábana de notas",
	DocumentHomologationLetter:   "carta de homologación",
	DocumentProgrammaticContents: "contenidos programáticos",
}

// Label is the human-readable name shown to students.
func (t DocumentType) Label() string {
	if l, ok := documentLabels[t]; ok {
		return l
	}
	return string(t)
}

// StorageKey is the deterministic blob key for this document type.
func (t DocumentType) StorageKey(nationalID id.NationalID) string {
	if t == DocumentIdentity {
		return fmt.Sprintf("%s/%s", nationalID, t)
	}
	return fmt.Sprintf("%s/%s.pdf", nationalID, t)
}

// Document holds the URLs of the files of one Homologation. At most one
// Document exists per Homologation.
type Document struct {
	ID                      id.DocumentID     `json:"id"`
	HomologationID          id.HomologationID `json:"homologation_id"`
	IdentityDocURL          string            `json:"identity_doc_url,omitempty"`
	BachelorDiplomaURL      string            `json:"bachelor_diploma_url,omitempty"`
	TitleURL                string            `json:"title_url,omitempty"`
	TranscriptURL           string            `json:"transcript_url,omitempty"`
	HomologationLetterURL   string            `json:"homologation_letter_url,omitempty"`
	ProgrammaticContentsURL string            `json:"programmatic_contents_url,omitempty"`
	CreatedAt               time.Time         `json:"created_at"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

func NewDocument(homologationID id.HomologationID, now time.Time) *Document {
	return &Document{
		ID:             id.NewDocumentID(),
		HomologationID: homologationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (d *Document) field(t DocumentType) *string {
	switch t {
	case DocumentIdentity:
		return &d.IdentityDocURL
	case DocumentBachelorDiploma:
		return &d.BachelorDiplomaURL
	case DocumentTitle:
		return &d.TitleURL
	case DocumentTranscript:
		return &d.TranscriptURL
	case DocumentHomologationLetter:
		return &d.HomologationLetterURL
	case DocumentProgrammaticContents:
		return &d.ProgrammaticContentsURL
	}
	return nil
}

// URL returns the stored URL for t, or "" when none was uploaded.
func (d *Document) URL(t DocumentType) string {
	if f := d.field(t); f != nil {
		return *f
	}
	return ""
}

// Merge sets the given URLs, leaving the others untouched.
func (d *Document) Merge(urls map[DocumentType]string, now time.Time) {
	for t, url := range urls {
		if f := d.field(t); f != nil && url != "" {
			*f = url
		}
	}
	d.UpdatedAt = now
}

// URLs lists the stored URLs, identity document first.
func (d *Document) URLs() []string {
	urls := []string{}
	if d == nil {
		return urls
	}
	for _, t := range append([]DocumentType{DocumentIdentity}, SubmittableDocuments...) {
		if u := d.URL(t); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
