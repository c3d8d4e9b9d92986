package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

func TestDocumentTypeStorageKey(t *testing.T) {
	nid := id.NationalID("1020304050")
	assert.Equal(t, "1020304050/identity-doc", DocumentIdentity.StorageKey(nid))
	assert.Equal(t, "1020304050/titulo.pdf", DocumentTitle.StorageKey(nid))
	assert.Equal(t, "1020304050/sabana-notas.pdf", DocumentTranscript.StorageKey(nid))
}

func TestDocumentTypeLabel(t *testing.T) {
	assert.Equal(t, "título a homologar", DocumentTitle.Label())
	assert.Equal(t, "contenidos programáticos", DocumentProgrammaticContents.Label())
	assert.Equal(t, "otro", DocumentType("otro").Label())
}

func TestDocumentMerge(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	doc := NewDocument(id.NewHomologationID(), now)
	doc.Merge(map[DocumentType]string{DocumentIdentity: "https://blob/id"}, now)

	later := now.Add(time.Hour)
	doc.Merge(map[DocumentType]string{
		DocumentTitle:      "https://blob/titulo.pdf",
		DocumentTranscript: "",
	}, later)

	assert.Equal(t, "https://blob/id", doc.URL(DocumentIdentity))
	assert.Equal(t, "https://blob/titulo.pdf", doc.URL(DocumentTitle))
	assert.Empty(t, doc.URL(DocumentTranscript))
	assert.Equal(t, later, doc.UpdatedAt)
}

func TestHomologationTransitionTo(t *testing.T) {
	now := time.Now()
	h := NewHomologation(id.NewStudentID(), now)
	assert.Equal(t, StatusNoDocuments, h.Status)

	err := h.TransitionTo(StatusApproved, now)
	assert.Error(t, err)
	assert.Equal(t, StatusNoDocuments, h.Status)

	assert.NoError(t, h.TransitionTo(StatusPending, now))
	assert.Equal(t, StatusPending, h.Status)
	assert.NoError(t, h.TransitionTo(StatusApproved, now))
}

func TestIdentityValidationAccepted(t *testing.T) {
	assert.True(t, (&IdentityValidation{Status: IdentityValid, FullName: "Ana", NationalID: "123"}).Accepted())
	assert.False(t, (&IdentityValidation{Status: IdentityValid, FullName: "Ana"}).Accepted())
	assert.False(t, (&IdentityValidation{Status: IdentityInvalid, FullName: "Ana", NationalID: "123"}).Accepted())
	var nilValidation *IdentityValidation
	assert.False(t, nilValidation.Accepted())
}
