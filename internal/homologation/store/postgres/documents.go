package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

type Documents struct{ base }

func NewDocuments(db *sql.DB) *Documents {
	return &Documents{base{db: db}}
}

// Create fails with sentinel.ErrConflict when the homologation already has a
// document row (unique index on homologation_id).
func (s *Documents) Create(ctx context.Context, d *models.Document) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO documents (
			id, homologation_id, identity_doc_url, bachelor_diploma_url, title_url,
			transcript_url, homologation_letter_url, programmatic_contents_url, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(d.ID), uuid.UUID(d.HomologationID), d.IdentityDocURL, d.BachelorDiplomaURL, d.TitleURL,
		d.TranscriptURL, d.HomologationLetterURL, d.ProgrammaticContentsURL, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", translate(err))
	}
	return nil
}

func (s *Documents) Update(ctx context.Context, d *models.Document) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE documents SET
			identity_doc_url = $2, bachelor_diploma_url = $3, title_url = $4, transcript_url = $5,
			homologation_letter_url = $6, programmatic_contents_url = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(d.ID), d.IdentityDocURL, d.BachelorDiplomaURL, d.TitleURL, d.TranscriptURL,
		d.HomologationLetterURL, d.ProgrammaticContentsURL, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update document: %w", translate(err))
	}
	return requireAffected(res)
}

func (s *Documents) FindByHomologationID(ctx context.Context, homologationID id.HomologationID) (*models.Document, error) {
	var (
		d                      models.Document
		rawID, rawHomologation uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, homologation_id, identity_doc_url, bachelor_diploma_url, title_url,
			transcript_url, homologation_letter_url, programmatic_contents_url, created_at, updated_at
		FROM documents WHERE homologation_id = $1`, uuid.UUID(homologationID)).
		Scan(&rawID, &rawHomologation, &d.IdentityDocURL, &d.BachelorDiplomaURL, &d.TitleURL,
			&d.TranscriptURL, &d.HomologationLetterURL, &d.ProgrammaticContentsURL, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find document: %w", translate(err))
	}
	d.ID = id.DocumentID(rawID)
	d.HomologationID = id.HomologationID(rawHomologation)
	return &d, nil
}
