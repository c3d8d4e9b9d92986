package service

import (
	"context"
	"errors"
	"slices"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

// SubmitDocuments runs the second stage: it records the origin credential,
// uploads the supplied documents and moves the homologation to PENDING once
// at least one document arrived.
func (s *Service) SubmitDocuments(ctx context.Context, cmd models.SubmitDocumentsCommand) (_ *models.SubmitResult, err error) {
	ctx, finish := s.startStage(ctx, stageDocuments)
	defer finish(&err)

	for _, upload := range cmd.Documents {
		if !slices.Contains(models.SubmittableDocuments, upload.Type) {
			return nil, dErrors.New(dErrors.CodeValidation, "document type cannot be submitted").
				WithReason("unsupported_document_type").
				WithMeta("document_type", string(upload.Type))
		}
	}

	student, err := s.findStudent(ctx, cmd.NationalID)
	if err != nil {
		return nil, err
	}
	homologation, err := s.latestHomologation(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	now := s.now(ctx)
	homologation.ApplyOrigin(cmd.Institution, cmd.OriginProgram, cmd.GraduationDate, now)

	urls := make(map[models.DocumentType]string, len(cmd.Documents))
	var (
		uploaded []models.DocumentType
		labels   = []string{}
	)
	for _, upload := range cmd.Documents {
		if len(upload.Content) == 0 {
			continue
		}
		key := upload.Type.StorageKey(cmd.NationalID)
		url, err := s.storeFile(ctx, key, upload.Content, upload.ContentType)
		if err != nil {
			s.compensate(ctx, cmd.NationalID, student.ID, uploaded)
			return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to store "+upload.Type.Label()).
				WithMeta("document_type", string(upload.Type))
		}
		uploaded = append(uploaded, upload.Type)
		urls[upload.Type] = url
		labels = append(labels, upload.Type.Label())
		s.metrics.IncDocumentUploaded(string(upload.Type))
	}

	document, err := s.documents.FindByHomologationID(ctx, homologation.ID)
	newDocument := errors.Is(err, sentinel.ErrNotFound)
	if err != nil && !newDocument {
		return nil, storeError(err, "failed to load documents")
	}
	if newDocument {
		document = models.NewDocument(homologation.ID, now)
	}
	document.Merge(urls, now)

	from := homologation.Status
	statusChanged := false
	if len(urls) > 0 && homologation.Status != models.StatusPending {
		if err := homologation.TransitionTo(models.StatusPending, now); err != nil {
			return nil, err
		}
		statusChanged = true
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.homologations.Update(ctx, homologation); err != nil {
			return err
		}
		if newDocument {
			return s.documents.Create(ctx, document)
		}
		return s.documents.Update(ctx, document)
	})
	if err != nil {
		return nil, storeError(err, "failed to persist documents")
	}

	s.logAudit(ctx, audit.EventDocumentsSubmitted,
		"national_id", cmd.NationalID.String(),
		"homologation_id", homologation.ID.String(),
		"status", homologation.Status.String(),
		"documents", len(labels),
	)
	if statusChanged {
		s.metrics.IncTransition(from.String(), homologation.Status.String())
		s.logAudit(ctx, audit.EventStatusChanged,
			"national_id", cmd.NationalID.String(),
			"homologation_id", homologation.ID.String(),
			"status", homologation.Status.String(),
			"from", from.String(),
		)
	}

	return &models.SubmitResult{
		Homologation:   homologation,
		Document:       document,
		ProcessedFiles: labels,
		StatusChanged:  statusChanged,
	}, nil
}
