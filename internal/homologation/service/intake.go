package service

import (
	"context"
	"errors"
	"slices"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	emailutil "github.com/cavidescun/314q34wefasd/pkg/email"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

// RegisterIntake runs the first stage: it records the contact capture,
// validates the identity document and opens a homologation for the student
// it identifies. A student with a homologation still PENDING gets
// that process back and nothing new is created.
func (s *Service) RegisterIntake(ctx context.Context, cmd models.IntakeCommand) (_ *models.IntakeResult, err error) {
	ctx, finish := s.startStage(ctx, stageIntake)
	defer finish(&err)

	now := s.now(ctx)
	email := emailutil.Normalize(cmd.Email)

	capture := &models.IntakeContactCapture{
		ID:            id.NewIntakeID(),
		Phone:         cmd.Phone,
		Landline:      cmd.Landline,
		Email:         email,
		ClientIP:      requestcontext.ClientIP(ctx),
		DeviceSummary: requestcontext.DeviceSummary(ctx),
		CreatedAt:     now,
	}
	if err := s.intakes.Create(ctx, capture); err != nil {
		return nil, storeError(err, "failed to record intake contact")
	}
	s.logAudit(ctx, audit.EventIntakeCaptured, "intake_id", capture.ID.String())

	validation, err := s.validateIdentity(ctx, cmd)
	if err != nil {
		return nil, err
	}
	nationalID, err := id.ParseNationalID(validation.NationalID)
	if err != nil {
		s.logAudit(ctx, audit.EventIntakeRejected, "reason", "invalid_national_id")
		return nil, dErrors.Wrap(err, dErrors.CodeValidationRejected, "extracted national id is not valid").
			WithReason(string(models.IdentityInvalid))
	}

	release, err := s.locker.Acquire(ctx, nationalID.String())
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, "another intake for this student is in progress").
			WithReason("intake_in_progress")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire intake lock")
	}
	defer release()

	student, err := s.students.FindByNationalID(ctx, nationalID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, storeError(err, "failed to load student")
	}

	var (
		contact *models.Contact
		prior   []*models.Homologation
	)
	if student != nil {
		prior, err = s.homologations.ListByStudent(ctx, student.ID)
		if err != nil {
			return nil, storeError(err, "failed to load homologations")
		}
		contact, err = s.contacts.FindByStudentID(ctx, student.ID)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, storeError(err, "failed to load contact")
		}
		if i := slices.IndexFunc(prior, isPending); i >= 0 {
			s.logAudit(ctx, audit.EventExistingProcessFound,
				"national_id", nationalID.String(),
				"homologation_id", prior[i].ID.String(),
				"status", prior[i].Status.String(),
			)
			return &models.IntakeResult{
				Student:         student,
				Contact:         contact,
				Homologation:    prior[i],
				Identity:        *validation,
				ExistingProcess: true,
			}, nil
		}
	}

	key := models.DocumentIdentity.StorageKey(nationalID)
	url, err := s.storeFile(ctx, key, cmd.DocumentContent, cmd.ContentType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorage, "failed to store identity document").
			WithMeta("document_type", string(models.DocumentIdentity))
	}
	s.metrics.IncDocumentUploaded(string(models.DocumentIdentity))

	created := student == nil
	if created {
		student = models.NewStudent(validation.FullName, nationalID, now)
	}
	homologation := models.NewHomologation(student.ID, now)
	document := models.NewDocument(homologation.ID, now)
	document.Merge(map[models.DocumentType]string{models.DocumentIdentity: url}, now)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if created {
			if err := s.students.Create(ctx, student); err != nil {
				return err
			}
		}
		if contact == nil {
			contact = models.NewContact(student.ID, cmd.Phone, cmd.Landline, email, now)
			if err := s.contacts.Create(ctx, contact); err != nil {
				return err
			}
		} else {
			contact.Apply(cmd.Phone, cmd.Landline, email, now)
			if err := s.contacts.Update(ctx, contact); err != nil {
				return err
			}
		}
		if err := s.homologations.Create(ctx, homologation); err != nil {
			return err
		}
		return s.documents.Create(ctx, document)
	})
	if err != nil {
		s.compensate(ctx, nationalID, student.ID, []models.DocumentType{models.DocumentIdentity})
		return nil, storeError(err, "failed to persist intake")
	}

	if created {
		s.logAudit(ctx, audit.EventStudentCreated, "national_id", nationalID.String())
	}
	s.logAudit(ctx, audit.EventHomologationCreated,
		"national_id", nationalID.String(),
		"homologation_id", homologation.ID.String(),
		"status", homologation.Status.String(),
	)

	return &models.IntakeResult{
		Student:         student,
		Contact:         contact,
		Homologation:    homologation,
		Document:        document,
		Identity:        *validation,
		ExistingProcess: len(prior) > 0,
	}, nil
}

// validateIdentity calls the OCR collaborator and turns anything short of a
// complete, valid reading into ValidationRejected.
func (s *Service) validateIdentity(ctx context.Context, cmd models.IntakeCommand) (*models.IdentityValidation, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeouts.OCR)
	defer cancel()

	validation, err := s.validator.ValidateIdentityDocument(callCtx, cmd.DocumentContent, cmd.DocumentFilename)
	if err != nil {
		s.collaboratorFailed(ctx, "ocr", err)
		s.logAudit(ctx, audit.EventIntakeRejected, "reason", string(models.IdentityError))
		return nil, dErrors.Wrap(err, dErrors.CodeValidationRejected, "identity document could not be validated").
			WithReason(string(models.IdentityError))
	}
	if validation.Accepted() {
		return validation, nil
	}

	reason := string(models.IdentityError)
	msg := "identity document was rejected"
	if validation != nil {
		if validation.Status != "" {
			reason = string(validation.Status)
		}
		if validation.Message != "" {
			msg = validation.Message
		}
		// A valid reading that lacks name or number is still unusable.
		if validation.Status == models.IdentityValid {
			reason = string(models.IdentityInvalid)
		}
	}
	s.logAudit(ctx, audit.EventIntakeRejected, "reason", reason)
	return nil, dErrors.New(dErrors.CodeValidationRejected, msg).WithReason(reason)
}

func (s *Service) storeFile(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeouts.Storage)
	defer cancel()

	url, err := s.storage.StoreFile(callCtx, key, content, contentType)
	if err != nil {
		s.collaboratorFailed(ctx, "storage", err)
		return "", err
	}
	return url, nil
}

func isPending(h *models.Homologation) bool {
	return h.Status == models.StatusPending
}

// compensate deletes the blobs of uploaded that no committed Document of the
// student references. Keys are per student, so a key held by any earlier
// homologation still backs that row and stays. When the references cannot be
// read nothing is deleted. Failures are logged; the original error is what
// the caller reports.
func (s *Service) compensate(ctx context.Context, nationalID id.NationalID, studentID id.StudentID, uploaded []models.DocumentType) {
	if len(uploaded) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	referenced, err := s.referencedDocuments(ctx, studentID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping storage compensation",
			"national_id", nationalID.String(),
			"error", err,
		)
		return
	}
	for _, t := range uploaded {
		key := t.StorageKey(nationalID)
		if referenced[t] {
			s.logger.InfoContext(ctx, "keeping blob referenced by a stored document",
				"national_id", nationalID.String(),
				"key", key,
			)
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, s.timeouts.Storage)
		err := s.storage.DeleteFile(callCtx, key)
		cancel()
		if err != nil {
			s.collaboratorFailed(ctx, "storage", err)
			continue
		}
		s.logAudit(ctx, audit.EventStorageCompensated,
			"national_id", nationalID.String(),
			"key", key,
		)
	}
}

// referencedDocuments reports the document types that hold a URL in any
// committed Document of the student.
func (s *Service) referencedDocuments(ctx context.Context, studentID id.StudentID) (map[models.DocumentType]bool, error) {
	homologations, err := s.homologations.ListByStudent(ctx, studentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return map[models.DocumentType]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	referenced := map[models.DocumentType]bool{}
	for _, h := range homologations {
		doc, err := s.documents.FindByHomologationID(ctx, h.ID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, t := range append([]models.DocumentType{models.DocumentIdentity}, models.SubmittableDocuments...) {
			if doc.URL(t) != "" {
				referenced[t] = true
			}
		}
	}
	return referenced, nil
}
