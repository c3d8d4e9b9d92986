package service_test

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks StudentStore,ContactStore,HomologationStore,DocumentStore,IntakeStore,TxRunner,Locker,DocumentValidator,BlobStorage,CatalogResolver,Ticketing,Notifier,AuditPublisher

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/internal/homologation/lock"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/homologation/service"
	"github.com/cavidescun/314q34wefasd/internal/homologation/service/mocks"
	"github.com/cavidescun/314q34wefasd/internal/homologation/store/memory"
	"github.com/cavidescun/314q34wefasd/internal/providers"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

// =============================================================================
// Homologation Service Test Suite
// =============================================================================
// Record stores are the in-memory implementations so each test can assert on
// what was persisted. External collaborators are gomock mocks; a call without
// an expectation fails the test, which is how "no ticket was created" and
// "nothing was uploaded" are checked.

const nationalID = id.NationalID("1020304050")

type ServiceSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	students      *memory.Students
	contacts      *memory.Contacts
	homologations *memory.Homologations
	documents     *memory.Documents
	intakes       *memory.Intakes

	validator *mocks.MockDocumentValidator
	storage   *mocks.MockBlobStorage
	catalog   *mocks.MockCatalogResolver
	ticketing *mocks.MockTicketing
	notifier  *mocks.MockNotifier
	publisher *mocks.MockAuditPublisher

	mu     sync.Mutex
	events []audit.Event
	clock  time.Time

	service *service.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.students = memory.NewStudents()
	s.contacts = memory.NewContacts()
	s.homologations = memory.NewHomologations()
	s.documents = memory.NewDocuments()
	s.intakes = memory.NewIntakes()

	s.validator = mocks.NewMockDocumentValidator(s.ctrl)
	s.storage = mocks.NewMockBlobStorage(s.ctrl)
	s.catalog = mocks.NewMockCatalogResolver(s.ctrl)
	s.ticketing = mocks.NewMockTicketing(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)

	s.events = nil
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, event audit.Event) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.events = append(s.events, event)
			return nil
		}).AnyTimes()

	s.clock = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s.service = s.newService(lock.NewMemoryLocker(time.Minute))
}

func (s *ServiceSuite) newService(locker service.Locker) *service.Service {
	svc, err := service.New(s.stores(), s.collaborators(), locker,
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithAuditPublisher(s.publisher),
		service.WithClock(s.tick),
	)
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) stores() service.Stores {
	return service.Stores{
		Students:      s.students,
		Contacts:      s.contacts,
		Homologations: s.homologations,
		Documents:     s.documents,
		Intakes:       s.intakes,
		Tx:            memory.NewTxRunner(),
	}
}

func (s *ServiceSuite) collaborators() service.Collaborators {
	return service.Collaborators{
		Validator: s.validator,
		Storage:   s.storage,
		Catalog:   s.catalog,
		Ticketing: s.ticketing,
		Notifier:  s.notifier,
	}
}

// tick advances the clock so records created in sequence sort by recency.
func (s *ServiceSuite) tick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *ServiceSuite) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

// seed stores a student with a contact and one homologation in status.
func (s *ServiceSuite) seed(status models.Status) (*models.Student, *models.Homologation) {
	ctx := context.Background()
	now := s.tick()
	student := models.NewStudent("Ana María Pérez", nationalID, now)
	s.Require().NoError(s.students.Create(ctx, student))
	s.Require().NoError(s.contacts.Create(ctx, models.NewContact(student.ID, "3001234567", "", "ana@example.com", now)))

	h := models.NewHomologation(student.ID, now)
	h.Status = status
	h.Institution = "Universidad X"
	h.OriginProgram = "Ingeniería Y"
	h.TargetProgram = "Ingeniería de Sistemas"
	s.Require().NoError(s.homologations.Create(ctx, h))
	return student, h
}

// failingDocuments refuses new Document rows so a stage fails after its
// uploads went through.
type failingDocuments struct {
	*memory.Documents
}

func (failingDocuments) Create(context.Context, *models.Document) error {
	return sentinel.ErrUnavailable
}

func (s *ServiceSuite) serviceWithFailingDocuments() *service.Service {
	stores := s.stores()
	stores.Documents = failingDocuments{s.documents}
	svc, err := service.New(stores, s.collaborators(), lock.NewMemoryLocker(time.Minute),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		service.WithAuditPublisher(s.publisher),
		service.WithClock(s.tick),
	)
	s.Require().NoError(err)
	return svc
}

// attachDocument stores a Document for h holding the given URLs.
func (s *ServiceSuite) attachDocument(h *models.Homologation, urls map[models.DocumentType]string) *models.Document {
	doc := models.NewDocument(h.ID, s.tick())
	doc.Merge(urls, s.tick())
	s.Require().NoError(s.documents.Create(context.Background(), doc))
	return doc
}

func (s *ServiceSuite) intakeCommand() models.IntakeCommand {
	return models.IntakeCommand{
		Phone:            "3001234567",
		Email:            " Ana@Example.com ",
		DocumentContent:  []byte("%PDF-cedula"),
		DocumentFilename: "cedula.pdf",
		ContentType:      "application/pdf",
	}
}

func (s *ServiceSuite) expectValidIdentity() {
	s.validator.EXPECT().
		ValidateIdentityDocument(gomock.Any(), []byte("%PDF-cedula"), "cedula.pdf").
		Return(&models.IdentityValidation{
			Status:     models.IdentityValid,
			FullName:   "Ana María Pérez",
			NationalID: "1.020.304.050",
		}, nil)
}

func (s *ServiceSuite) requireCode(err error, code dErrors.Code, reason string) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "expected %s, got %v", code, err)
	if reason != "" {
		s.Equal(reason, dErrors.Reason(err))
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("missing store is rejected", func() {
		stores := s.stores()
		stores.Documents = nil
		_, err := service.New(stores, s.collaborators(), lock.NewMemoryLocker(0))
		s.ErrorContains(err, "record stores are required")
	})

	s.Run("missing ticketing is rejected", func() {
		collaborators := s.collaborators()
		collaborators.Ticketing = nil
		_, err := service.New(s.stores(), collaborators, lock.NewMemoryLocker(0))
		s.ErrorContains(err, "ticketing client is required")
	})

	s.Run("missing locker is rejected", func() {
		_, err := service.New(s.stores(), s.collaborators(), nil)
		s.ErrorContains(err, "intake locker is required")
	})
}

// =============================================================================
// Stage 1: Intake
// =============================================================================

func (s *ServiceSuite) TestRegisterIntake() {
	ctx := context.Background()

	s.Run("invalid document keeps only the contact capture", func() {
		s.SetupTest()
		s.validator.EXPECT().ValidateIdentityDocument(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.IdentityValidation{Status: models.IdentityInvalid, Message: "documento ilegible"}, nil)

		_, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodeValidationRejected, "invalid")
		s.Contains(err.Error(), "documento ilegible")

		captures := s.intakes.List()
		s.Require().Len(captures, 1)
		s.Equal("ana@example.com", captures[0].Email)
		_, err = s.students.FindByNationalID(ctx, nationalID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		all, _ := s.homologations.ListAll(ctx)
		s.Empty(all)
		s.Contains(s.actions(), string(audit.EventIntakeRejected))
	})

	s.Run("valid status without a national id is rejected", func() {
		s.SetupTest()
		s.validator.EXPECT().ValidateIdentityDocument(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.IdentityValidation{Status: models.IdentityValid, FullName: "Ana"}, nil)

		_, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodeValidationRejected, "invalid")
	})

	s.Run("ocr failure is reported as an error status", func() {
		s.SetupTest()
		s.validator.EXPECT().ValidateIdentityDocument(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, providers.NewProviderError(providers.ErrorTimeout, "ocr", "deadline", context.DeadlineExceeded))

		_, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodeValidationRejected, "error")
		s.Len(s.intakes.List(), 1)
	})

	s.Run("new student gets student contact homologation and identity document", func() {
		s.SetupTest()
		s.expectValidIdentity()
		s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/identity-doc", []byte("%PDF-cedula"), "application/pdf").
			Return("https://blob/1020304050/identity-doc", nil)

		result, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.Require().NoError(err)
		s.False(result.ExistingProcess)
		s.Equal(nationalID, result.Student.NationalID)
		s.Equal("Ana María Pérez", result.Student.FullName)
		s.Equal("ana@example.com", result.Contact.Email)
		s.Equal(models.StatusNoDocuments, result.Homologation.Status)
		s.Equal("https://blob/1020304050/identity-doc", result.Document.IdentityDocURL)

		stored, err := s.documents.FindByHomologationID(ctx, result.Homologation.ID)
		s.Require().NoError(err)
		s.Equal("https://blob/1020304050/identity-doc", stored.IdentityDocURL)
		s.Empty(stored.TitleURL)

		s.Contains(s.actions(), string(audit.EventHomologationCreated))
		for _, e := range s.events {
			s.NotContains(e.SubjectHash, nationalID.String())
		}
	})

	s.Run("pending process is returned without creating anything", func() {
		s.SetupTest()
		student, pending := s.seed(models.StatusPending)
		s.expectValidIdentity()

		result, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.Require().NoError(err)
		s.True(result.ExistingProcess)
		s.Equal(pending.ID, result.Homologation.ID)
		s.Equal(student.ID, result.Student.ID)
		s.Nil(result.Document)

		list, _ := s.homologations.ListByStudent(ctx, student.ID)
		s.Len(list, 1)
	})

	s.Run("returning student gets a new homologation and updated contact", func() {
		s.SetupTest()
		student, previous := s.seed(models.StatusRejected)
		s.expectValidIdentity()
		s.storage.EXPECT().StoreFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("https://blob/id", nil)

		cmd := s.intakeCommand()
		cmd.Phone = "3119998877"
		result, err := s.service.RegisterIntake(ctx, cmd)
		s.Require().NoError(err)
		s.True(result.ExistingProcess)
		s.NotEqual(previous.ID, result.Homologation.ID)
		s.Equal(student.ID, result.Student.ID)

		contact, err := s.contacts.FindByStudentID(ctx, student.ID)
		s.Require().NoError(err)
		s.Equal("3119998877", contact.Phone)

		list, _ := s.homologations.ListByStudent(ctx, student.ID)
		s.Require().Len(list, 2)
		s.Equal(result.Homologation.ID, list[0].ID)
	})

	s.Run("pending older homologation is returned even behind a newer one", func() {
		s.SetupTest()
		student, pending := s.seed(models.StatusPending)
		newer := models.NewHomologation(student.ID, s.tick())
		s.Require().NoError(s.homologations.Create(ctx, newer))
		s.expectValidIdentity()

		result, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.Require().NoError(err)
		s.True(result.ExistingProcess)
		s.Equal(pending.ID, result.Homologation.ID)

		list, _ := s.homologations.ListByStudent(ctx, student.ID)
		s.Len(list, 2)
	})

	s.Run("failed write keeps the identity blob of an earlier homologation", func() {
		s.SetupTest()
		_, previous := s.seed(models.StatusApproved)
		s.attachDocument(previous, map[models.DocumentType]string{
			models.DocumentIdentity: "https://blob/1020304050/identity-doc",
		})
		s.expectValidIdentity()
		s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/identity-doc", gomock.Any(), gomock.Any()).
			Return("https://blob/1020304050/identity-doc", nil)

		_, err := s.serviceWithFailingDocuments().RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodePersistence, "")

		stored, err := s.documents.FindByHomologationID(ctx, previous.ID)
		s.Require().NoError(err)
		s.Equal("https://blob/1020304050/identity-doc", stored.IdentityDocURL)
		s.NotContains(s.actions(), string(audit.EventStorageCompensated))
	})

	s.Run("failed write deletes the identity blob of a new student", func() {
		s.SetupTest()
		s.expectValidIdentity()
		gomock.InOrder(
			s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/identity-doc", gomock.Any(), gomock.Any()).
				Return("https://blob/1020304050/identity-doc", nil),
			s.storage.EXPECT().DeleteFile(gomock.Any(), "1020304050/identity-doc").Return(nil),
		)

		_, err := s.serviceWithFailingDocuments().RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodePersistence, "")
		s.Contains(s.actions(), string(audit.EventStorageCompensated))
	})

	s.Run("held intake lock is a conflict", func() {
		s.SetupTest()
		locker := mocks.NewMockLocker(s.ctrl)
		locker.EXPECT().Acquire(gomock.Any(), "1020304050").Return(nil, sentinel.ErrConflict)
		svc := s.newService(locker)
		s.expectValidIdentity()

		_, err := svc.RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodeConflict, "intake_in_progress")
	})

	s.Run("concurrent intakes for the same student create one homologation", func() {
		s.SetupTest()
		s.validator.EXPECT().ValidateIdentityDocument(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&models.IdentityValidation{Status: models.IdentityValid, FullName: "Ana", NationalID: "1020304050"}, nil).
			Times(2)
		release := make(chan struct{})
		s.storage.EXPECT().StoreFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, string, []byte, string) (string, error) {
				<-release
				return "https://blob/id", nil
			}).MaxTimes(2)

		errs := make(chan error, 2)
		for range 2 {
			go func() {
				_, err := s.service.RegisterIntake(ctx, s.intakeCommand())
				errs <- err
			}()
		}
		first := <-errs
		close(release)
		second := <-errs

		s.requireCode(first, dErrors.CodeConflict, "intake_in_progress")
		s.NoError(second)
		all, _ := s.homologations.ListAll(ctx)
		s.Len(all, 1)
	})

	s.Run("storage failure creates no records", func() {
		s.SetupTest()
		s.expectValidIdentity()
		s.storage.EXPECT().StoreFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", providers.NewProviderError(providers.ErrorProviderOutage, "oss", "unavailable", nil))

		_, err := s.service.RegisterIntake(ctx, s.intakeCommand())
		s.requireCode(err, dErrors.CodeStorage, "")
		de, _ := dErrors.As(err)
		s.Equal(string(models.DocumentIdentity), de.Meta["document_type"])
		_, err = s.students.FindByNationalID(ctx, nationalID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

// =============================================================================
// Stage 2: Document collection
// =============================================================================

func (s *ServiceSuite) submitCommand(docs ...models.DocumentUpload) models.SubmitDocumentsCommand {
	return models.SubmitDocumentsCommand{
		NationalID:     nationalID,
		Institution:    "Universidad X",
		OriginProgram:  "Ingeniería Y",
		GraduationDate: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
		Documents:      docs,
	}
}

func titleUpload() models.DocumentUpload {
	return models.DocumentUpload{Type: models.DocumentTitle, Content: []byte("%PDF-titulo"), ContentType: "application/pdf"}
}

func (s *ServiceSuite) TestSubmitDocuments() {
	ctx := context.Background()

	s.Run("title upload records origin and moves to pending", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusNoDocuments)
		s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/titulo.pdf", []byte("%PDF-titulo"), "application/pdf").
			Return("https://blob/1020304050/titulo.pdf", nil)

		result, err := s.service.SubmitDocuments(ctx, s.submitCommand(titleUpload()))
		s.Require().NoError(err)
		s.True(result.StatusChanged)
		s.Equal([]string{"título a homologar"}, result.ProcessedFiles)

		stored, err := s.homologations.FindByID(ctx, h.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, stored.Status)
		s.Equal("Universidad X", stored.Institution)
		s.Equal("Ingeniería Y", stored.OriginProgram)
		s.Equal("2023-06-30", stored.GraduationDate.Format(time.DateOnly))

		doc, err := s.documents.FindByHomologationID(ctx, h.ID)
		s.Require().NoError(err)
		s.Equal("https://blob/1020304050/titulo.pdf", doc.TitleURL)
	})

	s.Run("resubmitting is idempotent", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusNoDocuments)
		s.storage.EXPECT().StoreFile(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://blob/1020304050/titulo.pdf", nil).Times(2)

		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(titleUpload()))
		s.Require().NoError(err)
		first, err := s.documents.FindByHomologationID(ctx, h.ID)
		s.Require().NoError(err)

		result, err := s.service.SubmitDocuments(ctx, s.submitCommand(titleUpload()))
		s.Require().NoError(err)
		s.False(result.StatusChanged)
		s.Equal(models.StatusPending, result.Homologation.Status)
		s.Equal(first.ID, result.Document.ID)
	})

	s.Run("no documents leaves status untouched", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusNoDocuments)

		result, err := s.service.SubmitDocuments(ctx, s.submitCommand(
			models.DocumentUpload{Type: models.DocumentTranscript},
		))
		s.Require().NoError(err)
		s.False(result.StatusChanged)
		s.Empty(result.ProcessedFiles)

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusNoDocuments, stored.Status)
		s.Equal("Universidad X", stored.Institution)
	})

	s.Run("failed upload deletes the blobs of this call", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusNoDocuments)
		gomock.InOrder(
			s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/titulo.pdf", gomock.Any(), gomock.Any()).
				Return("https://blob/titulo.pdf", nil),
			s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/sabana-notas.pdf", gomock.Any(), gomock.Any()).
				Return("", providers.NewProviderError(providers.ErrorProviderOutage, "oss", "unavailable", nil)),
			s.storage.EXPECT().DeleteFile(gomock.Any(), "1020304050/titulo.pdf").Return(nil),
		)

		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(
			titleUpload(),
			models.DocumentUpload{Type: models.DocumentTranscript, Content: []byte("%PDF-notas")},
		))
		s.requireCode(err, dErrors.CodeStorage, "")
		de, _ := dErrors.As(err)
		s.Equal(string(models.DocumentTranscript), de.Meta["document_type"])

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusNoDocuments, stored.Status)
		_, err = s.documents.FindByHomologationID(ctx, h.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Contains(s.actions(), string(audit.EventStorageCompensated))
	})

	s.Run("failed upload keeps blobs a stored document points to", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		s.attachDocument(h, map[models.DocumentType]string{
			models.DocumentTitle: "https://blob/1020304050/titulo.pdf",
		})
		gomock.InOrder(
			s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/titulo.pdf", gomock.Any(), gomock.Any()).
				Return("https://blob/1020304050/titulo.pdf", nil),
			s.storage.EXPECT().StoreFile(gomock.Any(), "1020304050/sabana-notas.pdf", gomock.Any(), gomock.Any()).
				Return("", providers.NewProviderError(providers.ErrorProviderOutage, "oss", "unavailable", nil)),
		)

		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(
			titleUpload(),
			models.DocumentUpload{Type: models.DocumentTranscript, Content: []byte("%PDF-notas")},
		))
		s.requireCode(err, dErrors.CodeStorage, "")

		doc, err := s.documents.FindByHomologationID(ctx, h.ID)
		s.Require().NoError(err)
		s.Equal("https://blob/1020304050/titulo.pdf", doc.TitleURL)
		s.NotContains(s.actions(), string(audit.EventStorageCompensated))
	})

	s.Run("identity document cannot be resubmitted here", func() {
		s.SetupTest()
		s.seed(models.StatusNoDocuments)

		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(
			models.DocumentUpload{Type: models.DocumentIdentity, Content: []byte("x")},
		))
		s.requireCode(err, dErrors.CodeValidation, "unsupported_document_type")
	})

	s.Run("unknown student", func() {
		s.SetupTest()
		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(titleUpload()))
		s.requireCode(err, dErrors.CodeNotFound, "student_not_found")
	})

	s.Run("student without homologation", func() {
		s.SetupTest()
		s.Require().NoError(s.students.Create(ctx, models.NewStudent("Ana", nationalID, s.tick())))
		_, err := s.service.SubmitDocuments(ctx, s.submitCommand(titleUpload()))
		s.requireCode(err, dErrors.CodeNotFound, "homologation_not_found")
	})
}

// =============================================================================
// Stage 3: Academic resolution
// =============================================================================

func (s *ServiceSuite) TestResolveAcademicData() {
	ctx := context.Background()
	cmd := models.ResolveAcademicCommand{
		NationalID: nationalID,
		Target: models.TargetProgram{
			Program:  "Ingeniería de Sistemas",
			Modality: "presencial",
			Schedule: "nocturna",
			City:     "Bogotá",
		},
	}

	s.Run("resolved codes are persisted", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		s.catalog.EXPECT().Resolve(gomock.Any(), "Ingeniería de Sistemas", "PRESENCIAL", "NOCTURNA").
			Return(catalog.Resolution{
				Codes:         catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2020N"},
				Period:        "26P01",
				SemesterCount: 6,
			})

		result, err := s.service.ResolveAcademicData(ctx, cmd)
		s.Require().NoError(err)
		s.Empty(result.Degraded)

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal("ISIS", stored.ProgramCode)
		s.Equal("ISIS2020N", stored.CurriculumCode)
		s.Equal("26P01", stored.Period)
		s.Equal(6, stored.SemesterCount)
		s.Equal("NOCTURNA", stored.Schedule)
		s.Equal("Bogotá", stored.City)
	})

	s.Run("no catalog match still updates the target", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		s.catalog.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(catalog.Resolution{})

		_, err := s.service.ResolveAcademicData(ctx, cmd)
		s.Require().NoError(err)

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal("Ingeniería de Sistemas", stored.TargetProgram)
		s.Equal("PRESENCIAL", stored.Modality)
		s.Equal("NOCTURNA", stored.Schedule)
		s.Equal("Bogotá", stored.City)
		s.Empty(stored.ProgramCode)
		s.Empty(stored.CurriculumCode)
		s.Empty(stored.Period)
		s.Zero(stored.SemesterCount)
	})

	s.Run("degraded lookups are reported not failed", func() {
		s.SetupTest()
		s.seed(models.StatusPending)
		s.catalog.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(catalog.Resolution{
				Codes:    catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2020N"},
				Degraded: []string{catalog.LookupPeriod},
			})

		result, err := s.service.ResolveAcademicData(ctx, cmd)
		s.Require().NoError(err)
		s.Equal([]string{catalog.LookupPeriod}, result.Degraded)
		s.Contains(s.actions(), string(audit.EventCatalogDegraded))
	})

	s.Run("program is required", func() {
		s.SetupTest()
		bad := cmd
		bad.Target.Program = "  "
		_, err := s.service.ResolveAcademicData(ctx, bad)
		s.requireCode(err, dErrors.CodeValidation, "missing_program")
	})
}

// =============================================================================
// Stage 4: Finalization
// =============================================================================

func (s *ServiceSuite) TestFinalize() {
	ctx := context.Background()
	cmd := models.FinalizeCommand{NationalID: nationalID, Observations: "Revisar sábana"}

	s.Run("no documents is refused before ticketing", func() {
		s.SetupTest()
		s.seed(models.StatusNoDocuments)
		_, err := s.service.Finalize(ctx, cmd)
		s.requireCode(err, dErrors.CodePreconditionFailed, "no_documents")
	})

	s.Run("already pending is refused", func() {
		s.SetupTest()
		s.seed(models.StatusPending)
		_, err := s.service.Finalize(ctx, cmd)
		s.requireCode(err, dErrors.CodePreconditionFailed, "already_pending")
	})

	s.Run("missing contact email is refused", func() {
		s.SetupTest()
		student := models.NewStudent("Ana", nationalID, s.tick())
		s.Require().NoError(s.students.Create(ctx, student))
		h := models.NewHomologation(student.ID, s.tick())
		h.Status = models.StatusStarted
		s.Require().NoError(s.homologations.Create(ctx, h))

		_, err := s.service.Finalize(ctx, cmd)
		s.requireCode(err, dErrors.CodePreconditionFailed, "missing_contact_email")
	})

	s.Run("ticket failure writes nothing and sends nothing", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusStarted)
		s.ticketing.EXPECT().CreateTicket(gomock.Any(), gomock.Any()).
			Return(nil, providers.NewProviderError(providers.ErrorProviderOutage, "zoho", "down", nil))

		_, err := s.service.Finalize(ctx, cmd)
		s.requireCode(err, dErrors.CodeTicketingUnavailable, "")

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusStarted, stored.Status)
		s.Empty(stored.TicketNumber)
	})

	s.Run("empty ticket number is a ticketing failure", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusStarted)
		s.ticketing.EXPECT().CreateTicket(gomock.Any(), gomock.Any()).Return(&models.Ticket{Number: " "}, nil)

		_, err := s.service.Finalize(ctx, cmd)
		s.requireCode(err, dErrors.CodeTicketingUnavailable, "missing_ticket_number")
		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusStarted, stored.Status)
	})

	s.Run("success commits ticket status and observations", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusStarted)
		s.ticketing.EXPECT().CreateTicket(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req models.TicketRequest) (*models.Ticket, error) {
				s.Equal(nationalID, req.NationalID)
				s.Equal("ana@example.com", req.PersonalEmail)
				s.Equal("Ingeniería de Sistemas", req.Program)
				s.NotEmpty(req.Subject)
				return &models.Ticket{Number: "T-1001"}, nil
			})
		s.notifier.EXPECT().SendConfirmationEmail(gomock.Any(), models.ConfirmationEmail{
			To:          "ana@example.com",
			StudentName: "Ana María Pérez",
			Institution: "Universidad X",
			Program:     "Ingeniería Y",
		}).Return(nil)

		result, err := s.service.Finalize(ctx, cmd)
		s.Require().NoError(err)
		s.True(result.Ticket.Created)
		s.Equal("T-1001", result.Ticket.TicketNumber)
		s.True(result.Email.Delivered)

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusPending, stored.Status)
		s.Equal("T-1001", stored.TicketNumber)
		s.Equal("Revisar sábana", stored.Observations)
	})

	s.Run("email failure is reported and the stage still commits", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusRejected)
		s.ticketing.EXPECT().CreateTicket(gomock.Any(), gomock.Any()).Return(&models.Ticket{Number: "T-2002"}, nil)
		s.notifier.EXPECT().SendConfirmationEmail(gomock.Any(), gomock.Any()).
			Return(providers.NewProviderError(providers.ErrorAuthentication, "zeptomail", "bad key", nil))

		result, err := s.service.Finalize(ctx, models.FinalizeCommand{NationalID: nationalID})
		s.Require().NoError(err)
		s.False(result.Email.Delivered)
		s.Equal("No fue posible enviar el correo de confirmación", result.Email.Message)
		s.NotContains(result.Email.Message, "bad key")

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusPending, stored.Status)
		s.Equal("T-2002", stored.TicketNumber)
		s.Empty(stored.Observations)
		s.Contains(s.actions(), string(audit.EventNotificationFailed))
	})
}

// =============================================================================
// Status and ticket operations
// =============================================================================

func (s *ServiceSuite) TestUpdateStatus() {
	ctx := context.Background()

	s.Run("no documents cannot be approved", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusNoDocuments)
		_, err := s.service.UpdateStatus(ctx, h.ID, models.StatusApproved, "")
		s.requireCode(err, dErrors.CodeInvalidTransition, "no_documents")

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusNoDocuments, stored.Status)
	})

	s.Run("pending is approved with observations", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		change, err := s.service.UpdateStatus(ctx, h.ID, models.StatusApproved, "Cumple requisitos")
		s.Require().NoError(err)
		s.Equal(models.StatusPending, change.From)
		s.Equal(models.StatusApproved, change.To)

		stored, _ := s.homologations.FindByID(ctx, h.ID)
		s.Equal(models.StatusApproved, stored.Status)
		s.Equal("Cumple requisitos", stored.Observations)

		var changed []audit.Event
		for _, e := range s.events {
			if e.Action == string(audit.EventStatusChanged) {
				changed = append(changed, e)
			}
		}
		s.Require().Len(changed, 1)
		s.Equal(audit.HashSubject(nationalID.String()), changed[0].SubjectHash)
		s.Equal(string(models.StatusApproved), changed[0].Status)
	})

	s.Run("unknown homologation", func() {
		s.SetupTest()
		_, err := s.service.UpdateStatus(ctx, id.NewHomologationID(), models.StatusApproved, "")
		s.requireCode(err, dErrors.CodeNotFound, "")
	})
}

func (s *ServiceSuite) TestCloseTicket() {
	ctx := context.Background()

	s.Run("homologation without ticket", func() {
		s.SetupTest()
		s.seed(models.StatusPending)
		_, err := s.service.CloseTicket(ctx, nationalID, "Solicitud atendida")
		s.requireCode(err, dErrors.CodePreconditionFailed, "no_ticket")
	})

	s.Run("closes the latest ticket", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		h.TicketNumber = "T-1001"
		s.Require().NoError(s.homologations.Update(ctx, h))
		s.ticketing.EXPECT().CloseTicket(gomock.Any(), "T-1001", "Solicitud atendida").Return(nil)

		closed, err := s.service.CloseTicket(ctx, nationalID, "Solicitud atendida")
		s.Require().NoError(err)
		s.Equal(h.ID, closed.ID)
		s.Contains(s.actions(), string(audit.EventTicketClosed))
	})
}

// =============================================================================
// Listings and export
// =============================================================================

func (s *ServiceSuite) TestListDetails() {
	ctx := context.Background()
	s.SetupTest()
	_, h := s.seed(models.StatusPending)
	doc := models.NewDocument(h.ID, s.tick())
	doc.Merge(map[models.DocumentType]string{
		models.DocumentIdentity: "https://blob/id",
		models.DocumentTitle:    "https://blob/titulo.pdf",
	}, s.tick())
	s.Require().NoError(s.documents.Create(ctx, doc))

	orphan := models.NewHomologation(id.NewStudentID(), s.tick())
	s.Require().NoError(s.homologations.Create(ctx, orphan))

	rows, err := s.service.ListDetails(ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	row := rows[0]
	s.Equal(nationalID, row.NationalID)
	s.Equal("Ana María Pérez", row.StudentName)
	s.Equal("No especificado", row.EducationLevel)
	s.Equal("Ingeniería Y", row.OriginProgram)
	s.Equal("Sin observaciones", row.Observations)
	s.Equal([]string{"https://blob/id", "https://blob/titulo.pdf"}, row.DocumentURLs)
}

func (s *ServiceSuite) TestStatusCounts() {
	s.SetupTest()
	s.seed(models.StatusPending)

	counts, err := s.service.StatusCounts(context.Background())
	s.Require().NoError(err)
	s.Len(counts, len(models.AllStatuses))
	s.Equal(1, counts[models.StatusPending])
	s.Equal(0, counts[models.StatusApproved])
}

func (s *ServiceSuite) TestRelatedPrograms() {
	ctx := context.Background()
	s.SetupTest()
	s.seed(models.StatusPending)
	s.catalog.EXPECT().RelatedPrograms(gomock.Any(), "Ingeniería Y").
		Return([]string{"INGENIERIA DE SISTEMAS"}, nil)

	related, err := s.service.RelatedPrograms(ctx, nationalID)
	s.Require().NoError(err)
	s.Equal("Universidad X", related.Institution)
	s.Equal([]string{"INGENIERIA DE SISTEMAS"}, related.Programs)
}

func (s *ServiceSuite) TestExportSENA() {
	ctx := context.Background()

	s.Run("incomplete academic codes", func() {
		s.SetupTest()
		s.seed(models.StatusPending)
		_, err := s.service.ExportSENA(ctx, nationalID)
		s.requireCode(err, dErrors.CodePreconditionFailed, "missing_academic_codes")
	})

	s.Run("no subjects", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		h.ProgramCode, h.CurriculumCode, h.SemesterCount = "ISIS", "ISIS2020D", 2
		s.Require().NoError(s.homologations.Update(ctx, h))
		s.catalog.EXPECT().Subjects(gomock.Any(), "ISIS", "ISIS2020D", 2).Return(nil, nil)

		_, err := s.service.ExportSENA(ctx, nationalID)
		s.requireCode(err, dErrors.CodeNotFound, "subjects_not_found")
	})

	s.Run("workbook is built", func() {
		s.SetupTest()
		_, h := s.seed(models.StatusPending)
		h.ProgramCode, h.CurriculumCode, h.SemesterCount, h.Period = "ISIS", "ISIS2020D", 2, "26P01"
		s.Require().NoError(s.homologations.Update(ctx, h))
		s.catalog.EXPECT().Subjects(gomock.Any(), "ISIS", "ISIS2020D", 2).Return([]catalog.Subject{
			{SubjectCode: "MAT101", Level: 1, Name: "Matemáticas"},
			{SubjectCode: "CUN200", Level: 2, Name: "Cátedra cunista"},
		}, nil)

		out, err := s.service.ExportSENA(ctx, nationalID)
		s.Require().NoError(err)
		s.Equal(2, out.Rows)
		s.Equal("homologacion_sena_1020304050.xlsx", out.Filename)
		s.NotEmpty(out.Content)
		s.Contains(s.actions(), string(audit.EventHomologationExported))
	})
}
