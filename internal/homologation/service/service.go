// Package service orchestrates the homologation workflow: intake, document
// collection, academic code resolution and finalization, plus the staff
// operations around them.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/internal/homologation/lock"
	"github.com/cavidescun/314q34wefasd/internal/homologation/metrics"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
	"github.com/cavidescun/314q34wefasd/pkg/attrs"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, studentID id.StudentID) (*models.Student, error)
	FindByNationalID(ctx context.Context, nationalID id.NationalID) (*models.Student, error)
}

type ContactStore interface {
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	FindByStudentID(ctx context.Context, studentID id.StudentID) (*models.Contact, error)
}

// HomologationStore lists return the most recent homologation first.
type HomologationStore interface {
	Create(ctx context.Context, h *models.Homologation) error
	Update(ctx context.Context, h *models.Homologation) error
	UpdateStatus(ctx context.Context, homologationID id.HomologationID, status models.Status, at time.Time) error
	FindByID(ctx context.Context, homologationID id.HomologationID) (*models.Homologation, error)
	ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Homologation, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Homologation, error)
	ListAll(ctx context.Context) ([]*models.Homologation, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Update(ctx context.Context, doc *models.Document) error
	FindByHomologationID(ctx context.Context, homologationID id.HomologationID) (*models.Document, error)
}

type IntakeStore interface {
	Create(ctx context.Context, capture *models.IntakeContactCapture) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker serializes intakes per national ID. Acquire fails with
// sentinel.ErrConflict while another intake holds the lock.
type Locker interface {
	Acquire(ctx context.Context, nationalID string) (lock.Release, error)
}

type DocumentValidator interface {
	ValidateIdentityDocument(ctx context.Context, content []byte, filename string) (*models.IdentityValidation, error)
}

type BlobStorage interface {
	StoreFile(ctx context.Context, key string, content []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

type CatalogResolver interface {
	Resolve(ctx context.Context, program, modality, schedule string) catalog.Resolution
	Subjects(ctx context.Context, programCode, curriculumCode string, maxLevel int) ([]catalog.Subject, error)
	RelatedPrograms(ctx context.Context, originProgram string) ([]string, error)
}

type Ticketing interface {
	CreateTicket(ctx context.Context, req models.TicketRequest) (*models.Ticket, error)
	CloseTicket(ctx context.Context, ticketNumber, reason string) error
}

type Notifier interface {
	SendConfirmationEmail(ctx context.Context, msg models.ConfirmationEmail) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Stores groups the record stores. All of them share the TxRunner.
type Stores struct {
	Students      StudentStore
	Contacts      ContactStore
	Homologations HomologationStore
	Documents     DocumentStore
	Intakes       IntakeStore
	Tx            TxRunner
}

// Collaborators groups the external systems the workflow calls.
type Collaborators struct {
	Validator DocumentValidator
	Storage   BlobStorage
	Catalog   CatalogResolver
	Ticketing Ticketing
	Notifier  Notifier
}

// Service orchestrates the homologation stages.
type Service struct {
	students      StudentStore
	contacts      ContactStore
	homologations HomologationStore
	documents     DocumentStore
	intakes       IntakeStore
	tx            TxRunner
	locker        Locker

	validator DocumentValidator
	storage   BlobStorage
	catalog   CatalogResolver
	ticketing Ticketing
	notifier  Notifier

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	timeouts       config.Timeouts
	clock          func() time.Time
	detailsLimit   int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTimeouts bounds each collaborator call. Zero fields keep the defaults.
func WithTimeouts(t config.Timeouts) Option {
	return func(s *Service) {
		if t.OCR > 0 {
			s.timeouts.OCR = t.OCR
		}
		if t.Storage > 0 {
			s.timeouts.Storage = t.Storage
		}
		if t.Ticketing > 0 {
			s.timeouts.Ticketing = t.Ticketing
		}
		if t.Email > 0 {
			s.timeouts.Email = t.Email
		}
	}
}

// WithClock overrides the request time. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.clock = now
	}
}

// WithDetailsConcurrency bounds the lookups the details listing runs at once.
func WithDetailsConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.detailsLimit = n
		}
	}
}

// New constructs a Service. Every store and collaborator is required.
func New(stores Stores, collaborators Collaborators, locker Locker, opts ...Option) (*Service, error) {
	switch {
	case stores.Students == nil, stores.Contacts == nil, stores.Homologations == nil,
		stores.Documents == nil, stores.Intakes == nil:
		return nil, errors.New("all record stores are required")
	case stores.Tx == nil:
		return nil, errors.New("tx runner is required")
	case locker == nil:
		return nil, errors.New("intake locker is required")
	case collaborators.Validator == nil:
		return nil, errors.New("document validator is required")
	case collaborators.Storage == nil:
		return nil, errors.New("blob storage is required")
	case collaborators.Catalog == nil:
		return nil, errors.New("catalog resolver is required")
	case collaborators.Ticketing == nil:
		return nil, errors.New("ticketing client is required")
	case collaborators.Notifier == nil:
		return nil, errors.New("notifier is required")
	}

	s := &Service{
		students:      stores.Students,
		contacts:      stores.Contacts,
		homologations: stores.Homologations,
		documents:     stores.Documents,
		intakes:       stores.Intakes,
		tx:            stores.Tx,
		locker:        locker,
		validator:     collaborators.Validator,
		storage:       collaborators.Storage,
		catalog:       collaborators.Catalog,
		ticketing:     collaborators.Ticketing,
		notifier:      collaborators.Notifier,
		logger:        slog.Default(),
		tracer:        otel.Tracer("homologation/service"),
		timeouts: config.Timeouts{
			OCR:       30 * time.Second,
			Storage:   20 * time.Second,
			Ticketing: 15 * time.Second,
			Email:     10 * time.Second,
		},
		detailsLimit: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) now(ctx context.Context) time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return requestcontext.Now(ctx)
}

// Stage names used for spans, metrics and logs.
const (
	stageIntake    = "intake"
	stageDocuments = "documents"
	stageAcademic  = "academic"
	stageFinalize  = "finalize"
)

// startStage opens the stage span. The returned func records the outcome and
// must be deferred with a pointer to the named error result.
func (s *Service) startStage(ctx context.Context, stage string) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "homologation."+stage)
	return ctx, func(errp *error) {
		outcome := "ok"
		if errp != nil && *errp != nil {
			outcome = string(dErrors.GetCode(*errp))
			span.RecordError(*errp)
			span.SetStatus(codes.Error, outcome)
			s.logger.WarnContext(ctx, "stage failed",
				"stage", stage,
				"code", outcome,
				"reason", dErrors.Reason(*errp),
				"error", *errp,
			)
		}
		span.End()
		s.metrics.ObserveStage(stage, outcome, time.Since(start))
	}
}

// collaboratorFailed records a failed external call under its category.
func (s *Service) collaboratorFailed(ctx context.Context, collaborator string, err error) {
	category := string(providers.GetCategory(err))
	if category == "" {
		category = string(providers.ErrorInternal)
	}
	s.metrics.IncCollaboratorFailure(collaborator, category)
	s.logger.WarnContext(ctx, "collaborator call failed",
		"collaborator", collaborator,
		"category", category,
		"error", err,
	)
}

// storeError translates store facts into domain errors.
func storeError(err error, msg string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	return dErrors.Wrap(err, dErrors.CodePersistence, msg)
}

// findStudent resolves a student by national ID, failing with NotFound.
func (s *Service) findStudent(ctx context.Context, nationalID id.NationalID) (*models.Student, error) {
	student, err := s.students.FindByNationalID(ctx, nationalID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "student not found").WithReason("student_not_found")
	}
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	return student, nil
}

// latestHomologation returns the student's most recent homologation.
func (s *Service) latestHomologation(ctx context.Context, studentID id.StudentID) (*models.Homologation, error) {
	list, err := s.homologations.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "failed to load homologations")
	}
	if len(list) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no homologation found for student").WithReason("homologation_not_found")
	}
	return list[0], nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Action:         string(event),
		SubjectHash:    audit.HashSubject(attrs.ExtractString(attributes, "national_id")),
		HomologationID: attrs.ExtractString(attributes, "homologation_id"),
		Status:         attrs.ExtractString(attributes, "status"),
		Reason:         attrs.ExtractString(attributes, "reason"),
		RequestID:      attrs.ExtractString(attributes, "request_id"),
		ActorID:        requestcontext.Caller(ctx),
	})
}
