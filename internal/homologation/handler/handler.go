// Package handler exposes the homologation workflow over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	"github.com/cavidescun/314q34wefasd/pkg/platform/httputil"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,CatalogBrowser

// Service is the workflow the handler drives.
type Service interface {
	RegisterIntake(ctx context.Context, cmd models.IntakeCommand) (*models.IntakeResult, error)
	SubmitDocuments(ctx context.Context, cmd models.SubmitDocumentsCommand) (*models.SubmitResult, error)
	ResolveAcademicData(ctx context.Context, cmd models.ResolveAcademicCommand) (*models.AcademicResult, error)
	Finalize(ctx context.Context, cmd models.FinalizeCommand) (*models.FinalizeResult, error)
	UpdateStatus(ctx context.Context, homologationID id.HomologationID, target models.Status, observations string) (*models.StatusChange, error)
	CloseTicket(ctx context.Context, nationalID id.NationalID, reason string) (*models.Homologation, error)
	GetHomologation(ctx context.Context, homologationID id.HomologationID) (*models.Homologation, error)
	ListByStudent(ctx context.Context, nationalID id.NationalID) ([]*models.Homologation, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Homologation, error)
	ListDetails(ctx context.Context) ([]models.HomologationDetails, error)
	RelatedPrograms(ctx context.Context, nationalID id.NationalID) (*models.RelatedPrograms, error)
	ExportSENA(ctx context.Context, nationalID id.NationalID) (*models.SENAExport, error)
}

// CatalogBrowser backs the catalog endpoints the enrollment form uses.
type CatalogBrowser interface {
	Methodologies(ctx context.Context, program string) ([]string, error)
	Schedules(ctx context.Context, program, methodology string) ([]string, error)
	Cities(ctx context.Context, program, methodology, schedule string) ([]string, error)
	InstitutionPrograms(ctx context.Context, institution string) ([]string, error)
}

type Handler struct {
	service Service
	catalog CatalogBrowser
	logger  *slog.Logger
}

func New(service Service, catalog CatalogBrowser, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, catalog: catalog, logger: logger}
}

// Register mounts the routes on r. Authentication and request middleware
// are applied by the caller; staffOnly guards the staff decisions (status
// changes and ticket closing).
func (h *Handler) Register(r chi.Router, staffOnly ...func(http.Handler) http.Handler) {
	r.Post("/intake", h.handleIntake)

	r.Route("/homologations", func(r chi.Router) {
		r.Get("/", h.handleListByStatus)
		r.Get("/details", h.handleListDetails)
		r.Post("/documents", h.handleSubmitDocuments)
		r.Put("/academic-data", h.handleAcademicData)
		r.Post("/finalize", h.handleFinalize)
		r.Get("/{homologationID}", h.handleGetHomologation)

		r.Group(func(r chi.Router) {
			r.Use(staffOnly...)
			r.Post("/ticket/close", h.handleCloseTicket)
			r.Patch("/{homologationID}/status", h.handleUpdateStatus)
		})
	})

	r.Route("/students/{nationalID}", func(r chi.Router) {
		r.Get("/homologations", h.handleListByStudent)
		r.Get("/related-programs", h.handleRelatedPrograms)
		r.Get("/sena-export", h.handleExportSENA)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/methodologies", h.handleMethodologies)
		r.Get("/schedules", h.handleSchedules)
		r.Get("/cities", h.handleCities)
		r.Get("/institution-programs", h.handleInstitutionPrograms)
	})
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	code := dErrors.GetCode(err)
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"code", string(code),
		"error", err,
	}
	if httputil.StatusFor(code) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

// =============================================================================
// Workflow stages
// =============================================================================

func (h *Handler) handleIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, err := parseMultipart(w, r)
	if err != nil {
		h.fail(ctx, w, "invalid intake form", err)
		return
	}
	defer form.cleanup()

	req := IntakeRequest{
		Phone:    form.value("phone"),
		Landline: form.value("landline"),
		Email:    form.value("email"),
	}
	if err := httputil.Prepare(&req); err != nil {
		h.fail(ctx, w, "invalid intake request", err)
		return
	}
	doc, err := form.file(fieldIdentityDocument)
	if err != nil {
		h.fail(ctx, w, "invalid intake document", err)
		return
	}
	if doc == nil {
		h.fail(ctx, w, "missing intake document",
			dErrors.New(dErrors.CodeValidation, "document is required").WithMeta("field", fieldIdentityDocument))
		return
	}

	result, err := h.service.RegisterIntake(ctx, models.IntakeCommand{
		Phone:            req.Phone,
		Landline:         req.Landline,
		Email:            req.Email,
		DocumentContent:  doc.content,
		DocumentFilename: doc.filename,
		ContentType:      doc.contentType,
	})
	if err != nil {
		h.fail(ctx, w, "intake failed", err)
		return
	}

	status := http.StatusCreated
	if result.ExistingProcess && result.Document == nil {
		status = http.StatusOK
	}
	httputil.WriteJSON(w, status, newIntakeResponse(result))
}

func (h *Handler) handleSubmitDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form, err := parseMultipart(w, r)
	if err != nil {
		h.fail(ctx, w, "invalid documents form", err)
		return
	}
	defer form.cleanup()

	req := SubmitDocumentsRequest{
		NationalID:     form.value("national_id"),
		Institution:    form.value("institution"),
		OriginProgram:  form.value("origin_program"),
		GraduationDate: form.value("graduation_date"),
	}
	if err := httputil.Prepare(&req); err != nil {
		h.fail(ctx, w, "invalid documents request", err)
		return
	}

	var uploads []models.DocumentUpload
	for _, field := range documentFields {
		doc, err := form.file(field.name)
		if err != nil {
			h.fail(ctx, w, "invalid document upload", err)
			return
		}
		if doc == nil {
			continue
		}
		uploads = append(uploads, models.DocumentUpload{
			Type:        field.docType,
			Content:     doc.content,
			ContentType: doc.contentType,
		})
	}

	result, err := h.service.SubmitDocuments(ctx, models.SubmitDocumentsCommand{
		NationalID:     req.parsedNationalID,
		Institution:    req.Institution,
		OriginProgram:  req.OriginProgram,
		GraduationDate: req.parsedDate,
		Documents:      uploads,
	})
	if err != nil {
		h.fail(ctx, w, "document submission failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newSubmitResponse(result))
}

func (h *Handler) handleAcademicData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AcademicDataRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	result, err := h.service.ResolveAcademicData(ctx, models.ResolveAcademicCommand{
		NationalID: req.parsedNationalID,
		Target: models.TargetProgram{
			Program:  req.Program,
			Modality: req.Modality,
			Schedule: req.Schedule,
			City:     req.City,
		},
	})
	if err != nil {
		h.fail(ctx, w, "academic data resolution failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[FinalizeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	result, err := h.service.Finalize(ctx, models.FinalizeCommand{
		NationalID:   req.parsedNationalID,
		Observations: req.Observations,
	})
	if err != nil {
		h.fail(ctx, w, "finalization failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCloseTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CloseTicketRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	homologation, err := h.service.CloseTicket(ctx, req.parsedNationalID, req.Reason)
	if err != nil {
		h.fail(ctx, w, "ticket close failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, homologation)
}

// =============================================================================
// Homologation records
// =============================================================================

func (h *Handler) handleGetHomologation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	homologationID, err := id.ParseHomologationID(chi.URLParam(r, "homologationID"))
	if err != nil {
		h.fail(ctx, w, "invalid homologation id", err)
		return
	}
	homologation, err := h.service.GetHomologation(ctx, homologationID)
	if err != nil {
		h.fail(ctx, w, "homologation lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, homologation)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	homologationID, err := id.ParseHomologationID(chi.URLParam(r, "homologationID"))
	if err != nil {
		h.fail(ctx, w, "invalid homologation id", err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	change, err := h.service.UpdateStatus(ctx, homologationID, req.parsedStatus, req.Observations)
	if err != nil {
		h.fail(ctx, w, "status update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, change)
}

func (h *Handler) handleListByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := models.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.fail(ctx, w, "invalid status filter", err)
		return
	}
	list, err := h.service.ListByStatus(ctx, status)
	if err != nil {
		h.fail(ctx, w, "homologation listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(list))
}

func (h *Handler) handleListDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rows, err := h.service.ListDetails(ctx)
	if err != nil {
		h.fail(ctx, w, "details listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(rows))
}

// =============================================================================
// Student scoped
// =============================================================================

func (h *Handler) studentID(w http.ResponseWriter, r *http.Request) (id.NationalID, bool) {
	nid, err := id.ParseNationalID(chi.URLParam(r, "nationalID"))
	if err != nil {
		h.fail(r.Context(), w, "invalid national id", err)
		return "", false
	}
	return nid, true
}

func (h *Handler) handleListByStudent(w http.ResponseWriter, r *http.Request) {
	nid, ok := h.studentID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	list, err := h.service.ListByStudent(ctx, nid)
	if err != nil {
		h.fail(ctx, w, "student listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(list))
}

func (h *Handler) handleRelatedPrograms(w http.ResponseWriter, r *http.Request) {
	nid, ok := h.studentID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	related, err := h.service.RelatedPrograms(ctx, nid)
	if err != nil {
		h.fail(ctx, w, "related programs lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, related)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) handleExportSENA(w http.ResponseWriter, r *http.Request) {
	nid, ok := h.studentID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	export, err := h.service.ExportSENA(ctx, nid)
	if err != nil {
		h.fail(ctx, w, "sena export failed", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}

// =============================================================================
// Catalog browsing
// =============================================================================

func (h *Handler) browse(w http.ResponseWriter, r *http.Request, name string, fetch func(ctx context.Context) ([]string, error)) {
	ctx := r.Context()
	values, err := fetch(ctx)
	if err != nil {
		h.fail(ctx, w, name+" lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(values))
}

func query(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

func (h *Handler) handleMethodologies(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, "methodologies", func(ctx context.Context) ([]string, error) {
		return h.catalog.Methodologies(ctx, query(r, "program"))
	})
}

func (h *Handler) handleSchedules(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, "schedules", func(ctx context.Context) ([]string, error) {
		return h.catalog.Schedules(ctx, query(r, "program"), query(r, "methodology"))
	})
}

func (h *Handler) handleCities(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, "cities", func(ctx context.Context) ([]string, error) {
		return h.catalog.Cities(ctx, query(r, "program"), query(r, "methodology"), strings.ToUpper(query(r, "schedule")))
	})
}

func (h *Handler) handleInstitutionPrograms(w http.ResponseWriter, r *http.Request) {
	h.browse(w, r, "institution programs", func(ctx context.Context) ([]string, error) {
		return h.catalog.InstitutionPrograms(ctx, query(r, "institution"))
	})
}
