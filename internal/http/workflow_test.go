package httpapi_test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/internal/homologation/handler"
	handlermocks "github.com/cavidescun/314q34wefasd/internal/homologation/handler/mocks"
	"github.com/cavidescun/314q34wefasd/internal/homologation/lock"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/homologation/service"
	servicemocks "github.com/cavidescun/314q34wefasd/internal/homologation/service/mocks"
	"github.com/cavidescun/314q34wefasd/internal/homologation/store/memory"
	httpapi "github.com/cavidescun/314q34wefasd/internal/http"
	"github.com/cavidescun/314q34wefasd/pkg/testutil"
)

// TestWorkflowOverHTTP drives the four stages through the real router and
// service, with in-memory stores and mocked external systems.
func TestWorkflowOverHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ocr := servicemocks.NewMockDocumentValidator(ctrl)
	blobs := servicemocks.NewMockBlobStorage(ctrl)
	resolver := servicemocks.NewMockCatalogResolver(ctrl)
	tickets := servicemocks.NewMockTicketing(ctrl)
	notifier := servicemocks.NewMockNotifier(ctrl)

	svc, err := service.New(service.Stores{
		Students:      memory.NewStudents(),
		Contacts:      memory.NewContacts(),
		Homologations: memory.NewHomologations(),
		Documents:     memory.NewDocuments(),
		Intakes:       memory.NewIntakes(),
		Tx:            memory.NewTxRunner(),
	}, service.Collaborators{
		Validator: ocr,
		Storage:   blobs,
		Catalog:   resolver,
		Ticketing: tickets,
		Notifier:  notifier,
	}, lock.NewMemoryLocker(0), service.WithLogger(logger))
	require.NoError(t, err)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:        logger,
		AdminToken:    adminToken,
		Homologations: handler.New(svc, handlermocks.NewMockCatalogBrowser(ctrl), logger),
		Counter:       svc,
	})

	testutil.Given(t, "a student whose identity document is valid", func(t *testing.T) {
		ocr.EXPECT().ValidateIdentityDocument(gomock.Any(), gomock.Any(), "cedula.pdf").
			Return(&models.IdentityValidation{Status: models.IdentityValid, FullName: "ANA PEREZ", NationalID: "1020304050"}, nil)
		blobs.EXPECT().StoreFile(gomock.Any(), "1020304050/identity-doc", gomock.Any(), gomock.Any()).
			Return("https://files.example/1020304050/identity-doc", nil)

		testutil.When(t, "the intake form is posted", func(t *testing.T) {
			req := testutil.NewMultipartRequest(t, http.MethodPost, "/v1/intake",
				map[string]string{"phone": "3001234567", "email": "ana@example.com"},
				testutil.MultipartFile{Field: "document", Filename: "cedula.pdf", Content: []byte("%PDF-1.4")},
			)
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "a homologation starts without documents", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusCreated)
				body := testutil.UnmarshalResponse[handler.IntakeResponse](t, rr)
				assert.Equal(t, models.StatusNoDocuments, body.Result.Homologation.Status)
			})
		})
	})

	testutil.Given(t, "the title and transcript", func(t *testing.T) {
		blobs.EXPECT().StoreFile(gomock.Any(), "1020304050/titulo.pdf", gomock.Any(), gomock.Any()).
			Return("https://files.example/1020304050/titulo.pdf", nil)
		blobs.EXPECT().StoreFile(gomock.Any(), "1020304050/sabana-notas.pdf", gomock.Any(), gomock.Any()).
			Return("https://files.example/1020304050/sabana-notas.pdf", nil)

		testutil.When(t, "the documents are submitted", func(t *testing.T) {
			req := testutil.NewMultipartRequest(t, http.MethodPost, "/v1/homologations/documents",
				map[string]string{
					"national_id":     "1.020.304.050",
					"institution":     "Universidad X",
					"origin_program":  "Tecnología en Sistemas",
					"graduation_date": "2023-06-30",
				},
				testutil.MultipartFile{Field: "titulo", Filename: "titulo.pdf", Content: []byte("%PDF titulo")},
				testutil.MultipartFile{Field: "sabana_notas", Filename: "notas.pdf", Content: []byte("%PDF notas")},
			)
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the homologation becomes pending", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[handler.SubmitResponse](t, rr)
				assert.True(t, body.Result.StatusChanged)
				assert.Equal(t, models.StatusPending, body.Result.Homologation.Status)
			})
		})
	})

	testutil.Given(t, "a catalog that knows the target program", func(t *testing.T) {
		resolver.EXPECT().Resolve(gomock.Any(), "Ingeniería de Sistemas", "VIRTUAL", "").Return(catalog.Resolution{
			Codes:         catalog.ProgramCodes{ProgramCode: "P100", CurriculumCode: "C100"},
			Period:        "2026-2",
			SemesterCount: 9,
		})

		testutil.When(t, "the academic data is resolved", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPut, "/v1/homologations/academic-data", map[string]string{
				"national_id": "1020304050",
				"program":     "Ingeniería de Sistemas",
				"modality":    "virtual",
			})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the codes are stored on the homologation", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				body := testutil.UnmarshalResponse[models.AcademicResult](t, rr)
				assert.Equal(t, "P100", body.Homologation.ProgramCode)
				assert.Equal(t, 9, body.Homologation.SemesterCount)
			})
		})
	})

	testutil.Given(t, "the homologation is already pending", func(t *testing.T) {
		testutil.When(t, "finalization is requested", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/homologations/finalize",
				map[string]string{"national_id": "1020304050"})
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "it is refused without calling ticketing", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusConflict)
				testutil.AssertJSONContains(t, rr, "reason", "already_pending")
			})
		})
	})

	testutil.Given(t, "the staff counts by status", func(t *testing.T) {
		req := testutil.NewRequest(t, http.MethodGet, "/admin/status-counts")
		req.Header.Set("X-Admin-Token", adminToken)
		rr := testutil.DoRequest(router, req)

		testutil.Then(t, "exactly one homologation is pending", func(t *testing.T) {
			testutil.AssertStatusOK(t, rr)
			counts := testutil.UnmarshalResponse[map[string]int](t, rr)
			assert.Equal(t, 1, (*counts)["PENDING"])
			assert.Equal(t, 0, (*counts)["NO_DOCUMENTS"])
		})
	})
}
