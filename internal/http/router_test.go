package httpapi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cavidescun/314q34wefasd/internal/homologation/handler"
	"github.com/cavidescun/314q34wefasd/internal/homologation/handler/mocks"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	httpapi "github.com/cavidescun/314q34wefasd/internal/http"
	jwttoken "github.com/cavidescun/314q34wefasd/internal/jwt_token"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	auditmemory "github.com/cavidescun/314q34wefasd/pkg/platform/audit/store/memory"
	"github.com/cavidescun/314q34wefasd/pkg/testutil"
)

const adminToken = "staff-token"

type fixedCounter map[models.Status]int

func (c fixedCounter) StatusCounts(context.Context) (map[models.Status]int, error) { return c, nil }

type routerFixture struct {
	router  http.Handler
	service *mocks.MockService
	jwt     *jwttoken.JWTService
	audit   *auditmemory.InMemoryStore
}

func newRouter(t *testing.T, redisErr error) routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwt := jwttoken.NewJWTService("router-test-signing-key", "homologations", "homologations-api")
	store := auditmemory.NewInMemoryStore()

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:        logger,
		Validator:     jwttoken.NewJWTServiceAdapter(jwt),
		AdminToken:    adminToken,
		Homologations: handler.New(svc, mocks.NewMockCatalogBrowser(ctrl), logger),
		Counter:       fixedCounter{models.StatusPending: 2, models.StatusApproved: 1},
		AuditLog:      store,
		Health: map[string]httpapi.HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return redisErr },
		},
	})
	return routerFixture{router: router, service: svc, jwt: jwt, audit: store}
}

func TestHealth(t *testing.T) {
	t.Run("all dependencies up", func(t *testing.T) {
		f := newRouter(t, nil)
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("one dependency down", func(t *testing.T) {
		f := newRouter(t, errors.New("connection refused"))
		rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		body := testutil.UnmarshalResponse[struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}](t, rr)
		assert.Equal(t, "degraded", body.Status)
		assert.Equal(t, "ok", body.Checks["postgres"])
		assert.Equal(t, "unavailable", body.Checks["redis"])
	})
}

func TestV1RequiresServiceToken(t *testing.T) {
	f := newRouter(t, nil)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/v1/homologations?status=PENDING"))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")

	token, err := f.jwt.GenerateServiceToken("enrollment-portal", nil, time.Minute)
	require.NoError(t, err)
	f.service.EXPECT().ListByStatus(gomock.Any(), models.StatusPending).Return(nil, nil)

	req := testutil.NewRequest(t, http.MethodGet, "/v1/homologations?status=PENDING")
	req.Header.Set("Authorization", "Bearer "+token)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
}

func TestStaffRoutesNeedAdminToken(t *testing.T) {
	f := newRouter(t, nil)
	token, err := f.jwt.GenerateServiceToken("staff-console", nil, time.Minute)
	require.NoError(t, err)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/homologations/ticket/close",
		map[string]string{"national_id": "1020304050", "reason": "duplicado"})
	req.Header.Set("Authorization", "Bearer "+token)
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	f.service.EXPECT().CloseTicket(gomock.Any(), gomock.Any(), "duplicado").Return(&models.Homologation{}, nil)
	req = testutil.NewJSONRequest(t, http.MethodPost, "/v1/homologations/ticket/close",
		map[string]string{"national_id": "1020304050", "reason": "duplicado"})
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Admin-Token", adminToken)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
}

func TestAdminRoutes(t *testing.T) {
	f := newRouter(t, nil)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/admin/status-counts"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.NewRequest(t, http.MethodGet, "/admin/status-counts")
	req.Header.Set("X-Admin-Token", adminToken)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	counts := testutil.UnmarshalResponse[map[string]int](t, rr)
	assert.Equal(t, 2, (*counts)["PENDING"])

	require.NoError(t, f.audit.Append(context.Background(), audit.Event{
		Action:      string(audit.EventIntakeCaptured),
		SubjectHash: audit.HashSubject("1020304050"),
	}))
	req = testutil.NewRequest(t, http.MethodGet, "/admin/students/1.020.304.050/audit-events")
	req.Header.Set("X-Admin-Token", adminToken)
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	events := testutil.UnmarshalResponse[[]audit.Event](t, rr)
	require.Len(t, *events, 1)
	assert.Equal(t, string(audit.EventIntakeCaptured), (*events)[0].Action)
}
