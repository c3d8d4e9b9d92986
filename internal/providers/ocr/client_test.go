package ocr

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
)

const (
	testKey    = "0123456789abcdef0123456789abcdef"
	testVector = "abcdef9876543210"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(config.OCR{Endpoint: url, Email: "ocr@example.edu.co", EncryptKey: testKey, EncryptVector: testVector},
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return c
}

func TestTokenRoundTrip(t *testing.T) {
	signer, err := newTokenSigner(testKey, testVector)
	require.NoError(t, err)

	token := signer.Token("ocr@example.edu.co", fixedNow)
	assert.Regexp(t, "^[0-9a-f]+$", token)
	assert.Zero(t, len(token)%32)

	plain, err := signer.decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, "ocr@example.edu.co _ 20260314150926", plain)
}

func TestNewRejectsBadKeys(t *testing.T) {
	_, err := New(config.OCR{Email: "a@b.co", EncryptKey: "short", EncryptVector: testVector})
	assert.Error(t, err)
	_, err = New(config.OCR{Email: "a@b.co", EncryptKey: testKey, EncryptVector: "short"})
	assert.Error(t, err)
	_, err = New(config.OCR{EncryptKey: testKey, EncryptVector: testVector})
	assert.Error(t, err)
}

func TestValidateIdentityDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("valid document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
			file, header, err := r.FormFile("documento")
			require.NoError(t, err)
			defer file.Close()
			body, _ := io.ReadAll(file)
			assert.Equal(t, "cedula.pdf", header.Filename)
			assert.Equal(t, "pdf-bytes", string(body))
			_, _ = w.Write([]byte(`{"nombresCompletos":"ANA MARIA PEREZ","numeroDocumento":"1020304050"}`))
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL).ValidateIdentityDocument(ctx, []byte("pdf-bytes"), "cedula.pdf")
		require.NoError(t, err)
		assert.True(t, got.Accepted())
		assert.Equal(t, "ANA MARIA PEREZ", got.FullName)
		assert.Equal(t, "1020304050", got.NationalID)
	})

	t.Run("missing document number is invalid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"nombresCompletos":"ANA"}`))
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL).ValidateIdentityDocument(ctx, []byte("x"), "")
		require.NoError(t, err)
		assert.Equal(t, models.IdentityInvalid, got.Status)
		assert.False(t, got.Accepted())
	})

	t.Run("non-200 is an error verdict", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL).ValidateIdentityDocument(ctx, []byte("x"), "")
		require.Error(t, err)
		assert.Equal(t, models.IdentityError, got.Status)
		assert.Equal(t, providers.ErrorProviderOutage, providers.GetCategory(err))
	})

	t.Run("malformed body is bad data", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer srv.Close()

		got, err := newTestClient(t, srv.URL).ValidateIdentityDocument(ctx, []byte("x"), "")
		require.Error(t, err)
		assert.Equal(t, models.IdentityError, got.Status)
		assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
	})
}
