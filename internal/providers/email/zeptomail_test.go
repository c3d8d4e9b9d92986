package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
)

func TestSendConfirmationEmail(t *testing.T) {
	var (
		gotAuth string
		got     sendRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := New(config.Email{APIURL: srv.URL, APIKey: "k-123", FromAddr: "admisiones@example.edu.co"})
	require.NoError(t, err)

	err = c.SendConfirmationEmail(context.Background(), models.ConfirmationEmail{
		To:          "ana@example.com",
		StudentName: "ANA MARIA PEREZ",
		Institution: "SENA",
	})
	require.NoError(t, err)

	assert.Equal(t, "Zoho-enczapikey k-123", gotAuth)
	assert.Equal(t, "admisiones@example.edu.co", got.From.Address)
	assert.Equal(t, defaultFromName, got.From.Name)
	require.Len(t, got.To, 1)
	assert.Equal(t, "ana@example.com", got.To[0].EmailAddress.Address)
	assert.Equal(t, "Ana Maria Perez", got.To[0].EmailAddress.Name)
	assert.Contains(t, got.HTMLBody, "Hola Ana Maria Perez")
	assert.Contains(t, got.HTMLBody, "SENA")
	assert.Contains(t, got.HTMLBody, notSpecified)
}

func TestSendConfirmationEmailFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"TM_3201"}}`))
	}))
	defer srv.Close()

	c, err := New(config.Email{APIURL: srv.URL, APIKey: "bad"})
	require.NoError(t, err)

	err = c.SendConfirmationEmail(context.Background(), models.ConfirmationEmail{To: "ana@example.com"})
	assert.Equal(t, providers.ErrorAuthentication, providers.GetCategory(err))

	err = c.SendConfirmationEmail(context.Background(), models.ConfirmationEmail{To: "not-an-address"})
	assert.Equal(t, providers.ErrorBadData, providers.GetCategory(err))
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(config.Email{})
	assert.Error(t, err)
}
