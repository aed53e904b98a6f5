package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"checkout-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResponseProvider_UpsertContact(t *testing.T) {
	var got getResponseContactRequest
	var token, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		token = r.Header.Get("X-Auth-Token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	p := NewGetResponseProvider("gr-key", srv.URL)
	err := p.UpsertContact(context.Background(), models.NewContact("jane.doe@example.com", "camp-1"))
	require.NoError(t, err)

	assert.Equal(t, "/contacts", path)
	assert.Equal(t, "api-key gr-key", token)
	assert.Equal(t, "jane.doe", got.Name)
	assert.Equal(t, "jane.doe@example.com", got.Email)
	assert.Equal(t, "camp-1", got.Campaign.CampaignID)
}

func TestGetResponseProvider_ConflictIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"httpStatus":409,"code":1008,"message":"Contact already added"}`))
	}))
	defer srv.Close()

	p := NewGetResponseProvider("gr-key", srv.URL)
	assert.NoError(t, p.UpsertContact(context.Background(), models.NewContact("jane@example.com", "camp-1")))
}

func TestGetResponseProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"httpStatus":401,"code":1014,"message":"Unable to authenticate"}`))
	}))
	defer srv.Close()

	p := NewGetResponseProvider("bad", srv.URL)
	err := p.UpsertContact(context.Background(), models.NewContact("jane@example.com", "camp-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to authenticate")
}

func TestNewGetResponseProvider_DefaultBaseURL(t *testing.T) {
	p := NewGetResponseProvider("k", "")
	assert.Equal(t, getResponseBaseURL, p.baseURL)
}
