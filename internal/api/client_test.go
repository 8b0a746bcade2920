package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestFetchContacts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/contacts", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contacts": []map[string]any{
				{"id": "c1", "name": "Dana Cohen", "status": "active", "next_action_date": "2026-09-01"},
				{"id": "c2", "name": "Avi Levi", "status": "lead"},
			},
		})
	})

	contacts, err := client.FetchContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Dana Cohen", contacts[0].Name)
	assert.Equal(t, domain.StatusActive, contacts[0].Status)
	assert.Equal(t, "2026-09-01", contacts[0].NextActionDate)
}

func TestFetchContactDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/c1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contact": map[string]any{"id": "c1", "name": "Dana Cohen", "status": "active"},
			"interactions": []map[string]any{
				{"id": "i1", "contact_id": "c1", "type": "call", "summary": "intro call"},
			},
		})
	})

	contact, interactions, err := client.FetchContactDetail(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", contact.ID)
	require.Len(t, interactions, 1)
	assert.Equal(t, domain.TypeCall, interactions[0].Type)
}

func TestCreateContactValidationError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name is required"})
	})

	_, err := client.CreateContact(context.Background(), ContactFields{})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name is required", validation.Message)
}

func TestServerErrorIsNetworkError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	})

	err := client.Health(context.Background())
	var network *NetworkError
	require.ErrorAs(t, err, &network)
	assert.Equal(t, http.StatusInternalServerError, network.Status)
	assert.Equal(t, "boom", network.Message)
}

func TestUnreachableBackendIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(srv.URL, time.Second, nil)

	err := client.Health(context.Background())
	var network *NetworkError
	require.ErrorAs(t, err, &network)
	assert.Zero(t, network.Status)
}

func TestUpdateContactStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/contacts/c1", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "inactive", body["status"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contact": map[string]any{"id": "c1", "name": "Dana Cohen", "status": "inactive"},
		})
	})

	err := client.UpdateContactStatus(context.Background(), "c1", domain.StatusInactive)
	require.NoError(t, err)
}

func TestDeleteContact(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteContact(context.Background(), "c1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/contacts/c1", gotPath)
}

func TestCreateInteraction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interactions", r.URL.Path)
		var fields InteractionFields
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
		assert.Equal(t, "c1", fields.ContactID)
		assert.Equal(t, domain.TypeMeeting, fields.Type)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"interaction": map[string]any{"id": "i9", "contact_id": "c1", "type": "meeting", "summary": "quarterly review"},
		})
	})

	interaction, err := client.CreateInteraction(context.Background(), InteractionFields{
		ContactID: "c1",
		Type:      domain.TypeMeeting,
		Summary:   "quarterly review",
	})
	require.NoError(t, err)
	assert.Equal(t, "i9", interaction.ID)
}

func TestAskSendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "who is overdue?", body["message"])
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "Dana Cohen is overdue"})
	})

	reply, err := client.Ask(context.Background(), "who is overdue?", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Dana Cohen is overdue", reply)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestAskWithoutCredentialOmitsHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "ok"})
	})

	_, err := client.Ask(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestAskErrorFieldInOKBodyIsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "assistant not configured"})
	})

	_, err := client.Ask(context.Background(), "hi", "tok")
	var network *NetworkError
	require.ErrorAs(t, err, &network)
	assert.Equal(t, http.StatusOK, network.Status)
	assert.Equal(t, "assistant not configured", network.Message)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "boom (HTTP 503)", (&NetworkError{Status: 503, Message: "boom"}).Error())
	assert.Equal(t, "boom", (&NetworkError{Message: "boom"}).Error())
	assert.Equal(t, "name is required", (&ValidationError{Message: "name is required"}).Error())
}
