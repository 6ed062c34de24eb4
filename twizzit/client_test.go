package twizzit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRegistrations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/registrations", r.URL.Path)
		assert.Equal(t, "group-42", r.URL.Query().Get("group_id"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"registrations":[
			{"id":"TW-1","first_name":"An","last_name":"Peeters","group_id":"group-42"},
			{"id":"TW-2","first_name":"Jef","last_name":"Claes","group_id":"group-42"}
		]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIToken: "secret-token"})
	require.NoError(t, err)

	registrations, err := client.ListRegistrations(context.Background(), "group-42")
	require.NoError(t, err)
	require.Len(t, registrations, 2)
	assert.Equal(t, "TW-1", registrations[0].ID)
	assert.Equal(t, "An Peeters", registrations[0].FullName())
}

func TestListRegistrationsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIToken: "t"})
	require.NoError(t, err)

	_, err = client.ListRegistrations(context.Background(), "group-42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{APIToken: "t"})
	assert.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://app.twizzit.com"})
	assert.Error(t, err)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "an peeters", normalizeName("  An   PEETERS "))
	assert.Equal(t, normalizeName("Jef Claes"), normalizeName("jef  claes"))
}
