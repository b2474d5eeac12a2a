package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cobit-maturity-admin/internal/cobit"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "anon-key", 5*time.Second)
}

func TestLoginSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin@example.com", creds["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "jwt-token"})
	})

	token, err := c.Login(context.Background(), "admin@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
}

func TestLoginRejectedEchoesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusBadRequest, authErr.Status)
	assert.Contains(t, authErr.Body, "Invalid login credentials")
}

func TestLoginMissingTokenIsAuthError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Login(context.Background(), "admin@example.com", "secret")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestListResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/cobit_responses", r.URL.Path)
		assert.Equal(t, listSelect, r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		assert.Equal(t, "Bearer jwt-token", r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		_, _ = w.Write([]byte(`[
			{"id":"r1","created_at":"2025-11-03T08:15:00Z","overall_level":3.2,
			 "respondent":{"name":"Siti","role":"Manager","unit":"Ops","date":"2025-11-01"},
			 "results":{"perDomain":{"APO":{"average":3.5}},"perProcess":{"APO12":{"average":3.5}}},
			 "answers":{"APO12_Q1":4}},
			{"id":"r2","overall_level":"1.4"}
		]`))
	})

	records, err := c.ListResponses(context.Background(), "jwt-token", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Siti", records[0].Respondent.Name)
	assert.Equal(t, 3.5, records[0].Results.PerDomain["APO"].Average)
	assert.Equal(t, "1.4", records[1].OverallLevel)
}

func TestListResponsesNonArrayIsFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"unexpected"}`))
	})

	_, err := c.ListResponses(context.Background(), "jwt-token", 10)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestListResponsesBackendFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := c.ListResponses(context.Background(), "stale", 10)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusUnauthorized, fetchErr.Status)
	assert.Contains(t, fetchErr.Body, "JWT expired")
}

func TestUpdateRespondent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.r1", r.URL.Query().Get("id"))
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]cobit.Respondent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Siti Rahma", body["respondent"].Name)

		_, _ = w.Write([]byte(`[{"id":"r1","respondent":{"name":"Siti Rahma","role":"Manager"}}]`))
	})

	updated, err := c.UpdateRespondent(context.Background(), "jwt-token", "r1",
		cobit.Respondent{Name: "Siti Rahma", Role: "Manager"})
	require.NoError(t, err)
	assert.Equal(t, "r1", updated.ID)
	assert.Equal(t, "Siti Rahma", updated.Respondent.Name)
}

func TestUpdateRespondentNoMatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.UpdateRespondent(context.Background(), "jwt-token", "ghost", cobit.Respondent{Name: "x", Role: "y"})
	var updateErr *UpdateError
	require.ErrorAs(t, err, &updateErr)
	assert.Contains(t, updateErr.Body, "ghost")
}

func TestUpdateRespondentRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"permission denied for table cobit_responses"}`))
	})

	_, err := c.UpdateRespondent(context.Background(), "jwt-token", "r1", cobit.Respondent{Name: "x", Role: "y"})
	var updateErr *UpdateError
	require.ErrorAs(t, err, &updateErr)
	assert.Contains(t, updateErr.Body, "permission denied")
}

func TestDeleteResponse(t *testing.T) {
	var gotMethod, gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotID = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteResponse(context.Background(), "jwt-token", "r1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "eq.r1", gotID)
}

func TestDeleteResponseRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"row is referenced"}`))
	})

	err := c.DeleteResponse(context.Background(), "jwt-token", "r1")
	var deleteErr *DeleteError
	require.ErrorAs(t, err, &deleteErr)
	assert.Equal(t, http.StatusConflict, deleteErr.Status)
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewClient("", "key", 0).Enabled())
	assert.True(t, NewClient("http://localhost", "key", 0).Enabled())

	var c *Client
	assert.False(t, c.Enabled())
}
