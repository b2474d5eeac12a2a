// Package supabase talks to the survey backend: GoTrue password-grant
// auth and the PostgREST cobit_responses table.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-cobit-maturity-admin/internal/cobit"
)

const responsesTable = "cobit_responses"

// listSelect is the column projection fetched on every refresh. The
// admin needs full results and answers for aggregation and detail view.
const listSelect = "id,created_at,respondent,overall_level,results,answers"

// Client performs authenticated calls against a Supabase project.
type Client struct {
	baseURL string
	anonKey string
	http    *http.Client
}

// NewClient builds a client for the project at baseURL. No request
// timeout is applied when timeout is zero.
func NewClient(baseURL, anonKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		anonKey: strings.TrimSpace(anonKey),
		http:    &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether the client is configured with a project URL.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Login exchanges credentials for a bearer token. A rejected login
// returns *AuthError with the backend's JSON body.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &AuthError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body := readBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AuthError{Status: resp.StatusCode, Body: body}
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(body), &token); err != nil {
		return "", &AuthError{Status: resp.StatusCode, Body: body}
	}
	if token.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: body}
	}
	return token.AccessToken, nil
}

// ListResponses fetches up to limit most-recent records, newest first.
// Any non-success status or non-array body yields *FetchError.
func (c *Client) ListResponses(ctx context.Context, accessToken string, limit int) ([]cobit.Record, error) {
	if limit <= 0 {
		limit = 500
	}

	q := url.Values{}
	q.Set("select", listSelect)
	q.Set("order", "created_at.desc")
	q.Set("limit", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/rest/v1/"+responsesTable+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body := readBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Status: resp.StatusCode, Body: body}
	}

	var records []cobit.Record
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Body: body}
	}
	return records, nil
}

// UpdateRespondent patches only the respondent sub-record of one row
// and returns the updated record. The backend's error body is carried
// in *UpdateError on rejection.
func (c *Client) UpdateRespondent(ctx context.Context, accessToken, id string, respondent cobit.Respondent) (*cobit.Record, error) {
	payload, err := json.Marshal(map[string]cobit.Respondent{"respondent": respondent})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.rowURL(id), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req, accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpdateError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body := readBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpdateError{Status: resp.StatusCode, Body: body}
	}

	var updated []cobit.Record
	if err := json.Unmarshal([]byte(body), &updated); err != nil {
		return nil, &UpdateError{Status: resp.StatusCode, Body: body}
	}
	if len(updated) == 0 {
		return nil, &UpdateError{Status: resp.StatusCode, Body: "no record matched id " + id}
	}
	return &updated[0], nil
}

// DeleteResponse removes one row. Irreversible; confirmation happens
// in the dashboard before this is called.
func (c *Client) DeleteResponse(ctx context.Context, accessToken, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.rowURL(id), nil)
	if err != nil {
		return err
	}
	c.setAuthHeaders(req, accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return &DeleteError{Body: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &DeleteError{Status: resp.StatusCode, Body: readBody(resp.Body)}
	}
	return nil
}

func (c *Client) rowURL(id string) string {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.baseURL + "/rest/v1/" + responsesTable + "?" + q.Encode()
}

func (c *Client) setAuthHeaders(req *http.Request, accessToken string) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)
}

func readBody(r io.Reader) string {
	blob, _ := io.ReadAll(io.LimitReader(r, 1<<20))
	return strings.TrimSpace(string(blob))
}
