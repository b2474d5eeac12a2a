package supabase

import "fmt"

// Backend failures carry the HTTP status and the raw response body so
// handlers can surface the backend's own error text verbatim.

// AuthError reports a rejected login or auth service failure.
type AuthError struct {
	Status int
	Body   string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed: status=%d body=%s", e.Status, e.Body)
}

// FetchError reports a failed record list call.
type FetchError struct {
	Status int
	Body   string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed: status=%d body=%s", e.Status, e.Body)
}

// UpdateError reports a rejected respondent update.
type UpdateError struct {
	Status int
	Body   string
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update failed: status=%d body=%s", e.Status, e.Body)
}

// DeleteError reports a rejected record deletion.
type DeleteError struct {
	Status int
	Body   string
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete failed: status=%d body=%s", e.Status, e.Body)
}
