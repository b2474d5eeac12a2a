package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-cobit-maturity-admin/internal/cobit"
	"go-cobit-maturity-admin/internal/connectors/auditlog"
	"go-cobit-maturity-admin/internal/connectors/supabase"
	"go-cobit-maturity-admin/internal/session"
	"go-cobit-maturity-admin/internal/view"
)

const sessionCookieName = "cobit_admin_session"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type selectRequest struct {
	ID string `json:"id"`
}

type saveEditRequest struct {
	Respondent cobit.Respondent `json:"respondent"`
}

func loginHandler(sb *supabase.Client, sessions *session.Manager, audit *auditlog.Store, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		if !sb.Enabled() {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "backend integration disabled (set APP_SUPABASE_URL)",
			})
			return
		}

		var req loginRequest
		if err := decodeJSONBody(r, &req); err != nil {
			writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "invalid request body"})
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "email and password are required"})
			return
		}

		// A failed login never leaves a half-built session behind:
		// the session is created only after the token call succeeds.
		start := time.Now()
		token, err := sb.Login(r.Context(), req.Email, req.Password)
		recordBackendCall("Login", time.Since(start).Seconds(), err)
		if err != nil {
			var authErr *supabase.AuthError
			if errors.As(err, &authErr) {
				log.Warn("login rejected", zap.String("email", req.Email), zap.Int("status", authErr.Status))
				writeJSON(w, nethttp.StatusUnauthorized, map[string]any{"error": authErr.Body})
				return
			}
			writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": "auth service unreachable"})
			return
		}

		id, _ := sessions.Create(req.Email, token)
		nethttp.SetCookie(w, &nethttp.Cookie{
			Name:     sessionCookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: nethttp.SameSiteLaxMode,
		})

		recordAudit(r.Context(), audit, log, req.Email, auditlog.ActionLogin, "", "")
		log.Info("login succeeded", zap.String("email", req.Email))
		writeJSON(w, nethttp.StatusOK, map[string]any{"email": req.Email})
	}
}

func logoutHandler(sessions *session.Manager, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if s := sessions.Get(cookie.Value); s != nil {
				log.Info("logout", zap.String("email", s.Email()))
			}
			sessions.Destroy(cookie.Value)
		}
		nethttp.SetCookie(w, &nethttp.Cookie{
			Name:   sessionCookieName,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		writeJSON(w, nethttp.StatusOK, map[string]any{"status": "logged out"})
	}
}

func refreshHandler(sb *supabase.Client, sessions *session.Manager, fetchLimit int, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}

		count, applied, err := refreshStore(r.Context(), sb, s, fetchLimit)
		if err != nil {
			var fetchErr *supabase.FetchError
			if errors.As(err, &fetchErr) {
				log.Warn("refresh failed", zap.Int("status", fetchErr.Status), zap.String("body", fetchErr.Body))
				writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": fetchErr.Body})
				return
			}
			writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": "failed to fetch responses"})
			return
		}

		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{"count": count, "applied": applied},
		})
	}
}

// refreshStore fetches a fresh snapshot and installs it unless a newer
// refresh already completed, in which case applied is false and the
// snapshot is discarded. The existing store stays untouched on any
// fetch failure.
func refreshStore(ctx context.Context, sb *supabase.Client, s *session.Session, fetchLimit int) (count int, applied bool, err error) {
	seq := s.BeginRefresh()

	start := time.Now()
	records, err := sb.ListResponses(ctx, s.AccessToken(), fetchLimit)
	recordBackendCall("ListResponses", time.Since(start).Seconds(), err)
	if err != nil {
		return 0, false, err
	}

	return len(records), s.ApplyRefresh(seq, records), nil
}

func viewHandler(sessions *session.Manager) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}

		model := view.Project(s.Records(), r.URL.Query().Get("filter"), s.SelectedID())
		writeJSON(w, nethttp.StatusOK, model)
	}
}

func selectHandler(sessions *session.Manager) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}

		var req selectRequest
		if err := decodeJSONBody(r, &req); err != nil || strings.TrimSpace(req.ID) == "" {
			writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "record id is required"})
			return
		}
		if !s.Select(req.ID) {
			writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "record not found: " + req.ID})
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"selected": req.ID})
	}
}

func clearSelectionHandler(sessions *session.Manager) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}
		s.ClearSelection()
		writeJSON(w, nethttp.StatusOK, map[string]any{"selected": ""})
	}
}

// responseMutationRouter dispatches PATCH and DELETE on
// /api/v1/responses/{id}.
func responseMutationRouter(sb *supabase.Client, sessions *session.Manager, audit *auditlog.Store, fetchLimit int, log *zap.Logger) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}

		id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/responses/"), "/")
		if id == "" || strings.Contains(id, "/") {
			writeJSON(w, nethttp.StatusNotFound, map[string]any{"error": "not found"})
			return
		}

		switch r.Method {
		case nethttp.MethodPatch:
			saveEdit(w, r, sb, s, audit, fetchLimit, id, log)
		case nethttp.MethodDelete:
			deleteRecord(w, r, sb, s, audit, fetchLimit, id, log)
		default:
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		}
	}
}

func saveEdit(w nethttp.ResponseWriter, r *nethttp.Request, sb *supabase.Client, s *session.Session, audit *auditlog.Store, fetchLimit int, id string, log *zap.Logger) {
	var req saveEditRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]any{"error": "invalid request body"})
		return
	}

	// Validation happens before any network call.
	if err := cobit.ValidateRespondent(req.Respondent); err != nil {
		writeJSON(w, nethttp.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}

	start := time.Now()
	updated, err := sb.UpdateRespondent(r.Context(), s.AccessToken(), id, req.Respondent)
	recordBackendCall("UpdateRespondent", time.Since(start).Seconds(), err)
	if err != nil {
		var updateErr *supabase.UpdateError
		if errors.As(err, &updateErr) {
			log.Warn("update rejected", zap.String("id", id), zap.Int("status", updateErr.Status))
			writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": updateErr.Body})
			return
		}
		writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": "failed to update record"})
		return
	}

	recordAudit(r.Context(), audit, log, s.Email(), auditlog.ActionUpdate, id, "respondent identity updated")

	// Refresh so every aggregate reflects the change. A refresh
	// failure here is non-fatal; the update itself succeeded.
	if _, _, err := refreshStore(r.Context(), sb, s, fetchLimit); err != nil {
		log.Warn("post-update refresh failed", zap.Error(err))
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{"data": updated})
}

func deleteRecord(w nethttp.ResponseWriter, r *nethttp.Request, sb *supabase.Client, s *session.Session, audit *auditlog.Store, fetchLimit int, id string, log *zap.Logger) {
	start := time.Now()
	err := sb.DeleteResponse(r.Context(), s.AccessToken(), id)
	recordBackendCall("DeleteResponse", time.Since(start).Seconds(), err)
	if err != nil {
		var deleteErr *supabase.DeleteError
		if errors.As(err, &deleteErr) {
			log.Warn("delete rejected", zap.String("id", id), zap.Int("status", deleteErr.Status))
			writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": deleteErr.Body})
			return
		}
		writeJSON(w, nethttp.StatusBadGateway, map[string]any{"error": "failed to delete record"})
		return
	}

	s.ClearSelection()
	recordAudit(r.Context(), audit, log, s.Email(), auditlog.ActionDelete, id, "")

	if _, _, err := refreshStore(r.Context(), sb, s, fetchLimit); err != nil {
		log.Warn("post-delete refresh failed", zap.Error(err))
	}

	writeJSON(w, nethttp.StatusOK, map[string]any{"deleted": id})
}

func auditListHandler(sessions *session.Manager, audit *auditlog.Store) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		// The trail names administrator accounts and mutated record
		// ids, so it is gated like every other data endpoint.
		if requireSession(w, r, sessions) == nil {
			return
		}
		if audit == nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]any{
				"error": "audit log disabled (set APP_AUDIT_ENABLED=true)",
			})
			return
		}

		limit := parseLimit(r, 50)
		events, err := audit.ListRecent(r.Context(), limit)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]any{"error": "failed to list audit events"})
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{
			"meta": map[string]any{"limit": limit, "count": len(events)},
			"data": events,
		})
	}
}

// requireSession resolves the session cookie. Without a live session
// it answers 401 and the caller must stop: data operations are a
// no-op until the administrator logs in.
func requireSession(w nethttp.ResponseWriter, r *nethttp.Request, sessions *session.Manager) *session.Session {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		writeJSON(w, nethttp.StatusUnauthorized, map[string]any{"error": "please log in"})
		return nil
	}
	s := sessions.Get(cookie.Value)
	if s == nil {
		writeJSON(w, nethttp.StatusUnauthorized, map[string]any{"error": "please log in"})
		return nil
	}
	return s
}

func decodeJSONBody(r *nethttp.Request, out any) error {
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(out)
}

func parseLimit(r *nethttp.Request, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	if parsed > 500 {
		return 500
	}
	return parsed
}

func recordAudit(ctx context.Context, audit *auditlog.Store, log *zap.Logger, actor, action, recordID, detail string) {
	if audit == nil {
		return
	}
	if err := audit.Record(ctx, actor, action, recordID, detail); err != nil {
		log.Warn("audit write failed", zap.String("action", action), zap.Error(err))
	}
}
