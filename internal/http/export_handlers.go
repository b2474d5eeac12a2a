package http

import (
	nethttp "net/http"

	"go-cobit-maturity-admin/internal/export"
	"go-cobit-maturity-admin/internal/session"
)

func exportSummaryHandler(sessions *session.Manager) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}
		serveCSV(w, export.SummaryFilename, export.SummaryCSV(s.Records()))
	}
}

func exportDetailHandler(sessions *session.Manager) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s := requireSession(w, r, sessions)
		if s == nil {
			return
		}
		serveCSV(w, export.DetailFilename, export.DetailCSV(s.Records()))
	}
}

func serveCSV(w nethttp.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(nethttp.StatusOK)
	_, _ = w.Write([]byte(body))
}
