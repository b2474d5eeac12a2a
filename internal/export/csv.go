// Package export serializes response records into downloadable CSV
// text. Column order is a fixed contract consumed by downstream
// spreadsheets; changing it breaks saved imports.
package export

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go-cobit-maturity-admin/internal/cobit"
	"go-cobit-maturity-admin/internal/stats"
)

// SummaryFilename and DetailFilename are the fixed download names.
const (
	SummaryFilename = "cobit_responses_summary.csv"
	DetailFilename  = "cobit_responses_detail.csv"
)

var summaryHeader = []string{
	"id", "created_at", "name", "role", "unit", "date",
	"overall_level", "maturity_level", "apo_avg", "dss_avg", "mea_avg",
}

var summaryDomains = []string{"APO", "DSS", "MEA"}

// SummaryCSV renders one row per record with identity fields, overall
// score, derived maturity level, and the three named domain averages.
// Missing or non-numeric score cells render empty.
func SummaryCSV(records []cobit.Record) string {
	var b strings.Builder
	writeRow(&b, summaryHeader)
	for _, r := range records {
		writeRow(&b, summaryFields(r))
	}
	return b.String()
}

// DetailCSV renders the summary columns plus the fixed per-process
// averages of the survey instrument and the raw answers as JSON.
func DetailCSV(records []cobit.Record) string {
	header := make([]string, 0, len(summaryHeader)+len(cobit.DetailProcessColumns)+1)
	header = append(header, summaryHeader...)
	for _, proc := range cobit.DetailProcessColumns {
		header = append(header, strings.ToLower(proc)+"_avg")
	}
	header = append(header, "answers_json")

	var b strings.Builder
	writeRow(&b, header)
	for _, r := range records {
		fields := summaryFields(r)
		for _, proc := range cobit.DetailProcessColumns {
			fields = append(fields, scoreField(r.Results.PerProcess, proc))
		}
		fields = append(fields, answersJSON(r.Answers))
		writeRow(&b, fields)
	}
	return b.String()
}

func summaryFields(r cobit.Record) []string {
	overall := ""
	level := ""
	if r.OverallLevel != nil {
		f := stats.SafeNum(r.OverallLevel)
		overall = formatScore(f)
		level = cobit.LevelName(stats.LevelBucket(f))
	}

	fields := []string{
		r.ID,
		r.CreatedAt,
		r.Respondent.Name,
		r.Respondent.Role,
		r.Respondent.Unit,
		r.Respondent.Date,
		overall,
		level,
	}
	for _, domain := range summaryDomains {
		fields = append(fields, scoreField(r.Results.PerDomain, domain))
	}
	return fields
}

func scoreField(entries map[string]cobit.ScoreEntry, key string) string {
	entry, ok := entries[key]
	if !ok || entry.Average == nil {
		return ""
	}
	return formatScore(stats.SafeNum(entry.Average))
}

func formatScore(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func answersJSON(answers map[string]any) string {
	if len(answers) == 0 {
		return "{}"
	}
	blob, err := json.Marshal(answers)
	if err != nil {
		return "{}"
	}
	return string(blob)
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(f))
	}
	b.WriteByte('\n')
}

// escapeField wraps a field in double quotes, doubling internal
// quotes, only when the field contains a comma, quote, or newline.
// Everything else passes through unchanged.
func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
