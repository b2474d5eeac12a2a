package cobit

import (
	"fmt"
	"strings"
)

// Record is one survey submission as stored in the cobit_responses table.
// Numeric fields arrive as arbitrary JSON and are coerced downstream;
// malformed rows must never break aggregation.
type Record struct {
	ID           string         `json:"id"`
	CreatedAt    string         `json:"created_at"`
	Respondent   Respondent     `json:"respondent"`
	OverallLevel any            `json:"overall_level"`
	Results      Results        `json:"results"`
	Answers      map[string]any `json:"answers"`
}

// Respondent holds the identity fields an administrator may edit.
type Respondent struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Unit string `json:"unit"`
	Date string `json:"date"`
}

// Results carries the per-domain and per-process scores computed at
// submission time. Key sets vary per record; not every respondent
// answered every process.
type Results struct {
	PerDomain  map[string]ScoreEntry `json:"perDomain"`
	PerProcess map[string]ScoreEntry `json:"perProcess"`
}

// ScoreEntry is a single scored bucket. Only Average is interpreted.
type ScoreEntry struct {
	Average     any    `json:"average"`
	ProcessName string `json:"processName,omitempty"`
	Count       any    `json:"count,omitempty"`
}

// DetailProcessColumns is the fixed process set of the survey
// instrument, in export column order.
var DetailProcessColumns = []string{"APO12", "DSS01", "DSS02", "DSS03", "MEA01"}

var levelNames = [6]string{
	"Incomplete",
	"Performed",
	"Managed",
	"Established",
	"Predictable",
	"Optimizing",
}

// LevelName returns the COBIT capability name for an integer maturity
// level 0..5; out-of-range levels return an empty string.
func LevelName(level int) string {
	if level < 0 || level > 5 {
		return ""
	}
	return levelNames[level]
}

// ValidationError reports a locally rejected mutation. It is raised
// before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// ValidateRespondent enforces the edit-form contract: name and role
// must be non-empty after trimming. Unit and date stay free-form.
func ValidateRespondent(r Respondent) error {
	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(r.Role) == "" {
		return &ValidationError{Field: "role", Reason: "is required"}
	}
	return nil
}
