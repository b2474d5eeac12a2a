// Package view projects a record-store snapshot, a free-text filter,
// and an optional selection into the model the dashboard renders.
// Projection is pure; the HTTP layer recomputes it on every state
// change instead of mutating widget state in place.
package view

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"go-cobit-maturity-admin/internal/cobit"
	"go-cobit-maturity-admin/internal/stats"
)

// Model is the full dashboard view-model.
type Model struct {
	Overall      stats.Overall      `json:"overall"`
	Levels       []LevelCount       `json:"levels"`
	Domains      []stats.KeyAverage `json:"domains"`
	Processes    []stats.KeyAverage `json:"processes"`
	Rows         []TableRow         `json:"rows"`
	FilteredFrom int                `json:"filteredFrom"`
	Detail       *Detail            `json:"detail,omitempty"`
}

// LevelCount pairs a maturity level with its record count and name.
type LevelCount struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TableRow is one filtered table line.
type TableRow struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Unit      string  `json:"unit"`
	Overall   float64 `json:"overall"`
	Level     int     `json:"level"`
	APO       string  `json:"apo"`
	DSS       string  `json:"dss"`
	MEA       string  `json:"mea"`
	Selected  bool    `json:"selected"`
}

// Detail is the expanded panel for the selected record.
type Detail struct {
	ID          string             `json:"id"`
	CreatedAt   string             `json:"createdAt"`
	Respondent  cobit.Respondent   `json:"respondent"`
	Overall     float64            `json:"overall"`
	Level       int                `json:"level"`
	LevelName   string             `json:"levelName"`
	Domains     []stats.KeyAverage `json:"domains"`
	Processes   []stats.KeyAverage `json:"processes"`
	AnswersJSON string             `json:"answersJson"`
}

// Project builds the view-model for the given snapshot. Aggregates
// cover the whole store; the table covers only records matching the
// filter. selectedID may reference a record outside the filter.
func Project(records []cobit.Record, filter, selectedID string) Model {
	dist := stats.LevelDistribution(records)
	levels := make([]LevelCount, 0, len(dist))
	for level, count := range dist {
		levels = append(levels, LevelCount{Level: level, Name: cobit.LevelName(level), Count: count})
	}

	m := Model{
		Overall:      stats.StatOverall(records),
		Levels:       levels,
		Domains:      stats.AggregateByDomain(records),
		Processes:    stats.AggregateByProcess(records),
		Rows:         make([]TableRow, 0, len(records)),
		FilteredFrom: len(records),
	}

	for _, r := range records {
		if !MatchesFilter(r, filter) {
			continue
		}
		overall := stats.SafeNum(r.OverallLevel)
		m.Rows = append(m.Rows, TableRow{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Name:      r.Respondent.Name,
			Role:      r.Respondent.Role,
			Unit:      r.Respondent.Unit,
			Overall:   stats.Round2(overall),
			Level:     stats.LevelBucket(overall),
			APO:       scoreCell(r.Results.PerDomain, "APO"),
			DSS:       scoreCell(r.Results.PerDomain, "DSS"),
			MEA:       scoreCell(r.Results.PerDomain, "MEA"),
			Selected:  selectedID != "" && r.ID == selectedID,
		})
	}

	if selectedID != "" {
		for _, r := range records {
			if r.ID == selectedID {
				m.Detail = projectDetail(r)
				break
			}
		}
	}

	return m
}

// MatchesFilter reports whether a record matches a case-insensitive
// substring filter over respondent name, role, and unit. An empty
// filter matches everything.
func MatchesFilter(r cobit.Record, filter string) bool {
	q := strings.ToLower(strings.TrimSpace(filter))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.Respondent.Name), q) ||
		strings.Contains(strings.ToLower(r.Respondent.Role), q) ||
		strings.Contains(strings.ToLower(r.Respondent.Unit), q)
}

func projectDetail(r cobit.Record) *Detail {
	overall := stats.SafeNum(r.OverallLevel)
	level := stats.LevelBucket(overall)

	answers := "{}"
	if len(r.Answers) > 0 {
		if blob, err := json.MarshalIndent(r.Answers, "", "  "); err == nil {
			answers = string(blob)
		}
	}

	return &Detail{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Respondent:  r.Respondent,
		Overall:     stats.Round2(overall),
		Level:       level,
		LevelName:   cobit.LevelName(level),
		Domains:     recordScores(r.Results.PerDomain),
		Processes:   recordScores(r.Results.PerProcess),
		AnswersJSON: answers,
	}
}

func recordScores(entries map[string]cobit.ScoreEntry) []stats.KeyAverage {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]stats.KeyAverage, 0, len(keys))
	for _, k := range keys {
		out = append(out, stats.KeyAverage{Key: k, Average: stats.Round2(stats.SafeNum(entries[k].Average))})
	}
	return out
}

func scoreCell(entries map[string]cobit.ScoreEntry, key string) string {
	entry, ok := entries[key]
	if !ok || entry.Average == nil {
		return "-"
	}
	return strconv.FormatFloat(stats.Round2(stats.SafeNum(entry.Average)), 'f', -1, 64)
}
