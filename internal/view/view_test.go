package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cobit-maturity-admin/internal/cobit"
)

func testRecords() []cobit.Record {
	return []cobit.Record{
		{
			ID:           "r1",
			CreatedAt:    "2025-11-03T08:15:00Z",
			Respondent:   cobit.Respondent{Name: "Siti Rahma", Role: "IT Manager", Unit: "Operations"},
			OverallLevel: 3.2,
			Results: cobit.Results{
				PerDomain: map[string]cobit.ScoreEntry{
					"APO": {Average: 3.5},
					"DSS": {Average: 3.0},
				},
				PerProcess: map[string]cobit.ScoreEntry{
					"DSS01": {Average: 3.0},
					"APO12": {Average: 3.5},
				},
			},
			Answers: map[string]any{"APO12_Q1": 4},
		},
		{
			ID:           "r2",
			CreatedAt:    "2025-11-02T10:00:00Z",
			Respondent:   cobit.Respondent{Name: "Budi Santoso", Role: "Supervisor", Unit: "Service Desk"},
			OverallLevel: 1.4,
		},
	}
}

func TestMatchesFilter(t *testing.T) {
	r := testRecords()[0]

	assert.True(t, MatchesFilter(r, ""))
	assert.True(t, MatchesFilter(r, "  "))
	assert.True(t, MatchesFilter(r, "siti"))
	assert.True(t, MatchesFilter(r, "MANAGER"))
	assert.True(t, MatchesFilter(r, "operat"))
	assert.False(t, MatchesFilter(r, "budi"))
}

func TestProjectAggregatesIgnoreFilter(t *testing.T) {
	m := Project(testRecords(), "siti", "")

	require.Len(t, m.Rows, 1)
	assert.Equal(t, "r1", m.Rows[0].ID)
	assert.Equal(t, 2, m.FilteredFrom)

	// Aggregates still cover the full store.
	assert.Equal(t, 2, m.Overall.Count)
	assert.Equal(t, 2.30, m.Overall.Mean)
}

func TestProjectTableRow(t *testing.T) {
	m := Project(testRecords(), "", "")

	require.Len(t, m.Rows, 2)
	row := m.Rows[0]
	assert.Equal(t, "Siti Rahma", row.Name)
	assert.Equal(t, 3.2, row.Overall)
	assert.Equal(t, 3, row.Level)
	assert.Equal(t, "3.5", row.APO)
	assert.Equal(t, "3", row.DSS)
	assert.Equal(t, "-", row.MEA)
	assert.False(t, row.Selected)
}

func TestProjectLevelCountsSumToStoreSize(t *testing.T) {
	m := Project(testRecords(), "", "")

	require.Len(t, m.Levels, 6)
	total := 0
	for _, lc := range m.Levels {
		total += lc.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, "Performed", m.Levels[1].Name)
	assert.Equal(t, 1, m.Levels[1].Count)
}

func TestProjectDetail(t *testing.T) {
	m := Project(testRecords(), "", "r1")

	require.NotNil(t, m.Detail)
	assert.Equal(t, "r1", m.Detail.ID)
	assert.Equal(t, "Established", m.Detail.LevelName)
	require.Len(t, m.Detail.Processes, 2)
	assert.Equal(t, "APO12", m.Detail.Processes[0].Key)
	assert.Contains(t, m.Detail.AnswersJSON, "APO12_Q1")
	assert.True(t, m.Rows[0].Selected)
}

func TestProjectDetailOutsideFilterStillResolves(t *testing.T) {
	m := Project(testRecords(), "budi", "r1")

	require.Len(t, m.Rows, 1)
	assert.Equal(t, "r2", m.Rows[0].ID)
	require.NotNil(t, m.Detail)
	assert.Equal(t, "r1", m.Detail.ID)
}

func TestProjectUnknownSelection(t *testing.T) {
	m := Project(testRecords(), "", "missing")
	assert.Nil(t, m.Detail)
}

func TestProjectEmptyStore(t *testing.T) {
	m := Project(nil, "", "")
	assert.Equal(t, 0, m.Overall.Count)
	assert.Empty(t, m.Rows)
	assert.Empty(t, m.Domains)
	assert.Nil(t, m.Detail)
}
