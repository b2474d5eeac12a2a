package export

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cobit-maturity-admin/internal/cobit"
)

func sampleRecord() cobit.Record {
	return cobit.Record{
		ID:        "rec-1",
		CreatedAt: "2025-11-03T08:15:00Z",
		Respondent: cobit.Respondent{
			Name: "Siti Rahma",
			Role: "IT Manager",
			Unit: "Operations",
			Date: "2025-11-01",
		},
		OverallLevel: 3.25,
		Results: cobit.Results{
			PerDomain: map[string]cobit.ScoreEntry{
				"APO": {Average: 3.5},
				"DSS": {Average: 3.0},
			},
			PerProcess: map[string]cobit.ScoreEntry{
				"APO12": {Average: 3.5},
				"DSS01": {Average: 3.0},
			},
		},
		Answers: map[string]any{"APO12_Q1": 4},
	}
}

func TestEscapeField(t *testing.T) {
	assert.Equal(t, "plain", escapeField("plain"))
	assert.Equal(t, `"a,b"`, escapeField("a,b"))
	assert.Equal(t, "\"a,\"\"b\"\"\nc\"", escapeField("a,\"b\"\nc"))
}

func TestEscapeRoundTrip(t *testing.T) {
	original := "a,\"b\"\nc"
	line := escapeField(original) + "," + escapeField("next")

	reader := csv.NewReader(strings.NewReader(line))
	fields, err := reader.Read()
	require.NoError(t, err)
	require.Equal(t, []string{original, "next"}, fields)
}

func TestSummaryCSV(t *testing.T) {
	out := SummaryCSV([]cobit.Record{sampleRecord()})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"id,created_at,name,role,unit,date,overall_level,maturity_level,apo_avg,dss_avg,mea_avg",
		lines[0])
	assert.Equal(t,
		"rec-1,2025-11-03T08:15:00Z,Siti Rahma,IT Manager,Operations,2025-11-01,3.25,Established,3.5,3,",
		lines[1])
}

func TestSummaryCSVMissingValuesRenderEmpty(t *testing.T) {
	out := SummaryCSV([]cobit.Record{{ID: "rec-2"}})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "rec-2,,,,,,,,,,", lines[1])
}

func TestSummaryCSVEscapesRespondentFields(t *testing.T) {
	r := sampleRecord()
	r.Respondent.Name = `Budi, "Pak"`

	out := SummaryCSV([]cobit.Record{r})
	assert.Contains(t, out, `"Budi, ""Pak"""`)
}

func TestDetailCSV(t *testing.T) {
	out := DetailCSV([]cobit.Record{sampleRecord()})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"id,created_at,name,role,unit,date,overall_level,maturity_level,apo_avg,dss_avg,mea_avg,"+
			"apo12_avg,dss01_avg,dss02_avg,dss03_avg,mea01_avg,answers_json",
		lines[0])

	reader := csv.NewReader(strings.NewReader(out))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "3.5", row[11]) // apo12_avg
	assert.Equal(t, "3", row[12])   // dss01_avg
	assert.Equal(t, "", row[13])    // dss02_avg absent from this record
	assert.Equal(t, `{"APO12_Q1":4}`, row[16])
}

func TestDetailCSVEmptyAnswers(t *testing.T) {
	out := DetailCSV([]cobit.Record{{ID: "rec-3"}})
	reader := csv.NewReader(strings.NewReader(out))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "{}", rows[1][16])
}
