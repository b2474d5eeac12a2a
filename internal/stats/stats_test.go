package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cobit-maturity-admin/internal/cobit"
)

func domainRecord(scores map[string]any) cobit.Record {
	perDomain := map[string]cobit.ScoreEntry{}
	for k, v := range scores {
		perDomain[k] = cobit.ScoreEntry{Average: v}
	}
	return cobit.Record{Results: cobit.Results{PerDomain: perDomain}}
}

func TestSafeNum(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float", 3.5, 3.5},
		{"int", 4, 4},
		{"numeric string", "2.25", 2.25},
		{"garbage string", "not a number", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"nan", math.NaN(), 0},
		{"positive inf", math.Inf(1), 0},
		{"map", map[string]any{"average": 3}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeNum(tt.in))
		})
	}
}

func TestMeanAndMedianEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 0.0, Median([]float64{math.NaN(), math.Inf(1)}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 1.5, Median([]float64{0, 1.4, 1.6, 5}))
	assert.Equal(t, 2.0, Median([]float64{2, math.NaN(), 2}))
}

func TestRound2HalfwayValue(t *testing.T) {
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 1.0, Round2(0.995))
	assert.Equal(t, 3.33, Round2(10.0/3.0))
}

func TestLevelBucketBoundaries(t *testing.T) {
	assert.Equal(t, 0, LevelBucket(0.49))
	assert.Equal(t, 1, LevelBucket(0.5))
	assert.Equal(t, 1, LevelBucket(1.49))
	assert.Equal(t, 2, LevelBucket(1.5))
	assert.Equal(t, 5, LevelBucket(4.5))
	assert.Equal(t, 5, LevelBucket(100))
	assert.Equal(t, 0, LevelBucket(-1))
}

func TestLevelBucketMonotone(t *testing.T) {
	prev := LevelBucket(-1)
	for x := -1.0; x <= 6.0; x += 0.01 {
		cur := LevelBucket(x)
		require.GreaterOrEqual(t, cur, prev, "bucket decreased at %f", x)
		require.GreaterOrEqual(t, cur, 0)
		require.LessOrEqual(t, cur, 5)
		prev = cur
	}
}

func TestAggregateByDomainContributingRecordsOnly(t *testing.T) {
	records := []cobit.Record{
		domainRecord(map[string]any{"APO": 3, "DSS": 4}),
		domainRecord(map[string]any{"APO": 5}),
	}

	got := AggregateByDomain(records)
	require.Equal(t, []KeyAverage{
		{Key: "APO", Average: 4.00},
		{Key: "DSS", Average: 4.00},
	}, got)
}

func TestAggregateByDomainSkipsAbsentKeys(t *testing.T) {
	records := []cobit.Record{
		domainRecord(map[string]any{"APO": 2}),
		domainRecord(nil),
	}

	got := AggregateByDomain(records)
	require.Len(t, got, 1)
	assert.Equal(t, "APO", got[0].Key)
	assert.Equal(t, 2.0, got[0].Average)
}

func TestAggregateByDomainCoercesMalformedAverages(t *testing.T) {
	records := []cobit.Record{
		domainRecord(map[string]any{"MEA": "4"}),
		domainRecord(map[string]any{"MEA": "broken"}),
	}

	got := AggregateByDomain(records)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Average)
	assert.False(t, math.IsNaN(got[0].Average))
}

func TestAggregateByProcess(t *testing.T) {
	records := []cobit.Record{
		{Results: cobit.Results{PerProcess: map[string]cobit.ScoreEntry{
			"DSS01": {Average: 3},
			"APO12": {Average: 1},
		}}},
		{Results: cobit.Results{PerProcess: map[string]cobit.ScoreEntry{
			"APO12": {Average: 2},
		}}},
	}

	got := AggregateByProcess(records)
	require.Equal(t, []KeyAverage{
		{Key: "APO12", Average: 1.5},
		{Key: "DSS01", Average: 3.0},
	}, got)
}

func TestLevelDistribution(t *testing.T) {
	records := []cobit.Record{
		{OverallLevel: 0},
		{OverallLevel: 1.4},
		{OverallLevel: 1.6},
		{OverallLevel: 5},
	}

	dist := LevelDistribution(records)
	assert.Equal(t, [6]int{1, 1, 1, 0, 0, 1}, dist)

	total := 0
	for _, n := range dist {
		total += n
	}
	assert.Equal(t, len(records), total)
}

func TestStatOverall(t *testing.T) {
	records := []cobit.Record{
		{OverallLevel: 0},
		{OverallLevel: 1.4},
		{OverallLevel: 1.6},
		{OverallLevel: 5},
	}

	got := StatOverall(records)
	assert.Equal(t, Overall{Count: 4, Mean: 2.00, Median: 1.50}, got)
}

func TestStatOverallEmptyStore(t *testing.T) {
	assert.Equal(t, Overall{}, StatOverall(nil))
}
