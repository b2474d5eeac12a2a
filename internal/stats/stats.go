// Package stats derives summary statistics from survey response
// records. Every function is pure and operates on a snapshot of the
// record store; malformed numeric input coerces to zero so a single
// bad row can never poison an aggregate.
package stats

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"go-cobit-maturity-admin/internal/cobit"
)

// KeyAverage is one aggregated bucket, keyed by domain or process code.
type KeyAverage struct {
	Key     string  `json:"key"`
	Average float64 `json:"average"`
}

// Overall summarizes the overall_level column across the whole store.
type Overall struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// SafeNum coerces an arbitrary decoded JSON value to a float64.
// Non-numeric, non-finite, and missing values become 0.
func SafeNum(v any) float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case float32:
		return SafeNum(float64(x))
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		return SafeNum(f)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return SafeNum(f)
	case bool:
		if x {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value of the finite members of values,
// averaging the two middle values for even counts. Empty input
// (or input with no finite values) yields 0.
func Median(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		finite = append(finite, v)
	}
	if len(finite) == 0 {
		return 0
	}
	sort.Float64s(finite)
	mid := len(finite) / 2
	if len(finite)%2 == 1 {
		return finite[mid]
	}
	return (finite[mid-1] + finite[mid]) / 2
}

// Round2 rounds to two decimal places. The epsilon counteracts binary
// representation error on exact halfway values (2.675 rounds to 2.68,
// not 2.67).
func Round2(x float64) float64 {
	return math.Round((x+1e-12)*100) / 100
}

// LevelBucket classifies a continuous overall score into an integer
// maturity level using half-open half-integer boundaries:
// <0.5 -> 0, [0.5,1.5) -> 1, ..., [4.5,inf) -> 5.
func LevelBucket(overall float64) int {
	switch {
	case overall < 0.5:
		return 0
	case overall < 1.5:
		return 1
	case overall < 2.5:
		return 2
	case overall < 3.5:
		return 3
	case overall < 4.5:
		return 4
	default:
		return 5
	}
}

// AggregateByDomain computes the rounded mean of each domain's average
// across all records that scored that domain. Records missing a domain
// do not contribute an imputed zero to its bucket. Results are sorted
// lexicographically by domain code.
func AggregateByDomain(records []cobit.Record) []KeyAverage {
	buckets := map[string][]float64{}
	for _, r := range records {
		for key, entry := range r.Results.PerDomain {
			buckets[key] = append(buckets[key], SafeNum(entry.Average))
		}
	}
	return bucketAverages(buckets)
}

// AggregateByProcess is AggregateByDomain keyed by process code.
func AggregateByProcess(records []cobit.Record) []KeyAverage {
	buckets := map[string][]float64{}
	for _, r := range records {
		for key, entry := range r.Results.PerProcess {
			buckets[key] = append(buckets[key], SafeNum(entry.Average))
		}
	}
	return bucketAverages(buckets)
}

func bucketAverages(buckets map[string][]float64) []KeyAverage {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KeyAverage, 0, len(keys))
	for _, k := range keys {
		out = append(out, KeyAverage{Key: k, Average: Round2(Mean(buckets[k]))})
	}
	return out
}

// LevelDistribution counts records per maturity level, indexed 0..5.
func LevelDistribution(records []cobit.Record) [6]int {
	var dist [6]int
	for _, r := range records {
		dist[LevelBucket(SafeNum(r.OverallLevel))]++
	}
	return dist
}

// StatOverall summarizes overall_level across all records, independent
// of per-domain and per-process data.
func StatOverall(records []cobit.Record) Overall {
	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, SafeNum(r.OverallLevel))
	}
	return Overall{
		Count:  len(values),
		Mean:   Round2(Mean(values)),
		Median: Round2(Median(values)),
	}
}
