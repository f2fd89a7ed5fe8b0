package pipeline

import (
	"sort"

	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// Preset is a closed set of stored filter predicates. Each variant is matched
// exhaustively in applyPreset; an unknown variant passes rows through
// untouched rather than failing the query.
type Preset interface {
	preset()
}

// ThresholdOp compares a row's field against a constant.
type ThresholdOp string

const (
	OpGT  ThresholdOp = "gt"
	OpGTE ThresholdOp = "gte"
	OpLT  ThresholdOp = "lt"
	OpLTE ThresholdOp = "lte"
	OpEQ  ThresholdOp = "eq"
)

// NumericThreshold keeps rows whose field satisfies Op against Value.
type NumericThreshold struct {
	Field string      `json:"field"`
	Op    ThresholdOp `json:"op"`
	Value float64     `json:"value"`
}

// TopN keeps the N rows with the highest values of Field, in descending
// field order.
type TopN struct {
	Field string `json:"field"`
	N     int    `json:"n"`
}

func (NumericThreshold) preset() {}
func (TopN) preset()             {}

func applyPreset(rows []models.CalculatedMetricRow, p Preset) []models.CalculatedMetricRow {
	switch v := p.(type) {
	case NumericThreshold:
		out := rows[:0:0]
		for _, r := range rows {
			if compareThreshold(numericValue(r, v.Field), v.Op, v.Value) {
				out = append(out, r)
			}
		}
		return out
	case TopN:
		if v.N <= 0 {
			return []models.CalculatedMetricRow{}
		}
		sorted := make([]models.CalculatedMetricRow, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			return numericValue(sorted[i], v.Field) > numericValue(sorted[j], v.Field)
		})
		if len(sorted) > v.N {
			sorted = sorted[:v.N]
		}
		return sorted
	}
	return rows
}

func compareThreshold(have float64, op ThresholdOp, want float64) bool {
	switch op {
	case OpGT:
		return have > want
	case OpGTE:
		return have >= want
	case OpLT:
		return have < want
	case OpLTE:
		return have <= want
	case OpEQ:
		return have == want
	}
	return false
}
