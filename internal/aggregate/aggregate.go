// Package aggregate reduces calculated rows into totals. Counters are summed
// first and the KPIs re-derived from the sums; per-row ratios are never
// averaged, since averaging is blind to each row's denominator.
package aggregate

import (
	"github.com/mikedeiure/CustomApp-V1/internal/calc"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// DefaultLabel is used when the caller does not name the totals row.
const DefaultLabel = "Total"

// Aggregate sums the counters of rows and re-derives the KPIs from the sums.
// Returns nil on empty input so callers can tell "no data" from all-zero data.
func Aggregate(rows []models.CalculatedMetricRow, label string) *models.TotalsRow {
	if len(rows) == 0 {
		return nil
	}
	if label == "" {
		label = DefaultLabel
	}
	t := models.TotalsRow{Label: label}
	for _, r := range rows {
		t.Impressions += r.Impressions
		t.Clicks += r.Clicks
		t.Cost += r.Cost
		t.Conversions += r.Conversions
		t.ConversionValue += r.ConversionValue
	}
	d := calc.Derive(t.Impressions, t.Clicks, t.Cost, t.Conversions, t.ConversionValue)
	t.CTR, t.CPC, t.CvR, t.CPA, t.ROAS = d.CTR, d.CPC, d.CvR, d.CPA, d.ROAS
	return &t
}

// GroupBy partitions rows by keyFn and aggregates each group independently,
// using the group key as the totals label. Groups are never empty, so every
// map value is non-nil.
func GroupBy(rows []models.CalculatedMetricRow, keyFn func(models.CalculatedMetricRow) string) map[string]*models.TotalsRow {
	groups := make(map[string][]models.CalculatedMetricRow)
	for _, r := range rows {
		k := keyFn(r)
		groups[k] = append(groups[k], r)
	}
	out := make(map[string]*models.TotalsRow, len(groups))
	for k, g := range groups {
		out[k] = Aggregate(g, k)
	}
	return out
}
