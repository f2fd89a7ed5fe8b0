// Package calc derives per-row KPIs from raw ad counters. All functions are
// pure and total: zero denominators resolve to 0, never NaN or Inf.
package calc

import "github.com/mikedeiure/CustomApp-V1/internal/models"

// Derived bundles the five KPIs computed from one set of counters.
type Derived struct {
	CTR  float64
	CPC  float64
	CvR  float64
	CPA  float64
	ROAS float64
}

// Derive computes the KPIs for one set of counters. ROAS is defined as 0 when
// cost is 0 even if conversion value is positive; callers wanting a different
// display for that case handle it at the presentation edge.
func Derive(impressions, clicks int64, cost, conversions, conversionValue float64) Derived {
	return Derived{
		CTR:  safeDiv(float64(clicks), float64(impressions)) * 100,
		CPC:  safeDiv(cost, float64(clicks)),
		CvR:  safeDiv(conversions, float64(clicks)) * 100,
		CPA:  safeDiv(cost, conversions),
		ROAS: safeDiv(conversionValue, cost),
	}
}

// Calculate returns the row with its derived fields filled in. The input row
// is copied, never mutated.
func Calculate(r models.RawMetricRow) models.CalculatedMetricRow {
	d := Derive(r.Impressions, r.Clicks, r.Cost, r.Conversions, r.ConversionValue)
	return models.CalculatedMetricRow{
		RawMetricRow: r,
		CTR:          d.CTR,
		CPC:          d.CPC,
		CvR:          d.CvR,
		CPA:          d.CPA,
		ROAS:         d.ROAS,
	}
}

// CalculateAll maps Calculate over rows, preserving order and length.
func CalculateAll(rows []models.RawMetricRow) []models.CalculatedMetricRow {
	out := make([]models.CalculatedMetricRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, Calculate(r))
	}
	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
