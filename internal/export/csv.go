// Package export renders calculated rows as CSV or TSV with the fixed
// 13-column dashboard layout. Formatting only; nothing here feeds back into
// any metric computation.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// Header is the fixed column layout expected by downstream spreadsheets.
var Header = []string{
	"Search Term", "Campaign", "Ad Group",
	"Impressions", "Clicks", "Cost", "Conversions", "Conversion Value",
	"CTR (%)", "CPC", "Conversion Rate (%)", "CPA", "ROAS",
}

// WrapTerm annotates a search term by match type: phrase terms are quoted,
// exact terms bracketed, broad terms left bare.
func WrapTerm(term string, mt models.MatchType) string {
	switch mt {
	case models.MatchPhrase:
		return `"` + term + `"`
	case models.MatchExact:
		return "[" + term + "]"
	}
	return term
}

// WriteCSV writes the header, one line per row and, when totals is non-nil, a
// trailing totals line.
func WriteCSV(w io.Writer, rows []models.CalculatedMetricRow, totals *models.TotalsRow) error {
	return write(w, ',', rows, totals)
}

// WriteTSV is WriteCSV with tab separators.
func WriteTSV(w io.Writer, rows []models.CalculatedMetricRow, totals *models.TotalsRow) error {
	return write(w, '\t', rows, totals)
}

func write(w io.Writer, comma rune, rows []models.CalculatedMetricRow, totals *models.TotalsRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			WrapTerm(r.SearchTerm, r.MatchType),
			r.Campaign,
			r.AdGroup,
			strconv.FormatInt(r.Impressions, 10),
			strconv.FormatInt(r.Clicks, 10),
			f2(r.Cost),
			f1(r.Conversions),
			f2(r.ConversionValue),
			f2(r.CTR),
			f2(r.CPC),
			f2(r.CvR),
			f2(r.CPA),
			f2(r.ROAS),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if totals != nil {
		rec := []string{
			totals.Label,
			"",
			"",
			strconv.FormatInt(totals.Impressions, 10),
			strconv.FormatInt(totals.Clicks, 10),
			f2(totals.Cost),
			f1(totals.Conversions),
			f2(totals.ConversionValue),
			f2(totals.CTR),
			f2(totals.CPC),
			f2(totals.CvR),
			f2(totals.CPA),
			f2(totals.ROAS),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// f2 formats to two decimals; non-finite values render as 0.00 so a sheet
// never sees NaN or Inf.
func f2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func f1(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
