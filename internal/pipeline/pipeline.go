// Package pipeline applies campaign/ad-group scoping, text search, preset
// predicates, sorting and pagination over calculated rows. Every call takes
// its full input and parameters and returns a fresh result; there is no
// internal state.
package pipeline

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// SearchMode selects how the free-text query matches rows.
type SearchMode string

const (
	ModeContains SearchMode = "contains"
	ModeExact    SearchMode = "exact"
	ModeExclude  SearchMode = "exclude"
)

// SortDirection orders the sorted output.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// DefaultPageSize is used when Params.PageSize is unset.
const DefaultPageSize = 50

// Params carries the full filter/sort/page state for one Apply call. Holding
// this as an explicit value (rather than ambient UI state) keeps the pipeline
// testable and reusable.
type Params struct {
	Query          string
	SearchMode     SearchMode
	CampaignFilter string
	AdGroupFilter  string
	Presets        []Preset
	SortField      string
	SortDirection  SortDirection
	Page           int
	PageSize       int
}

// Result is one page of the filtered, sorted collection.
type Result struct {
	PageRows   []models.CalculatedMetricRow `json:"rows"`
	TotalRows  int                          `json:"totalRows"`
	TotalPages int                          `json:"totalPages"`
}

// Apply runs the stages in order: campaign filter, ad-group filter, text
// search, presets, sort, paginate. It never fails; empty input yields an
// empty result.
func Apply(rows []models.CalculatedMetricRow, p Params) Result {
	filtered := Filter(rows, p)
	sortRows(filtered, p.SortField, p.SortDirection)
	return paginate(filtered, p.Page, p.PageSize)
}

// Filter runs the filtering stages only, returning the full matching set in
// input order. Used directly when a caller needs totals over the filtered set
// before pagination.
func Filter(rows []models.CalculatedMetricRow, p Params) []models.CalculatedMetricRow {
	out := make([]models.CalculatedMetricRow, 0, len(rows))
	campaign := norm(p.CampaignFilter)
	adGroup := norm(p.AdGroupFilter)
	query := norm(p.Query)

	for _, r := range rows {
		if campaign != "" && norm(r.Campaign) != campaign {
			continue
		}
		if adGroup != "" && norm(r.AdGroup) != adGroup {
			continue
		}
		if query != "" && !matchText(r, query, p.SearchMode) {
			continue
		}
		out = append(out, r)
	}
	for _, preset := range p.Presets {
		out = applyPreset(out, preset)
	}
	return out
}

// DefaultDirection is the direction a newly selected sort field starts with:
// descending for numeric fields (highest spenders first), ascending for
// string fields (names A to Z).
func DefaultDirection(field string) SortDirection {
	if isStringField(field) {
		return Asc
	}
	return Desc
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// matchText applies the query against a row. contains requires every
// whitespace token of the query to be a substring of the row's combined text;
// exact requires the whole query to equal one of the three fields; exclude is
// the negation of contains.
func matchText(r models.CalculatedMetricRow, query string, mode SearchMode) bool {
	switch mode {
	case ModeExact:
		return query == norm(r.SearchTerm) || query == norm(r.Campaign) || query == norm(r.AdGroup)
	case ModeExclude:
		return !containsAll(r, query)
	default:
		return containsAll(r, query)
	}
}

func containsAll(r models.CalculatedMetricRow, query string) bool {
	haystack := strings.ToLower(r.SearchTerm + " " + r.Campaign + " " + r.AdGroup)
	for _, tok := range strings.Fields(query) {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

func isStringField(field string) bool {
	switch field {
	case "searchTerm", "campaign", "adGroup", "date":
		return true
	}
	return false
}

func numericValue(r models.CalculatedMetricRow, field string) float64 {
	switch field {
	case "impressions":
		return float64(r.Impressions)
	case "clicks":
		return float64(r.Clicks)
	case "cost":
		return r.Cost
	case "conversions":
		return r.Conversions
	case "conversionValue":
		return r.ConversionValue
	case "ctr":
		return r.CTR
	case "cpc":
		return r.CPC
	case "cvr":
		return r.CvR
	case "cpa":
		return r.CPA
	case "roas":
		return r.ROAS
	}
	return 0
}

func stringValue(r models.CalculatedMetricRow, field string) string {
	switch field {
	case "searchTerm":
		return r.SearchTerm
	case "campaign":
		return r.Campaign
	case "adGroup":
		return r.AdGroup
	case "date":
		return r.Date
	}
	return ""
}

func sortRows(rows []models.CalculatedMetricRow, field string, dir SortDirection) {
	if field == "" {
		return
	}
	if dir == "" {
		dir = DefaultDirection(field)
	}
	sign := 1
	if dir == Desc {
		sign = -1
	}
	if isStringField(field) {
		coll := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(rows, func(i, j int) bool {
			return sign*coll.CompareString(stringValue(rows[i], field), stringValue(rows[j], field)) < 0
		})
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := numericValue(rows[i], field), numericValue(rows[j], field)
		if a == b {
			return false
		}
		if sign < 0 {
			return a > b
		}
		return a < b
	})
}

// paginate slices one 1-indexed page out of rows. Out-of-range pages clamp to
// the nearest valid page instead of erroring.
func paginate(rows []models.CalculatedMetricRow, page, pageSize int) Result {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	if start >= total {
		return Result{PageRows: []models.CalculatedMetricRow{}, TotalRows: total, TotalPages: totalPages}
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return Result{PageRows: rows[start:end], TotalRows: total, TotalPages: totalPages}
}
