package models

// MatchType is the keyword matching mode reported for a search-term row.
type MatchType string

const (
	MatchBroad  MatchType = "broad"
	MatchPhrase MatchType = "phrase"
	MatchExact  MatchType = "exact"
)

// ParseMatchType maps upstream match-type strings onto the known set.
// Anything unrecognized comes back empty rather than failing the row.
func ParseMatchType(s string) MatchType {
	switch MatchType(s) {
	case MatchBroad, MatchPhrase, MatchExact:
		return MatchType(s)
	}
	return ""
}

// Tab selects which sheet tab a fetch or query targets.
type Tab string

const (
	TabDaily       Tab = "daily"
	TabSearchTerms Tab = "searchTerms"
	TabAdGroups    Tab = "adGroups"
)

// ParseTab validates a tab selector, defaulting to daily.
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabDaily, TabSearchTerms, TabAdGroups:
		return Tab(s), true
	case "":
		return TabDaily, true
	}
	return "", false
}

// RawMetricRow is one upstream row: identity fields plus raw counters.
// Counters default to 0 when absent upstream; identity fields default to "".
type RawMetricRow struct {
	Campaign   string    `json:"campaign"`
	AdGroup    string    `json:"adGroup,omitempty"`
	SearchTerm string    `json:"searchTerm,omitempty"`
	MatchType  MatchType `json:"matchType,omitempty"`
	Date       string    `json:"date,omitempty"`

	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Cost            float64 `json:"cost"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversionValue"`
}

// CalculatedMetricRow is a RawMetricRow plus the derived KPIs.
// Every derived field is finite; division-by-zero branches resolve to 0.
type CalculatedMetricRow struct {
	RawMetricRow

	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CvR  float64 `json:"cvr"`
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
}

// TotalsRow carries summed counters for a row set under a synthetic label,
// with KPIs re-derived from the sums.
type TotalsRow struct {
	Label string `json:"label"`

	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Cost            float64 `json:"cost"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversionValue"`

	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CvR  float64 `json:"cvr"`
	CPA  float64 `json:"cpa"`
	ROAS float64 `json:"roas"`
}

// NodeKind tags a hierarchy level.
type NodeKind string

const (
	KindCampaign   NodeKind = "campaign"
	KindAdGroup    NodeKind = "adGroup"
	KindSearchTerm NodeKind = "searchTerm"
)

// TreeNode is one node of the campaign -> ad group -> search term forest.
// Leaf holds the source row for searchTerm nodes; Totals holds the subtree
// rollup for campaign and adGroup nodes. The tree is rebuilt from scratch on
// every build and must not be mutated afterwards.
type TreeNode struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Kind     NodeKind             `json:"kind"`
	Children []*TreeNode          `json:"children,omitempty"`
	Leaf     *CalculatedMetricRow `json:"leaf,omitempty"`
	Totals   *TotalsRow           `json:"totals,omitempty"`
}
