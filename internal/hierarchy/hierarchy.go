// Package hierarchy groups flat search-term rows into a campaign -> ad group
// -> search term forest with rollup totals at each non-leaf level.
package hierarchy

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mikedeiure/CustomApp-V1/internal/aggregate"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// UnknownCampaign is the bucket for rows missing a campaign name.
const UnknownCampaign = "(unknown)"

// NoAdGroup labels the grouped node for rows without an ad group.
const NoAdGroup = "(none)"

// Build groups rows into a forest of campaign nodes. Campaigns, ad groups and
// leaves are each ordered ascending by locale-aware name comparison, with ties
// keeping their original relative order. Leaves reference the input rows;
// mutating a row after building is undefined behavior.
//
// Each input row becomes exactly one leaf. Repeated search terms under the
// same ad group stay distinct; de-duplication is a caller concern.
func Build(rows []models.CalculatedMetricRow) []*models.TreeNode {
	coll := collate.New(language.English, collate.IgnoreCase)

	type adGroupBucket struct {
		name string
		rows []int // indexes into rows, in input order
	}
	type campaignBucket struct {
		name     string
		adGroups map[string]*adGroupBucket
		order    []string // ad-group keys in first-seen order
	}

	campaigns := make(map[string]*campaignBucket)
	var campaignOrder []string

	for i, r := range rows {
		cname := r.Campaign
		if cname == "" {
			cname = UnknownCampaign
		}
		cb, ok := campaigns[cname]
		if !ok {
			cb = &campaignBucket{name: cname, adGroups: make(map[string]*adGroupBucket)}
			campaigns[cname] = cb
			campaignOrder = append(campaignOrder, cname)
		}
		gname := r.AdGroup
		gb, ok := cb.adGroups[gname]
		if !ok {
			gb = &adGroupBucket{name: gname}
			cb.adGroups[gname] = gb
			cb.order = append(cb.order, gname)
		}
		gb.rows = append(gb.rows, i)
	}

	sort.SliceStable(campaignOrder, func(i, j int) bool {
		return coll.CompareString(campaignOrder[i], campaignOrder[j]) < 0
	})

	forest := make([]*models.TreeNode, 0, len(campaignOrder))
	for _, cname := range campaignOrder {
		cb := campaigns[cname]

		sort.SliceStable(cb.order, func(i, j int) bool {
			return coll.CompareString(cb.order[i], cb.order[j]) < 0
		})

		cnode := &models.TreeNode{
			ID:   cname,
			Name: cname,
			Kind: models.KindCampaign,
		}
		var campaignRows []models.CalculatedMetricRow

		for _, gname := range cb.order {
			gb := cb.adGroups[gname]
			display := gb.name
			if display == "" {
				display = NoAdGroup
			}
			gnode := &models.TreeNode{
				ID:   cname + "|" + display,
				Name: display,
				Kind: models.KindAdGroup,
			}

			idx := make([]int, len(gb.rows))
			copy(idx, gb.rows)
			sort.SliceStable(idx, func(i, j int) bool {
				return coll.CompareString(rows[idx[i]].SearchTerm, rows[idx[j]].SearchTerm) < 0
			})

			groupRows := make([]models.CalculatedMetricRow, 0, len(idx))
			for _, ri := range idx {
				row := &rows[ri]
				gnode.Children = append(gnode.Children, &models.TreeNode{
					ID:   gnode.ID + "|" + row.SearchTerm + "#" + strconv.Itoa(ri),
					Name: row.SearchTerm,
					Kind: models.KindSearchTerm,
					Leaf: row,
				})
				groupRows = append(groupRows, *row)
			}
			gnode.Totals = aggregate.Aggregate(groupRows, display)
			campaignRows = append(campaignRows, groupRows...)
			cnode.Children = append(cnode.Children, gnode)
		}

		cnode.Totals = aggregate.Aggregate(campaignRows, cname)
		forest = append(forest, cnode)
	}
	return forest
}
