package hierarchy

import (
	"testing"

	"github.com/mikedeiure/CustomApp-V1/internal/calc"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

func row(campaign, adGroup, term string, clicks int64) models.CalculatedMetricRow {
	return calc.Calculate(models.RawMetricRow{
		Campaign:    campaign,
		AdGroup:     adGroup,
		SearchTerm:  term,
		Impressions: 100,
		Clicks:      clicks,
		Cost:        10,
	})
}

func TestBuildGroupsDeterministically(t *testing.T) {
	rows := []models.CalculatedMetricRow{
		row("Brand", "Shoes", "running shoes", 5),
		row("Brand", "Shoes", "blue shoes", 3),
	}
	forest := Build(rows)
	if len(forest) != 1 {
		t.Fatalf("expected 1 campaign node, got %d", len(forest))
	}
	c := forest[0]
	if c.Kind != models.KindCampaign || c.Name != "Brand" {
		t.Fatalf("bad campaign node: %+v", c)
	}
	if len(c.Children) != 1 {
		t.Fatalf("expected 1 ad-group node, got %d", len(c.Children))
	}
	g := c.Children[0]
	if g.Kind != models.KindAdGroup || len(g.Children) != 2 {
		t.Fatalf("bad ad-group node: %+v", g)
	}
	// alphabetical leaves regardless of input order
	if g.Children[0].Name != "blue shoes" || g.Children[1].Name != "running shoes" {
		t.Fatalf("leaves out of order: %q, %q", g.Children[0].Name, g.Children[1].Name)
	}
}

func TestBuildOrderingIndependentOfInput(t *testing.T) {
	a := []models.CalculatedMetricRow{
		row("Zeta", "g", "t", 1),
		row("alpha", "g", "t", 1),
		row("Mid", "g", "t", 1),
	}
	b := []models.CalculatedMetricRow{a[2], a[0], a[1]}

	fa, fb := Build(a), Build(b)
	if len(fa) != 3 || len(fb) != 3 {
		t.Fatalf("expected 3 campaigns each, got %d and %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i].Name != fb[i].Name {
			t.Fatalf("order depends on input: %q vs %q at %d", fa[i].Name, fb[i].Name, i)
		}
	}
	// case-insensitive alphabetical: alpha, Mid, Zeta
	if fa[0].Name != "alpha" || fa[1].Name != "Mid" || fa[2].Name != "Zeta" {
		t.Fatalf("bad campaign order: %q, %q, %q", fa[0].Name, fa[1].Name, fa[2].Name)
	}
}

func TestBuildMissingCampaignGoesToUnknownBucket(t *testing.T) {
	rows := []models.CalculatedMetricRow{
		row("", "g", "orphan", 1),
		row("Brand", "g", "kept", 1),
	}
	forest := Build(rows)
	if len(forest) != 2 {
		t.Fatalf("expected 2 campaign nodes, got %d", len(forest))
	}
	var found bool
	for _, c := range forest {
		if c.Name == UnknownCampaign {
			found = true
			if len(c.Children) != 1 || len(c.Children[0].Children) != 1 {
				t.Fatalf("unknown bucket malformed: %+v", c)
			}
		}
	}
	if !found {
		t.Fatal("row without campaign was dropped instead of bucketed")
	}
}

func TestBuildEmptyAdGroupStillGrouped(t *testing.T) {
	rows := []models.CalculatedMetricRow{
		row("Brand", "", "a", 1),
		row("Brand", "", "b", 1),
	}
	forest := Build(rows)
	if len(forest) != 1 || len(forest[0].Children) != 1 {
		t.Fatalf("expected one grouped ad-group node, got %+v", forest)
	}
	if forest[0].Children[0].Name != NoAdGroup {
		t.Fatalf("expected %q node, got %q", NoAdGroup, forest[0].Children[0].Name)
	}
}

func TestBuildRepeatedTermsStayDistinct(t *testing.T) {
	rows := []models.CalculatedMetricRow{
		row("Brand", "g", "same term", 1),
		row("Brand", "g", "same term", 2),
	}
	forest := Build(rows)
	leaves := forest[0].Children[0].Children
	if len(leaves) != 2 {
		t.Fatalf("expected 2 distinct leaves, got %d", len(leaves))
	}
	if leaves[0].ID == leaves[1].ID {
		t.Fatalf("leaf IDs collide: %q", leaves[0].ID)
	}
}

func TestBuildRollupTotalsMatchLeaves(t *testing.T) {
	rows := []models.CalculatedMetricRow{
		row("Brand", "g1", "a", 5),
		row("Brand", "g1", "b", 3),
		row("Brand", "g2", "c", 2),
	}
	forest := Build(rows)
	c := forest[0]
	if c.Totals == nil || c.Totals.Clicks != 10 || c.Totals.Impressions != 300 {
		t.Fatalf("bad campaign rollup: %+v", c.Totals)
	}
	for _, g := range c.Children {
		var clicks int64
		for _, leaf := range g.Children {
			clicks += leaf.Leaf.Clicks
		}
		if g.Totals == nil || g.Totals.Clicks != clicks {
			t.Fatalf("ad-group rollup mismatch for %q: %+v", g.Name, g.Totals)
		}
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if forest := Build(nil); len(forest) != 0 {
		t.Fatalf("expected empty forest, got %d nodes", len(forest))
	}
}
