// Package fetch pulls performance rows from the spreadsheet-backed endpoint,
// normalizes them and caches raw payloads per tab.
package fetch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mikedeiure/CustomApp-V1/internal/models"
)

// sheetRow is the upstream wire shape. Every field is optional; normalization
// fills defaults.
type sheetRow struct {
	Campaign        string  `json:"campaign"`
	AdGroup         string  `json:"adGroup"`
	SearchTerm      string  `json:"searchTerm"`
	MatchType       string  `json:"matchType"`
	Date            string  `json:"date"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Cost            float64 `json:"cost"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversionValue"`
}

// SheetClient fetches one tab of rows at a time.
type SheetClient struct {
	c       HTTPClient
	baseURL string
	cache   Cache
	ttl     time.Duration
	log     *slog.Logger
}

func NewSheetClient(c HTTPClient, baseURL string, cache Cache, ttl time.Duration, log *slog.Logger) *SheetClient {
	return &SheetClient{c: c, baseURL: baseURL, cache: cache, ttl: ttl, log: log}
}

// Fetch returns normalized rows for tab, serving from cache when fresh.
func (s *SheetClient) Fetch(ctx context.Context, tab models.Tab) ([]models.RawMetricRow, error) {
	key := "sheet:" + string(tab)
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, key); ok {
			var cached []models.RawMetricRow
			if err := json.Unmarshal(b, &cached); err == nil {
				s.log.Debug("sheet cache hit", slog.String("tab", string(tab)), slog.Int("rows", len(cached)))
				return cached, nil
			}
		}
	}

	var wire []sheetRow
	if err := GetJSONWithRetry(ctx, s.c, s.tabURL(tab), &wire); err != nil {
		return nil, err
	}
	rows := normalize(wire)

	if s.cache != nil && s.ttl > 0 {
		if b, err := json.Marshal(rows); err == nil {
			s.cache.Set(ctx, key, b, s.ttl)
		}
	}
	s.log.Info("sheet fetched", slog.String("tab", string(tab)), slog.Int("rows", len(rows)))
	return rows, nil
}

func (s *SheetClient) tabURL(tab models.Tab) string {
	sep := "?"
	if strings.Contains(s.baseURL, "?") {
		sep = "&"
	}
	return s.baseURL + sep + "tab=" + url.QueryEscape(string(tab))
}

// normalize trims identity fields, clamps negative counters to 0 and maps the
// match type onto the known set. clicks > impressions passes through as-is;
// upstream data quality is not this layer's problem.
func normalize(wire []sheetRow) []models.RawMetricRow {
	out := make([]models.RawMetricRow, 0, len(wire))
	for _, r := range wire {
		out = append(out, models.RawMetricRow{
			Campaign:        strings.TrimSpace(r.Campaign),
			AdGroup:         strings.TrimSpace(r.AdGroup),
			SearchTerm:      strings.TrimSpace(r.SearchTerm),
			MatchType:       models.ParseMatchType(strings.ToLower(strings.TrimSpace(r.MatchType))),
			Date:            strings.TrimSpace(r.Date),
			Impressions:     max0(r.Impressions),
			Clicks:          max0(r.Clicks),
			Cost:            maxf(r.Cost),
			Conversions:     maxf(r.Conversions),
			ConversionValue: maxf(r.ConversionValue),
		})
	}
	return out
}

func max0(i int64) int64 {
	if i < 0 {
		return 0
	}
	return i
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
