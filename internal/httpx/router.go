// Package httpx wires the dashboard API onto chi.
package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mikedeiure/CustomApp-V1/internal/aggregate"
	"github.com/mikedeiure/CustomApp-V1/internal/calc"
	"github.com/mikedeiure/CustomApp-V1/internal/export"
	"github.com/mikedeiure/CustomApp-V1/internal/hierarchy"
	"github.com/mikedeiure/CustomApp-V1/internal/llm"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
	"github.com/mikedeiure/CustomApp-V1/internal/pipeline"
	"github.com/mikedeiure/CustomApp-V1/internal/store"
	"github.com/mikedeiure/CustomApp-V1/internal/telemetry"
	"github.com/mikedeiure/CustomApp-V1/internal/utils"
)

// Fetcher supplies raw rows for a tab; the sheet client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, tab models.Tab) ([]models.RawMetricRow, error)
}

// Deps is everything the router needs.
type Deps struct {
	Log       *slog.Logger
	Fetcher   Fetcher
	Store     *store.MemoryStore
	Providers map[string]llm.Provider
	Metrics   *telemetry.Metrics
}

type server struct {
	log       *slog.Logger
	fetcher   Fetcher
	store     *store.MemoryStore
	providers map[string]llm.Provider
	metrics   *telemetry.Metrics
}

func NewRouter(d Deps) http.Handler {
	s := &server{
		log:       d.Log,
		fetcher:   d.Fetcher,
		store:     d.Store,
		providers: d.Providers,
		metrics:   d.Metrics,
	}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log))
	mux.Use(middleware.Recoverer)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
		mux.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })

	mux.Post("/api/refresh", s.handleRefresh)
	mux.Get("/api/table", s.handleTable)
	mux.Get("/api/totals", s.handleTotals)
	mux.Get("/api/tree", s.handleTree)
	mux.Get("/api/export.csv", s.handleExport)
	mux.Post("/api/insights", s.handleInsights)

	return mux
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseTab(r.URL.Query().Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", 400)
		return
	}
	raw, err := s.fetcher.Fetch(r.Context(), tab)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SheetFetches.WithLabelValues(string(tab), "error").Inc()
		}
		http.Error(w, err.Error(), 502)
		return
	}
	rows := calc.CalculateAll(raw)
	s.store.Set(tab, rows)
	if s.metrics != nil {
		s.metrics.SheetFetches.WithLabelValues(string(tab), "ok").Inc()
		s.metrics.SheetRows.WithLabelValues(string(tab)).Set(float64(len(rows)))
	}
	writeJSON(w, map[string]any{"tab": tab, "rows": len(rows)})
}

func (s *server) handleTable(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseTab(r.URL.Query().Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", 400)
		return
	}
	rows, fetchedAt, _ := s.store.Rows(tab)
	p := parseParams(r.URL.Query())

	filtered := pipeline.Filter(rows, p)
	res := pipeline.Apply(rows, p)
	label := aggregate.DefaultLabel
	if p.CampaignFilter != "" {
		label = "Total (campaign filtered)"
	}
	writeJSON(w, map[string]any{
		"rows":       res.PageRows,
		"totalRows":  res.TotalRows,
		"totalPages": res.TotalPages,
		"totals":     aggregate.Aggregate(filtered, label),
		"fetchedAt":  fetchedAt,
	})
}

func (s *server) handleTotals(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseTab(r.URL.Query().Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", 400)
		return
	}
	rows, _, _ := s.store.Rows(tab)
	campaign := r.URL.Query().Get("campaign")

	if campaign != "" {
		scoped := pipeline.Filter(rows, pipeline.Params{CampaignFilter: campaign})
		writeJSON(w, map[string]any{
			"total":     aggregate.Aggregate(scoped, "Total (campaign filtered)"),
			"byAdGroup": aggregate.GroupBy(scoped, func(r models.CalculatedMetricRow) string { return r.AdGroup }),
		})
		return
	}
	writeJSON(w, map[string]any{
		"total":      aggregate.Aggregate(rows, ""),
		"byCampaign": aggregate.GroupBy(rows, func(r models.CalculatedMetricRow) string { return r.Campaign }),
	})
}

func (s *server) handleTree(w http.ResponseWriter, r *http.Request) {
	tab, ok := models.ParseTab(r.URL.Query().Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", 400)
		return
	}
	rows, _, _ := s.store.Rows(tab)
	writeJSON(w, hierarchy.Build(rows))
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tab, ok := models.ParseTab(q.Get("tab"))
	if !ok {
		http.Error(w, "unknown tab", 400)
		return
	}
	rows, _, _ := s.store.Rows(tab)
	filtered := pipeline.Filter(rows, parseParams(q))
	totals := aggregate.Aggregate(filtered, "")

	if q.Get("format") == "tsv" {
		w.Header().Set("Content-Type", "text/tab-separated-values")
		w.Header().Set("Content-Disposition", `attachment; filename="`+string(tab)+`.tsv"`)
		export.WriteTSV(w, filtered, totals)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+string(tab)+`.csv"`)
	export.WriteCSV(w, filtered, totals)
}

type insightsRequest struct {
	Provider  string `json:"provider"`
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

func (s *server) handleInsights(w http.ResponseWriter, r *http.Request) {
	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", 400)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt required", 400)
		return
	}
	name := req.Provider
	if name == "" {
		name = "openai"
	}
	provider, ok := s.providers[name]
	if !ok {
		http.Error(w, "provider not configured: "+name, 400)
		return
	}

	start := time.Now()
	text, err := provider.Complete(r.Context(), llm.Request{
		Model:     req.Model,
		Prompt:    req.Prompt,
		MaxTokens: req.MaxTokens,
	})
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.LLMRequests.WithLabelValues(name, outcome).Inc()
		s.metrics.LLMDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	writeJSON(w, map[string]any{"provider": name, "text": text})
}

// parseParams maps query values onto pipeline parameters. Unknown values fall
// back to defaults rather than erroring.
func parseParams(q url.Values) pipeline.Params {
	p := pipeline.Params{
		Query:          q.Get("q"),
		CampaignFilter: q.Get("campaign"),
		AdGroupFilter:  q.Get("adGroup"),
		SortField:      q.Get("sort"),
		Page:           atoiDef(q.Get("page"), 1),
		PageSize:       atoiDef(q.Get("pageSize"), pipeline.DefaultPageSize),
	}
	switch pipeline.SearchMode(q.Get("mode")) {
	case pipeline.ModeExact:
		p.SearchMode = pipeline.ModeExact
	case pipeline.ModeExclude:
		p.SearchMode = pipeline.ModeExclude
	default:
		p.SearchMode = pipeline.ModeContains
	}
	switch pipeline.SortDirection(q.Get("dir")) {
	case pipeline.Asc:
		p.SortDirection = pipeline.Asc
	case pipeline.Desc:
		p.SortDirection = pipeline.Desc
	default:
		if p.SortField != "" {
			p.SortDirection = pipeline.DefaultDirection(p.SortField)
		}
	}
	if v := q.Get("minClicks"); v != "" {
		p.Presets = append(p.Presets, pipeline.NumericThreshold{Field: "clicks", Op: pipeline.OpGTE, Value: float64(atoiDef(v, 0))})
	}
	if v := q.Get("minCost"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Presets = append(p.Presets, pipeline.NumericThreshold{Field: "cost", Op: pipeline.OpGTE, Value: f})
		}
	}
	if v := q.Get("topN"); v != "" {
		field := q.Get("topNField")
		if field == "" {
			field = "cost"
		}
		p.Presets = append(p.Presets, pipeline.TopN{Field: field, N: atoiDef(v, 0)})
	}
	return p
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
