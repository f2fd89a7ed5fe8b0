package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mikedeiure/CustomApp-V1/internal/aggregate"
	"github.com/mikedeiure/CustomApp-V1/internal/calc"
	"github.com/mikedeiure/CustomApp-V1/internal/config"
	"github.com/mikedeiure/CustomApp-V1/internal/export"
	"github.com/mikedeiure/CustomApp-V1/internal/fetch"
	"github.com/mikedeiure/CustomApp-V1/internal/httpx"
	"github.com/mikedeiure/CustomApp-V1/internal/llm"
	"github.com/mikedeiure/CustomApp-V1/internal/models"
	"github.com/mikedeiure/CustomApp-V1/internal/store"
	"github.com/mikedeiure/CustomApp-V1/internal/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:          "adsboard",
		Short:        "Google Ads analytics dashboard backend",
		SilenceUsage: true,
	}
	root.AddCommand(serveCmd(), exportCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func newCache(ctx context.Context, cfg config.Config, log *slog.Logger) fetch.Cache {
	if cfg.RedisAddr == "" {
		return fetch.NewMemoryCache()
	}
	rc, err := fetch.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Warn("redis unavailable, using in-process cache", slog.String("err", err.Error()))
		return fetch.NewMemoryCache()
	}
	log.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	return rc
}

func newProviders(cfg config.Config, client fetch.HTTPClient) map[string]llm.Provider {
	providers := make(map[string]llm.Provider)
	if cfg.OpenAIKey != "" {
		providers["openai"] = llm.NewOpenAIClient(client, cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel)
	}
	if cfg.AnthropicKey != "" {
		providers["anthropic"] = llm.NewAnthropicClient(client, cfg.AnthropicBaseURL, cfg.AnthropicKey, cfg.AnthropicModel)
	}
	return providers
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := fetch.NewHTTPClient(cfg.HTTPTimeout)
			cache := newCache(ctx, cfg, log)
			sheet := fetch.NewSheetClient(client, cfg.SheetURL, cache, cfg.CacheTTL, log)

			r := httpx.NewRouter(httpx.Deps{
				Log:       log,
				Fetcher:   sheet,
				Store:     store.NewMemoryStore(),
				Providers: newProviders(cfg, client),
				Metrics:   telemetry.New("adsboard"),
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting server", slog.String("port", cfg.Port))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				log.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		tabFlag    string
		formatFlag string
		outFlag    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch a tab and write it as CSV or TSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogLevel)

			tab, ok := models.ParseTab(tabFlag)
			if !ok {
				return fmt.Errorf("unknown tab %q", tabFlag)
			}

			client := fetch.NewHTTPClient(cfg.HTTPTimeout)
			sheet := fetch.NewSheetClient(client, cfg.SheetURL, nil, 0, log)
			raw, err := sheet.Fetch(cmd.Context(), tab)
			if err != nil {
				return err
			}
			rows := calc.CalculateAll(raw)
			totals := aggregate.Aggregate(rows, "")

			out := os.Stdout
			if outFlag != "" {
				f, err := os.Create(outFlag)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if formatFlag == "tsv" {
				return export.WriteTSV(out, rows, totals)
			}
			return export.WriteCSV(out, rows, totals)
		},
	}
	cmd.Flags().StringVar(&tabFlag, "tab", string(models.TabSearchTerms), "sheet tab (daily, searchTerms, adGroups)")
	cmd.Flags().StringVar(&formatFlag, "format", "csv", "output format (csv or tsv)")
	cmd.Flags().StringVar(&outFlag, "out", "", "output file (default stdout)")
	return cmd
}
