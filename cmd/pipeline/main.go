// Package main provides the end-to-end pipeline entry point.
// Executes: load fixtures → build graph → formulaic analysis → metrics → report.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/config"
	"asset-graph-lab/internal/fixtures"
	"asset-graph-lab/internal/observability"
	"asset-graph-lab/internal/orchestrator"
	"asset-graph-lab/internal/reporting"
	"asset-graph-lab/internal/storage/memory"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config (optional, defaults apply)")
	outputDir := flag.String("output-dir", "", "Output directory (overrides report.output_dir)")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}

	logger := newLogger(cfg, *verbose)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	// Create memory stores and load the sample universe
	assetStore := memory.NewAssetStore()
	relationshipStore := memory.NewRelationshipStore()
	priceSeriesStore := memory.NewPriceSeriesStore()
	if err := fixtures.Load(ctx, assetStore, relationshipStore, priceSeriesStore); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	// Optional Prometheus endpoint
	var obs *observability.Metrics
	if cfg.Metrics.Enabled {
		obs = observability.NewMetrics("")
		go func() {
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
			if err := http.ListenAndServe(cfg.Metrics.Addr, obs.Handler()); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	fmt.Println("=== Asset Graph Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		AssetStore:        assetStore,
		RelationshipStore: relationshipStore,
		PriceSeriesStore:  priceSeriesStore,
		AnalysisConfig:    cfg.AnalysisConfig(),
		AnalysisTimeout:   cfg.Analysis.Timeout,
		WeightTolerance:   cfg.Graph.WeightTolerance,
		Observability:     obs,
		Log:               logger,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed:\n")
	fmt.Printf("  Assets: %d\n", result.Graph.AssetCount())
	fmt.Printf("  Relationships: %d\n", result.Graph.EdgeCount())
	fmt.Printf("  Models accepted: %d\n", len(result.Analysis.Models))
	fmt.Printf("  Undetermined: %d\n", len(result.Analysis.Undetermined))
	fmt.Printf("  Rejected: %d\n", len(result.Analysis.Rejected))
	if len(result.Analysis.Skipped) > 0 {
		fmt.Printf("  Skipped (cancelled): %d\n", len(result.Analysis.Skipped))
	}
	fmt.Printf("  Graph quality score: %.3f\n", result.Snapshot.QualityScore)

	written, err := writeReports(cfg, result.Report)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing reports: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated files:")
	for _, path := range written {
		fmt.Printf("  - %s\n", path)
	}
}

// writeReports renders the schema report in each configured format and
// returns the paths written.
func writeReports(cfg *config.Config, report *reporting.SchemaReport) ([]string, error) {
	if err := os.MkdirAll(cfg.Report.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, format := range cfg.Report.Formats {
		switch strings.ToLower(format) {
		case "markdown":
			path := filepath.Join(cfg.Report.OutputDir, "SCHEMA_REPORT.md")
			if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		case "csv":
			compositions := filepath.Join(cfg.Report.OutputDir, "composition_integrity.csv")
			if err := os.WriteFile(compositions, []byte(reporting.RenderCompositionCSV(report)), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", compositions, err)
			}
			findings := filepath.Join(cfg.Report.OutputDir, "findings.csv")
			if err := os.WriteFile(findings, []byte(reporting.RenderFindingsCSV(report)), 0o644); err != nil {
				return nil, fmt.Errorf("write %s: %w", findings, err)
			}
			written = append(written, compositions, findings)
		}
	}
	return written, nil
}

func newLogger(cfg *config.Config, verbose bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	var out zerolog.Logger
	if cfg.Logging.Pretty {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		out = zerolog.New(os.Stderr)
	}
	return out.Level(level).With().Timestamp().Logger()
}
