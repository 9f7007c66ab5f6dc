// Package main generates a schema report from stored records without
// running formulaic analysis.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/fixtures"
	"asset-graph-lab/internal/graph"
	"asset-graph-lab/internal/reporting"
	"asset-graph-lab/internal/storage/memory"
)

func main() {
	// Parse flags
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	deterministic := flag.Bool("deterministic", false, "Use a fixed timestamp in the report header")
	flag.Parse()

	ctx := context.Background()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Memory stores with the sample universe
	assetStore := memory.NewAssetStore()
	relationshipStore := memory.NewRelationshipStore()
	priceSeriesStore := memory.NewPriceSeriesStore()
	if err := fixtures.Load(ctx, assetStore, relationshipStore, priceSeriesStore); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}

	assets, err := assetStore.GetAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		os.Exit(1)
	}
	rels, err := relationshipStore.GetAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading relationships: %v\n", err)
		os.Exit(1)
	}

	g, err := graph.NewBuilder(logger).Build(assets, rels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building graph: %v\n", err)
		os.Exit(1)
	}

	gen := reporting.NewGenerator()
	if *deterministic {
		fixedTime := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
		gen = gen.WithClock(func() time.Time { return fixedTime })
	}
	report := gen.Generate(g, nil)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output dir: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(*outputDir, "SCHEMA_REPORT.md")
	if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Schema report written:\n  - %s\n", path)
}
