// Package orchestrator coordinates the full pipeline:
// load records → build graph → formulaic analysis → metrics → schema report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/analysis"
	"asset-graph-lab/internal/graph"
	"asset-graph-lab/internal/metrics"
	"asset-graph-lab/internal/observability"
	"asset-graph-lab/internal/reporting"
	"asset-graph-lab/internal/storage"
)

// Options for creating an Orchestrator.
type Options struct {
	// Required stores
	AssetStore        storage.AssetStore
	RelationshipStore storage.RelationshipStore
	PriceSeriesStore  storage.PriceSeriesStore

	// Analysis configuration
	AnalysisConfig  analysis.Config
	AnalysisTimeout time.Duration // zero means no deadline
	WeightTolerance float64       // zero means graph.DefaultWeightTolerance

	// Optional collaborators
	Observability *observability.Metrics
	Log           zerolog.Logger
}

// Orchestrator runs the pipeline end to end against one record snapshot.
type Orchestrator struct {
	assetStore        storage.AssetStore
	relationshipStore storage.RelationshipStore
	priceSeriesStore  storage.PriceSeriesStore

	analysisConfig  analysis.Config
	analysisTimeout time.Duration
	weightTolerance float64

	obs *observability.Metrics
	log zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	tolerance := opts.WeightTolerance
	if tolerance <= 0 {
		tolerance = graph.DefaultWeightTolerance
	}
	return &Orchestrator{
		assetStore:        opts.AssetStore,
		relationshipStore: opts.RelationshipStore,
		priceSeriesStore:  opts.PriceSeriesStore,
		analysisConfig:    opts.AnalysisConfig,
		analysisTimeout:   opts.AnalysisTimeout,
		weightTolerance:   tolerance,
		obs:               opts.Observability,
		log:               opts.Log.With().Str("component", "orchestrator").Logger(),
	}
}

// RunResult contains all artifacts from one pipeline run.
type RunResult struct {
	Graph    *graph.RelationshipGraph // includes the formulaic overlay
	Analysis *analysis.Result
	Snapshot *metrics.Snapshot
	Report   *reporting.SchemaReport
}

// Run executes the full pipeline.
// Phases:
//  1. Load asset and relationship records
//  2. Build the relationship graph
//  3. Formulaic analysis over stored price series
//  4. Topology metrics
//  5. Schema report
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	o.log.Info().Msg("phase 1: loading records")
	assets, err := o.assetStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load assets) failed: %w", err)
	}
	rels, err := o.relationshipStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 1 (load relationships) failed: %w", err)
	}

	o.log.Info().Int("assets", len(assets)).Int("relationships", len(rels)).Msg("phase 2: building graph")
	builder := graph.NewBuilder(o.log).WithWeightTolerance(o.weightTolerance)
	g, err := builder.Build(assets, rels)
	if err != nil {
		if o.obs != nil {
			o.obs.GraphBuildFailures.Inc()
		}
		return nil, fmt.Errorf("phase 2 (build graph) failed: %w", err)
	}
	o.recordGraphGauges(g)

	o.log.Info().Msg("phase 3: formulaic analysis")
	prices, err := o.priceSeriesStore.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (load price series) failed: %w", err)
	}

	analysisCtx := ctx
	if o.analysisTimeout > 0 {
		var cancel context.CancelFunc
		analysisCtx, cancel = context.WithTimeout(ctx, o.analysisTimeout)
		defer cancel()
	}
	started := time.Now()
	analyzer := analysis.New(o.analysisConfig, o.log)
	result := analyzer.Analyze(analysisCtx, g, prices, nil)
	o.recordAnalysis(result, time.Since(started))

	o.log.Info().Msg("phase 4: topology metrics")
	snapshot := metrics.Compute(result.Graph)

	o.log.Info().Msg("phase 5: schema report")
	report := reporting.NewGenerator().Generate(g, result)
	o.recordReport(report)

	return &RunResult{
		Graph:    result.Graph,
		Analysis: result,
		Snapshot: snapshot,
		Report:   report,
	}, nil
}

func (o *Orchestrator) recordGraphGauges(g *graph.RelationshipGraph) {
	if o.obs == nil {
		return
	}
	o.obs.GraphBuildsTotal.Inc()
	o.obs.AssetsInGraph.Set(float64(g.AssetCount()))
	kinds := make(map[string]int)
	for _, e := range g.Edges() {
		kinds[string(e.Kind)]++
	}
	for kind, count := range kinds {
		o.obs.EdgesInGraph.WithLabelValues(kind).Set(float64(count))
	}
}

func (o *Orchestrator) recordAnalysis(result *analysis.Result, elapsed time.Duration) {
	if o.obs == nil {
		return
	}
	decided := len(result.Models) + len(result.Undetermined) + len(result.Rejected)
	o.obs.TargetsAnalyzed.Add(float64(decided))
	o.obs.ModelsAccepted.Add(float64(len(result.Models)))
	o.obs.UndeterminedTotal.Add(float64(len(result.Undetermined)))
	o.obs.UnstableFitsTotal.Add(float64(len(result.Warnings)))
	for _, rej := range result.Rejected {
		o.obs.TargetsRejected.WithLabelValues(rejectionReason(rej)).Inc()
	}
	o.obs.AnalysisDuration.Observe(elapsed.Seconds())
}

func (o *Orchestrator) recordReport(report *reporting.SchemaReport) {
	if o.obs == nil {
		return
	}
	o.obs.ReportsGenerated.Inc()
	for _, f := range report.Findings {
		o.obs.FindingsSurfaced.WithLabelValues(string(f.Code)).Inc()
	}
}

// rejectionReason maps a rejection to a low-cardinality metric label.
func rejectionReason(rej analysis.Rejection) string {
	var insufficient *analysis.InsufficientDataError
	if errors.As(rej.Err, &insufficient) {
		return "insufficient_data"
	}
	var cycle *graph.CycleError
	if errors.As(rej.Err, &cycle) {
		return "cycle"
	}
	return "other"
}
