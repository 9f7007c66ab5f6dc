package analysis

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/graph"
)

func buildGraph(t *testing.T, assets []*domain.Asset, rels []*domain.Relationship) *graph.RelationshipGraph {
	t.Helper()
	g, err := graph.NewBuilder(zerolog.Nop()).Build(assets, rels)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return g
}

func analysisAssets(ids ...string) []*domain.Asset {
	assets := make([]*domain.Asset, len(ids))
	for i, id := range ids {
		assets[i] = &domain.Asset{
			ID:       id,
			Symbol:   id,
			Name:     "Asset " + id,
			Class:    domain.AssetClassEquity,
			Currency: "USD",
			Price:    100,
		}
	}
	return assets
}

// linearSeries generates n daily points of f(i) starting at a fixed epoch.
func linearSeries(n int, f func(i int) float64) domain.PriceSeries {
	const startMs, dayMs = 1704067200000, 86400000
	s := make(domain.PriceSeries, n)
	for i := 0; i < n; i++ {
		s[i] = domain.PricePoint{TimestampMs: int64(startMs + i*dayMs), Price: f(i)}
	}
	return s
}

func TestAnalyze_ExactRecovery(t *testing.T) {
	// IDX = 2*A + 3*B + 1 across 40 shared observations
	g := buildGraph(t, analysisAssets("A", "B", "IDX"), nil)
	a := linearSeries(40, func(i int) float64 { return float64(i) + 10 })
	b := linearSeries(40, func(i int) float64 { return math.Sin(float64(i)/3) + 5 })
	prices := map[string]domain.PriceSeries{
		"A": a,
		"B": b,
		"IDX": linearSeries(40, func(i int) float64 {
			return 2*a[i].Price + 3*b[i].Price + 1
		}),
	}

	analyzer := New(Config{
		CandidateSource: CandidateSourceExplicit,
		Candidates:      map[string][]string{"IDX": {"A", "B"}},
		Workers:         1,
	}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, []string{"IDX"})

	if len(result.Models) != 1 {
		t.Fatalf("expected 1 model, got %d (undetermined=%v rejected=%v)",
			len(result.Models), result.Undetermined, result.Rejected)
	}
	model := result.Models[0]
	if math.Abs(model.Terms[0].Coefficient-2) > 1e-6 {
		t.Errorf("expected coefficient 2 for A, got %f", model.Terms[0].Coefficient)
	}
	if math.Abs(model.Terms[1].Coefficient-3) > 1e-6 {
		t.Errorf("expected coefficient 3 for B, got %f", model.Terms[1].Coefficient)
	}
	if math.Abs(model.Intercept-1) > 1e-6 {
		t.Errorf("expected intercept 1, got %f", model.Intercept)
	}
	if model.FitScore < 0.999999 {
		t.Errorf("expected fit score ≈ 1, got %f", model.FitScore)
	}
	if model.SampleSize != 40 {
		t.Errorf("expected 40 samples, got %d", model.SampleSize)
	}

	// Overlay graph carries the model's FORMULAIC edges
	if result.Graph.EdgeCount() != 2 {
		t.Errorf("expected 2 formulaic edges on overlay, got %d", result.Graph.EdgeCount())
	}
}

func TestAnalyze_InsufficientDataDoesNotStopBatch(t *testing.T) {
	// THIN has 5 observations (below minimum), IDX has plenty; the batch
	// reports both outcomes.
	g := buildGraph(t, analysisAssets("A", "IDX", "THIN"), nil)
	a := linearSeries(40, func(i int) float64 { return float64(i) + 1 })
	prices := map[string]domain.PriceSeries{
		"A":    a,
		"IDX":  linearSeries(40, func(i int) float64 { return 4*a[i].Price + 2 }),
		"THIN": linearSeries(5, func(i int) float64 { return float64(i) }),
	}

	analyzer := New(Config{
		CandidateSource: CandidateSourceExplicit,
		Candidates:      map[string][]string{"IDX": {"A"}, "THIN": {"A"}},
		Workers:         1,
	}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, []string{"IDX", "THIN"})

	if len(result.Models) != 1 || result.Models[0].TargetID != "IDX" {
		t.Errorf("expected IDX model despite THIN failing, got %+v", result.Models)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %+v", result.Rejected)
	}
	var insufficientErr *InsufficientDataError
	if !errors.As(result.Rejected[0].Err, &insufficientErr) {
		t.Errorf("expected InsufficientDataError, got %v", result.Rejected[0].Err)
	}
	if insufficientErr.TargetID != "THIN" || insufficientErr.Aligned != 5 {
		t.Errorf("unexpected error detail: %+v", insufficientErr)
	}
}

func TestAnalyze_NoCandidatesUndetermined(t *testing.T) {
	// Graph-neighbor mode with an isolated asset → undetermined, not error
	g := buildGraph(t, analysisAssets("LONER"), nil)
	prices := map[string]domain.PriceSeries{
		"LONER": linearSeries(40, func(i int) float64 { return float64(i) }),
	}

	analyzer := New(Config{Workers: 1}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, []string{"LONER"})

	if len(result.Undetermined) != 1 || result.Undetermined[0].TargetID != "LONER" {
		t.Fatalf("expected LONER undetermined, got %+v", result.Undetermined)
	}
	if len(result.Models) != 0 || len(result.Rejected) != 0 {
		t.Errorf("expected no models or rejections, got %+v / %+v", result.Models, result.Rejected)
	}
}

func TestAnalyze_BelowThresholdUndetermined(t *testing.T) {
	// Unrelated series → poor fit → undetermined with the score in the reason
	g := buildGraph(t, analysisAssets("A", "B"), nil)
	prices := map[string]domain.PriceSeries{
		"A": linearSeries(60, func(i int) float64 { return math.Sin(float64(i)*5.7) + 10 }),
		"B": linearSeries(60, func(i int) float64 { return math.Cos(float64(i)*3.1) + 10 }),
	}

	analyzer := New(Config{
		CandidateSource: CandidateSourceExplicit,
		Candidates:      map[string][]string{"B": {"A"}},
		Workers:         1,
	}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, []string{"B"})

	if len(result.Models) != 0 {
		t.Errorf("expected no model, got %+v", result.Models)
	}
	if len(result.Undetermined) != 1 {
		t.Fatalf("expected 1 undetermined, got %+v", result.Undetermined)
	}
	if result.Undetermined[0].Reason == "" {
		t.Error("expected a reason on the undetermined entry")
	}
}

func TestAnalyze_CycleRejectsModel(t *testing.T) {
	// T → C formulaic already exists; a model for T over C would add
	// C → T and close a cycle, so the model is discarded.
	g := buildGraph(t, analysisAssets("C", "T"), []*domain.Relationship{
		{SourceID: "T", TargetID: "C", Kind: domain.KindFormulaic, Weight: 1.0, ModelID: "prior"},
	})
	c := linearSeries(40, func(i int) float64 { return float64(i) + 3 })
	prices := map[string]domain.PriceSeries{
		"C": c,
		"T": linearSeries(40, func(i int) float64 { return 2*c[i].Price + 1 }),
	}

	analyzer := New(Config{
		CandidateSource: CandidateSourceExplicit,
		Candidates:      map[string][]string{"T": {"C"}},
		Workers:         1,
	}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, []string{"T"})

	if len(result.Models) != 0 {
		t.Errorf("expected model discarded on cycle, got %+v", result.Models)
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("expected 1 rejection, got %+v", result.Rejected)
	}
	var cycleErr *graph.CycleError
	if !errors.As(result.Rejected[0].Err, &cycleErr) {
		t.Errorf("expected CycleError cause, got %v", result.Rejected[0].Err)
	}
	// Prior edge untouched
	if result.Graph.EdgeCount() != 1 {
		t.Errorf("expected only the prior edge, got %d", result.Graph.EdgeCount())
	}
}

func TestAnalyze_CancelledContextReportsSkipped(t *testing.T) {
	g := buildGraph(t, analysisAssets("A", "B", "C"), nil)
	prices := map[string]domain.PriceSeries{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyzer := New(Config{Workers: 1}, zerolog.Nop())
	result := analyzer.Analyze(ctx, g, prices, []string{"A", "B", "C"})

	// Everything not processed before cancellation lands in Skipped
	total := len(result.Models) + len(result.Undetermined) + len(result.Rejected) + len(result.Skipped)
	if total != 3 {
		t.Errorf("expected all 3 targets accounted for, got %d", total)
	}
	if len(result.Skipped) == 0 {
		t.Error("expected skipped targets after cancellation")
	}
}

func TestAnalyze_NilTargetsMeansAllAssets(t *testing.T) {
	g := buildGraph(t, analysisAssets("A", "B"), nil)
	prices := map[string]domain.PriceSeries{}

	analyzer := New(Config{Workers: 1}, zerolog.Nop())
	result := analyzer.Analyze(context.Background(), g, prices, nil)

	// Both assets reach a verdict (no candidates → undetermined)
	if len(result.Undetermined) != 2 {
		t.Errorf("expected 2 undetermined, got %+v", result.Undetermined)
	}
}

func TestAcceptanceRate(t *testing.T) {
	r := &Result{
		Models:       []*domain.FormulaicModel{{TargetID: "A"}},
		Undetermined: []Undetermined{{TargetID: "B"}},
		Rejected:     []Rejection{{TargetID: "C"}, {TargetID: "D"}},
	}
	// 1 accepted of 4 verdicts
	if got := r.AcceptanceRate(); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("expected 0.25, got %f", got)
	}
}
