// Package analysis discovers formulaic dependencies between asset price
// series: for each target asset it fits the price as a linear combination of
// candidate component prices and scores the fit.
package analysis

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"asset-graph-lab/internal/domain"
	"asset-graph-lab/internal/graph"
	"asset-graph-lab/internal/series"
)

// CandidateSource selects how candidate components are chosen per target.
type CandidateSource string

const (
	// CandidateSourceGraphNeighbors takes the union of existing COMPOSITION
	// and CORRELATION neighbors of the target.
	CandidateSourceGraphNeighbors CandidateSource = "graph-neighbors"

	// CandidateSourceExplicit uses the caller-supplied candidate lists.
	CandidateSourceExplicit CandidateSource = "explicit"
)

// Default analyzer thresholds.
const (
	DefaultMinSamples         = 30
	DefaultAcceptThreshold    = 0.80
	DefaultMaxConditionNumber = 1e8
)

// Config controls candidate selection and fit acceptance.
type Config struct {
	CandidateSource    CandidateSource
	Candidates         map[string][]string // target id -> component ids, explicit mode only
	MinSamples         int                 // minimum aligned observations per fit
	AcceptThreshold    float64             // minimum fit score for acceptance
	MaxConditionNumber float64             // fits above this are flagged unstable
	Workers            int                 // parallel per-target fits
}

// DefaultConfig returns the default analyzer configuration.
func DefaultConfig() Config {
	return Config{
		CandidateSource:    CandidateSourceGraphNeighbors,
		MinSamples:         DefaultMinSamples,
		AcceptThreshold:    DefaultAcceptThreshold,
		MaxConditionNumber: DefaultMaxConditionNumber,
		Workers:            runtime.NumCPU(),
	}
}

// Analyzer fits formulaic models against an immutable graph snapshot.
type Analyzer struct {
	cfg Config
	log zerolog.Logger
}

// New creates an analyzer. Zero-valued config fields fall back to defaults.
func New(cfg Config, log zerolog.Logger) *Analyzer {
	def := DefaultConfig()
	if cfg.CandidateSource == "" {
		cfg.CandidateSource = def.CandidateSource
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = def.MinSamples
	}
	if cfg.AcceptThreshold <= 0 {
		cfg.AcceptThreshold = def.AcceptThreshold
	}
	if cfg.MaxConditionNumber <= 0 {
		cfg.MaxConditionNumber = def.MaxConditionNumber
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Analyzer{
		cfg: cfg,
		log: log.With().Str("component", "formulaic_analyzer").Logger(),
	}
}

// Undetermined records a target for which no model was found. Not an error:
// absence of formulaic structure is a valid, reportable outcome.
type Undetermined struct {
	TargetID string
	Reason   string
}

// Rejection records a target whose analysis failed or whose model was
// discarded, with the reason.
type Rejection struct {
	TargetID string
	Err      error
}

// UnstableFitWarning flags an accepted model whose regression was
// ill-conditioned. The model is kept; the warning travels with the result.
type UnstableFitWarning struct {
	TargetID        string
	ConditionNumber float64
}

// Result is the outcome of one analysis batch. Accepted, undetermined, and
// rejected targets are all reported; nothing is silently dropped.
type Result struct {
	Models       []*domain.FormulaicModel
	Undetermined []Undetermined
	Rejected     []Rejection
	Warnings     []UnstableFitWarning
	Skipped      []string // targets not processed before cancellation

	// Graph is the input graph with the accepted models' FORMULAIC edges
	// attached as an overlay.
	Graph *graph.RelationshipGraph
}

// AcceptanceRate returns accepted models over targets that reached a verdict.
func (r *Result) AcceptanceRate() float64 {
	decided := len(r.Models) + len(r.Undetermined) + len(r.Rejected)
	if decided == 0 {
		return 0
	}
	return float64(len(r.Models)) / float64(decided)
}

// targetOutcome is the per-target verdict produced by a worker.
type targetOutcome struct {
	targetID string
	model    *domain.FormulaicModel
	reason   string // undetermined reason when model and err are unset
	err      error
}

// Analyze discovers formulaic models for the given targets. A nil targets
// slice analyzes every asset in the graph. Per-target fits run on a worker
// pool; per-target failures never abort the batch. On context cancellation
// the models computed so far are returned and the remaining targets are
// reported as skipped.
func (a *Analyzer) Analyze(ctx context.Context, g *graph.RelationshipGraph, prices map[string]domain.PriceSeries, targets []string) *Result {
	if targets == nil {
		for _, asset := range g.Assets() {
			targets = append(targets, asset.ID)
		}
	}

	outcomes, skipped := a.runWorkers(ctx, g, prices, targets)

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].targetID < outcomes[j].targetID })
	sort.Strings(skipped)

	result := &Result{Graph: g, Skipped: skipped}
	for _, out := range outcomes {
		switch {
		case out.err != nil:
			result.Rejected = append(result.Rejected, Rejection{TargetID: out.targetID, Err: out.err})
		case out.model == nil:
			result.Undetermined = append(result.Undetermined, Undetermined{TargetID: out.targetID, Reason: out.reason})
		default:
			a.attachModel(result, out.model)
		}
	}

	a.log.Info().
		Int("targets", len(targets)).
		Int("accepted", len(result.Models)).
		Int("undetermined", len(result.Undetermined)).
		Int("rejected", len(result.Rejected)).
		Int("skipped", len(result.Skipped)).
		Msg("formulaic analysis complete")
	return result
}

// attachModel appends the model's FORMULAIC edges to the result graph. The
// cycle-rejecting AddEdges decides acceptance: if any edge of the model would
// close a cycle the whole model is discarded and the rejection recorded.
func (a *Analyzer) attachModel(result *Result, model *domain.FormulaicModel) {
	next, rejectedEdges := result.Graph.AddEdges(model.Edges())
	if len(rejectedEdges) > 0 {
		result.Rejected = append(result.Rejected, Rejection{
			TargetID: model.TargetID,
			Err:      fmt.Errorf("model discarded: %w", rejectedEdges[0].Reason),
		})
		return
	}
	result.Graph = next
	result.Models = append(result.Models, model)
	if model.Unstable {
		result.Warnings = append(result.Warnings, UnstableFitWarning{
			TargetID:        model.TargetID,
			ConditionNumber: model.ConditionNumber,
		})
	}
}

// runWorkers fans targets out to the worker pool and collects per-target
// outcomes. Targets not dispatched before cancellation are returned as
// skipped.
func (a *Analyzer) runWorkers(ctx context.Context, g *graph.RelationshipGraph, prices map[string]domain.PriceSeries, targets []string) ([]targetOutcome, []string) {
	jobs := make(chan string)
	outcomeCh := make(chan targetOutcome)
	done := make(chan struct{})

	workers := a.cfg.Workers
	if workers > len(targets) {
		workers = len(targets)
	}
	if workers < 1 {
		workers = 1
	}

	active := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		go func() {
			for target := range jobs {
				outcomeCh <- a.analyzeTarget(g, prices, target)
			}
			active <- struct{}{}
		}()
	}

	var skipped []string
	go func() {
		defer close(jobs)
		for i, target := range targets {
			select {
			case jobs <- target:
			case <-ctx.Done():
				skipped = append(skipped, targets[i:]...)
				return
			}
		}
	}()

	go func() {
		for i := 0; i < workers; i++ {
			<-active
		}
		close(done)
	}()

	var outcomes []targetOutcome
	for {
		select {
		case out := <-outcomeCh:
			outcomes = append(outcomes, out)
		case <-done:
			return outcomes, skipped
		}
	}
}

// analyzeTarget fits one target against its candidate components.
func (a *Analyzer) analyzeTarget(g *graph.RelationshipGraph, prices map[string]domain.PriceSeries, targetID string) targetOutcome {
	out := targetOutcome{targetID: targetID}

	candidates, err := a.selectCandidates(g, targetID)
	if err != nil {
		out.err = err
		return out
	}
	if len(candidates) == 0 {
		out.reason = "no candidate components"
		return out
	}

	columns := make([]domain.PriceSeries, len(candidates))
	for i, id := range candidates {
		columns[i] = prices[id]
	}
	aligned := series.Align(prices[targetID], columns)

	required := a.cfg.MinSamples
	if min := len(candidates) + 2; required < min {
		required = min
	}
	if aligned.SampleSize() < required {
		out.err = &InsufficientDataError{
			TargetID: targetID,
			Aligned:  aligned.SampleSize(),
			Required: required,
		}
		return out
	}

	fit, err := fitOLS(aligned.Target, aligned.Columns)
	if err != nil {
		out.err = fmt.Errorf("fit failed for %s: %w", targetID, err)
		return out
	}

	if fit.rSquared < a.cfg.AcceptThreshold {
		out.reason = fmt.Sprintf("fit score %.4f below acceptance threshold %.2f", fit.rSquared, a.cfg.AcceptThreshold)
		return out
	}

	model := &domain.FormulaicModel{
		ID:              uuid.NewString(),
		TargetID:        targetID,
		Intercept:       fit.intercept,
		FitScore:        fit.rSquared,
		SampleSize:      aligned.SampleSize(),
		ConditionNumber: fit.condition,
		Unstable:        fit.condition > a.cfg.MaxConditionNumber,
	}
	for i, id := range candidates {
		model.Terms = append(model.Terms, domain.ModelTerm{ComponentID: id, Coefficient: fit.coefficients[i]})
	}
	out.model = model
	return out
}

// selectCandidates resolves the candidate component set for one target.
// Graph-neighbor mode takes COMPOSITION and CORRELATION neighbors in both
// directions, deduplicated in edge insertion order.
func (a *Analyzer) selectCandidates(g *graph.RelationshipGraph, targetID string) ([]string, error) {
	if a.cfg.CandidateSource == CandidateSourceExplicit {
		candidates := a.cfg.Candidates[targetID]
		for _, id := range candidates {
			if _, err := g.Asset(id); err != nil {
				return nil, fmt.Errorf("explicit candidate for %s: %w", targetID, err)
			}
		}
		return candidates, nil
	}

	neighbors, err := g.Neighbors(targetID,
		[]domain.RelationshipKind{domain.KindComposition, domain.KindCorrelation},
		graph.DirectionBoth)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(neighbors))
	var candidates []string
	for _, n := range neighbors {
		if n.Asset.ID == targetID || seen[n.Asset.ID] {
			continue
		}
		seen[n.Asset.ID] = true
		candidates = append(candidates, n.Asset.ID)
	}
	return candidates, nil
}
