package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asset-graph-lab/internal/analysis"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.MinSamples != analysis.DefaultMinSamples {
		t.Errorf("expected default min samples, got %d", cfg.Analysis.MinSamples)
	}
	if cfg.Report.OutputDir != "docs" {
		t.Errorf("expected default output dir, got %q", cfg.Report.OutputDir)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
analysis:
  min_samples: 50
  accept_threshold: 0.9
report:
  output_dir: out
  formats: [markdown, csv]
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.MinSamples != 50 {
		t.Errorf("expected min_samples 50, got %d", cfg.Analysis.MinSamples)
	}
	if cfg.Analysis.AcceptThreshold != 0.9 {
		t.Errorf("expected accept_threshold 0.9, got %f", cfg.Analysis.AcceptThreshold)
	}
	// Untouched sections keep their defaults
	if cfg.Analysis.MaxConditionNumber != analysis.DefaultMaxConditionNumber {
		t.Errorf("expected default condition limit, got %f", cfg.Analysis.MaxConditionNumber)
	}
	if len(cfg.Report.Formats) != 2 {
		t.Errorf("expected 2 formats, got %v", cfg.Report.Formats)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Graph.WeightTolerance = 0
	cfg.Analysis.MinSamples = 1
	cfg.Analysis.AcceptThreshold = 1.5
	cfg.Report.Formats = []string{"pdf"}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	// All four problems named in one error
	for _, want := range []string{"weight_tolerance", "min_samples", "accept_threshold", "pdf"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidate_UnknownCandidateSource(t *testing.T) {
	cfg := Default()
	cfg.Analysis.CandidateSource = "oracle"

	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "candidate_source") {
		t.Errorf("expected candidate_source error, got %v", err)
	}
}

func TestAnalysisConfig_Conversion(t *testing.T) {
	cfg := Default()
	cfg.Analysis.CandidateSource = string(analysis.CandidateSourceExplicit)
	cfg.Analysis.Workers = 4

	ac := cfg.AnalysisConfig()
	if ac.CandidateSource != analysis.CandidateSourceExplicit {
		t.Errorf("unexpected candidate source: %s", ac.CandidateSource)
	}
	if ac.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", ac.Workers)
	}
}
