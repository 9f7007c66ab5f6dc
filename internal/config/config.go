// Package config loads the analysis pipeline configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"asset-graph-lab/internal/analysis"
	"asset-graph-lab/internal/graph"
)

// Config holds all pipeline settings.
type Config struct {
	Graph struct {
		WeightTolerance float64 `yaml:"weight_tolerance"`
	} `yaml:"graph"`
	Analysis struct {
		CandidateSource    string        `yaml:"candidate_source"`
		MinSamples         int           `yaml:"min_samples"`
		AcceptThreshold    float64       `yaml:"accept_threshold"`
		MaxConditionNumber float64       `yaml:"max_condition_number"`
		Workers            int           `yaml:"workers"`
		Timeout            time.Duration `yaml:"timeout"`
	} `yaml:"analysis"`
	Report struct {
		OutputDir string   `yaml:"output_dir"`
		Formats   []string `yaml:"formats"`
	} `yaml:"report"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`
	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.Graph.WeightTolerance = graph.DefaultWeightTolerance
	cfg.Analysis.CandidateSource = string(analysis.CandidateSourceGraphNeighbors)
	cfg.Analysis.MinSamples = analysis.DefaultMinSamples
	cfg.Analysis.AcceptThreshold = analysis.DefaultAcceptThreshold
	cfg.Analysis.MaxConditionNumber = analysis.DefaultMaxConditionNumber
	cfg.Report.OutputDir = "docs"
	cfg.Report.Formats = []string{"markdown"}
	cfg.Metrics.Addr = ":9090"
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all settings and reports every problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.Graph.WeightTolerance <= 0 {
		problems = append(problems, "graph.weight_tolerance must be positive")
	}
	switch analysis.CandidateSource(c.Analysis.CandidateSource) {
	case analysis.CandidateSourceGraphNeighbors, analysis.CandidateSourceExplicit:
	default:
		problems = append(problems, fmt.Sprintf("analysis.candidate_source %q is not recognized", c.Analysis.CandidateSource))
	}
	if c.Analysis.MinSamples < 3 {
		problems = append(problems, "analysis.min_samples must be at least 3")
	}
	if c.Analysis.AcceptThreshold <= 0 || c.Analysis.AcceptThreshold > 1 {
		problems = append(problems, "analysis.accept_threshold must be in (0, 1]")
	}
	if c.Analysis.MaxConditionNumber <= 1 {
		problems = append(problems, "analysis.max_condition_number must be greater than 1")
	}
	if c.Analysis.Workers < 0 {
		problems = append(problems, "analysis.workers may not be negative")
	}
	if c.Analysis.Timeout < 0 {
		problems = append(problems, "analysis.timeout may not be negative")
	}
	for _, format := range c.Report.Formats {
		switch strings.ToLower(format) {
		case "markdown", "csv":
		default:
			problems = append(problems, fmt.Sprintf("report.formats entry %q is not supported", format))
		}
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		problems = append(problems, "metrics.addr is required when metrics are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// AnalysisConfig converts the analysis section into the analyzer's config.
func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		CandidateSource:    analysis.CandidateSource(c.Analysis.CandidateSource),
		MinSamples:         c.Analysis.MinSamples,
		AcceptThreshold:    c.Analysis.AcceptThreshold,
		MaxConditionNumber: c.Analysis.MaxConditionNumber,
		Workers:            c.Analysis.Workers,
	}
}
