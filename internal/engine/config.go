// Package engine implements the Risk-Priority Index (RPI) scoring pipeline:
// normalization of raw scanner findings, the five question scorers,
// aggregation, ranking and coverage analytics.
package engine

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
)

// Question keys accepted in a weight table.
const (
	Q1Exploitability = "q1"
	Q2Exposure       = "q2"
	Q3Impact         = "q3"
	Q4Fixability     = "q4"
	Q5Urgency        = "q5"
)

var questionKeys = []string{Q1Exploitability, Q2Exposure, Q3Impact, Q4Fixability, Q5Urgency}

// QuestionWeight is the weight assigned to one question and whether that
// question participates in aggregation at all.
type QuestionWeight struct {
	Weight  float64 `yaml:"weight" json:"weight"`
	Enabled bool    `yaml:"enabled" json:"enabled"`
}

// CouplingConfig holds the gate multipliers the aggregator applies through
// the urgency channel before the weighted sum.
type CouplingConfig struct {
	KEVGate      float64 `yaml:"kev_gate" json:"kev_gate"`
	PocGate      float64 `yaml:"poc_gate" json:"poc_gate"`
	EPSSHighGate float64 `yaml:"epss_high_gate" json:"epss_high_gate"` // EPSS >= 0.5
	EPSSMidGate  float64 `yaml:"epss_mid_gate" json:"epss_mid_gate"`   // EPSS >= 0.2
	SurfaceHigh  float64 `yaml:"surface_high" json:"surface_high"`     // Q2 >= 80
	SurfaceMid   float64 `yaml:"surface_mid" json:"surface_mid"`       // Q2 >= 60
	SurfaceLow   float64 `yaml:"surface_low" json:"surface_low"`
	EnvProd      float64 `yaml:"env_prod" json:"env_prod"`
	EnvDev       float64 `yaml:"env_dev" json:"env_dev"`
}

// PenaltyConfig discounts findings by management status.
type PenaltyConfig struct {
	RiskAccepted  float64 `yaml:"risk_accepted" json:"risk_accepted"`
	Mitigated     float64 `yaml:"mitigated" json:"mitigated"`
	FalsePositive float64 `yaml:"false_positive" json:"false_positive"`
}

// Config is the immutable engine configuration. A Prioritizer takes a
// snapshot at construction; replacing the live config never affects runs
// already in flight.
type Config struct {
	Questions map[string]QuestionWeight `yaml:"questions" json:"questions"`
	Coupling  CouplingConfig            `yaml:"coupling" json:"coupling"`
	Penalties PenaltyConfig             `yaml:"penalties" json:"penalties"`

	// SLAFloor is the minimum RPI for open findings past their SLA.
	SLAFloor float64 `yaml:"sla_floor" json:"sla_floor"`

	// ValidationBoost scales the summed RPI by finding validation state.
	VerifiedBoost  float64 `yaml:"verified_boost" json:"verified_boost"`
	DynamicBoost   float64 `yaml:"dynamic_boost" json:"dynamic_boost"`
	LowConfCut     float64 `yaml:"low_confidence_cut" json:"low_confidence_cut"`
	LowConfCutoff  float64 `yaml:"low_confidence_cutoff" json:"low_confidence_cutoff"`

	// Per-domain multipliers used by the exposure and impact scorers.
	DomainExposure map[string]float64 `yaml:"domain_exposure" json:"domain_exposure"`
	DomainImpact   map[string]float64 `yaml:"domain_impact" json:"domain_impact"`

	// Workers bounds the scoring concurrency. Zero means GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultConfig returns the built-in configuration. Weights mirror the
// standard 5Q split with exploitability carrying the largest share.
func DefaultConfig() *Config {
	return &Config{
		Questions: map[string]QuestionWeight{
			Q1Exploitability: {Weight: 0.4, Enabled: true},
			Q2Exposure:       {Weight: 0.2, Enabled: true},
			Q3Impact:         {Weight: 0.2, Enabled: true},
			Q4Fixability:     {Weight: 0.1, Enabled: true},
			Q5Urgency:        {Weight: 0.1, Enabled: true},
		},
		Coupling: CouplingConfig{
			KEVGate:      1.20,
			PocGate:      1.15,
			EPSSHighGate: 1.10,
			EPSSMidGate:  1.05,
			SurfaceHigh:  1.15,
			SurfaceMid:   1.08,
			SurfaceLow:   0.95,
			EnvProd:      1.10,
			EnvDev:       0.85,
		},
		Penalties: PenaltyConfig{
			RiskAccepted:  0.05,
			Mitigated:     0.10,
			FalsePositive: 0.20,
		},
		SLAFloor:      85,
		VerifiedBoost: 1.15,
		DynamicBoost:  1.10,
		LowConfCut:    0.70,
		LowConfCutoff: 0.5,
		DomainExposure: map[string]float64{
			"web_api":     1.3,
			"web":         1.3,
			"network":     1.2,
			"database":    1.1,
			"infra":       1.1,
			"desktop":     0.9,
			"library":     0.85,
			"build_tools": 0.7,
		},
		DomainImpact: map[string]float64{
			"database": 1.4,
			"infra":    1.3,
			"web_api":  1.2,
			"web":      1.2,
			"network":  1.1,
			"library":  0.9,
			"desktop":  0.85,
			"build_tools": 0.8,
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects a config before any scoring starts. Unknown question
// keys, negative weights and an all-zero enabled weight set are errors.
func (c *Config) Validate() error {
	known := map[string]bool{}
	for _, k := range questionKeys {
		known[k] = true
	}
	sum := 0.0
	for key, q := range c.Questions {
		if !known[key] {
			return fmt.Errorf("unknown question %q in weight table", key)
		}
		if q.Weight < 0 {
			return fmt.Errorf("question %q has negative weight %v", key, q.Weight)
		}
		if q.Enabled {
			sum += q.Weight
		}
	}
	if sum <= 0 {
		return fmt.Errorf("enabled question weights sum to zero")
	}
	return nil
}

// EffectiveWeights returns the weights of the enabled questions renormalized
// to sum to 1. Validate must have passed first.
func (c *Config) EffectiveWeights() map[string]float64 {
	sum := 0.0
	for _, q := range c.Questions {
		if q.Enabled {
			sum += q.Weight
		}
	}
	out := make(map[string]float64, len(c.Questions))
	for key, q := range c.Questions {
		if q.Enabled && sum > 0 {
			out[key] = q.Weight / sum
		}
	}
	return out
}

// EnabledQuestions lists the enabled question keys in canonical q1..q5 order.
func (c *Config) EnabledQuestions() []string {
	var out []string
	for _, k := range questionKeys {
		if q, ok := c.Questions[k]; ok && q.Enabled {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a deep copy so callers can mutate a draft without touching
// the live config.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Questions = make(map[string]QuestionWeight, len(c.Questions))
	for k, v := range c.Questions {
		cp.Questions[k] = v
	}
	cp.DomainExposure = make(map[string]float64, len(c.DomainExposure))
	for k, v := range c.DomainExposure {
		cp.DomainExposure[k] = v
	}
	cp.DomainImpact = make(map[string]float64, len(c.DomainImpact))
	for k, v := range c.DomainImpact {
		cp.DomainImpact[k] = v
	}
	return &cp
}
