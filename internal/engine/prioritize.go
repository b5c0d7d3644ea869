package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/ortelius/rpi-backend/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Prioritizer runs the full pipeline: normalize, score, aggregate, rank.
// The config snapshot taken at construction is immutable for the lifetime of
// the Prioritizer, so concurrent Process calls never observe a config swap.
type Prioritizer struct {
	cfg     *Config
	weights map[string]float64
	log     *zap.SugaredLogger
}

// Ranking is the result of one prioritization run.
type Ranking struct {
	RunID     string
	StartedAt time.Time
	Records   []model.ScoredFinding
	Skipped   int
}

// NewPrioritizer validates the config and snapshots it. An invalid config is
// rejected here, before any scoring can start.
func NewPrioritizer(cfg *Config, log *zap.SugaredLogger) (*Prioritizer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	snapshot := cfg.Clone()
	return &Prioritizer{
		cfg:     snapshot,
		weights: snapshot.EffectiveWeights(),
		log:     log,
	}, nil
}

// Config returns the immutable config snapshot this Prioritizer runs with.
func (p *Prioritizer) Config() *Config {
	return p.cfg
}

// Process normalizes and scores a batch of raw findings and returns the
// ranked result. Per-record scoring is independent, so records are scored in
// parallel with a bounded worker group. Empty input yields an empty ranking.
func (p *Prioritizer) Process(ctx context.Context, raw []model.RawFinding) (*Ranking, error) {
	now := time.Now()
	ranking := &Ranking{
		RunID:     uuid.NewString(),
		StartedAt: now,
	}

	findings, skipped := Normalize(raw, now)
	ranking.Skipped = skipped
	if skipped > 0 && p.log != nil {
		p.log.Debugf("normalization skipped %d malformed records", skipped)
	}
	if len(findings) == 0 {
		return ranking, nil
	}

	scored := make([]model.ScoredFinding, len(findings))

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range findings {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := findings[i]
			qs := ScoreQuestions(&f, p.cfg, now)
			rpi := Aggregate(&f, qs, p.cfg, p.weights)
			scored[i] = model.ScoredFinding{
				Finding: f,
				Scores:  qs,
				RPI:     rpi,
				Bucket:  Bucket(rpi),
				RunID:   ranking.RunID,
				Reasons: reasons(&f, qs),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scoring aborted: %w", err)
	}

	SortRanked(scored)
	ranking.Records = scored
	return ranking, nil
}

// TopN returns the first n ranked records; n larger than the ranking returns
// everything.
func (r *Ranking) TopN(n int) []model.ScoredFinding {
	if n < 0 {
		n = 0
	}
	if n > len(r.Records) {
		n = len(r.Records)
	}
	return r.Records[:n]
}

// Stats aggregates the ranking for reporting.
func (r *Ranking) Stats() model.StatsSummary {
	stats := model.StatsSummary{
		Total:      len(r.Records),
		Buckets:    map[string]int{},
		Domains:    map[string]int{},
		Severities: map[string]int{},
	}

	sum := 0.0
	for i := range r.Records {
		rec := &r.Records[i]
		sum += rec.RPI
		if rec.RPI > stats.MaxRPI {
			stats.MaxRPI = rec.RPI
		}
		stats.Buckets[rec.Bucket]++
		if rec.Domain != "" {
			stats.Domains[rec.Domain]++
		}
		if rec.Severity != "" {
			stats.Severities[rec.Severity]++
		}
	}
	if stats.Total > 0 {
		stats.MeanRPI = sum / float64(stats.Total)
	}
	return stats
}

// Summary builds the persisted run record, including the coverage points of
// the standard targets.
func (r *Ranking) Summary() *model.RunSummary {
	stats := r.Stats()
	return &model.RunSummary{
		RunID:     r.RunID,
		StartedAt: r.StartedAt,
		Total:     stats.Total,
		Skipped:   r.Skipped,
		MeanRPI:   stats.MeanRPI,
		MaxRPI:    stats.MaxRPI,
		Buckets:   stats.Buckets,
		Coverage:  CoveragePoints(r.Records),
		Gini:      Gini(r.Records),
	}
}

// reasons emits short human-readable justifications for why a finding ranks
// where it does. These surface in the API and the CSV export.
func reasons(f *model.Finding, qs model.QuestionScores) []string {
	var out []string
	if f.InKEV {
		out = append(out, "listed in CISA KEV")
	}
	if f.Ransomware {
		out = append(out, "associated with ransomware campaigns")
	}
	if f.PocMaturity == model.PocWeaponized {
		out = append(out, "weaponized exploit available")
	} else if f.HasPoc {
		out = append(out, "public proof of concept")
	}
	if f.EPSS >= 0.5 {
		out = append(out, fmt.Sprintf("EPSS %.0f%%", f.EPSS*100))
	}
	if f.SLAViolated {
		out = append(out, "SLA violated")
	}
	if qs.Exposure >= 80 {
		out = append(out, "highly exposed surface")
	}
	if f.Occurrences >= 50 {
		out = append(out, fmt.Sprintf("%d occurrences", f.Occurrences))
	}
	if f.FixAvailable {
		out = append(out, "fix available: "+f.FixedVersion)
	}
	return out
}
