package engine

import (
	"math"
	"time"

	"github.com/ortelius/rpi-backend/model"
)

// ScoreQuestions runs the five question scorers for one finding. The config
// is read-only and the finding is never mutated, so calls are safe to run
// concurrently.
func ScoreQuestions(f *model.Finding, cfg *Config, now time.Time) model.QuestionScores {
	return model.QuestionScores{
		Exploitability: scoreExploitability(f, cfg),
		Exposure:       scoreExposure(f, cfg),
		Impact:         scoreImpact(f, cfg),
		Fixability:     scoreFixability(f, cfg),
		Urgency:        scoreUrgency(f, cfg, now),
	}
}

// exploitGate scales urgency by the strongest live exploitation signal.
func exploitGate(f *model.Finding, c *CouplingConfig) float64 {
	switch {
	case f.InKEV:
		return c.KEVGate
	case f.HasPoc:
		return c.PocGate
	case f.EPSS >= 0.5:
		return c.EPSSHighGate
	case f.EPSS >= 0.2:
		return c.EPSSMidGate
	default:
		return 1.0
	}
}

// surfaceGate scales urgency by how exposed the surface turned out to be.
func surfaceGate(exposure float64, c *CouplingConfig) float64 {
	switch {
	case exposure >= 80:
		return c.SurfaceHigh
	case exposure >= 60:
		return c.SurfaceMid
	default:
		return c.SurfaceLow
	}
}

func environmentFactor(env string, c *CouplingConfig) float64 {
	switch env {
	case "production":
		return c.EnvProd
	case "development":
		return c.EnvDev
	default:
		return 1.0
	}
}

// coupledUrgency applies the cross-question gates to the urgency channel
// before the weighted sum. A finding nobody can exploit should not be urgent
// no matter how old its SLA is.
func coupledUrgency(f *model.Finding, qs model.QuestionScores, cfg *Config) float64 {
	ge := exploitGate(f, &cfg.Coupling)
	gs := surfaceGate(qs.Exposure, &cfg.Coupling)
	fe := environmentFactor(f.Environment, &cfg.Coupling)

	q5 := qs.Urgency * (0.7 + 0.3*ge) * (0.8 + 0.2*gs) * fe

	// exploitability gate: quiet findings decay
	if qs.Exploitability < 30 && !f.InKEV && !f.HasPoc && f.EPSS < 0.2 {
		q5 *= 0.75
	} else if qs.Exploitability < 50 && !f.InKEV && !f.HasPoc {
		q5 *= 0.90
	}

	// low impact dampens urgency slightly
	if qs.Impact < 30 {
		q5 *= 0.95
	}

	// easy fixes get a small nudge up the queue, hard ones down
	if qs.Fixability >= 80 {
		q5 *= 1.03
	} else if qs.Fixability <= 30 {
		q5 *= 0.97
	}

	return clamp(q5, 0, 100)
}

// Aggregate computes the final RPI for one finding from its question scores.
// The weights map comes from Config.EffectiveWeights, already renormalized
// over the enabled subset. The result is always clamped into [0,100];
// aggregation never rejects a record.
func Aggregate(f *model.Finding, qs model.QuestionScores, cfg *Config, weights map[string]float64) float64 {
	q5 := coupledUrgency(f, qs, cfg)

	rpi := weights[Q1Exploitability]*qs.Exploitability +
		weights[Q2Exposure]*qs.Exposure +
		weights[Q3Impact]*qs.Impact +
		weights[Q4Fixability]*qs.Fixability +
		weights[Q5Urgency]*q5

	// validation state
	if f.Verified {
		rpi *= cfg.VerifiedBoost
	} else if f.Evidence == model.EvidenceDynamic {
		rpi *= cfg.DynamicBoost
	}
	if f.Confidence < cfg.LowConfCutoff {
		rpi *= cfg.LowConfCut
	}

	// management status penalties
	switch f.Status {
	case model.StatusRiskAccepted:
		rpi *= cfg.Penalties.RiskAccepted
	case model.StatusMitigated:
		rpi *= cfg.Penalties.Mitigated
	case model.StatusFalsePositive:
		rpi *= cfg.Penalties.FalsePositive
	}

	// an open finding past its SLA can never rank below the floor
	if f.SLAViolated && f.IsActionable() {
		rpi = math.Max(rpi, cfg.SLAFloor)
	}

	return clamp(rpi, 0, 100)
}

// Bucket maps a final RPI to its priority bucket.
func Bucket(rpi float64) string {
	switch {
	case rpi >= 80:
		return model.BucketCritical
	case rpi >= 60:
		return model.BucketHigh
	case rpi >= 40:
		return model.BucketMedium
	default:
		return model.BucketLow
	}
}
