package engine

import (
	"testing"

	"github.com/ortelius/rpi-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// neutralFinding carries no live threat signals so the urgency coupling has
// nothing to amplify.
func neutralFinding() *model.Finding {
	return &model.Finding{
		RecordID:    "r-1",
		Status:      model.StatusOpen,
		Environment: "staging",
		Evidence:    model.EvidenceNone,
		Confidence:  1.0,
		Occurrences: 1,
	}
}

func TestAggregateWeightedSumExact(t *testing.T) {
	cfg := DefaultConfig()
	qs := model.QuestionScores{
		Exploitability: 100,
		Exposure:       50,
		Impact:         50,
		Fixability:     0,
		Urgency:        0,
	}

	rpi := Aggregate(neutralFinding(), qs, cfg, cfg.EffectiveWeights())
	assert.InDelta(t, 60.0, rpi, 1e-9)
}

func TestAggregateRenormalizedSubset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Questions[Q4Fixability] = QuestionWeight{Weight: 0.1, Enabled: false}
	cfg.Questions[Q5Urgency] = QuestionWeight{Weight: 0.1, Enabled: false}
	require.NoError(t, cfg.Validate())

	qs := model.QuestionScores{Exploitability: 100, Exposure: 50, Impact: 50}
	rpi := Aggregate(neutralFinding(), qs, cfg, cfg.EffectiveWeights())

	// 0.5*100 + 0.25*50 + 0.25*50
	assert.InDelta(t, 75.0, rpi, 1e-9)
}

func TestAggregateClampsToHundred(t *testing.T) {
	cfg := DefaultConfig()
	f := neutralFinding()
	f.Verified = true
	f.InKEV = true
	f.Environment = "production"

	qs := model.QuestionScores{
		Exploitability: 100, Exposure: 100, Impact: 100, Fixability: 100, Urgency: 100,
	}
	rpi := Aggregate(f, qs, cfg, cfg.EffectiveWeights())
	assert.LessOrEqual(t, rpi, 100.0)
	assert.GreaterOrEqual(t, rpi, 0.0)
}

func TestAggregateStatusPenalties(t *testing.T) {
	cfg := DefaultConfig()
	weights := cfg.EffectiveWeights()
	qs := model.QuestionScores{Exploitability: 100, Exposure: 100, Impact: 100, Fixability: 100, Urgency: 0}

	open := neutralFinding()
	base := Aggregate(open, qs, cfg, weights)
	require.Greater(t, base, 0.0)

	cases := []struct {
		status string
		factor float64
	}{
		{model.StatusRiskAccepted, 0.05},
		{model.StatusMitigated, 0.10},
		{model.StatusFalsePositive, 0.20},
	}
	for _, tc := range cases {
		f := neutralFinding()
		f.Status = tc.status
		got := Aggregate(f, qs, cfg, weights)
		assert.InDelta(t, base*tc.factor, got, 1e-9, "status %s", tc.status)
	}
}

func TestAggregateSLAViolatedFloor(t *testing.T) {
	cfg := DefaultConfig()
	f := neutralFinding()
	f.SLAViolated = true

	rpi := Aggregate(f, model.QuestionScores{}, cfg, cfg.EffectiveWeights())
	assert.Equal(t, cfg.SLAFloor, rpi)
}

func TestAggregateSLAFloorSkipsAcceptedFindings(t *testing.T) {
	cfg := DefaultConfig()
	f := neutralFinding()
	f.SLAViolated = true
	f.Status = model.StatusRiskAccepted

	rpi := Aggregate(f, model.QuestionScores{}, cfg, cfg.EffectiveWeights())
	assert.Less(t, rpi, cfg.SLAFloor)
}

func TestCoupledUrgencyAmplifiesKEVInProduction(t *testing.T) {
	cfg := DefaultConfig()
	quiet := neutralFinding()
	hot := neutralFinding()
	hot.InKEV = true
	hot.Environment = "production"

	qs := model.QuestionScores{Exploitability: 90, Exposure: 85, Impact: 70, Fixability: 50, Urgency: 80}
	assert.Greater(t, coupledUrgency(hot, qs, cfg), coupledUrgency(quiet, qs, cfg))
}

func TestCoupledUrgencyDecaysQuietFindings(t *testing.T) {
	cfg := DefaultConfig()
	f := neutralFinding()

	qs := model.QuestionScores{Exploitability: 10, Exposure: 50, Impact: 50, Fixability: 50, Urgency: 80}
	got := coupledUrgency(f, qs, cfg)
	assert.Less(t, got, 80.0)
}

func TestBucketBoundaries(t *testing.T) {
	assert.Equal(t, model.BucketCritical, Bucket(80))
	assert.Equal(t, model.BucketCritical, Bucket(100))
	assert.Equal(t, model.BucketHigh, Bucket(79.999))
	assert.Equal(t, model.BucketHigh, Bucket(60))
	assert.Equal(t, model.BucketMedium, Bucket(59.999))
	assert.Equal(t, model.BucketMedium, Bucket(40))
	assert.Equal(t, model.BucketLow, Bucket(39.999))
	assert.Equal(t, model.BucketLow, Bucket(0))
}
