package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejectsUnknownQuestion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Questions["q9"] = QuestionWeight{Weight: 0.5, Enabled: true}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question")
}

func TestValidateRejectsNegativeWeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Questions[Q3Impact] = QuestionWeight{Weight: -0.1, Enabled: true}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsAllZeroEnabledWeights(t *testing.T) {
	cfg := DefaultConfig()
	for key := range cfg.Questions {
		cfg.Questions[key] = QuestionWeight{Weight: 0, Enabled: true}
	}
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsEverythingDisabled(t *testing.T) {
	cfg := DefaultConfig()
	for key, q := range cfg.Questions {
		q.Enabled = false
		cfg.Questions[key] = q
	}
	require.Error(t, cfg.Validate())
}

func TestEffectiveWeightsRenormalizeOverEnabledSubset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Questions[Q4Fixability] = QuestionWeight{Weight: 0.1, Enabled: false}
	cfg.Questions[Q5Urgency] = QuestionWeight{Weight: 0.1, Enabled: false}
	require.NoError(t, cfg.Validate())

	want := map[string]float64{
		Q1Exploitability: 0.5,
		Q2Exposure:       0.25,
		Q3Impact:         0.25,
	}
	got := cfg.EffectiveWeights()
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("effective weights mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectiveWeightsSumToOne(t *testing.T) {
	cfg := DefaultConfig()
	sum := 0.0
	for _, w := range cfg.EffectiveWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Questions[Q1Exploitability] = QuestionWeight{Weight: 0.9, Enabled: true}
	cp.DomainImpact["database"] = 9.9

	assert.Equal(t, 0.4, cfg.Questions[Q1Exploitability].Weight)
	assert.Equal(t, 1.4, cfg.DomainImpact["database"])
}
