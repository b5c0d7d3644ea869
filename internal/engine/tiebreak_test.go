package engine

import (
	"testing"

	"github.com/ortelius/rpi-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredWith(id string, rpi float64, mut func(*model.ScoredFinding)) model.ScoredFinding {
	sf := model.ScoredFinding{RPI: rpi}
	sf.RecordID = id
	if mut != nil {
		mut(&sf)
	}
	return sf
}

func TestSortRankedByRPIDescending(t *testing.T) {
	findings := []model.ScoredFinding{
		scoredWith("a", 40, nil),
		scoredWith("b", 90, nil),
		scoredWith("c", 70, nil),
	}
	SortRanked(findings)

	assert.Equal(t, []int{1, 2, 3}, []int{findings[0].Rank, findings[1].Rank, findings[2].Rank})
	assert.Equal(t, "b", findings[0].RecordID)
	assert.Equal(t, "c", findings[1].RecordID)
	assert.Equal(t, "a", findings[2].RecordID)
}

func TestTieBreakCascade(t *testing.T) {
	// all share the same RPI; each record wins over the next one key deeper
	// into the cascade
	findings := []model.ScoredFinding{
		scoredWith("g", 50, nil),
		scoredWith("f", 50, func(s *model.ScoredFinding) { s.Confidence = 0.9 }),
		scoredWith("e", 50, func(s *model.ScoredFinding) { s.CVSSScore = 9.8 }),
		scoredWith("d", 50, func(s *model.ScoredFinding) { s.Occurrences = 10 }),
		scoredWith("c", 50, func(s *model.ScoredFinding) { s.EPSSPercentile = 99 }),
		scoredWith("b", 50, func(s *model.ScoredFinding) { s.InKEV = true }),
		scoredWith("a", 50, func(s *model.ScoredFinding) { s.SLAViolated = true }),
	}
	SortRanked(findings)

	var order []string
	for _, f := range findings {
		order = append(order, f.RecordID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, order)
}

func TestTieBreakRecordIDGuaranteesTotalOrder(t *testing.T) {
	x := scoredWith("rec-1", 50, nil)
	y := scoredWith("rec-2", 50, nil)

	require.True(t, Less(&x, &y))
	require.False(t, Less(&y, &x))
}
