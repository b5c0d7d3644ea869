package engine

import (
	"testing"

	"github.com/ortelius/rpi-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(rpis ...float64) []model.ScoredFinding {
	out := make([]model.ScoredFinding, len(rpis))
	for i, v := range rpis {
		out[i].RPI = v
		out[i].Rank = i + 1
	}
	return out
}

func TestMinimalCoverage(t *testing.T) {
	records := ranked(50, 30, 20)

	assert.Equal(t, 1, MinimalCoverage(records, 0.50))
	assert.Equal(t, 2, MinimalCoverage(records, 0.75))
	assert.Equal(t, 2, MinimalCoverage(records, 0.80))
	assert.Equal(t, 3, MinimalCoverage(records, 0.95))
	assert.Equal(t, 3, MinimalCoverage(records, 1.0))
}

func TestMinimalCoverageEmptyInput(t *testing.T) {
	assert.Equal(t, 0, MinimalCoverage(nil, 0.8))
}

func TestMinimalCoverageAllZeroMass(t *testing.T) {
	records := ranked(0, 0, 0, 0)
	assert.Equal(t, 4, MinimalCoverage(records, 0.5))
}

func TestMinimalCoverageMonotoneInTarget(t *testing.T) {
	records := ranked(90, 70, 50, 40, 30, 20, 10, 5, 3, 1)

	prev := 0
	for _, target := range []float64{0.1, 0.25, 0.5, 0.6, 0.75, 0.8, 0.9, 0.95, 0.99, 1.0} {
		k := MinimalCoverage(records, target)
		assert.GreaterOrEqual(t, k, prev, "target %v", target)
		prev = k
	}
}

func TestCoveragePointsStandardTargets(t *testing.T) {
	records := ranked(50, 30, 20)
	points := CoveragePoints(records)
	require.Len(t, points, 5)

	assert.Equal(t, 0.50, points[0].Target)
	assert.Equal(t, 1, points[0].K)
	assert.InDelta(t, 1.0/3.0, points[0].Fraction, 1e-9)
	assert.Equal(t, 0.95, points[4].Target)
	assert.Equal(t, 3, points[4].K)
}

func TestTopShare(t *testing.T) {
	records := ranked(60, 20, 10, 10)

	assert.InDelta(t, 0.6, TopShare(records, 0.25), 1e-9)
	assert.InDelta(t, 0.8, TopShare(records, 0.5), 1e-9)
	assert.InDelta(t, 1.0, TopShare(records, 1.0), 1e-9)
	assert.Zero(t, TopShare(nil, 0.5))
}

func TestGiniUniformIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, Gini(ranked(10, 10, 10, 10)), 1e-9)
}

func TestGiniConcentratedIsHigh(t *testing.T) {
	g := Gini(ranked(100, 0, 0, 0))
	assert.Greater(t, g, 0.7)
	assert.LessOrEqual(t, g, 1.0)
}

func TestGiniEmptyAndZeroMass(t *testing.T) {
	assert.Zero(t, Gini(nil))
	assert.Zero(t, Gini(ranked(0, 0)))
}

func TestDecileTable(t *testing.T) {
	records := ranked(
		20, 19, 18, 17, 16, 15, 14, 13, 12, 11,
		10, 9, 8, 7, 6, 5, 4, 3, 2, 1,
	)
	rows := DecileTable(records)
	require.Len(t, rows, 10)

	for i, row := range rows {
		assert.Equal(t, i+1, row.Decile)
		assert.Equal(t, 2, row.Records)
	}
	// top decile carries the most mass and shares sum to one
	assert.Greater(t, rows[0].Share, rows[9].Share)
	assert.InDelta(t, 1.0, rows[9].CumulativeShare, 1e-9)
}

func TestDecileTableEmpty(t *testing.T) {
	assert.Nil(t, DecileTable(nil))
}
