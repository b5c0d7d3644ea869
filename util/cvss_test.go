package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCVSSScore(t *testing.T) {
	score := CalculateCVSSScore("CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	assert.InDelta(t, 9.8, score, 0.05)

	assert.Zero(t, CalculateCVSSScore(""))
	assert.Zero(t, CalculateCVSSScore("not-a-vector"))
	assert.Zero(t, CalculateCVSSScore("CVSS:3.1/garbage"))
}

func TestGetSeverityRating(t *testing.T) {
	assert.Equal(t, "NONE", GetSeverityRating(0))
	assert.Equal(t, "LOW", GetSeverityRating(3.9))
	assert.Equal(t, "MEDIUM", GetSeverityRating(5.0))
	assert.Equal(t, "HIGH", GetSeverityRating(7.0))
	assert.Equal(t, "CRITICAL", GetSeverityRating(9.8))
}

func TestGetSeverityScore(t *testing.T) {
	assert.Equal(t, 9.0, GetSeverityScore("critical"))
	assert.Equal(t, 7.0, GetSeverityScore(" HIGH "))
	assert.Equal(t, 5.0, GetSeverityScore("Moderate"))
	assert.Zero(t, GetSeverityScore("unknown"))
}
