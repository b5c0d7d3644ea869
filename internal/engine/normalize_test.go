package engine

import (
	"testing"
	"time"

	"github.com/ortelius/rpi-backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeEmptyInput(t *testing.T) {
	findings, skipped := Normalize(nil, testNow)
	assert.Empty(t, findings)
	assert.Zero(t, skipped)
}

func TestNormalizeSkipsMalformedRecords(t *testing.T) {
	raw := []model.RawFinding{
		{}, // no advisory, no package
		{CveID: "CVE-2026-0001", Purl: "pkg:npm/lodash@4.17.20"},
	}
	findings, skipped := Normalize(raw, testNow)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, "CVE-2026-0001", findings[0].AdvisoryID)
}

func TestNormalizeClampsSignals(t *testing.T) {
	raw := []model.RawFinding{{
		CveID:          "CVE-2026-0002",
		EPSS:           floatPtr(3.5),
		EPSSPercentile: floatPtr(250),
		CVSSScore:      floatPtr(42),
		Confidence:     floatPtr(-1),
		AssetCritical:  floatPtr(99),
		ExposureScore:  floatPtr(-10),
	}}
	findings, skipped := Normalize(raw, testNow)
	require.Len(t, findings, 1)
	assert.Zero(t, skipped)

	f := findings[0]
	assert.Equal(t, 1.0, f.EPSS)
	assert.Equal(t, 100.0, f.EPSSPercentile)
	assert.Equal(t, 10.0, f.CVSSScore)
	assert.Equal(t, 0.0, f.Confidence)
	assert.Equal(t, 10.0, f.AssetCritical)
	assert.Equal(t, 0.0, f.ExposureScore)
}

func TestNormalizeNeutralDefaults(t *testing.T) {
	findings, _ := Normalize([]model.RawFinding{{CveID: "CVE-2026-0003"}}, testNow)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.NotEmpty(t, f.RecordID) // assigned when missing
	assert.Equal(t, 1.0, f.Confidence)
	assert.Equal(t, 5.0, f.AssetCritical)
	assert.Equal(t, 1, f.Occurrences)
	assert.Equal(t, model.StatusOpen, f.Status)
	assert.Equal(t, model.EvidenceNone, f.Evidence)
	assert.Equal(t, model.PocNone, f.PocMaturity)
	assert.False(t, f.HasPoc)
}

func TestNormalizeCanonicalizesPurl(t *testing.T) {
	findings, _ := Normalize([]model.RawFinding{{
		CveID: "CVE-2026-0004",
		Purl:  "pkg:NPM/Lodash@4.17.20?arch=amd64",
	}}, testNow)
	require.Len(t, findings, 1)
	assert.Equal(t, "pkg:npm/lodash", findings[0].Package)
	assert.Equal(t, "npm", findings[0].Ecosystem)
}

func TestNormalizeDeduplicatesWithOccurrenceCount(t *testing.T) {
	raw := []model.RawFinding{
		{CveID: "CVE-2026-0005", Purl: "pkg:npm/lodash@4.17.20", AssetName: "api", EPSS: floatPtr(0.1)},
		{CveID: "CVE-2026-0005", Purl: "pkg:npm/lodash@4.17.21", AssetName: "api", EPSS: floatPtr(0.4), InKEV: true},
		{CveID: "CVE-2026-0005", Purl: "pkg:npm/lodash@4.17.20", AssetName: "worker"},
	}
	findings, skipped := Normalize(raw, testNow)
	assert.Zero(t, skipped)
	require.Len(t, findings, 2) // api merged, worker separate

	api := findings[0]
	assert.Equal(t, 2, api.Occurrences)
	assert.Equal(t, 0.4, api.EPSS) // max retained
	assert.True(t, api.InKEV)      // boolean OR
}

func TestNormalizeDerivesCVSSFromVector(t *testing.T) {
	findings, _ := Normalize([]model.RawFinding{{
		CveID:      "CVE-2026-0006",
		CVSSVector: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H",
	}}, testNow)
	require.Len(t, findings, 1)
	assert.InDelta(t, 9.8, findings[0].CVSSScore, 0.05)
	assert.Equal(t, "CRITICAL", findings[0].Severity)
}

func TestNormalizeSLAViolation(t *testing.T) {
	overdue := testNow.Add(-48 * time.Hour).Format(time.RFC3339)
	upcoming := testNow.Add(48 * time.Hour).Format(time.RFC3339)

	findings, _ := Normalize([]model.RawFinding{
		{CveID: "CVE-2026-0007", SLADueDate: overdue},
		{CveID: "CVE-2026-0008", SLADueDate: upcoming},
		{CveID: "CVE-2026-0009"},
	}, testNow)
	require.Len(t, findings, 3)
	assert.True(t, findings[0].SLAViolated)
	assert.False(t, findings[1].SLAViolated)
	assert.Nil(t, findings[2].SLADueDate)
}

func TestNormalizeFixAvailability(t *testing.T) {
	findings, _ := Normalize([]model.RawFinding{
		{CveID: "CVE-2026-0010", Purl: "pkg:npm/lodash@4.17.20", InstalledVersion: "4.17.20", FixedVersion: "4.17.21"},
		{CveID: "CVE-2026-0011", Purl: "pkg:npm/lodash@4.17.21", InstalledVersion: "4.17.21", FixedVersion: ""},
	}, testNow)
	require.Len(t, findings, 2)
	assert.True(t, findings[0].FixAvailable)
	assert.False(t, findings[1].FixAvailable)
}
