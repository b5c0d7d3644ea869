package engine

import (
	"testing"
	"time"

	"github.com/ortelius/rpi-backend/model"
	"github.com/stretchr/testify/assert"
)

func TestExploitabilityKEVFloor(t *testing.T) {
	cfg := DefaultConfig()
	f := &model.Finding{InKEV: true}
	assert.GreaterOrEqual(t, scoreExploitability(f, cfg), 95.0)
}

func TestExploitabilityOrdering(t *testing.T) {
	cfg := DefaultConfig()
	weaponized := &model.Finding{PocMaturity: model.PocWeaponized, EPSS: 0.9, EPSSPercentile: 99}
	quiet := &model.Finding{PocMaturity: model.PocNone}

	assert.Greater(t, scoreExploitability(weaponized, cfg), scoreExploitability(quiet, cfg))
}

func TestExploitabilityClamped(t *testing.T) {
	cfg := DefaultConfig()
	f := &model.Finding{
		PocMaturity:    model.PocWeaponized,
		EPSS:           1.0,
		EPSSPercentile: 100,
		Evidence:       model.EvidenceDynamic,
		ReachableURL:   "https://internal/app",
		Environment:    "production",
		CWEs:           []string{"CWE-78"},
	}
	assert.Equal(t, 100.0, scoreExploitability(f, cfg))
}

func TestExposureEnvironmentScaling(t *testing.T) {
	cfg := DefaultConfig()
	prod := &model.Finding{ExposureScore: 50, Evidence: model.EvidenceStatic, Environment: "production"}
	dev := &model.Finding{ExposureScore: 50, Evidence: model.EvidenceStatic, Environment: "development"}

	assert.Greater(t, scoreExposure(prod, cfg), scoreExposure(dev, cfg))
}

func TestExposureReachableURLRaisesFloor(t *testing.T) {
	cfg := DefaultConfig()
	plain := &model.Finding{Evidence: model.EvidenceStatic}
	reachable := &model.Finding{Evidence: model.EvidenceStatic, ReachableURL: "https://edge/api"}

	assert.Greater(t, scoreExposure(reachable, cfg), scoreExposure(plain, cfg))
	assert.GreaterOrEqual(t, reachabilityScore(reachable), 85.0)
}

func TestImpactSeverityFallback(t *testing.T) {
	cfg := DefaultConfig()
	critical := &model.Finding{Severity: "CRITICAL", Occurrences: 1, AssetCritical: 5}
	low := &model.Finding{Severity: "LOW", Occurrences: 1, AssetCritical: 5}

	assert.InDelta(t, 90.0, scoreImpact(critical, cfg), 1e-9)
	assert.InDelta(t, 30.0, scoreImpact(low, cfg), 1e-9)
}

func TestImpactOccurrenceMultiplier(t *testing.T) {
	assert.Equal(t, 2.5, occurrenceMultiplier(500))
	assert.Equal(t, 2.0, occurrenceMultiplier(100))
	assert.Equal(t, 1.6, occurrenceMultiplier(50))
	assert.Equal(t, 1.0, occurrenceMultiplier(1))
	assert.Greater(t, occurrenceMultiplier(3), 1.0)
	assert.Less(t, occurrenceMultiplier(3), 1.2)
}

func TestImpactScalesWithCriticalityAndDomain(t *testing.T) {
	cfg := DefaultConfig()
	db := &model.Finding{CVSSScore: 6, Occurrences: 1, AssetCritical: 9, Domain: "database"}
	lib := &model.Finding{CVSSScore: 6, Occurrences: 1, AssetCritical: 3, Domain: "library"}

	assert.Greater(t, scoreImpact(db, cfg), scoreImpact(lib, cfg))
}

func TestFixabilityFriction(t *testing.T) {
	cfg := DefaultConfig()

	easy := &model.Finding{FixAvailable: true, Effort: "LOW", HasTicket: true}
	assert.InDelta(t, 100.0, scoreFixability(easy, cfg), 1e-9) // 100 - 10 + 20 clamped

	hard := &model.Finding{FixAvailable: false, Effort: "HIGH", Domain: "database"}
	assert.InDelta(t, 10.0, scoreFixability(hard, cfg), 1e-9) // 100 - 30 - 40 - 20
}

func TestUrgencySLALadder(t *testing.T) {
	now := testNow
	mkDue := func(days int) *model.Finding {
		due := now.Add(time.Duration(days) * 24 * time.Hour)
		return &model.Finding{SLADueDate: &due, Confidence: 1}
	}

	assert.Equal(t, 95.0, slaComponent(mkDue(2), now))
	assert.Equal(t, 90.0, slaComponent(mkDue(6), now))
	assert.Equal(t, 80.0, slaComponent(mkDue(10), now))
	assert.Equal(t, 70.0, slaComponent(mkDue(20), now))
	assert.Equal(t, 50.0, slaComponent(mkDue(45), now))
	assert.Equal(t, 30.0, slaComponent(mkDue(75), now))
	assert.Equal(t, 20.0, slaComponent(mkDue(120), now))
	assert.Equal(t, 25.0, slaComponent(&model.Finding{}, now))

	overdue := mkDue(-1)
	assert.Equal(t, 100.0, slaComponent(overdue, now))
}

func TestUrgencyKEVThreatFloor(t *testing.T) {
	f := &model.Finding{InKEV: true}
	assert.GreaterOrEqual(t, threatComponent(f, testNow), 90.0)

	ransom := &model.Finding{Ransomware: true}
	assert.Equal(t, 100.0, threatComponent(ransom, testNow))
}

func TestUrgencyTierClassification(t *testing.T) {
	assert.Equal(t, tierCritical, classifyTier(&model.Finding{InKEV: true}))
	assert.Equal(t, tierHigh, classifyTier(&model.Finding{EPSS: 0.6}))
	assert.Equal(t, tierMedium, classifyTier(&model.Finding{HasPoc: true}))
	assert.Equal(t, tierLow, classifyTier(&model.Finding{EPSSPercentile: 60}))
	assert.Equal(t, tierNone, classifyTier(&model.Finding{}))
}

func TestUrgencyLowConfidenceCut(t *testing.T) {
	cfg := DefaultConfig()
	due := testNow.Add(24 * time.Hour)

	confident := &model.Finding{SLADueDate: &due, Confidence: 1.0, ExposureScore: 100}
	shaky := &model.Finding{SLADueDate: &due, Confidence: 0.2, ExposureScore: 100}

	assert.Greater(t, scoreUrgency(confident, cfg, testNow), scoreUrgency(shaky, cfg, testNow))
}

func TestCWEClassWeights(t *testing.T) {
	assert.Equal(t, 90.0, cweClassWeight([]string{"CWE-89"}))
	assert.Equal(t, 60.0, cweClassWeight([]string{"CWE-79"}))
	assert.Equal(t, 40.0, cweClassWeight([]string{"CWE-200"}))
	assert.Equal(t, 50.0, cweClassWeight(nil))
	assert.Equal(t, 50.0, cweClassWeight([]string{"CWE-99999"}))
	// highest class wins across multiple CWEs
	assert.Equal(t, 90.0, cweClassWeight([]string{"CWE-200", "CWE-78"}))
	// family fallback on free-text classifications
	assert.Equal(t, 90.0, cweClassWeight([]string{"sql injection"}))
}
