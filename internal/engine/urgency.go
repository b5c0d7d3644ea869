package engine

import (
	"time"

	"github.com/ortelius/rpi-backend/model"
)

// Q5: how soon does this need attention. Blends the SLA clock, live threat
// intelligence and finding age, with the blend weights chosen by threat tier
// so a quiet finding is driven by its SLA while a KEV entry is driven by the
// threat itself.

type threatTier int

const (
	tierNone threatTier = iota
	tierLow
	tierMedium
	tierHigh
	tierCritical
)

// slaComponent maps days-to-due onto a 0-100 urgency ladder.
func slaComponent(f *model.Finding, now time.Time) float64 {
	days, ok := f.DaysToSLA(now)
	if !ok {
		return 25
	}
	switch {
	case f.SLAViolated || days < 0:
		return 100
	case days <= 3:
		return 95
	case days <= 7:
		return 90
	case days <= 14:
		return 80
	case days <= 30:
		return 70
	case days <= 60:
		return 50
	case days <= 90:
		return 30
	default:
		return 20
	}
}

func threatComponent(f *model.Finding, now time.Time) float64 {
	threat := 100 * (0.65*f.EPSS + 0.35*f.EPSSPercentile/100)
	if f.HasPoc {
		threat += 8
	}
	if f.InKEV {
		if threat < 90 {
			threat = 90
		}
		if f.KEVDateAdded != nil && now.Sub(*f.KEVDateAdded) < 30*24*time.Hour {
			threat += 5
		}
	}
	if f.Ransomware {
		threat = 100
	}
	return clamp(threat, 0, 100)
}

func classifyTier(f *model.Finding) threatTier {
	switch {
	case f.InKEV || f.Ransomware:
		return tierCritical
	case f.EPSS >= 0.5 || f.PocMaturity == model.PocWeaponized:
		return tierHigh
	case f.EPSS >= 0.2 || f.HasPoc:
		return tierMedium
	case f.EPSS >= 0.05 || f.EPSSPercentile >= 50:
		return tierLow
	default:
		return tierNone
	}
}

// ageComponent rewards findings that have been sitting open, capped by tier
// so a stale but quiet finding cannot out-rank a fresh KEV entry.
func ageComponent(f *model.Finding, tier threatTier, now time.Time) float64 {
	caps := map[threatTier]float64{
		tierNone:     10,
		tierLow:      20,
		tierMedium:   25,
		tierHigh:     30,
		tierCritical: 35,
	}

	mult := 0.5
	if !f.FirstSeen.IsZero() {
		ageDays := now.Sub(f.FirstSeen).Hours() / 24
		switch {
		case ageDays >= 180:
			mult = 1.0
		case ageDays >= 90:
			mult = 0.8
		case ageDays >= 30:
			mult = 0.6
		case ageDays >= 7:
			mult = 0.4
		default:
			mult = 0.2
		}
	}
	return caps[tier] * mult
}

func tierBlendWeights(tier threatTier) (sla, threat, age float64) {
	switch tier {
	case tierCritical:
		return 0.45, 0.40, 0.15
	case tierHigh, tierMedium:
		return 0.50, 0.35, 0.15
	default:
		return 0.65, 0.25, 0.10
	}
}

func scoreUrgency(f *model.Finding, _ *Config, now time.Time) float64 {
	threat := threatComponent(f, now)
	tier := classifyTier(f)

	wSLA, wThreat, wAge := tierBlendWeights(tier)
	score := wSLA*slaComponent(f, now) +
		wThreat*threat +
		wAge*ageComponent(f, tier, now)

	// exposure scales urgency between 0.70 and 1.00
	score *= 0.70 + 0.30*f.ExposureScore/100

	if f.Verified {
		score *= 1.04
	}
	if f.Evidence == model.EvidenceDynamic {
		score *= 1.03
	}
	if f.Confidence < 0.5 {
		score *= 0.85
	}

	return clamp(score, 0, 100)
}
