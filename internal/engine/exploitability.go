package engine

import "github.com/ortelius/rpi-backend/model"

// Q1: how exploitable is this, here and now.

func pocMaturityScore(maturity string) float64 {
	switch maturity {
	case model.PocWeaponized:
		return 100
	case model.PocExploit:
		return 80
	case model.PocPOC:
		return 60
	case model.PocUnproven:
		return 20
	default:
		return 0
	}
}

// environmentFit estimates how friendly the deployment context is to an
// attacker independent of the package itself.
func environmentFit(f *model.Finding) float64 {
	fit := 50.0
	if f.Evidence == model.EvidenceDynamic {
		fit += 25
	}
	if f.ReachableURL != "" {
		fit += 15
	}
	if f.Environment == "production" {
		fit += 10
	}
	return clamp(fit, 0, 100)
}

// scoreExploitability blends PoC maturity, environment fit and the CWE class
// weight, with an EPSS bonus on top. KEV membership floors the score at 95.
func scoreExploitability(f *model.Finding, _ *Config) float64 {
	base := 0.5*pocMaturityScore(f.PocMaturity) +
		0.3*environmentFit(f) +
		0.2*cweClassWeight(f.CWEs)

	bonus := 20*f.EPSS + 0.1*f.EPSSPercentile
	score := base + bonus

	if f.InKEV && score < 95 {
		score = 95
	}
	return clamp(score, 0, 100)
}
