package engine

import (
	"math"

	"github.com/ortelius/rpi-backend/model"
)

// Q2: how reachable is the vulnerable surface.

// reachabilityScore rates the evidence that the vulnerable code is actually
// reachable. Dynamic evidence dominates static; a confirmed URL or live
// endpoints raise the floor.
func reachabilityScore(f *model.Finding) float64 {
	var base float64
	switch f.Evidence {
	case model.EvidenceDynamic:
		base = 75
		if f.Verified {
			base *= 1.2
		}
	case model.EvidenceStatic:
		base = 35
		if f.Verified {
			base *= 1.15
		}
	default:
		base = 10
	}

	if f.ReachableURL != "" {
		floor := 85.0
		if f.Verified {
			floor = 95.0
		}
		base = math.Max(base, floor)
	}

	if f.EndpointCount > 0 {
		fromEndpoints := 50 + math.Min(40, 5*float64(f.EndpointCount))
		base = math.Max(base, fromEndpoints)
	}

	return clamp(base, 0, 100)
}

// scoreExposure combines the asset's exposure rating with reachability, then
// scales by environment and domain.
func scoreExposure(f *model.Finding, cfg *Config) float64 {
	score := 0.6*f.ExposureScore + 0.4*reachabilityScore(f)

	switch f.Environment {
	case "production":
		score *= 1.3
	case "development":
		score *= 0.7
	}

	if mult, ok := cfg.DomainExposure[f.Domain]; ok {
		score *= mult
	}

	return clamp(score, 0, 100)
}
