package engine

import "github.com/ortelius/rpi-backend/model"

// Q4: how easy is this to fix. Scored as 100 minus accumulated friction, so
// a clean upgrade path scores high and a patchless finding on shared infra
// scores low.
func scoreFixability(f *model.Finding, _ *Config) float64 {
	friction := 0.0

	if !f.FixAvailable {
		friction += 30
	}

	switch f.Effort {
	case "HIGH":
		friction += 40
	case "MEDIUM", "":
		friction += 20
	case "LOW":
		friction += 10
	default:
		friction += 20
	}

	// a tracked ticket means remediation is already moving
	if f.HasTicket {
		friction -= 20
	}

	// database and infra changes carry rollout risk beyond the patch itself
	if f.Domain == "database" || f.Domain == "infra" {
		friction += 20
	}

	return clamp(100-friction, 0, 100)
}
