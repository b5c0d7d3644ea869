package engine

import (
	"math"
	"strings"

	"github.com/ortelius/rpi-backend/model"
)

// Q3: how bad is it if this gets exploited.

func severityBase(severity string) float64 {
	switch strings.ToUpper(severity) {
	case "CRITICAL":
		return 90
	case "HIGH":
		return 70
	case "MEDIUM", "MODERATE":
		return 50
	case "LOW":
		return 30
	case "INFO", "INFORMATIONAL", "NONE":
		return 10
	default:
		return 40
	}
}

// occurrenceMultiplier scales impact by spread. Wide spread is a step
// function; the long tail grows logarithmically.
func occurrenceMultiplier(n int) float64 {
	switch {
	case n >= 500:
		return 2.5
	case n >= 100:
		return 2.0
	case n >= 50:
		return 1.6
	case n >= 20:
		return 1.4
	case n >= 10:
		return 1.3
	case n >= 5:
		return 1.2
	case n > 1:
		return 1 + math.Log10(float64(n))*0.2
	default:
		return 1.0
	}
}

func criticalityMultiplier(criticality float64) float64 {
	switch {
	case criticality >= 9:
		return 1.4
	case criticality >= 7:
		return 1.2
	case criticality >= 5:
		return 1.0
	case criticality > 3:
		return 0.9
	default:
		return 0.8
	}
}

// sensitive data keyword tiers for asset tags
var strongSensitivityTags = []string{"payment", "pci", "pii", "phi", "secrets", "credentials"}
var mildSensitivityTags = []string{"customer", "financial", "internal"}

func sensitivityMultiplier(tags []string) float64 {
	mult := 1.0
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, kw := range strongSensitivityTags {
			if strings.Contains(lower, kw) {
				return 1.3
			}
		}
		for _, kw := range mildSensitivityTags {
			if strings.Contains(lower, kw) {
				mult = 1.15
			}
		}
	}
	return mult
}

// scoreImpact starts from the CVSS score (or the severity rating when no
// score exists) and scales by spread, asset criticality, domain and data
// sensitivity.
func scoreImpact(f *model.Finding, cfg *Config) float64 {
	base := f.CVSSScore * 10
	if base == 0 {
		base = severityBase(f.Severity)
	}

	score := base *
		occurrenceMultiplier(f.Occurrences) *
		criticalityMultiplier(f.AssetCritical) *
		sensitivityMultiplier(f.AssetTags)

	if mult, ok := cfg.DomainImpact[f.Domain]; ok {
		score *= mult
	}
	if f.Verified {
		score *= 1.05
	}

	return clamp(score, 0, 100)
}
