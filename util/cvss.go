// Package util provides utility functions for the backend.
package util

import (
	"strings"

	"github.com/google/osv-scanner/pkg/models"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// CalculateCVSSScore calculates the CVSS base score from a vector string
func CalculateCVSSScore(vectorStr string) float64 {
	if vectorStr == "" || !strings.HasPrefix(vectorStr, "CVSS:") {
		return 0
	}
	if strings.HasPrefix(vectorStr, "CVSS:3.1") || strings.HasPrefix(vectorStr, "CVSS:3.0") {
		if cvss31, err := gocvss31.ParseVector(vectorStr); err == nil {
			return cvss31.BaseScore()
		}
	}
	if strings.HasPrefix(vectorStr, "CVSS:4.0") {
		if cvss40, err := gocvss40.ParseVector(vectorStr); err == nil {
			return cvss40.Score()
		}
	}
	return 0
}

// HighestCVSSFromOSV returns the highest CVSS base score and its vector
// across the severity entries of an OSV advisory.
func HighestCVSSFromOSV(severities []models.Severity) (float64, string) {
	var best float64
	var bestVector string
	for _, sev := range severities {
		if sev.Type != models.SeverityCVSSV3 && sev.Type != models.SeverityCVSSV4 {
			continue
		}
		if score := CalculateCVSSScore(sev.Score); score > best {
			best = score
			bestVector = sev.Score
		}
	}
	return best, bestVector
}

// GetSeverityRating converts a CVSS score to a severity rating
func GetSeverityRating(score float64) string {
	switch {
	case score == 0:
		return "NONE"
	case score < 4.0:
		return "LOW"
	case score < 7.0:
		return "MEDIUM"
	case score < 9.0:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// GetSeverityScore maps a textual severity rating back to a representative
// CVSS-style score for records that carry no numeric score at all.
func GetSeverityScore(severity string) float64 {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "CRITICAL":
		return 9.0
	case "HIGH":
		return 7.0
	case "MEDIUM", "MODERATE":
		return 5.0
	case "LOW":
		return 3.0
	case "INFO", "INFORMATIONAL", "NONE":
		return 1.0
	default:
		return 0
	}
}
