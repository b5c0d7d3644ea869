package engine

import (
	"sort"

	"github.com/ortelius/rpi-backend/model"
)

// Less orders two scored findings for the ranked view. Higher RPI wins; ties
// fall through a fixed cascade ending at the record ID, which makes the
// order total and runs reproducible.
func Less(a, b *model.ScoredFinding) bool {
	if a.RPI != b.RPI {
		return a.RPI > b.RPI
	}
	if a.SLAViolated != b.SLAViolated {
		return a.SLAViolated
	}
	if a.InKEV != b.InKEV {
		return a.InKEV
	}
	if a.EPSSPercentile != b.EPSSPercentile {
		return a.EPSSPercentile > b.EPSSPercentile
	}
	if a.Occurrences != b.Occurrences {
		return a.Occurrences > b.Occurrences
	}
	if a.CVSSScore != b.CVSSScore {
		return a.CVSSScore > b.CVSSScore
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.RecordID < b.RecordID
}

// SortRanked sorts findings into ranking order and assigns 1-based ranks.
func SortRanked(findings []model.ScoredFinding) {
	sort.Slice(findings, func(i, j int) bool {
		return Less(&findings[i], &findings[j])
	})
	for i := range findings {
		findings[i].Rank = i + 1
	}
}
