package engine

import "github.com/ortelius/rpi-backend/model"

// Coverage analytics answer "how much of the risk lives at the top of the
// queue". All functions expect findings already in ranking order.

// standard coverage targets reported per run
var coverageTargets = []float64{0.50, 0.75, 0.80, 0.90, 0.95}

// MinimalCoverage returns the smallest K such that the top K records carry
// at least the target fraction of total RPI mass. When every record scores
// zero there is no mass to cover and K is the full set. The result is
// monotone in the target: a higher target never yields a smaller K.
func MinimalCoverage(records []model.ScoredFinding, target float64) int {
	if len(records) == 0 {
		return 0
	}
	if target <= 0 {
		target = 0.01
	}
	if target > 1 {
		target = 1
	}

	total := 0.0
	for i := range records {
		total += records[i].RPI
	}
	if total == 0 {
		return len(records)
	}

	acc := 0.0
	for i := range records {
		acc += records[i].RPI
		if acc >= target*total {
			return i + 1
		}
	}
	return len(records)
}

// CoveragePoints computes MinimalCoverage at the standard targets.
func CoveragePoints(records []model.ScoredFinding) []model.CoveragePoint {
	points := make([]model.CoveragePoint, 0, len(coverageTargets))
	for _, target := range coverageTargets {
		k := MinimalCoverage(records, target)
		fraction := 0.0
		if len(records) > 0 {
			fraction = float64(k) / float64(len(records))
		}
		points = append(points, model.CoveragePoint{
			Target:   target,
			K:        k,
			Fraction: fraction,
		})
	}
	return points
}

// TopShare returns the fraction of total RPI mass held by the top p fraction
// of records.
func TopShare(records []model.ScoredFinding, p float64) float64 {
	if len(records) == 0 || p <= 0 {
		return 0
	}
	if p > 1 {
		p = 1
	}

	total := 0.0
	for i := range records {
		total += records[i].RPI
	}
	if total == 0 {
		return 0
	}

	k := int(p * float64(len(records)))
	if k < 1 {
		k = 1
	}
	top := 0.0
	for i := 0; i < k; i++ {
		top += records[i].RPI
	}
	return top / total
}

// Gini measures how concentrated the RPI mass is: 0 means evenly spread,
// values toward 1 mean a few findings dominate.
func Gini(records []model.ScoredFinding) float64 {
	n := len(records)
	if n == 0 {
		return 0
	}

	total := 0.0
	for i := range records {
		total += records[i].RPI
	}
	if total == 0 {
		return 0
	}

	// records are sorted descending; walk from the bottom for the standard
	// ascending-order formula
	weighted := 0.0
	for i := 0; i < n; i++ {
		ascRank := float64(i + 1)
		weighted += ascRank * records[n-1-i].RPI
	}
	return (2*weighted)/(float64(n)*total) - float64(n+1)/float64(n)
}

// DecileTable splits the ranking into ten slices and reports how the RPI
// mass distributes across them. Decile 1 holds the top-ranked records.
func DecileTable(records []model.ScoredFinding) []model.DecileRow {
	n := len(records)
	if n == 0 {
		return nil
	}

	total := 0.0
	for i := range records {
		total += records[i].RPI
	}

	rows := make([]model.DecileRow, 0, 10)
	cumulative := 0.0
	for d := 0; d < 10; d++ {
		start := d * n / 10
		end := (d + 1) * n / 10
		if d == 9 {
			end = n
		}
		sum := 0.0
		for i := start; i < end; i++ {
			sum += records[i].RPI
		}
		share := 0.0
		if total > 0 {
			share = sum / total
		}
		cumulative += share
		rows = append(rows, model.DecileRow{
			Decile:          d + 1,
			Records:         end - start,
			RPISum:          sum,
			Share:           share,
			CumulativeShare: cumulative,
		})
	}
	return rows
}
