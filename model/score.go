// Package model - scored finding and ranking result types.
package model

import "time"

// Priority buckets derived from the final RPI.
const (
	BucketCritical = "Critical"
	BucketHigh     = "High"
	BucketMedium   = "Medium"
	BucketLow      = "Low"
)

// QuestionScores holds the five per-question scores, each in [0,100].
type QuestionScores struct {
	Exploitability float64 `json:"q1_exploitability"`
	Exposure       float64 `json:"q2_exposure"`
	Impact         float64 `json:"q3_impact"`
	Fixability     float64 `json:"q4_fixability"`
	Urgency        float64 `json:"q5_urgency"`
}

// ScoredFinding is a Finding with its question scores, final RPI, priority
// bucket and rank within a run.
type ScoredFinding struct {
	Finding
	Scores  QuestionScores `json:"scores"`
	RPI     float64        `json:"rpi"`
	Bucket  string         `json:"bucket"`
	Rank    int            `json:"rank"`
	RunID   string         `json:"run_id,omitempty"`
	Reasons []string       `json:"reasons,omitempty"`
}

// DecileRow is one row of the RPI mass distribution table. Decile 1 holds the
// highest-ranked records.
type DecileRow struct {
	Decile          int     `json:"decile"`
	Records         int     `json:"records"`
	RPISum          float64 `json:"rpi_sum"`
	Share           float64 `json:"share"`
	CumulativeShare float64 `json:"cumulative_share"`
}

// CoveragePoint records the minimal top-K needed to cover a target fraction
// of total RPI mass.
type CoveragePoint struct {
	Target   float64 `json:"target"`
	K        int     `json:"k"`
	Fraction float64 `json:"fraction"` // K / total records
}

// RunSummary is the persisted record of one prioritization run.
type RunSummary struct {
	Key       string          `json:"_key,omitempty"`
	RunID     string          `json:"run_id"`
	ObjType   string          `json:"objtype,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	Total     int             `json:"total"`
	Skipped   int             `json:"skipped"`
	MeanRPI   float64         `json:"mean_rpi"`
	MaxRPI    float64         `json:"max_rpi"`
	Buckets   map[string]int  `json:"buckets"`
	Coverage  []CoveragePoint `json:"coverage"`
	Gini      float64         `json:"gini"`
}
