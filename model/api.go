// Package model - request and response types for the REST API.
package model

// RawFinding is a single scanner finding as posted to the scan endpoint.
// Fields are loosely typed on purpose; the normalizer clamps and defaults
// everything, and a record missing both an advisory ID and a package is
// dropped rather than failing the batch.
type RawFinding struct {
	RecordID         string   `json:"record_id,omitempty"`
	AdvisoryID       string   `json:"advisory_id,omitempty"`
	CveID            string   `json:"cve_id,omitempty"`
	Aliases          []string `json:"aliases,omitempty"`
	Summary          string   `json:"summary,omitempty"`
	Package          string   `json:"package,omitempty"`
	Purl             string   `json:"purl,omitempty"`
	InstalledVersion string   `json:"installed_version,omitempty"`
	FixedVersion     string   `json:"fixed_version,omitempty"`

	CVSSScore  *float64 `json:"cvss_score,omitempty"`
	CVSSVector string   `json:"cvss_vector,omitempty"`
	Severity   string   `json:"severity,omitempty"`
	CWEs       []string `json:"cwes,omitempty"`

	EPSS           *float64 `json:"epss,omitempty"`
	EPSSPercentile *float64 `json:"epss_percentile,omitempty"`
	InKEV          bool     `json:"in_kev,omitempty"`
	KEVDateAdded   string   `json:"kev_date_added,omitempty"`
	Ransomware     bool     `json:"ransomware,omitempty"`
	PocMaturity    string   `json:"poc_maturity,omitempty"`
	HasPoc         bool     `json:"has_poc,omitempty"`

	Domain        string   `json:"domain,omitempty"`
	Environment   string   `json:"environment,omitempty"`
	ExposureScore *float64 `json:"exposure_score,omitempty"`
	ReachableURL  string   `json:"reachable_url,omitempty"`
	EndpointCount int      `json:"endpoint_count,omitempty"`
	Evidence      string   `json:"evidence,omitempty"`
	Verified      bool     `json:"verified,omitempty"`
	Occurrences   int      `json:"occurrences,omitempty"`
	AssetName     string   `json:"asset_name,omitempty"`
	AssetCritical *float64 `json:"asset_criticality,omitempty"`
	AssetTags     []string `json:"asset_tags,omitempty"`

	Effort     string   `json:"remediation_effort,omitempty"`
	HasTicket  bool     `json:"has_ticket,omitempty"`
	SLADueDate string   `json:"sla_due_date,omitempty"`
	Status     string   `json:"status,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	FirstSeen  string   `json:"first_seen,omitempty"`
}

// ScanRequest is the body of POST /api/v1/scan.
type ScanRequest struct {
	Findings []RawFinding `json:"findings"`
}

// ScanResponse returns the result of a prioritization run.
type ScanResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	RunID    string          `json:"run_id,omitempty"`
	Total    int             `json:"total"`
	Skipped  int             `json:"skipped"`
	Buckets  map[string]int  `json:"buckets,omitempty"`
	Coverage []CoveragePoint `json:"coverage,omitempty"`
}

// PriorityPage is one page of the ranked findings view.
type PriorityPage struct {
	Items      []ScoredFinding `json:"items"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
	HasPrev    bool            `json:"has_prev"`
}

// HeroCounters are the headline numbers for the dashboard top cards.
type HeroCounters struct {
	SLAViolated int `json:"sla_violated"`
	SLAWarning  int `json:"sla_warning"` // due within the next 7 days
	KEVCount    int `json:"kev_count"`
	PocCount    int `json:"poc_count"`
	EPSSHigh    int `json:"epss_high"` // EPSS >= 0.9
	TotalCount  int `json:"total_count"`
}

// StatsSummary aggregates the latest run for the stats endpoint.
type StatsSummary struct {
	Total      int            `json:"total"`
	MeanRPI    float64        `json:"mean_rpi"`
	MaxRPI     float64        `json:"max_rpi"`
	Buckets    map[string]int `json:"buckets"`
	Domains    map[string]int `json:"domains"`
	Severities map[string]int `json:"severities"`
}
