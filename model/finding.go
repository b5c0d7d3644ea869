// Package model defines the data structures shared by the scoring engine,
// the REST API and the ArangoDB store.
package model

import "time"

// Management status values for a finding.
const (
	StatusOpen          = "open"
	StatusInProgress    = "in_progress"
	StatusRiskAccepted  = "risk_accepted"
	StatusMitigated     = "mitigated"
	StatusFalsePositive = "false_positive"
)

// Proof-of-concept maturity levels, from none to weaponized.
const (
	PocNone       = "none"
	PocUnproven   = "unproven"
	PocPOC        = "proof-of-concept"
	PocExploit    = "exploit-poc"
	PocWeaponized = "weaponized"
)

// Reachability evidence kinds.
const (
	EvidenceNone    = "none"
	EvidenceStatic  = "static"
	EvidenceDynamic = "dynamic"
)

// Finding is a normalized vulnerability record. The normalizer produces it
// from raw scanner output and it is treated as immutable from then on.
type Finding struct {
	Key        string   `json:"_key,omitempty"`
	RecordID   string   `json:"record_id"`
	AdvisoryID string   `json:"advisory_id"`
	Aliases    []string `json:"aliases,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	ObjType    string   `json:"objtype,omitempty"`

	// Package identity
	Package          string `json:"package"` // canonical base PURL
	FullPurl         string `json:"full_purl,omitempty"`
	Ecosystem        string `json:"ecosystem,omitempty"`
	InstalledVersion string `json:"installed_version,omitempty"`
	FixedVersion     string `json:"fixed_version,omitempty"`

	// Severity signals
	CVSSScore  float64  `json:"cvss_score"`
	CVSSVector string   `json:"cvss_vector,omitempty"`
	Severity   string   `json:"severity,omitempty"`
	CWEs       []string `json:"cwes,omitempty"`

	// Threat intelligence
	EPSS           float64    `json:"epss"`
	EPSSPercentile float64    `json:"epss_percentile"`
	InKEV          bool       `json:"in_kev"`
	KEVDateAdded   *time.Time `json:"kev_date_added,omitempty"`
	Ransomware     bool       `json:"ransomware"`
	PocMaturity    string     `json:"poc_maturity"`
	HasPoc         bool       `json:"has_poc"`

	// Deployment context
	Domain         string  `json:"domain,omitempty"`
	Environment    string  `json:"environment,omitempty"`
	ExposureScore  float64 `json:"exposure_score"`
	ReachableURL   string  `json:"reachable_url,omitempty"`
	EndpointCount  int     `json:"endpoint_count"`
	Evidence       string  `json:"evidence"`
	Verified       bool    `json:"verified"`
	Occurrences    int     `json:"occurrences"`
	AssetName      string  `json:"asset_name,omitempty"`
	AssetCritical  float64 `json:"asset_criticality"`
	AssetTags      []string `json:"asset_tags,omitempty"`

	// Remediation state
	FixAvailable bool       `json:"fix_available"`
	Effort       string     `json:"remediation_effort,omitempty"` // LOW, MEDIUM, HIGH
	HasTicket    bool       `json:"has_ticket"`
	SLADueDate   *time.Time `json:"sla_due_date,omitempty"`
	SLAViolated  bool       `json:"sla_violated"`
	Status       string     `json:"status"`
	Confidence   float64    `json:"confidence"`
	FirstSeen    time.Time  `json:"first_seen,omitempty"`
}

// DaysToSLA returns the number of days until the SLA due date relative to now.
// The second return is false when no SLA is set. Overdue findings return a
// negative count.
func (f *Finding) DaysToSLA(now time.Time) (float64, bool) {
	if f.SLADueDate == nil {
		return 0, false
	}
	return f.SLADueDate.Sub(now).Hours() / 24, true
}

// IsActionable reports whether the finding is still in a workable state.
// Accepted, mitigated and false-positive findings are kept for reporting but
// are heavily discounted by the aggregator.
func (f *Finding) IsActionable() bool {
	return f.Status == StatusOpen || f.Status == StatusInProgress
}
