package engine

import (
	"math"
	"strings"
	"time"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/google/uuid"
	"github.com/ortelius/rpi-backend/model"
	"github.com/ortelius/rpi-backend/util"
)

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Normalize converts raw scanner findings into canonical records. Malformed
// records are absorbed: a finding with neither an advisory ID nor a package
// is dropped and counted, never failing the batch. Findings that share an
// advisory, base PURL and asset are merged into one record with the
// occurrence count accumulated and the strongest signal values retained.
func Normalize(raw []model.RawFinding, now time.Time) ([]model.Finding, int) {
	byKey := make(map[string]int)
	var out []model.Finding
	skipped := 0

	for i := range raw {
		f, ok := normalizeOne(&raw[i], now)
		if !ok {
			skipped++
			continue
		}

		key := f.AdvisoryID + "|" + f.Package + "|" + f.AssetName
		if idx, seen := byKey[key]; seen {
			mergeFinding(&out[idx], &f)
			continue
		}
		byKey[key] = len(out)
		out = append(out, f)
	}
	return out, skipped
}

func normalizeOne(r *model.RawFinding, now time.Time) (model.Finding, bool) {
	advisory := r.AdvisoryID
	if advisory == "" {
		advisory = r.CveID
	}

	pkg := r.Package
	purl := r.Purl
	ecosystem := ""
	if purl != "" {
		if base, err := util.GetStandardBasePURL(purl); err == nil {
			pkg = base
		}
		if parsed, err := util.ParsePURL(purl); err == nil {
			ecosystem = parsed.Type
		}
	}

	if advisory == "" && pkg == "" {
		return model.Finding{}, false
	}

	recordID := r.RecordID
	if recordID == "" {
		recordID = uuid.NewString()
	}

	f := model.Finding{
		RecordID:         recordID,
		AdvisoryID:       advisory,
		Aliases:          r.Aliases,
		Summary:          r.Summary,
		Package:          pkg,
		FullPurl:         purl,
		Ecosystem:        ecosystem,
		InstalledVersion: util.CleanVersion(r.InstalledVersion),
		FixedVersion:     util.CleanVersion(r.FixedVersion),
		CVSSVector:       r.CVSSVector,
		CWEs:             r.CWEs,
		InKEV:            r.InKEV,
		Ransomware:       r.Ransomware,
		Domain:           strings.ToLower(strings.TrimSpace(r.Domain)),
		Environment:      normalizeEnvironment(r.Environment),
		ReachableURL:     r.ReachableURL,
		EndpointCount:    maxInt(r.EndpointCount, 0),
		Evidence:         normalizeEvidence(r.Evidence),
		Verified:         r.Verified,
		AssetName:        r.AssetName,
		AssetTags:        r.AssetTags,
		Effort:           strings.ToUpper(strings.TrimSpace(r.Effort)),
		HasTicket:        r.HasTicket,
		Status:           normalizeStatus(r.Status),
	}

	// Numeric signals: clamp into legal ranges, neutral defaults when absent.
	f.CVSSScore = clamp(floatOr(r.CVSSScore, 0), 0, 10)
	if f.CVSSScore == 0 && r.CVSSVector != "" {
		f.CVSSScore = util.CalculateCVSSScore(r.CVSSVector)
	}
	f.Severity = strings.ToUpper(strings.TrimSpace(r.Severity))
	if f.Severity == "" && f.CVSSScore > 0 {
		f.Severity = util.GetSeverityRating(f.CVSSScore)
	}
	f.EPSS = clamp(floatOr(r.EPSS, 0), 0, 1)
	f.EPSSPercentile = clamp(floatOr(r.EPSSPercentile, 0), 0, 100)
	f.Confidence = clamp(floatOr(r.Confidence, 1.0), 0, 1)
	f.AssetCritical = clamp(floatOr(r.AssetCritical, 5.0), 0, 10)
	f.ExposureScore = clamp(floatOr(r.ExposureScore, 0), 0, 100)

	f.Occurrences = r.Occurrences
	if f.Occurrences < 1 {
		f.Occurrences = 1
	}

	f.PocMaturity = normalizePocMaturity(r.PocMaturity, r.HasPoc)
	f.HasPoc = f.PocMaturity != model.PocNone

	if t, err := time.Parse(time.RFC3339, r.KEVDateAdded); err == nil {
		f.KEVDateAdded = &t
	}
	if t, err := time.Parse(time.RFC3339, r.FirstSeen); err == nil {
		f.FirstSeen = t
	}
	if due := parseDate(r.SLADueDate); due != nil {
		f.SLADueDate = due
		f.SLAViolated = due.Before(now)
	}

	f.FixAvailable = util.IsFixAvailable(f.Ecosystem, f.InstalledVersion, f.FixedVersion)
	return f, true
}

// NormalizeOSV builds a raw finding from an OSV advisory plus the installed
// package it was matched against. Records whose installed version falls
// outside every affected range are reported as not ok.
func NormalizeOSV(vuln *models.Vulnerability, purl, installedVersion string) (model.RawFinding, bool) {
	if vuln == nil || vuln.ID == "" {
		return model.RawFinding{}, false
	}
	if installedVersion != "" && len(vuln.Affected) > 0 &&
		!util.IsVersionAffectedAny(installedVersion, vuln.Affected) {
		return model.RawFinding{}, false
	}

	score, vector := util.HighestCVSSFromOSV(vuln.Severity)
	raw := model.RawFinding{
		AdvisoryID:       vuln.ID,
		Aliases:          vuln.Aliases,
		Summary:          vuln.Summary,
		Purl:             purl,
		InstalledVersion: installedVersion,
		FixedVersion:     util.FirstFixedVersion(installedVersion, vuln.Affected),
		CVSSVector:       vector,
	}
	if score > 0 {
		raw.CVSSScore = &score
		raw.Severity = util.GetSeverityRating(score)
	}
	return raw, true
}

// mergeFinding folds src into dst: occurrences accumulate, boolean signals
// OR together and numeric signals keep their maximum.
func mergeFinding(dst, src *model.Finding) {
	dst.Occurrences += src.Occurrences
	dst.InKEV = dst.InKEV || src.InKEV
	dst.HasPoc = dst.HasPoc || src.HasPoc
	dst.Verified = dst.Verified || src.Verified
	dst.Ransomware = dst.Ransomware || src.Ransomware
	dst.SLAViolated = dst.SLAViolated || src.SLAViolated
	dst.CVSSScore = math.Max(dst.CVSSScore, src.CVSSScore)
	dst.EPSS = math.Max(dst.EPSS, src.EPSS)
	dst.EPSSPercentile = math.Max(dst.EPSSPercentile, src.EPSSPercentile)
	dst.ExposureScore = math.Max(dst.ExposureScore, src.ExposureScore)
	dst.Confidence = math.Max(dst.Confidence, src.Confidence)
	dst.AssetCritical = math.Max(dst.AssetCritical, src.AssetCritical)
	dst.EndpointCount += src.EndpointCount
	if pocRank(src.PocMaturity) > pocRank(dst.PocMaturity) {
		dst.PocMaturity = src.PocMaturity
	}
	if src.Evidence == model.EvidenceDynamic {
		dst.Evidence = model.EvidenceDynamic
	}
	if dst.FixedVersion == "" {
		dst.FixedVersion = src.FixedVersion
		dst.FixAvailable = src.FixAvailable
	}
}

func normalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.StatusInProgress:
		return model.StatusInProgress
	case model.StatusRiskAccepted:
		return model.StatusRiskAccepted
	case model.StatusMitigated:
		return model.StatusMitigated
	case model.StatusFalsePositive:
		return model.StatusFalsePositive
	default:
		return model.StatusOpen
	}
}

func normalizeEnvironment(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "dev", "development", "test":
		return "development"
	default:
		return "staging"
	}
}

func normalizeEvidence(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.EvidenceDynamic, "runtime":
		return model.EvidenceDynamic
	case model.EvidenceStatic, "sca", "sast":
		return model.EvidenceStatic
	default:
		return model.EvidenceNone
	}
}

func normalizePocMaturity(s string, hasPoc bool) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case model.PocWeaponized, "weaponised":
		return model.PocWeaponized
	case model.PocExploit, "functional":
		return model.PocExploit
	case model.PocPOC, "poc":
		return model.PocPOC
	case model.PocUnproven:
		return model.PocUnproven
	}
	if hasPoc {
		return model.PocPOC
	}
	return model.PocNone
}

func pocRank(s string) int {
	switch s {
	case model.PocWeaponized:
		return 4
	case model.PocExploit:
		return 3
	case model.PocPOC:
		return 2
	case model.PocUnproven:
		return 1
	default:
		return 0
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
