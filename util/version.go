// Package util - ecosystem-aware version comparison for fix availability and
// OSV affected-range checks.
//
//revive:disable-next-line:var-naming
package util

import (
	"log"
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/google/osv-scanner/pkg/models"
)

// CompareVersions compares a and b using the ecosystem's native version
// scheme, falling back through semver to plain string ordering. Returns
// -1, 0 or 1.
func CompareVersions(ecosystem, a, b string) int {
	switch strings.ToLower(ecosystem) {
	case "npm":
		av, errA := npm.NewVersion(a)
		bv, errB := npm.NewVersion(b)
		if errA == nil && errB == nil {
			switch {
			case av.LessThan(bv):
				return -1
			case av.GreaterThan(bv):
				return 1
			}
			return 0
		}
	case "pypi":
		av, errA := pep440.Parse(a)
		bv, errB := pep440.Parse(b)
		if errA == nil && errB == nil {
			switch {
			case av.LessThan(bv):
				return -1
			case av.GreaterThan(bv):
				return 1
			}
			return 0
		}
	}

	if av, errA := semver.NewVersion(CleanVersion(a)); errA == nil {
		if bv, errB := semver.NewVersion(CleanVersion(b)); errB == nil {
			return av.Compare(bv)
		}
	}
	return strings.Compare(a, b)
}

// IsFixAvailable reports whether the fixed version actually moves the
// installed version forward. An empty fixed version means no fix is known.
func IsFixAvailable(ecosystem, installed, fixed string) bool {
	if fixed == "" {
		return false
	}
	if installed == "" {
		return true
	}
	return CompareVersions(ecosystem, installed, fixed) < 0
}

// CleanVersion strips a leading branch or "v" prefix from a version string
// so the downstream parsers have a chance.
// Examples: "main-v12.0.1376" -> "12.0.1376", "v1.2.3" -> "1.2.3"
func CleanVersion(version string) string {
	v := strings.TrimSpace(version)
	if idx := strings.LastIndex(v, "-v"); idx >= 0 && idx+2 < len(v) && v[idx+2] >= '0' && v[idx+2] <= '9' {
		v = v[idx+2:]
	}
	return strings.TrimPrefix(v, "v")
}

// IsVersionAffectedAny checks a version against every affected entry of an
// OSV advisory.
func IsVersionAffectedAny(version string, allAffected []models.Affected) bool {
	for _, affected := range allAffected {
		if IsVersionAffected(version, affected) {
			return true
		}
	}
	return false
}

// IsVersionAffected checks if a version is affected per the OSV versions
// list and SEMVER/ECOSYSTEM ranges.
func IsVersionAffected(version string, affected models.Affected) bool {
	for _, v := range affected.Versions {
		if v == version {
			return true
		}
	}
	ecosystem := string(affected.Package.Ecosystem)
	for _, vrange := range affected.Ranges {
		if vrange.Type != models.RangeEcosystem && vrange.Type != models.RangeSemVer {
			continue
		}
		if versionInRange(version, vrange, ecosystem) {
			return true
		}
	}
	return false
}

// versionInRange evaluates one OSV range. Both a lower bound (introduced)
// and an upper bound (fixed or last_affected) are required; incomplete
// ranges would otherwise produce false positives. OSV uses "0" for
// "introduced at the beginning of time".
func versionInRange(version string, vrange models.Range, ecosystem string) bool {
	var introduced, fixed, lastAffected string
	for _, event := range vrange.Events {
		if event.Introduced != "" {
			introduced = event.Introduced
		}
		if event.Fixed != "" {
			fixed = event.Fixed
		}
		if event.LastAffected != "" {
			lastAffected = event.LastAffected
		}
	}

	if introduced == "" || (fixed == "" && lastAffected == "") {
		log.Printf("WARNING: Incomplete range data for version %s, skipping range", version)
		return false
	}

	if introduced != "0" && CompareVersions(ecosystem, version, introduced) < 0 {
		return false
	}
	if fixed != "" && CompareVersions(ecosystem, version, fixed) >= 0 {
		return false
	}
	if lastAffected != "" && CompareVersions(ecosystem, version, lastAffected) > 0 {
		return false
	}
	return true
}

// FirstFixedVersion returns the first fixed version that would remediate the
// current version, preferring fixes from ranges the current version actually
// falls into.
func FirstFixedVersion(currentVersion string, allAffected []models.Affected) string {
	var fallback string
	for _, affected := range allAffected {
		ecosystem := string(affected.Package.Ecosystem)
		for _, vrange := range affected.Ranges {
			for _, event := range vrange.Events {
				if event.Fixed == "" {
					continue
				}
				if fallback == "" {
					fallback = event.Fixed
				}
				if currentVersion != "" && CompareVersions(ecosystem, currentVersion, event.Fixed) < 0 {
					return event.Fixed
				}
			}
		}
	}
	return fallback
}
