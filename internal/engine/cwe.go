package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// CWE class weights feed the exploitability scorer. Injection, deserialization
// and auth-bypass classes score highest; info-leak classes lowest.
var cweCriticalClass = map[int]bool{
	78: true, 77: true, 94: true, 502: true, 74: true, 89: true, 564: true,
	918: true, 287: true, 306: true, 862: true, 863: true, 22: true, 23: true,
	35: true, 611: true, 827: true,
}

var cweMediumClass = map[int]bool{79: true, 80: true, 352: true}

var cweLowClass = map[int]bool{200: true, 209: true, 532: true, 400: true, 770: true}

const (
	cweWeightCritical = 90
	cweWeightMedium   = 60
	cweWeightLow      = 40
	cweWeightDefault  = 50
)

// family fallbacks for CWEs not in the explicit tables
var cweFamilies = []struct {
	pattern *regexp.Regexp
	weight  float64
}{
	{regexp.MustCompile(`(?i)injection|command|deserial`), cweWeightCritical},
	{regexp.MustCompile(`(?i)xss|cross.site|redirect`), cweWeightMedium},
	{regexp.MustCompile(`(?i)information|disclosure|exhaustion`), cweWeightLow},
}

var cweIDPattern = regexp.MustCompile(`(?i)cwe-?(\d+)`)

// cweID extracts the numeric ID from forms like "CWE-89", "cwe-89" or "89".
func cweID(s string) (int, bool) {
	if m := cweIDPattern.FindStringSubmatch(s); m != nil {
		id, err := strconv.Atoi(m[1])
		return id, err == nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(s))
	return id, err == nil
}

// cweClassWeight returns the highest class weight across the finding's CWEs,
// or the neutral default when none are recognized.
func cweClassWeight(cwes []string) float64 {
	best := 0.0
	for _, raw := range cwes {
		w := float64(cweWeightDefault)
		if id, ok := cweID(raw); ok {
			switch {
			case cweCriticalClass[id]:
				w = cweWeightCritical
			case cweMediumClass[id]:
				w = cweWeightMedium
			case cweLowClass[id]:
				w = cweWeightLow
			}
		} else {
			for _, fam := range cweFamilies {
				if fam.pattern.MatchString(raw) {
					w = fam.weight
					break
				}
			}
		}
		if w > best {
			best = w
		}
	}
	if best == 0 {
		return cweWeightDefault
	}
	return best
}
