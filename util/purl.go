// Package util - Package URL (PURL) canonicalization. The base PURL is the
// dedup key for findings, so every path that produces one goes through here.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// EcosystemToPurlType converts an OSV ecosystem name to a PURL type.
func EcosystemToPurlType(ecosystem string) string {
	mapping := map[string]string{
		"npm":        "npm",
		"PyPI":       "pypi",
		"Maven":      "maven",
		"Go":         "golang",
		"NuGet":      "nuget",
		"RubyGems":   "gem",
		"crates.io":  "cargo",
		"Packagist":  "composer",
		"Pub":        "pub",
		"CocoaPods":  "cocoapods",
		"Hex":        "hex",
		"Alpine":     "apk",
		"Wolfi":      "apk",
		"Chainguard": "apk",
		"Debian":     "deb",
		"Ubuntu":     "deb",
	}
	if purlType, exists := mapping[ecosystem]; exists {
		return purlType
	}
	for key, value := range mapping {
		if strings.EqualFold(key, ecosystem) {
			return value
		}
	}
	return strings.ToLower(ecosystem)
}

// CleanPURL removes qualifiers but preserves the subpath (e.g. #v2) to keep
// module identity intact.
func CleanPURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}
	cleaned := packageurl.PackageURL{
		Type:      parsed.Type,
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Version:   parsed.Version,
		Subpath:   parsed.Subpath,
	}
	return strings.ToLower(cleaned.ToString()), nil
}

// GetStandardBasePURL extracts a standardized base PURL with no version,
// qualifiers or subpath.
// Example: "pkg:apk/wolfi/glibc@2.42-r4" -> "pkg:apk/wolfi/glibc"
func GetStandardBasePURL(purlStr string) (string, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return "", err
	}
	base := packageurl.PackageURL{
		Type:      EcosystemToPurlType(parsed.Type),
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
	}
	return strings.ToLower(base.ToString()), nil
}

// GetBasePURLFromComponents builds a standardized base PURL from an OSV
// ecosystem plus package name.
// Example: ("Wolfi", "wolfi", "glibc") -> "pkg:apk/wolfi/glibc"
func GetBasePURLFromComponents(ecosystem, namespace, name string) string {
	purlType := EcosystemToPurlType(ecosystem)
	if namespace != "" {
		return strings.ToLower(fmt.Sprintf("pkg:%s/%s/%s", purlType, namespace, name))
	}
	return strings.ToLower(fmt.Sprintf("pkg:%s/%s", purlType, name))
}

// ParsePURL parses a PURL string.
func ParsePURL(purlStr string) (*packageurl.PackageURL, error) {
	parsed, err := packageurl.FromString(purlStr)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
