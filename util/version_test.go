package util

import (
	"testing"

	"github.com/google/osv-scanner/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, -1, CompareVersions("npm", "1.0.0", "1.0.1"))
	assert.Equal(t, 1, CompareVersions("npm", "2.0.0", "1.9.9"))
	assert.Equal(t, 0, CompareVersions("npm", "1.2.3", "1.2.3"))

	// PEP 440 understands post/pre releases plain semver would reject
	assert.Equal(t, -1, CompareVersions("pypi", "1.0.0", "1.0.0.post1"))
	assert.Equal(t, -1, CompareVersions("pypi", "2.0.0rc1", "2.0.0"))

	// generic ecosystems fall back to semver
	assert.Equal(t, -1, CompareVersions("maven", "1.2.0", "1.10.0"))
	assert.Equal(t, -1, CompareVersions("golang", "v1.2.0", "v1.3.0"))
}

func TestIsFixAvailable(t *testing.T) {
	assert.True(t, IsFixAvailable("npm", "4.17.20", "4.17.21"))
	assert.False(t, IsFixAvailable("npm", "4.17.21", "4.17.21"))
	assert.False(t, IsFixAvailable("npm", "4.17.22", "4.17.21"))
	assert.False(t, IsFixAvailable("npm", "4.17.20", ""))
	assert.True(t, IsFixAvailable("npm", "", "4.17.21"))
}

func TestCleanVersion(t *testing.T) {
	assert.Equal(t, "12.0.1376", CleanVersion("main-v12.0.1376"))
	assert.Equal(t, "1.2.3", CleanVersion("v1.2.3"))
	assert.Equal(t, "1.2.3", CleanVersion("1.2.3"))
	assert.Equal(t, "", CleanVersion(""))
}

func osvRange(introduced, fixed string) models.Affected {
	return models.Affected{
		Package: models.Package{Ecosystem: "npm"},
		Ranges: []models.Range{{
			Type: models.RangeSemVer,
			Events: []models.Event{
				{Introduced: introduced},
				{Fixed: fixed},
			},
		}},
	}
}

func TestIsVersionAffected(t *testing.T) {
	affected := osvRange("1.0.0", "1.4.0")

	assert.True(t, IsVersionAffected("1.2.0", affected))
	assert.True(t, IsVersionAffected("1.0.0", affected))
	assert.False(t, IsVersionAffected("1.4.0", affected))
	assert.False(t, IsVersionAffected("0.9.0", affected))
}

func TestIsVersionAffectedRequiresBothBounds(t *testing.T) {
	noUpper := models.Affected{
		Package: models.Package{Ecosystem: "npm"},
		Ranges: []models.Range{{
			Type:   models.RangeSemVer,
			Events: []models.Event{{Introduced: "1.0.0"}},
		}},
	}
	assert.False(t, IsVersionAffected("1.2.0", noUpper))
}

func TestIsVersionAffectedExplicitVersionList(t *testing.T) {
	affected := models.Affected{Versions: []string{"2.0.0", "2.0.1"}}
	assert.True(t, IsVersionAffected("2.0.1", affected))
	assert.False(t, IsVersionAffected("2.0.2", affected))
}

func TestFirstFixedVersion(t *testing.T) {
	all := []models.Affected{osvRange("0", "1.4.0")}
	assert.Equal(t, "1.4.0", FirstFixedVersion("1.2.0", all))
	assert.Equal(t, "1.4.0", FirstFixedVersion("", all))
	assert.Empty(t, FirstFixedVersion("1.2.0", nil))
}
