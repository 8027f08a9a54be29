package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, DevVersion, GetCurrentVersion("demo"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestStringFull(t *testing.T) {
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	defer func() { Version, GitCommit, GitBranch, BuildTime = origVersion, origCommit, origBranch, origBuildTime }()

	Version = "1.0.0"
	GitCommit = "abcdef1234567890"
	GitBranch = "main"
	BuildTime = "2026-01-01T00:00:00Z"

	full := StringFull()
	assert.Contains(t, full, "Version=1.0.0")
	assert.Contains(t, full, "Commit=abcdef12")
	assert.Contains(t, full, "Branch=main")
	assert.Contains(t, full, "BuildTime=2026-01-01T00:00:00Z")
}

func TestStringFull_UnknownFieldsOmitted(t *testing.T) {
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	defer func() { Version, GitCommit, GitBranch, BuildTime = origVersion, origCommit, origBranch, origBuildTime }()

	Version = "1.0.0"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"

	full := StringFull()
	assert.Equal(t, "Version=1.0.0", full)
}
