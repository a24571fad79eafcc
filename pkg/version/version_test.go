package version

import (
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, version, commit, date string) {
	t.Helper()
	oldVersion, oldCommit, oldDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = oldVersion, oldCommit, oldDate })
}

func TestGetBuildInfo(t *testing.T) {
	withBuildVars(t, "v1.2.3", "abc1234", "2026-03-14T07:57:39Z")

	info := GetBuildInfo()
	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "abc1234", info.GitCommit)
	assert.Equal(t, "2026-03-14T07:57:39Z", info.BuildDate)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, time.Date(2026, 3, 14, 7, 57, 39, 0, time.UTC), info.BuildTime.UTC())
}

func TestGetBuildInfo_UnparseableDate(t *testing.T) {
	withBuildVars(t, "dev", "abc", "yesterday")
	assert.True(t, GetBuildInfo().BuildTime.IsZero())
}

func TestApplyVCS(t *testing.T) {
	info := BuildInfo{GitCommit: "unknown", BuildDate: "unknown"}
	applyVCS(&info, []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "deadbeef"},
		{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
	})
	assert.Equal(t, "deadbeef", info.GitCommit)
	assert.Equal(t, "2026-01-01T00:00:00Z", info.BuildDate)

	injected := BuildInfo{GitCommit: "abc", BuildDate: "2025-01-01T00:00:00Z"}
	applyVCS(&injected, []debug.BuildSetting{{Key: "vcs.revision", Value: "deadbeef"}})
	assert.Equal(t, "abc", injected.GitCommit)
}

func TestBuildInfoString(t *testing.T) {
	info := BuildInfo{Version: "v1.0.0", GitCommit: "abc", BuildDate: "today"}
	assert.Equal(t, "smtpmailer v1.0.0 (commit: abc, built: today)", info.String())
}
