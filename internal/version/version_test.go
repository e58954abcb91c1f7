package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func restoreInfo(t *testing.T) {
	v, bt, gc, gv := Version, BuildTime, GitCommit, GoVersion
	t.Cleanup(func() {
		Version, BuildTime, GitCommit, GoVersion = v, bt, gc, gv
	})
}

func TestSetInfo(t *testing.T) {
	restoreInfo(t)

	SetInfo("1.0.0", "2024-01-01T00:00:00Z", "abc123", "go1.21")

	assert.Equal(t, "1.0.0", Version)
	assert.Equal(t, "2024-01-01T00:00:00Z", BuildTime)
	assert.Equal(t, "abc123", GitCommit)
	assert.Equal(t, "go1.21", GoVersion)
}

func TestSetInfoEmptyValues(t *testing.T) {
	restoreInfo(t)
	Version = "2.0.0"

	SetInfo("", "", "", "")

	assert.Equal(t, "2.0.0", Version)
}

func TestString(t *testing.T) {
	restoreInfo(t)
	SetInfo("1.2.3", "today", "deadbeef", "go1.26")

	assert.Equal(t, "coursebot 1.2.3 (commit deadbeef, built today, go1.26)", String())
}

func TestFormatStartupMessage(t *testing.T) {
	restoreInfo(t)
	Version = "1.2.3-rc.1"

	msg := FormatStartupMessage(4)

	assert.Contains(t, msg, `1\.2\.3\-rc\.1`)
	assert.Contains(t, msg, "`4`")
}
