// Package version holds build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime"

	"github.com/aatumaykin/coursebot/internal/constants"
	"github.com/aatumaykin/coursebot/internal/messages"
)

var (
	Version   = constants.DefaultVersion
	BuildTime = constants.DefaultBuildTime
	GitCommit = constants.DefaultGitCommit
	GoVersion = constants.DefaultGoVersion
)

func SetInfo(v, bt, gc, gv string) {
	if v != "" {
		Version = v
	}
	if bt != "" {
		BuildTime = bt
	}
	if gc != "" {
		GitCommit = gc
	}
	if gv != "" {
		GoVersion = gv
	}
}

// String returns a one-line description for `coursebot version`.
func String() string {
	goVersion := GoVersion
	if goVersion == constants.DefaultGoVersion {
		goVersion = runtime.Version()
	}
	return fmt.Sprintf("coursebot %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, goVersion)
}

// FormatStartupMessage renders the admin chat notice sent after start.
func FormatStartupMessage(lessons int) string {
	return fmt.Sprintf(constants.MsgStartup, messages.EscapeMarkdownV2(Version), lessons)
}
