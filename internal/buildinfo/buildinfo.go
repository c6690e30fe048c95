// Package buildinfo exposes the running binary's version metadata for
// the help overlay and the --version flag, adapted from the teacher's
// version package but trimmed to what a terminal tool's help screen
// actually shows.
package buildinfo

import (
	"fmt"
	"runtime/debug"

	"github.com/google/go-cmp/cmp"
)

var (
	// GitCommit and GitBranch are set via -ldflags at release build
	// time; both are empty in a plain `go build`.
	GitCommit string
	GitBranch string
	BuildTime string
)

// Info is the version metadata surfaced by the help overlay's footer
// and the --version flag.
type Info struct {
	GitCommit string           `json:"gitCommit,omitempty"`
	GitBranch string           `json:"gitBranch,omitempty"`
	BuildTime string           `json:"buildTime,omitempty"`
	BuildInfo *debug.BuildInfo `json:"buildInfo,omitempty"`
}

// Get reads the current process's build metadata.
func Get() Info {
	info := Info{GitCommit: GitCommit, GitBranch: GitBranch, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.BuildInfo = bi
	}
	return info
}

// Equal reports whether two Infos describe the same build, comparing
// the embedded module dependency graph in addition to the ldflags
// fields -- two binaries built from the same commit but against
// different dependency versions are not the same build.
func (v Info) Equal(other Info) bool {
	if v.BuildInfo != nil {
		if other.BuildInfo == nil {
			return false
		}
		if v.BuildInfo.Main.Path != other.BuildInfo.Main.Path ||
			!cmp.Equal(v.BuildInfo.Deps, other.BuildInfo.Deps) ||
			v.BuildInfo.GoVersion != other.BuildInfo.GoVersion {
			return false
		}
	}
	return v.GitCommit == other.GitCommit && v.GitBranch == other.GitBranch && v.BuildTime == other.BuildTime
}

// String renders a one-line summary suitable for --version and the
// help overlay footer.
func (v Info) String() string {
	commit := v.GitCommit
	if commit == "" {
		commit = "unknown"
	}
	branch := v.GitBranch
	if branch == "" {
		branch = "unknown"
	}
	goVersion := "unknown"
	if v.BuildInfo != nil {
		goVersion = v.BuildInfo.GoVersion
	}
	return fmt.Sprintf("nbuild (%s@%s, %s)", commit, branch, goVersion)
}
