package rule

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigBaseName is the filename stem searched for in every directory
// ("nbuild", per spec.md section 6's "files named nbuild").
const ConfigBaseName = "nbuild"

// SearchDirs returns the ordered list of directories to search, per
// spec.md section 4.1: current working directory, per-user local
// config dir, per-user roaming config dir, per-user state dir,
// per-user local data dir, per-user roaming data dir, and the
// system-wide /usr/share/nbuild. The system-wide directory is added on
// every OS except Windows and macOS; macOS gets no system-wide
// directory. The standard library doesn't distinguish Windows "local"
// vs "roaming" app-data the way the original Rust `dirs` crate does, so
// both config-dir slots and the roaming data-dir slot resolve to
// os.UserConfigDir()/nbuild, and the local data-dir slot to
// os.UserCacheDir()/nbuild -- the repeats are harmless since SearchDirs
// drops every directory already listed earlier.
func SearchDirs() []string {
	var dirs []string
	appendAppDir := func(base string, err error) {
		if err != nil || base == "" {
			return
		}
		dirs = append(dirs, filepath.Join(base, ConfigBaseName))
	}

	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}

	cfgDir, cfgErr := os.UserConfigDir()
	appendAppDir(cfgDir, cfgErr) // local config dir
	appendAppDir(cfgDir, cfgErr) // roaming config dir (same under Go's stdlib)

	if home, err := os.UserHomeDir(); err == nil {
		appendAppDir(filepath.Join(home, ".local", "state"), nil) // state dir
	}

	cacheDir, cacheErr := os.UserCacheDir()
	appendAppDir(cacheDir, cacheErr) // local data dir
	appendAppDir(cfgDir, cfgErr)     // roaming data dir

	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		dirs = append(dirs, "/usr/share/"+ConfigBaseName)
	}

	return dedup(dirs)
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, d := range in {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Candidates returns every path that would be checked, in search order:
// for each directory from SearchDirs, one candidate per enabled format
// extension, in Formats order (JSON, YAML, TOML).
func Candidates() []string {
	var out []string
	for _, dir := range SearchDirs() {
		for _, f := range Formats {
			for _, ext := range f.Exts {
				out = append(out, filepath.Join(dir, ConfigBaseName+"."+ext))
			}
		}
	}
	return out
}

// Locate returns the first existing candidate path and its Format, or
// ok=false if none exist (spec.md section 4.1, "the first existing path
// wins").
func Locate() (path string, format Format, ok bool) {
	for _, dir := range SearchDirs() {
		for _, f := range Formats {
			for _, ext := range f.Exts {
				candidate := filepath.Join(dir, ConfigBaseName+"."+ext)
				if fileExists(candidate) {
					return candidate, f, true
				}
			}
		}
	}
	return "", Format{}, false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DefaultSystemLocation is where --eject-config writes when no config
// was previously discovered: the second search directory (the per-user
// local config dir; the first is the cwd), or "." when there is none,
// combined with the first enabled format's primary extension.
func DefaultSystemLocation() string {
	dirs := SearchDirs()
	dir := "."
	if len(dirs) > 1 {
		dir = dirs[1] // per-user local config dir, skipping cwd
	} else if len(dirs) == 1 {
		dir = dirs[0]
	}
	return filepath.Join(dir, ConfigBaseName+"."+Formats[0].Exts[0])
}
