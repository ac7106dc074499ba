package version

import "runtime/debug"

// Version is set with -ldflags at release time.
var Version = "unknown"

// `go install` does not pass -ldflags but records the module version in the
// build info, so fall back to it.
func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
	}
}
