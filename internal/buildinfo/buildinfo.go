// Package buildinfo carries the firmware build identity, set with
// -ldflags "-X macropad/internal/buildinfo.Version=...".
package buildinfo

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns a compact build identifier for window titles and logs.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns the full identity, e.g. "macropad v1.2.0 (abc123, 2026-01-02)".
func String() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	return "macropad " + v + " (" + Commit + ", " + Date + ")"
}
