// Package buildinfo carries release metadata stamped in with -ldflags, e.g.
// -X github.com/extracto-dev/extracto/internal/buildinfo.Version=v0.3.0.
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
