// Package buildinfo holds release metadata stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/aidanlsb/opz/internal/buildinfo.Version=v0.3.0"
package buildinfo

// Empty for local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Stamped reports whether any value was set by the linker.
func Stamped() bool {
	return Version != "" || Commit != "" || Date != ""
}
