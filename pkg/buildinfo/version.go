// Package buildinfo carries the version stamped into classdiagram binaries.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/classdiagram/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/classdiagram/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/classdiagram
package buildinfo

import "fmt"

// Set by the linker.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information reported by the HTTP service.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// UserAgent identifies classdiagram in outgoing requests.
func UserAgent() string {
	return "classdiagram/" + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
