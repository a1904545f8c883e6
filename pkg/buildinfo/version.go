// Package buildinfo reports the version of the topo binary.
//
// Release builds inject the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/topo/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/topo/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" ./cmd/topo
//
// Without ldflags, the module version recorded by the Go toolchain is used
// when available (go install ...@version).
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// Resolved returns Version, falling back to the main module version when
// the binary was built without ldflags.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := readBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// String returns the multi-line build description.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", Resolved(), Commit, Date, runtime.Version())
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Resolved(), Commit, Date)
}
