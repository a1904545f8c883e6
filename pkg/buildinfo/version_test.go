package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolved(t *testing.T) {
	origVersion, origRead := Version, readBuildInfo
	t.Cleanup(func() { Version, readBuildInfo = origVersion, origRead })

	tests := []struct {
		name    string
		version string
		module  string
		ok      bool
		want    string
	}{
		{"ldflags win", "v1.2.0", "v9.9.9", true, "v1.2.0"},
		{"module version", "dev", "v0.3.1", true, "v0.3.1"},
		{"devel module", "dev", "(devel)", true, "dev"},
		{"no build info", "dev", "", false, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version = tt.version
			readBuildInfo = func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{Main: debug.Module{Version: tt.module}}, tt.ok
			}
			if got := Resolved(); got != tt.want {
				t.Errorf("Resolved() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} ") {
		t.Errorf("Template() = %q", Template())
	}
	if !strings.Contains(String(), "commit: ") {
		t.Errorf("String() = %q", String())
	}
}
