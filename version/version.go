// Package version exposes build information stamped in via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set at build time.
var (
	Version  = "0.0.0"
	Revision = "unknown"
	BuiltAt  = "unknown"
)

// Info contains version information.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   Version,
		Revision:  Revision,
		BuiltAt:   BuiltAt,
		GoVersion: runtime.Version(),
	}
}

// String renders the build information on one line.
func (i Info) String() string {
	return fmt.Sprintf("learnhub %s (%s, built %s, %s)", i.Version, i.Revision, i.BuiltAt, i.GoVersion)
}
