// Package version provides the tsel tool version.
package version

// Version is the tsel tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/ingo-eichhorst/testselect/pkg/version.Version=2.0.1"
var Version = "dev"
