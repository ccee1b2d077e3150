// Package version records the build version of the sv binary.
package version

// Version is overridable at build time via -ldflags "-X".
var Version = "0.3.0"
