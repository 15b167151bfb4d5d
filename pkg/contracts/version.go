package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the report tool
	Version = "1.0.0"

	// SchemaVersion identifies the transaction file layout the loader accepts
	SchemaVersion = "v1"
)

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	Schema       string `json:"schema"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		Schema:       SchemaVersion,
	}
}

// GetVersionString returns "name vX.Y.Z"
func GetVersionString(name string) string {
	return fmt.Sprintf("%s v%s", name, Version)
}

// GetFullVersionString returns the version string with build details
func GetFullVersionString(name string) string {
	info := GetVersionInfo()
	return fmt.Sprintf(
		"%s (built: %s, commit: %s, go: %s, os: %s/%s, schema: %s)",
		GetVersionString(name),
		info.BuildTime,
		info.GitCommit,
		info.GoVersion,
		info.OS,
		info.Architecture,
		info.Schema,
	)
}
