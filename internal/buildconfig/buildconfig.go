package buildconfig

import "fmt"

// Set with -ldflags "-X github.com/indredK/history-sub002/internal/buildconfig.version=..."
var (
	version = "dev"
	commit  = "unknown"
)

func Version() string {
	return version
}

func Commit() string {
	return commit
}

// String is the one-line form printed by `historyctl version`.
func String() string {
	return fmt.Sprintf("%s (%s)", version, commit)
}

// VersionInfo is reported by /health.
func VersionInfo() map[string]string {
	return map[string]string{
		"version": version,
		"commit":  commit,
	}
}
