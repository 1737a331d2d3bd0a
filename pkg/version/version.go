// Package version exposes build metadata injected at link time.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Build metadata, overridden with -ldflags "-X github.com/rshade/ecosort/pkg/version.version=...".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// fallbackVersion is used when the injected version is not valid semver.
const fallbackVersion = "0.0.0-dev"

// GetVersion returns the version string as injected at build time.
func GetVersion() string {
	return version
}

// GetGitCommit returns the commit the binary was built from.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp.
func GetBuildDate() string {
	return buildDate
}

// Semver parses the build version. Unparseable versions (e.g. "dev" builds)
// resolve to 0.0.0-dev so constraint checks still have something to compare.
func Semver() *semver.Version {
	if v, err := semver.NewVersion(version); err == nil {
		return v
	}
	return semver.MustParse(fallbackVersion)
}

// Satisfies reports whether the running binary satisfies the constraint
// expression (for example ">= 0.1.0"). It returns an error when the
// constraint cannot be parsed.
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(Semver()), nil
}
