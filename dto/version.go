package dto

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
)

// Version describes the running build. The fields are stamped into the
// environment by CI; unset variables keep their placeholder defaults so a
// local binary still serves a well-formed /version response.
type Version struct {
	GitBranch    string `json:"git_branch" envconfig:"GIT_BRANCH" default:"git_branch"`
	GitShortHash string `json:"git_short_hash" envconfig:"GIT_HASH" default:"git_short_hash"`
	BuildDate    string `json:"build_date" envconfig:"BUILD_DATE" default:"build_date"`
	BuildNumber  string `json:"build_number" envconfig:"BUILD_NUMBER" default:"build_number"`
}

// VersionFromEnv reads the build descriptor from the environment.
func VersionFromEnv() (Version, error) {
	var v Version
	if err := envconfig.Process("", &v); err != nil {
		return Version{}, err
	}
	return v, nil
}

// String returns the human-readable version, "<branch>-<build number>".
func (v Version) String() string {
	return fmt.Sprintf("%s-%s", v.GitBranch, v.BuildNumber)
}

// InstanceID identifies the host running this build.
func (v Version) InstanceID() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
