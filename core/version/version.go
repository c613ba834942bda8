package version

import (
	"regexp"
	"strings"

	"github.com/srmds/takeoff/internal/errors"
)

const (
	EntityApplicationVersion = "application_version"

	Snapshot = "SNAPSHOT"

	EnvironmentDev = "dev"
	EnvironmentAcp = "acp"
	EnvironmentPrd = "prd"
)

var (
	DefaultBranches = []string{"master", "main"}

	semverPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+([-+][0-9A-Za-z.-]+)?$`)
	hashPattern   = regexp.MustCompile(`^[0-9a-f]{7,40}$`)
)

// ApplicationVersion identifies the deploying application instance.
type ApplicationVersion struct {
	Environment string
	Version     string
	Branch      string
}

func New(environment, version, branch string) ApplicationVersion {
	return ApplicationVersion{
		Environment: environment,
		Version:     version,
		Branch:      branch,
	}
}

// EnvironmentFormatted is the environment as used in {env} naming conventions.
func (v ApplicationVersion) EnvironmentFormatted() string {
	return strings.ToLower(v.Environment)
}

func (v ApplicationVersion) IsRelease() bool {
	return IsSemanticVersion(v.Version)
}

func (v ApplicationVersion) OnDefaultBranch() bool {
	return IsDefaultBranch(v.Branch)
}

func (v ApplicationVersion) OnFeatureBranch() bool {
	return v.Version == Snapshot && v.Branch != "" && !v.OnDefaultBranch()
}

// ArtifactTag is the suffix identifying this build in job and artifact names:
// the version, or the branch name for snapshot builds of feature branches.
func (v ApplicationVersion) ArtifactTag() string {
	if v.OnFeatureBranch() {
		return v.Branch
	}
	return v.Version
}

func IsDefaultBranch(branch string) bool {
	for _, b := range DefaultBranches {
		if b == branch {
			return true
		}
	}
	return false
}

func IsSemanticVersion(s string) bool {
	return semverPattern.MatchString(s)
}

func IsCommitHash(s string) bool {
	return hashPattern.MatchString(s)
}

// IsVersionSuffix reports whether s follows one of the version conventions
// used in registered job names: a semantic version or a commit hash.
func IsVersionSuffix(s string) bool {
	return IsSemanticVersion(s) || IsCommitHash(s)
}

// EnvironmentKeys names the environment variables holding application metadata.
type EnvironmentKeys struct {
	ApplicationName string `mapstructure:"application_name" default:"CI_PROJECT_NAME"`
	BranchName      string `mapstructure:"branch_name" default:"CI_COMMIT_REF_SLUG"`
	Tag             string `mapstructure:"tag" default:"CI_COMMIT_TAG"`
}

// Metadata is what a CI run tells about the application being deployed.
type Metadata struct {
	ApplicationName string
	Version         ApplicationVersion
}

// FromEnvironment resolves the application metadata through lookup, usually
// os.LookupEnv. A non-empty environment overrides the derived one.
func FromEnvironment(keys EnvironmentKeys, lookup func(string) (string, bool), environment string) (Metadata, error) {
	get := func(key string) string {
		if key == "" {
			return ""
		}
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	name := get(keys.ApplicationName)
	if name == "" {
		return Metadata{}, errors.Validation(EntityApplicationVersion,
			"application name is not set, expected environment variable "+keys.ApplicationName)
	}

	branch := get(keys.BranchName)
	tag := get(keys.Tag)

	v := ApplicationVersion{
		Environment: environment,
		Version:     tag,
		Branch:      branch,
	}
	if v.Version == "" {
		v.Version = Snapshot
	}
	if v.Environment == "" {
		v.Environment = deriveEnvironment(v)
	}

	return Metadata{ApplicationName: name, Version: v}, nil
}

func deriveEnvironment(v ApplicationVersion) string {
	switch {
	case v.IsRelease():
		return EnvironmentPrd
	case v.OnDefaultBranch():
		return EnvironmentAcp
	default:
		return EnvironmentDev
	}
}
