package job

import (
	"strings"

	"github.com/srmds/takeoff/core/version"
)

// Summary is a job registered in the scheduler.
type Summary struct {
	Name string
	ID   int64
}

// ResolveIDs returns the IDs of the registered jobs belonging to the
// application, in the order of existingJobs. An empty result means the job
// has to be created. The qualifier is a version, a branch name, SNAPSHOT or
// empty.
//
// Job names are only ever compared for equality against the known naming
// conventions: {name}-SNAPSHOT, {name}-{version} and {name}-{branch}. With an
// empty qualifier any {name}-{v} is accepted where v follows a version
// convention (semantic version or commit hash), never a branch name.
func ResolveIDs(name, qualifier string, existingJobs []Summary) []int64 {
	matches := candidateMatcher(name, qualifier)

	ids := []int64{}
	for _, j := range existingJobs {
		if matches(j.Name) {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

func candidateMatcher(name, qualifier string) func(string) bool {
	snapshotName := SnapshotName(name)

	switch {
	case qualifier == "":
		prefix := name + "-"
		return func(jobName string) bool {
			if jobName == snapshotName {
				return true
			}
			if !strings.HasPrefix(jobName, prefix) {
				return false
			}
			return version.IsVersionSuffix(strings.TrimPrefix(jobName, prefix))
		}
	case qualifier == version.Snapshot, version.IsDefaultBranch(qualifier):
		return func(jobName string) bool {
			return jobName == snapshotName
		}
	default:
		expected := ConstructName(name, qualifier)
		return func(jobName string) bool {
			return jobName == expected
		}
	}
}

// SnapshotName is the name of the job deployed from default branch builds.
func SnapshotName(name string) string {
	return ConstructName(name, version.Snapshot)
}
