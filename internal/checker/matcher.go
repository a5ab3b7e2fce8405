package checker

import (
	"strings"

	"github.com/kyleking/gh-upstream-watch/internal/gh"
)

// FindTargetJob returns the first job exercising the dependency's dev
// branch: name starts with "upstream-dev" but is neither the trigger
// detection job nor the mypy matrix cell. Returns nil when the job did not
// run in this workflow, which is a legitimate outcome (e.g. a skip-matrix
// or documentation-only run).
func FindTargetJob(jobs []gh.Job) *gh.Job {
	for i := range jobs {
		name := strings.ToLower(jobs[i].Name)
		if strings.HasPrefix(name, "upstream-dev") &&
			!strings.Contains(name, "detect") &&
			!strings.Contains(name, "mypy") {
			return &jobs[i]
		}
	}

	return nil
}

// FindTriggerDetectionJob returns the job that decides whether the upstream
// suite should run at all. It is reported for context but never analyzed.
func FindTriggerDetectionJob(jobs []gh.Job) *gh.Job {
	for i := range jobs {
		name := strings.ToLower(jobs[i].Name)
		if strings.Contains(name, "detect") && strings.Contains(name, "trigger") {
			return &jobs[i]
		}
	}

	return nil
}
