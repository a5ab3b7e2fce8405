// Package gh provides access to GitHub Actions workflow history through
// either the gh CLI or the REST API, behind a single Gateway interface.
package gh

import "time"

// Run and job status values as reported by GitHub Actions.
const (
	StatusQueued     = "queued"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Conclusion values. An empty conclusion means the run or job has not
// concluded yet.
const (
	ConclusionSuccess   = "success"
	ConclusionFailure   = "failure"
	ConclusionCancelled = "cancelled"
	ConclusionSkipped   = "skipped"
	ConclusionTimedOut  = "timed_out"
)

// Trigger events relevant to run selection.
const (
	EventSchedule         = "schedule"
	EventWorkflowDispatch = "workflow_dispatch"
)

// WorkflowRun is one execution of a workflow, as a historical fact.
type WorkflowRun struct {
	ID         int64
	Number     int
	Branch     string
	CommitSHA  string
	Status     string
	Conclusion string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Event      string
}

// Job is a named unit of work within a run. Name is free-form text and is
// matched heuristically, never treated as a stable key.
type Job struct {
	ID         int64
	Name       string
	Status     string
	Conclusion string
}

// Executed reports whether the job genuinely ran test code, as opposed to
// being skipped, cancelled, or still pending.
func (j Job) Executed() bool {
	return j.Conclusion == ConclusionSuccess || j.Conclusion == ConclusionFailure
}

// Commit is the most recent known state of a repository branch.
type Commit struct {
	SHA        string
	AuthorDate time.Time
}

// Workflow is a workflow definition file registered in a repository.
type Workflow struct {
	ID   int64
	Name string
	Path string
}

// RunListOptions filters a ListRuns call. The workflow file is fixed per
// gateway instance and not part of the options.
type RunListOptions struct {
	Event  string
	Branch string
	Limit  int
}

// Gateway is the capability surface the checker needs from GitHub. Both
// transports (gh CLI subprocess and direct REST) implement it; the checker
// never branches on which one is active.
type Gateway interface {
	ListRuns(opts RunListOptions) ([]WorkflowRun, error)
	ListJobs(runID int64) ([]Job, error)
	JobLogs(jobID int64) (string, error)
	LatestCommit(repo, branch string) (*Commit, error)
	ListWorkflows() ([]Workflow, error)
}
